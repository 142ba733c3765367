package core

import "math"

const denormalThreshold = 1e-30

// Clamp limits value to the inclusive range [min, max].
// NaN collapses to min.
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min || math.IsNaN(value) {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}

	return x
}

// SanitizeBlock replaces NaN and Inf samples with zero and reports whether
// anything was replaced.
func SanitizeBlock(buf []float32) bool {
	replaced := false
	for i, v := range buf {
		if !IsFinite(float64(v)) {
			buf[i] = 0
			replaced = true
		}
	}

	return replaced
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
