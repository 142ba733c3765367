// Package level computes block level statistics for float32 audio.
package level

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// Stats holds level statistics of one channel.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max(|max|, |min|)
	PeakPos        int
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	Energy         float64 // sum of squares
	ZeroCrossings  int
}

// ampTodB converts an amplitude value to decibels. Returns -Inf for zero.
func ampTodB(value float64) float64 {
	return core.LinearToDB(math.Abs(value))
}

func emptyStats() Stats {
	return Stats{
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
}

func widen(signal []float32) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = float64(v)
	}

	return out
}

// Calculate computes all statistics of signal.
func Calculate(signal []float32) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	x := widen(signal)
	energy := floats.Dot(x, x)
	rms := math.Sqrt(energy / float64(n))

	maxPos := floats.MaxIdx(x)
	minPos := floats.MinIdx(x)
	peak, peakPos := math.Abs(x[maxPos]), maxPos
	if a := math.Abs(x[minPos]); a > peak {
		peak, peakPos = a, minPos
	}

	zc := 0
	for i := 1; i < n; i++ {
		if x[i-1]*x[i] < 0 {
			zc++
		}
	}

	var crest, crestdB float64
	if rms > 0 {
		crest = peak / rms
		crestdB = ampTodB(crest)
	}

	return Stats{
		Length:         n,
		DC:             floats.Sum(x) / float64(n),
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           peak,
		PeakPos:        peakPos,
		Peak_dB:        ampTodB(peak),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		Energy:         energy,
		ZeroCrossings:  zc,
	}
}

// RMS returns the root-mean-square of signal.
func RMS(signal []float32) float64 {
	if len(signal) == 0 {
		return 0
	}

	x := widen(signal)

	return math.Sqrt(floats.Dot(x, x) / float64(len(x)))
}

// Peak returns the largest absolute sample value of signal.
func Peak(signal []float32) float64 {
	if len(signal) == 0 {
		return 0
	}

	x := widen(signal)

	return math.Max(math.Abs(floats.Max(x)), math.Abs(floats.Min(x)))
}

// Gain returns the RMS level change from in to out in dB. Silent inputs
// report 0.
func Gain(in, out []float32) float64 {
	a, b := RMS(in), RMS(out)
	if a == 0 {
		return 0
	}
	if b == 0 {
		return math.Inf(-1)
	}

	return core.LinearToDB(b / a)
}
