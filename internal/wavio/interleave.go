package wavio

import "github.com/tphakala/simd/f32"

// Interleave writes frames samples of each channel into dst as
// frame-interleaved float32 and returns the number of values written. Stereo
// uses the SIMD interleaver.
func Interleave(dst []float32, channels [][]float32, frames int) int {
	n := len(channels)
	if n == 0 || frames <= 0 {
		return 0
	}
	if frames*n > len(dst) {
		frames = len(dst) / n
	}

	switch n {
	case 1:
		return copy(dst[:frames], channels[0][:frames])
	case 2:
		f32.Interleave2(dst[:2*frames], channels[0][:frames], channels[1][:frames])
		return 2 * frames
	}

	for i := range frames {
		for ch := range n {
			dst[i*n+ch] = channels[ch][i]
		}
	}
	return frames * n
}

// Deinterleave splits frame-interleaved src into dst, one slice per channel,
// and returns the number of frames written.
func Deinterleave(dst [][]float32, src []float32) int {
	n := len(dst)
	if n == 0 {
		return 0
	}

	frames := len(src) / n
	for _, ch := range dst {
		if len(ch) < frames {
			frames = len(ch)
		}
	}

	for i := range frames {
		base := i * n
		for ch := range n {
			dst[ch][i] = src[base+ch]
		}
	}
	return frames
}
