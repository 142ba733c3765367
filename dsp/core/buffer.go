package core

// NewPlanar allocates a zeroed planar block of channels x frames samples.
func NewPlanar(channels, frames int) [][]float32 {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	backing := make([]float32, channels*frames)
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return out
}

// Zero sets all values in buf to 0.
func Zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroPlanar zeroes every channel of block.
func ZeroPlanar(block [][]float32) {
	for _, ch := range block {
		Zero(ch)
	}
}

// Frames returns the shortest channel length of block.
func Frames(block [][]float32) int {
	if len(block) == 0 {
		return 0
	}

	n := len(block[0])
	for _, ch := range block[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}
