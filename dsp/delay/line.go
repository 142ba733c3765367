// Package delay provides a multichannel circular delay buffer with ramped
// block writes and wrap-aware ramped reads.
package delay

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

const (
	// DefaultWriteGain is the constant attenuation applied when storing a block.
	DefaultWriteGain = 0.75
	// DefaultReadGain is the constant gain applied when summing the delayed block.
	DefaultReadGain = 0.8

	maxOffsetSamples = 1 << 30
)

// Line is a circular delay buffer holding one ring per channel.
// All rings share the same length and write position.
type Line struct {
	buffers  [][]float32
	length   int
	writePos int
}

// New returns a zero-filled delay line of length samples per channel.
func New(channels, length int) (*Line, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("delay channels must be > 0: %d", channels)
	}
	if length <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", length)
	}

	backing := make([]float32, channels*length)
	buffers := make([][]float32, channels)
	for ch := range buffers {
		buffers[ch] = backing[ch*length : (ch+1)*length : (ch+1)*length]
	}

	return &Line{buffers: buffers, length: length}, nil
}

// ForDuration returns a line holding at least seconds of audio at sampleRate
// plus one block of maxBlock samples.
func ForDuration(channels int, sampleRate, seconds float64, maxBlock int) (*Line, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("delay duration must be >= 0 and finite: %f", seconds)
	}
	if maxBlock <= 0 {
		return nil, fmt.Errorf("delay block size must be > 0: %d", maxBlock)
	}

	return New(channels, int(math.Ceil(seconds*sampleRate))+maxBlock)
}

// Len returns the ring length in samples.
func (d *Line) Len() int {
	return d.length
}

// Channels returns the number of rings.
func (d *Line) Channels() int {
	return len(d.buffers)
}

// WritePos returns the current write position in [0, Len()).
func (d *Line) WritePos() int {
	return d.writePos
}

// Write copies src into the ring of channel starting at the write position,
// scaling it by a linear ramp from gainStart to gainEnd. The copy is split at
// the end of the ring. When src is longer than the ring only its most recent
// Len() samples are kept, placed where Advance(len(src)) expects them. The
// write position is not moved; call Advance once all channels are done.
func (d *Line) Write(channel int, src []float32, gainStart, gainEnd float32) {
	if channel < 0 || channel >= len(d.buffers) {
		return
	}
	if len(src) == 0 {
		return
	}

	step := (gainEnd - gainStart) / float32(len(src))

	skip := max(len(src)-d.length, 0)
	src = src[skip:]
	n := len(src)
	pos := (d.writePos + skip%d.length) % d.length

	buf := d.buffers[channel]
	first := min(d.length-pos, n)

	rampCopy(buf[pos:pos+first], src[:first], gainStart, step, skip)
	if first < n {
		rampCopy(buf[:n-first], src[first:n], gainStart, step, skip+first)
	}
}

// Read adds len(dst) samples from the ring of channel into dst, starting
// offset samples behind the write position and scaled by a linear ramp from
// gainStart to gainEnd. offset is clamped to [0, Len()). The read is split at
// the end of the ring. At most Len() samples are read.
func (d *Line) Read(channel int, dst []float32, offset int, gainStart, gainEnd float32) {
	if channel < 0 || channel >= len(d.buffers) {
		return
	}

	n := len(dst)
	if n > d.length {
		n = d.length
	}
	if n == 0 {
		return
	}

	buf := d.buffers[channel]
	start := d.readStart(offset)
	step := (gainEnd - gainStart) / float32(n)

	first := d.length - start
	if first > n {
		first = n
	}

	rampAdd(dst[:first], buf[start:start+first], gainStart, step, 0)
	if first < n {
		rampAdd(dst[first:n], buf[:n-first], gainStart, step, first)
	}
}

// Tap returns the single sample at index positions past the write position,
// offset samples back. Tap(ch, i, off) equals the i-th sample that Read would
// deliver for the same offset, before gain.
func (d *Line) Tap(channel, index, offset int) float32 {
	if channel < 0 || channel >= len(d.buffers) {
		return 0
	}

	pos := (d.readStart(offset) + index%d.length) % d.length
	if pos < 0 {
		pos += d.length
	}
	return d.buffers[channel][pos]
}

// Advance moves the write position forward by count samples modulo Len().
func (d *Line) Advance(count int) {
	d.writePos = (d.writePos + count%d.length) % d.length
	if d.writePos < 0 {
		d.writePos += d.length
	}
}

// Reset clears all rings and rewinds the write position.
func (d *Line) Reset() {
	core.ZeroPlanar(d.buffers)
	d.writePos = 0
}

// OffsetSamples converts a delay time in milliseconds to an integer sample
// offset, round(sampleRate*delayMs/1000). Negative or non-finite results
// become 0.
func OffsetSamples(sampleRate, delayMs float64) int {
	v := math.Round(sampleRate * delayMs / 1000)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > maxOffsetSamples {
		return maxOffsetSamples
	}
	return int(v)
}

// RampGain returns the gain applied to sample i of an n-sample ramp.
func RampGain(i, n int, gainStart, gainEnd float32) float32 {
	if n <= 0 {
		return gainStart
	}
	return gainStart + (gainEnd-gainStart)/float32(n)*float32(i)
}

func (d *Line) readStart(offset int) int {
	offset = core.ClampInt(offset, 0, d.length-1)
	return (d.writePos + d.length - offset) % d.length
}

func rampCopy(dst, src []float32, gainStart, step float32, base int) {
	if step == 0 {
		f32.Scale(dst, src, gainStart)
		return
	}
	for i := range dst {
		dst[i] = src[i] * (gainStart + step*float32(base+i))
	}
}

func rampAdd(dst, src []float32, gainStart, step float32, base int) {
	for i := range dst {
		dst[i] += src[i] * (gainStart + step*float32(base+i))
	}
}
