package svf

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

const (
	// MinCutoffHz is the lowest accepted cutoff.
	MinCutoffHz = 10.0
	// MaxCutoffRatio bounds the cutoff relative to the sample rate.
	MaxCutoffRatio = 0.49
	// MinQ and MaxQ bound the resonance.
	MinQ = 0.5
	MaxQ = 10.0
)

// ErrInvalidSampleRate is returned for non-positive or non-finite sample rates.
var ErrInvalidSampleRate = errors.New("svf: sample rate must be > 0 and finite")

type channelState struct {
	s1 float64
	s2 float64
}

// ToneFilter is a multichannel TPT state-variable low-pass filter.
type ToneFilter struct {
	cutoff     float64
	q          float64
	sampleRate float64

	g  float64
	r2 float64
	h  float64

	ready  bool
	states []channelState
}

// New returns a filter for the given number of channels. SetParameters must be
// called before the filter changes any signal.
func New(channels int) (*ToneFilter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("svf: channels must be > 0: %d", channels)
	}
	return &ToneFilter{states: make([]channelState, channels)}, nil
}

// SetParameters clamps cutoff to [MinCutoffHz, MaxCutoffRatio·fs] and q to
// [MinQ, MaxQ], then recomputes coefficients if anything changed. Integrator
// state is never touched.
func (f *ToneFilter) SetParameters(cutoffHz, q, sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	maxCutoff := MaxCutoffRatio * sampleRate
	minCutoff := math.Min(MinCutoffHz, maxCutoff)
	cutoffHz = core.Clamp(cutoffHz, minCutoff, maxCutoff)
	q = core.Clamp(q, MinQ, MaxQ)

	if f.ready && cutoffHz == f.cutoff && q == f.q && sampleRate == f.sampleRate {
		return nil
	}

	g := math.Tan(math.Pi * cutoffHz / sampleRate)
	r2 := 1 / q
	h := 1 / (1 + r2*g + g*g)
	if !core.IsFinite(g) || !core.IsFinite(h) {
		return fmt.Errorf("svf: non-finite coefficients for cutoff=%f q=%f fs=%f", cutoffHz, q, sampleRate)
	}

	f.cutoff = cutoffHz
	f.q = q
	f.sampleRate = sampleRate
	f.g = g
	f.r2 = r2
	f.h = h
	f.ready = true

	return nil
}

// ProcessSample filters one sample on channel ch and returns the low-pass output.
func (f *ToneFilter) ProcessSample(ch int, x float64) float64 {
	if !f.ready || ch < 0 || ch >= len(f.states) {
		return x
	}

	st := &f.states[ch]
	hp := f.h * (x - st.s1*(f.g+f.r2) - st.s2)
	bp := hp*f.g + st.s1
	lp := bp*f.g + st.s2

	st.s1 = core.FlushDenormals(hp*f.g + bp)
	st.s2 = core.FlushDenormals(bp*f.g + lp)

	if !core.IsFinite(st.s1) || !core.IsFinite(st.s2) {
		*st = channelState{}
		return 0
	}

	return lp
}

// ProcessBlock filters each channel of block in place. Channels beyond the
// filter's channel count are left untouched.
func (f *ToneFilter) ProcessBlock(block [][]float32) {
	if !f.ready {
		return
	}

	for ch, buf := range block {
		if ch >= len(f.states) {
			return
		}
		for i, x := range buf {
			buf[i] = float32(f.ProcessSample(ch, float64(x)))
		}
	}
}

// Reset clears the integrator states of every channel.
func (f *ToneFilter) Reset() {
	for i := range f.states {
		f.states[i] = channelState{}
	}
}

// Ready reports whether coefficients have been computed.
func (f *ToneFilter) Ready() bool { return f.ready }

// Cutoff returns the clamped cutoff in Hz.
func (f *ToneFilter) Cutoff() float64 { return f.cutoff }

// Q returns the clamped resonance.
func (f *ToneFilter) Q() float64 { return f.q }

// SampleRate returns the sample rate of the current coefficients.
func (f *ToneFilter) SampleRate() float64 { return f.sampleRate }

// Channels returns the number of independent channel states.
func (f *ToneFilter) Channels() int { return len(f.states) }

// Coefficients returns g, R2 and h.
func (f *ToneFilter) Coefficients() (g, r2, h float64) { return f.g, f.r2, f.h }
