// Package response measures the magnitude response of the tone filter by
// running an impulse through it and transforming the result.
package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/svf"
)

const minMagnitude = 1e-12

// Response is a magnitude response sampled on FFT bins [0..Nyquist].
type Response struct {
	SampleRate float64
	FFTSize    int
	// Magnitude is |H(k)| for k in [0, FFTSize/2].
	Magnitude []float64
}

// ToneFilterResponse returns the response of a freshly reset tone filter
// configured with cutoff and q at sampleRate. fftSize must be a power of two
// of at least 16.
func ToneFilterResponse(cutoffHz, q, sampleRate float64, fftSize int) (Response, error) {
	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return Response{}, fmt.Errorf("response: fft size must be a power of two >= 16: %d", fftSize)
	}

	f, err := svf.New(1)
	if err != nil {
		return Response{}, err
	}
	if err := f.SetParameters(cutoffHz, q, sampleRate); err != nil {
		return Response{}, fmt.Errorf("response: %w", err)
	}

	ir := make([]float32, fftSize)
	ir[0] = 1
	f.ProcessBlock([][]float32{ir})

	return FromImpulse(ir, sampleRate)
}

// FromImpulse transforms an impulse response whose length is a power of two.
func FromImpulse(ir []float32, sampleRate float64) (Response, error) {
	n := len(ir)
	if n < 2 || n&(n-1) != 0 {
		return Response{}, fmt.Errorf("response: impulse length must be a power of two: %d", n)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Response{}, fmt.Errorf("response: sample rate must be > 0: %f", sampleRate)
	}

	in := make([]complex128, n)
	for i, v := range ir {
		in[i] = complex(float64(v), 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Response{}, fmt.Errorf("response: fft plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return Response{}, fmt.Errorf("response: fft: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return Response{SampleRate: sampleRate, FFTSize: n, Magnitude: mag}, nil
}

// BinFrequency returns the centre frequency of bin k in Hz.
func (r Response) BinFrequency(k int) float64 {
	if r.FFTSize == 0 {
		return 0
	}
	return float64(k) * r.SampleRate / float64(r.FFTSize)
}

// At returns the magnitude in dB of the bin nearest to freqHz. Frequencies
// outside [0, Nyquist] are clamped.
func (r Response) At(freqHz float64) float64 {
	if len(r.Magnitude) == 0 {
		return math.Inf(-1)
	}

	if math.IsNaN(freqHz) || freqHz < 0 {
		freqHz = 0
	}
	if nyquist := r.SampleRate / 2; freqHz > nyquist {
		freqHz = nyquist
	}

	k := int(math.Round(freqHz * float64(r.FFTSize) / r.SampleRate))
	if k >= len(r.Magnitude) {
		k = len(r.Magnitude) - 1
	}

	return toDB(r.Magnitude[k])
}

// Peak returns the frequency and level in dB of the loudest bin.
func (r Response) Peak() (freqHz, levelDB float64) {
	if len(r.Magnitude) == 0 {
		return 0, math.Inf(-1)
	}

	best := 0
	for k, m := range r.Magnitude {
		if m > r.Magnitude[best] {
			best = k
		}
	}

	return r.BinFrequency(best), toDB(r.Magnitude[best])
}

// DB returns the full response in dB.
func (r Response) DB() []float64 {
	out := make([]float64, len(r.Magnitude))
	for k, m := range r.Magnitude {
		out[k] = toDB(m)
	}
	return out
}

func toDB(m float64) float64 {
	return core.LinearToDB(max(m, minMagnitude))
}
