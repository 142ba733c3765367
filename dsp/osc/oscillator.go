package osc

import (
	"errors"
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// ErrInvalidSampleRate is returned when a sample rate is not positive and finite.
var ErrInvalidSampleRate = errors.New("osc: sample rate must be > 0 and finite")

// Option configures an Oscillator.
type Option func(*Oscillator)

// WithPhaseWrap keeps the accumulated phase in [0, 2π).
func WithPhaseWrap() Option {
	return func(o *Oscillator) {
		o.wrap = true
	}
}

// Oscillator is a sine phase accumulator producing one value per tick.
type Oscillator struct {
	frequency      float64
	sampleRate     float64
	phase          float64
	phaseIncrement float64
	output         float64
	wrap           bool
}

// New returns an initialized oscillator.
func New(frequency, sampleRate float64, opts ...Option) (*Oscillator, error) {
	o := &Oscillator{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if err := o.Init(frequency, sampleRate); err != nil {
		return nil, err
	}
	return o, nil
}

// Init sets frequency and sample rate, resets phase to 0 and recomputes the
// phase increment. On error the oscillator is left unchanged.
func (o *Oscillator) Init(frequency, sampleRate float64) error {
	if err := validate(frequency, sampleRate); err != nil {
		return err
	}

	o.frequency = frequency
	o.sampleRate = sampleRate
	o.phase = 0
	o.output = 0
	o.updateIncrement()
	return nil
}

// SetFrequency changes the rate without touching the phase.
func (o *Oscillator) SetFrequency(frequency float64) error {
	if err := validate(frequency, o.sampleRate); err != nil {
		return err
	}
	o.frequency = frequency
	o.updateIncrement()
	return nil
}

// SetSampleRate changes the sample rate without touching the phase.
func (o *Oscillator) SetSampleRate(sampleRate float64) error {
	if err := validate(o.frequency, sampleRate); err != nil {
		return err
	}
	o.sampleRate = sampleRate
	o.updateIncrement()
	return nil
}

// Advance moves the phase by step ticks and samples the sine.
func (o *Oscillator) Advance(step float64) {
	o.phase += o.phaseIncrement * step
	if o.wrap {
		o.phase = math.Mod(o.phase, twoPi)
		if o.phase < 0 {
			o.phase += twoPi
		}
	}
	o.output = math.Sin(o.phase)
}

// Reset returns the phase to 0 and the output to sin(0).
func (o *Oscillator) Reset() {
	o.phase = 0
	o.output = 0
}

// Output returns the most recent sine value in [-1, 1].
func (o *Oscillator) Output() float64 { return o.output }

// Phase returns the accumulated phase in radians.
func (o *Oscillator) Phase() float64 { return o.phase }

// Increment returns the per-tick phase increment in radians.
func (o *Oscillator) Increment() float64 { return o.phaseIncrement }

// Frequency returns the oscillator rate in Hz.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// SampleRate returns the tick rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Wraps reports whether phase wrapping is enabled.
func (o *Oscillator) Wraps() bool { return o.wrap }

func (o *Oscillator) updateIncrement() {
	o.phaseIncrement = twoPi * o.frequency / o.sampleRate
}

func validate(frequency, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if frequency <= 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return fmt.Errorf("osc: frequency must be > 0 and finite: %f", frequency)
	}
	return nil
}
