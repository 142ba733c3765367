package lofi

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/delay"
)

const (
	defaultSmoothingSeconds = 0.02
	defaultMaxDelaySeconds  = 4.0
)

// Granularity selects how often the LFO is sampled.
type Granularity int

const (
	// PerBlock samples the LFO once per block and advances it by the block
	// length afterwards. Every sample of a block shares one read offset.
	PerBlock Granularity = iota
	// PerSample advances the LFO every sample and reads each sample at its
	// own offset.
	PerSample
)

func (g Granularity) String() string {
	switch g {
	case PerBlock:
		return "per-block"
	case PerSample:
		return "per-sample"
	default:
		return "unknown"
	}
}

// Option mutates engine construction parameters.
type Option func(*config) error

type config struct {
	granularity      Granularity
	writeStart       float32
	writeEnd         float32
	readStart        float32
	readEnd          float32
	smoothingSeconds float64
	maxDelaySeconds  float64
}

func defaultConfig() config {
	return config{
		granularity:      PerBlock,
		writeStart:       delay.DefaultWriteGain,
		writeEnd:         delay.DefaultWriteGain,
		readStart:        delay.DefaultReadGain,
		readEnd:          delay.DefaultReadGain,
		smoothingSeconds: defaultSmoothingSeconds,
		maxDelaySeconds:  defaultMaxDelaySeconds,
	}
}

// WithGranularity selects per-block or per-sample LFO updates.
func WithGranularity(g Granularity) Option {
	return func(cfg *config) error {
		if g != PerBlock && g != PerSample {
			return fmt.Errorf("lofi: invalid granularity: %d", g)
		}
		cfg.granularity = g
		return nil
	}
}

// WithWriteGain sets the ramp applied when storing a block in the delay ring.
func WithWriteGain(start, end float64) Option {
	return func(cfg *config) error {
		if err := validateGain(start, end, "write"); err != nil {
			return err
		}
		cfg.writeStart, cfg.writeEnd = float32(start), float32(end)
		return nil
	}
}

// WithReadGain sets the ramp applied when summing the delayed block.
func WithReadGain(start, end float64) Option {
	return func(cfg *config) error {
		if err := validateGain(start, end, "read"); err != nil {
			return err
		}
		cfg.readStart, cfg.readEnd = float32(start), float32(end)
		return nil
	}
}

// WithSmoothing sets the time constant of the cutoff and resonance smoothers.
// Zero disables smoothing.
func WithSmoothing(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("lofi: smoothing time must be >= 0 and finite: %f", seconds)
		}
		cfg.smoothingSeconds = seconds
		return nil
	}
}

// WithMaxDelaySeconds sets the delay ring capacity, excluding the extra block.
func WithMaxDelaySeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("lofi: max delay must be > 0 and finite: %f", seconds)
		}
		cfg.maxDelaySeconds = seconds
		return nil
	}
}

func validateGain(start, end float64, name string) error {
	for _, g := range []float64{start, end} {
		if g < 0 || g > 4 || math.IsNaN(g) {
			return fmt.Errorf("lofi: %s gain must be in [0, 4]: %f", name, g)
		}
	}
	return nil
}
