package param

import (
	"math"

	approx "github.com/meko-christian/algo-approx"
)

// Smoother is a one-pole lowpass for control values updated once per block.
type Smoother struct {
	coeff   float64
	seconds float64
	current float64
	primed  bool
}

// NewSmoother returns a smoother with time constant seconds, evaluated at
// updateRate ticks per second. A non-positive time constant disables smoothing.
func NewSmoother(seconds, updateRate float64) *Smoother {
	s := &Smoother{}
	s.Configure(seconds, updateRate)
	return s
}

// Configure recomputes the smoothing coefficient. The current value is kept.
func (s *Smoother) Configure(seconds, updateRate float64) {
	s.seconds = 0
	s.coeff = 0
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return
	}
	s.seconds = seconds
	if updateRate <= 0 || math.IsNaN(updateRate) {
		return
	}
	s.coeff = s.decay(1 / updateRate)
}

func (s *Smoother) decay(elapsed float64) float64 {
	if s.seconds <= 0 {
		return 0
	}
	c := approx.FastExp(-elapsed / s.seconds)
	if c < 0 || c >= 1 || math.IsNaN(c) {
		return 0
	}
	return c
}

// Snap jumps directly to v.
func (s *Smoother) Snap(v float64) {
	s.current = v
	s.primed = true
}

// Next moves one tick towards target and returns the new value. The first
// call after construction snaps to target.
func (s *Smoother) Next(target float64) float64 {
	if !s.primed {
		s.Snap(target)
		return s.current
	}

	return s.step(target, s.coeff)
}

// NextFor moves towards target by elapsed seconds of the time constant
// instead of one fixed tick. Use it when ticks are irregular, such as blocks
// of varying length. A non-positive elapsed leaves the value unchanged.
func (s *Smoother) NextFor(target, elapsed float64) float64 {
	if !s.primed {
		s.Snap(target)
		return s.current
	}
	if elapsed <= 0 || math.IsNaN(elapsed) {
		return s.current
	}

	return s.step(target, s.decay(elapsed))
}

func (s *Smoother) step(target, coeff float64) float64 {
	s.current = target + coeff*(s.current-target)
	if math.Abs(s.current-target) < 1e-9 {
		s.current = target
	}
	return s.current
}

// Value returns the current smoothed value.
func (s *Smoother) Value() float64 { return s.current }

// Coefficient returns the per-tick feedback coefficient.
func (s *Smoother) Coefficient() float64 { return s.coeff }
