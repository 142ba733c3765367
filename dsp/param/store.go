package param

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// Documented parameter ranges and defaults.
const (
	MinDelayMs     = 10.0
	MaxDelayMs     = 100.0
	DefaultDelayMs = 30.0

	MinDepth     = 0.0
	MaxDepth     = 1.0
	DefaultDepth = 0.5

	MinCutoffHz     = 50.0
	MaxCutoffHz     = 1000.0
	DefaultCutoffHz = 600.0

	MinResonance     = 1.0
	MaxResonance     = 10.0
	DefaultResonance = 2.5

	MinLFORateHz     = 0.01
	MaxLFORateHz     = 20.0
	DefaultLFORateHz = 1.0
)

// Params is a by-value snapshot of every effect parameter.
type Params struct {
	DelayMs   float64
	Depth     float64
	CutoffHz  float64
	Resonance float64
	LFORateHz float64
}

// Defaults returns the default parameter set.
func Defaults() Params {
	return Params{
		DelayMs:   DefaultDelayMs,
		Depth:     DefaultDepth,
		CutoffHz:  DefaultCutoffHz,
		Resonance: DefaultResonance,
		LFORateHz: DefaultLFORateHz,
	}
}

// Clamped returns p with every field limited to its documented range.
// Non-finite fields fall back to the defaults.
func (p Params) Clamped() Params {
	def := Defaults()
	return Params{
		DelayMs:   clampOr(p.DelayMs, MinDelayMs, MaxDelayMs, def.DelayMs),
		Depth:     clampOr(p.Depth, MinDepth, MaxDepth, def.Depth),
		CutoffHz:  clampOr(p.CutoffHz, MinCutoffHz, MaxCutoffHz, def.CutoffHz),
		Resonance: clampOr(p.Resonance, MinResonance, MaxResonance, def.Resonance),
		LFORateHz: clampOr(p.LFORateHz, MinLFORateHz, MaxLFORateHz, def.LFORateHz),
	}
}

// Store is a lock-free single-writer/single-reader parameter holder.
// The zero value is not usable; call NewStore.
type Store struct {
	delayMs   atomicFloat
	depth     atomicFloat
	cutoffHz  atomicFloat
	resonance atomicFloat
	lfoRateHz atomicFloat
}

// NewStore returns a store initialized with p, clamped.
func NewStore(p Params) *Store {
	s := &Store{}
	s.SetAll(p)
	return s
}

// NewDefaultStore returns a store holding Defaults().
func NewDefaultStore() *Store {
	return NewStore(Defaults())
}

// SetAll stores every field of p after clamping.
func (s *Store) SetAll(p Params) {
	p = p.Clamped()
	s.delayMs.store(p.DelayMs)
	s.depth.store(p.Depth)
	s.cutoffHz.store(p.CutoffHz)
	s.resonance.store(p.Resonance)
	s.lfoRateHz.store(p.LFORateHz)
}

// SetDelayMs sets the base delay time. Non-finite values are ignored.
func (s *Store) SetDelayMs(v float64) { s.delayMs.set(v, MinDelayMs, MaxDelayMs) }

// SetDepth sets the modulation depth in milliseconds of swing.
func (s *Store) SetDepth(v float64) { s.depth.set(v, MinDepth, MaxDepth) }

// SetCutoffHz sets the tone filter cutoff.
func (s *Store) SetCutoffHz(v float64) { s.cutoffHz.set(v, MinCutoffHz, MaxCutoffHz) }

// SetResonance sets the tone filter Q.
func (s *Store) SetResonance(v float64) { s.resonance.set(v, MinResonance, MaxResonance) }

// SetLFORateHz sets the modulation rate.
func (s *Store) SetLFORateHz(v float64) { s.lfoRateHz.set(v, MinLFORateHz, MaxLFORateHz) }

// Snapshot reads every field. Safe to call from the processing callback.
func (s *Store) Snapshot() Params {
	return Params{
		DelayMs:   s.delayMs.load(),
		Depth:     s.depth.load(),
		CutoffHz:  s.cutoffHz.load(),
		Resonance: s.resonance.load(),
		LFORateHz: s.lfoRateHz.load(),
	}
}

type atomicFloat struct {
	bits atomic.Uint64
}

func (a *atomicFloat) load() float64 {
	return math.Float64frombits(a.bits.Load())
}

func (a *atomicFloat) store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

func (a *atomicFloat) set(v, min, max float64) {
	if !core.IsFinite(v) {
		return
	}
	a.store(core.Clamp(v, min, max))
}

func clampOr(v, min, max, fallback float64) float64 {
	if !core.IsFinite(v) {
		return fallback
	}
	return core.Clamp(v, min, max)
}
