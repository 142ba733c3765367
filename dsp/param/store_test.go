package param

import (
	"math"
	"sync"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := NewDefaultStore()
	if got := s.Snapshot(); got != Defaults() {
		t.Fatalf("Snapshot() = %#v, want %#v", got, Defaults())
	}
}

func TestSettersClamp(t *testing.T) {
	s := NewDefaultStore()

	s.SetDelayMs(500)
	s.SetDepth(-1)
	s.SetCutoffHz(20)
	s.SetResonance(42)
	s.SetLFORateHz(-3)

	want := Params{
		DelayMs:   MaxDelayMs,
		Depth:     MinDepth,
		CutoffHz:  MinCutoffHz,
		Resonance: MaxResonance,
		LFORateHz: MinLFORateHz,
	}
	if got := s.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %#v, want %#v", got, want)
	}
}

func TestNonFiniteSetIgnored(t *testing.T) {
	s := NewDefaultStore()
	s.SetDelayMs(42)
	s.SetDelayMs(math.NaN())
	s.SetCutoffHz(math.Inf(1))

	got := s.Snapshot()
	if got.DelayMs != 42 {
		t.Fatalf("DelayMs = %v, want 42", got.DelayMs)
	}
	if got.CutoffHz != DefaultCutoffHz {
		t.Fatalf("CutoffHz = %v, want %v", got.CutoffHz, DefaultCutoffHz)
	}
}

func TestClampedFallsBackToDefaults(t *testing.T) {
	p := Params{DelayMs: math.NaN(), Depth: 0.3, CutoffHz: 5000, Resonance: math.Inf(-1), LFORateHz: 2}
	got := p.Clamped()
	want := Params{DelayMs: DefaultDelayMs, Depth: 0.3, CutoffHz: MaxCutoffHz, Resonance: DefaultResonance, LFORateHz: 2}
	if got != want {
		t.Fatalf("Clamped() = %#v, want %#v", got, want)
	}
}

func TestConcurrentWriterReader(t *testing.T) {
	s := NewDefaultStore()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			s.SetDelayMs(10 + float64(i%90))
			s.SetCutoffHz(50 + float64(i%950))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			p := s.Snapshot()
			if p.DelayMs < MinDelayMs || p.DelayMs > MaxDelayMs {
				t.Errorf("torn delay value %v", p.DelayMs)
				return
			}
			if p.CutoffHz < MinCutoffHz || p.CutoffHz > MaxCutoffHz {
				t.Errorf("torn cutoff value %v", p.CutoffHz)
				return
			}
		}
	}()

	wg.Wait()
}

func BenchmarkSnapshot(b *testing.B) {
	s := NewDefaultStore()
	for i := 0; i < b.N; i++ {
		_ = s.Snapshot()
	}
}
