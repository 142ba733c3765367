package osc

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		frequency  float64
		sampleRate float64
	}{
		{name: "zero rate", frequency: 1, sampleRate: 0},
		{name: "negative rate", frequency: 1, sampleRate: -48000},
		{name: "nan rate", frequency: 1, sampleRate: math.NaN()},
		{name: "zero frequency", frequency: 0, sampleRate: 48000},
		{name: "inf frequency", frequency: math.Inf(1), sampleRate: 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.frequency, tt.sampleRate); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestInvalidSampleRateIsSentinel(t *testing.T) {
	_, err := New(1, 0)
	if !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestInitResetsPhase(t *testing.T) {
	o, err := New(2, 100)
	if err != nil {
		t.Fatal(err)
	}

	o.Advance(7)
	if err := o.Init(3, 100); err != nil {
		t.Fatal(err)
	}

	if o.Phase() != 0 || o.Output() != 0 {
		t.Fatalf("after Init phase=%v output=%v, want 0,0", o.Phase(), o.Output())
	}

	want := 2 * math.Pi * 3 / 100
	if math.Abs(o.Increment()-want) > 1e-15 {
		t.Fatalf("increment = %v, want %v", o.Increment(), want)
	}
}

func TestInitFailureKeepsState(t *testing.T) {
	o, err := New(5, 1000)
	if err != nil {
		t.Fatal(err)
	}
	o.Advance(3)
	phase := o.Phase()

	if err := o.Init(5, -1); err == nil {
		t.Fatal("expected error")
	}
	if o.Phase() != phase || o.SampleRate() != 1000 {
		t.Fatalf("state changed on failed Init: phase=%v fs=%v", o.Phase(), o.SampleRate())
	}
}

func TestAdvanceAccumulatesPhase(t *testing.T) {
	for _, tc := range []struct {
		frequency  float64
		sampleRate float64
		steps      int
	}{
		{frequency: 1, sampleRate: 48000, steps: 48000},
		{frequency: 0.35, sampleRate: 44100, steps: 1000},
		{frequency: 2000, sampleRate: 48000, steps: 513},
	} {
		o, err := New(tc.frequency, tc.sampleRate)
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < tc.steps; i++ {
			o.Advance(1)
		}

		want := float64(tc.steps) * 2 * math.Pi * tc.frequency / tc.sampleRate
		if math.Abs(o.Phase()-want) > 1e-9*math.Max(1, want) {
			t.Fatalf("f=%v fs=%v: phase = %v, want %v", tc.frequency, tc.sampleRate, o.Phase(), want)
		}
		if o.Output() != math.Sin(o.Phase()) {
			t.Fatalf("output = %v, want sin(phase) = %v", o.Output(), math.Sin(o.Phase()))
		}
	}
}

func TestAdvanceStepScalesIncrement(t *testing.T) {
	a, _ := New(1, 48000)
	b, _ := New(1, 48000)

	a.Advance(512)
	for i := 0; i < 512; i++ {
		b.Advance(1)
	}

	if math.Abs(a.Phase()-b.Phase()) > 1e-12 {
		t.Fatalf("Advance(512) phase = %v, 512x Advance(1) = %v", a.Phase(), b.Phase())
	}
}

func TestPhaseWrap(t *testing.T) {
	wrapped, err := New(1, 8, WithPhaseWrap())
	if err != nil {
		t.Fatal(err)
	}
	plain, _ := New(1, 8)

	for i := 0; i < 1000; i++ {
		wrapped.Advance(1)
		plain.Advance(1)

		if wrapped.Phase() < 0 || wrapped.Phase() >= 2*math.Pi {
			t.Fatalf("step %d: wrapped phase %v outside [0, 2π)", i, wrapped.Phase())
		}
		if math.Abs(wrapped.Output()-plain.Output()) > 1e-9 {
			t.Fatalf("step %d: wrapped output %v, unwrapped %v", i, wrapped.Output(), plain.Output())
		}
	}
}

func TestSetFrequencyKeepsPhase(t *testing.T) {
	o, _ := New(1, 100)
	o.Advance(10)
	phase := o.Phase()

	if err := o.SetFrequency(4); err != nil {
		t.Fatal(err)
	}
	if o.Phase() != phase {
		t.Fatalf("phase changed: %v -> %v", phase, o.Phase())
	}
	if want := 2 * math.Pi * 4 / 100; math.Abs(o.Increment()-want) > 1e-15 {
		t.Fatalf("increment = %v, want %v", o.Increment(), want)
	}

	if err := o.SetSampleRate(200); err != nil {
		t.Fatal(err)
	}
	if want := 2 * math.Pi * 4 / 200; math.Abs(o.Increment()-want) > 1e-15 {
		t.Fatalf("increment after SetSampleRate = %v, want %v", o.Increment(), want)
	}
	if err := o.SetSampleRate(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestReset(t *testing.T) {
	o, _ := New(3, 100)
	o.Advance(5)
	o.Reset()
	if o.Phase() != 0 || o.Output() != 0 {
		t.Fatalf("after Reset phase=%v output=%v", o.Phase(), o.Output())
	}
}

func BenchmarkAdvance(b *testing.B) {
	o, _ := New(1, 48000, WithPhaseWrap())
	for i := 0; i < b.N; i++ {
		o.Advance(1)
	}
}
