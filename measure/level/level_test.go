package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

const tolerance = 1e-6

func almostEqual(a, b, tol float64) bool {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func TestCalculateDC(t *testing.T) {
	s := Calculate(testutil.DC(0.5, 1000))

	if s.Length != 1000 {
		t.Errorf("Length: got %d, want 1000", s.Length)
	}
	if !almostEqual(s.DC, 0.5, tolerance) {
		t.Errorf("DC: got %g, want 0.5", s.DC)
	}
	if !almostEqual(s.RMS, 0.5, tolerance) {
		t.Errorf("RMS: got %g, want 0.5", s.RMS)
	}
	if !almostEqual(s.CrestFactor, 1, tolerance) {
		t.Errorf("CrestFactor: got %g, want 1", s.CrestFactor)
	}
	if s.ZeroCrossings != 0 {
		t.Errorf("ZeroCrossings: got %d, want 0", s.ZeroCrossings)
	}
}

func TestCalculateSine(t *testing.T) {
	// 100 full cycles of 480 Hz at 48 kHz.
	sig := testutil.DeterministicSine(480, 48000, 1, 10000)
	s := Calculate(sig)

	if !almostEqual(s.RMS, 1/math.Sqrt2, 1e-4) {
		t.Errorf("RMS: got %g, want %g", s.RMS, 1/math.Sqrt2)
	}
	if !almostEqual(s.Peak, 1, 1e-4) {
		t.Errorf("Peak: got %g, want 1", s.Peak)
	}
	if !almostEqual(s.CrestFactor_dB, 20*math.Log10(math.Sqrt2), 1e-3) {
		t.Errorf("CrestFactor_dB: got %g", s.CrestFactor_dB)
	}
	if !almostEqual(s.RMS_dB, -3.0103, 1e-3) {
		t.Errorf("RMS_dB: got %g", s.RMS_dB)
	}
}

func TestCalculateNegativePeak(t *testing.T) {
	s := Calculate([]float32{0.1, -0.9, 0.5})
	if !almostEqual(s.Peak, 0.9, tolerance) || s.PeakPos != 1 {
		t.Fatalf("Peak=%g at %d, want 0.9 at 1", s.Peak, s.PeakPos)
	}
	if s.ZeroCrossings != 2 {
		t.Fatalf("ZeroCrossings=%d, want 2", s.ZeroCrossings)
	}
}

func TestCalculateEmptyAndSilent(t *testing.T) {
	for name, sig := range map[string][]float32{
		"empty":  nil,
		"silent": make([]float32, 64),
	} {
		s := Calculate(sig)
		if !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
			t.Errorf("%s: dB fields = %g/%g, want -Inf", name, s.RMS_dB, s.Peak_dB)
		}
		if s.CrestFactor != 0 {
			t.Errorf("%s: CrestFactor = %g, want 0", name, s.CrestFactor)
		}
	}
}

func TestRMSAndPeak(t *testing.T) {
	tests := []struct {
		name     string
		in       []float32
		wantRMS  float64
		wantPeak float64
	}{
		{name: "empty", in: nil, wantRMS: 0, wantPeak: 0},
		{name: "square", in: []float32{1, -1, 1, -1}, wantRMS: 1, wantPeak: 1},
		{name: "single", in: []float32{-0.25}, wantRMS: 0.25, wantPeak: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMS(tt.in); !almostEqual(got, tt.wantRMS, tolerance) {
				t.Fatalf("RMS=%g, want %g", got, tt.wantRMS)
			}
			if got := Peak(tt.in); !almostEqual(got, tt.wantPeak, tolerance) {
				t.Fatalf("Peak=%g, want %g", got, tt.wantPeak)
			}
		})
	}
}

func TestGain(t *testing.T) {
	in := testutil.DeterministicSine(1000, 48000, 1, 4800)
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = v / 10
	}

	if got := Gain(in, out); !almostEqual(got, -20, 1e-4) {
		t.Fatalf("Gain=%g, want -20", got)
	}
	if got := Gain(make([]float32, 8), out); got != 0 {
		t.Fatalf("Gain from silence=%g, want 0", got)
	}
	if got := Gain(in, make([]float32, len(in))); !math.IsInf(got, -1) {
		t.Fatalf("Gain to silence=%g, want -Inf", got)
	}
}

func BenchmarkCalculate(b *testing.B) {
	signal := testutil.DeterministicNoise(1, 1, 4096)
	b.ReportAllocs()
	b.SetBytes(int64(len(signal) * 4))

	for range b.N {
		Calculate(signal)
	}
}
