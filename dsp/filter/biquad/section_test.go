package biquad

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// smoothing is a stable second-order lowpass used throughout these tests.
// Its impulse response starts 0.25, 0.55, 0.35, 0.048.
func smoothing() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func noise(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = 2*rng.Float64() - 1
	}

	return out
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}

	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}

	if st := s.State(); st != [2]float64{} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestSection_Identity(t *testing.T) {
	s := NewSection(Identity())
	for i, x := range []float64{1, 0, -1, 0.5, 0.25} {
		if y := s.ProcessSample(x); !almostEqual(y, x, eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestSection_HandTraced(t *testing.T) {
	// n=0: y=0.25           r1=0.5+0.2*0.25=0.55    r2=0.25-0.04*0.25=0.24
	// n=1: y=0.55           r1=0.2*0.55+0.24=0.35   r2=-0.04*0.55=-0.022
	// n=2: y=0.35           r1=0.2*0.35-0.022=0.048
	// n=3: y=0.048
	s := NewSection(smoothing())
	want := []float64{0.25, 0.55, 0.35, 0.048}

	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}

		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("n=%d: got %.15f, want %.15f", i, y, w)
		}
	}
}

func TestSection_ProcessBlockMatchesProcessSample(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 64, 513} {
		input := noise(n, int64(n))
		ref := NewSection(smoothing())
		got := NewSection(smoothing())

		want := make([]float64, n)
		for i, x := range input {
			want[i] = ref.ProcessSample(x)
		}

		buf := append([]float64(nil), input...)
		got.ProcessBlock(buf)

		for i := range buf {
			if !almostEqual(buf[i], want[i], eps) {
				t.Fatalf("n=%d sample %d: got %.15f, want %.15f", n, i, buf[i], want[i])
			}
		}

		if got.State() != ref.State() {
			t.Fatalf("n=%d state: got %v, want %v", n, got.State(), ref.State())
		}
	}
}

func TestSection_ResetAndState(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)

	saved := s.State()
	if saved == [2]float64{} {
		t.Fatal("state should be non-zero after an impulse")
	}

	next := s.ProcessSample(0)

	s.Reset()

	if s.State() != [2]float64{} {
		t.Fatalf("state after Reset: %v", s.State())
	}

	s.SetState(saved)

	if y := s.ProcessSample(0); !almostEqual(y, next, eps) {
		t.Fatalf("restored state: got %v, want %v", y, next)
	}
}

func TestSection_SetCoefficientsKeepsState(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)
	before := s.State()

	s.SetCoefficients(Identity())

	if s.State() != before {
		t.Fatalf("state changed: %v -> %v", before, s.State())
	}

	if s.Coefficients != Identity() {
		t.Fatalf("coefficients not replaced: %v", s.Coefficients)
	}
}

func BenchmarkSection_ProcessSample(b *testing.B) {
	s := NewSection(smoothing())
	x := 0.5

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		x = s.ProcessSample(x)
	}
}

func BenchmarkSection_ProcessBlock(b *testing.B) {
	s := NewSection(smoothing())
	buf := noise(1024, 1)

	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s.ProcessBlock(buf)
	}
}
