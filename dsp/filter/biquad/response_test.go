package biquad

import (
	"math"
	"testing"
)

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := smoothing()

	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		h := c.Response(freq, 48000)
		fromResponse := real(h)*real(h) + imag(h)*imag(h)

		if got := c.MagnitudeSquared(freq, 48000); !almostEqual(got, fromResponse, 1e-10) {
			t.Errorf("freq=%v: closed form %.15f, |H|^2 %.15f", freq, got, fromResponse)
		}
	}
}

func TestMagnitudeDB_DCAndNyquist(t *testing.T) {
	c := smoothing()

	// DC gain is sum(b)/sum(a) = 1/0.84.
	wantDC := 20 * math.Log10(1/0.84)
	if got := c.MagnitudeDB(0, 48000); !almostEqual(got, wantDC, 1e-9) {
		t.Fatalf("DC: got %v, want %v", got, wantDC)
	}

	// Double zero at Nyquist.
	if got := c.MagnitudeDB(24000, 48000); got > -200 {
		t.Fatalf("Nyquist: got %v dB, want a deep null", got)
	}
}

func TestPhase_Identity(t *testing.T) {
	c := Identity()
	for _, f := range []float64{10, 1000, 20000} {
		if p := c.Phase(f, 48000); !almostEqual(p, 0, 1e-15) {
			t.Fatalf("f=%v: phase %v", f, p)
		}
	}
}

func TestSection_ImpulseResponse(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(0.3)
	before := s.State()

	ir := s.ImpulseResponse(4)
	want := []float64{0.25, 0.55, 0.35, 0.048}

	for i := range want {
		if !almostEqual(ir[i], want[i], eps) {
			t.Fatalf("ir[%d]: got %v, want %v", i, ir[i], want[i])
		}
	}

	if s.State() != before {
		t.Fatal("ImpulseResponse modified the running state")
	}

	if s.ImpulseResponse(-1) != nil {
		t.Fatal("negative length should return nil")
	}
}
