package biquad

import (
	"math/cmplx"
	"testing"
)

func TestPoles_Smoothing(t *testing.T) {
	// 1 - 0.2 z^-1 + 0.04 z^-2 has a complex pair at 0.1 +/- j*0.1732.
	c := smoothing()
	poles := c.Poles()

	for _, p := range poles {
		if !almostEqual(cmplx.Abs(p), 0.2, 1e-12) {
			t.Fatalf("|pole|: got %v, want 0.2", cmplx.Abs(p))
		}
	}

	if !almostEqual(real(poles[0]), 0.1, 1e-12) {
		t.Fatalf("real part: got %v, want 0.1", real(poles[0]))
	}
}

func TestZeros_DoubleZeroAtNyquist(t *testing.T) {
	c := smoothing()
	for _, z := range c.Zeros() {
		if !almostEqual(real(z), -1, 1e-6) || !almostEqual(imag(z), 0, 1e-6) {
			t.Fatalf("zero: got %v, want -1", z)
		}
	}
}

func TestZeros_FirstOrderNumerator(t *testing.T) {
	c := Coefficients{B1: 2, B2: 1}
	z := c.Zeros()

	if z[0] != complex(-0.5, 0) || z[1] != 0 {
		t.Fatalf("got %v", z)
	}
}

func TestIsStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"smoothing", smoothing(), true},
		{"identity", Identity(), true},
		{"pole on unit circle", Coefficients{B0: 1, A2: 1}, false},
		{"a2 below -1", Coefficients{B0: 1, A2: -1.1}, false},
		{"a1 outside triangle", Coefficients{B0: 1, A1: -1.6, A2: 0.5}, false},
		{"near edge inside", Coefficients{B0: 1, A1: -1.49, A2: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsStable(); got != tt.want {
				t.Fatalf("IsStable: got %v, want %v", got, tt.want)
			}

			for _, p := range tt.c.Poles() {
				inside := cmplx.Abs(p) < 1
				if tt.want && !inside {
					t.Fatalf("stable section has pole %v outside the unit circle", p)
				}
			}
		})
	}
}

func TestChain_IsStableAndPairs(t *testing.T) {
	c := NewChain([]Coefficients{smoothing(), {B0: 1, A2: 1.2}})
	if c.IsStable() {
		t.Fatal("chain with an unstable section reported stable")
	}

	if got := len(c.PoleZeroPairs()); got != 2 {
		t.Fatalf("PoleZeroPairs: got %d entries", got)
	}
}
