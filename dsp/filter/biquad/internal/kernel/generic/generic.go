// Package generic registers the portable one-sample-per-iteration kernels.
package generic

import (
	"github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	kernel.Default.Register(kernel.Entry{
		Name:  "generic",
		Level: cpu.SIMDNone,
		Kernels: kernel.Set{
			TDF2: TDF2,
			DF1:  DF1,
			DF2:  DF2,
		},
	})
}

// TDF2 runs a transposed direct form II section.
func TDF2(c kernel.Coefficients, s kernel.State, buf []float64) kernel.State {
	r1, r2 := s[0], s[1]
	for i, x := range buf {
		y := c.B0*x + r1
		r1 = c.B1*x - c.A1*y + r2
		r2 = c.B2*x - c.A2*y
		buf[i] = y
	}
	return kernel.State{r1, r2}
}

// DF1 runs a direct form I section.
func DF1(c kernel.Coefficients, s kernel.State, buf []float64) kernel.State {
	x1, x2, y1, y2 := s[0], s[1], s[2], s[3]
	for i, x := range buf {
		y := c.B0*x + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
		x2, x1 = x1, x
		y2, y1 = y1, y
		buf[i] = y
	}
	return kernel.State{x1, x2, y1, y2}
}

// DF2 runs a canonical direct form II section.
func DF2(c kernel.Coefficients, s kernel.State, buf []float64) kernel.State {
	w1, w2 := s[0], s[1]
	for i, x := range buf {
		w := x - c.A1*w1 - c.A2*w2
		buf[i] = c.B0*w + c.B1*w1 + c.B2*w2
		w2, w1 = w1, w
	}
	return kernel.State{w1, w2}
}
