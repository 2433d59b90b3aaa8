//go:build amd64 && !purego

// Package unroll4 registers kernels that run four samples per iteration on
// AVX2 machines, keeping the state in registers across the group.
package unroll4

import (
	"github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel/generic"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	kernel.Default.Register(kernel.Entry{
		Name:     "unroll4",
		Level:    cpu.SIMDAVX2,
		Priority: 20,
		Kernels: kernel.Set{
			TDF2: tdf2,
			DF1:  df1,
			DF2:  df2,
		},
	})
}

func tdf2(c kernel.Coefficients, s kernel.State, buf []float64) kernel.State {
	b0, b1, b2, a1, a2 := c.B0, c.B1, c.B2, c.A1, c.A2
	r1, r2 := s[0], s[1]

	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		g := buf[i : i+4 : i+4]
		x0, xa, xb, xc := g[0], g[1], g[2], g[3]

		y0 := b0*x0 + r1
		r1 = b1*x0 - a1*y0 + r2
		r2 = b2*x0 - a2*y0

		ya := b0*xa + r1
		r1 = b1*xa - a1*ya + r2
		r2 = b2*xa - a2*ya

		yb := b0*xb + r1
		r1 = b1*xb - a1*yb + r2
		r2 = b2*xb - a2*yb

		yc := b0*xc + r1
		r1 = b1*xc - a1*yc + r2
		r2 = b2*xc - a2*yc

		g[0], g[1], g[2], g[3] = y0, ya, yb, yc
	}

	return generic.TDF2(c, kernel.State{r1, r2}, buf[n:])
}

func df1(c kernel.Coefficients, s kernel.State, buf []float64) kernel.State {
	b0, b1, b2, a1, a2 := c.B0, c.B1, c.B2, c.A1, c.A2
	x1, x2, y1, y2 := s[0], s[1], s[2], s[3]

	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		g := buf[i : i+4 : i+4]
		x0, xa, xb, xc := g[0], g[1], g[2], g[3]

		// The feedforward sums only need inputs and can be formed up front.
		f0 := b0*x0 + b1*x1 + b2*x2
		fa := b0*xa + b1*x0 + b2*x1
		fb := b0*xb + b1*xa + b2*x0
		fc := b0*xc + b1*xb + b2*xa

		y0 := f0 - a1*y1 - a2*y2
		ya := fa - a1*y0 - a2*y1
		yb := fb - a1*ya - a2*y0
		yc := fc - a1*yb - a2*ya

		g[0], g[1], g[2], g[3] = y0, ya, yb, yc
		x1, x2 = xc, xb
		y1, y2 = yc, yb
	}

	return generic.DF1(c, kernel.State{x1, x2, y1, y2}, buf[n:])
}

func df2(c kernel.Coefficients, s kernel.State, buf []float64) kernel.State {
	b0, b1, b2, a1, a2 := c.B0, c.B1, c.B2, c.A1, c.A2
	w1, w2 := s[0], s[1]

	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		g := buf[i : i+4 : i+4]

		w0 := g[0] - a1*w1 - a2*w2
		wa := g[1] - a1*w0 - a2*w1
		wb := g[2] - a1*wa - a2*w0
		wc := g[3] - a1*wb - a2*wa

		g[0] = b0*w0 + b1*w1 + b2*w2
		g[1] = b0*wa + b1*w0 + b2*w1
		g[2] = b0*wb + b1*wa + b2*w0
		g[3] = b0*wc + b1*wb + b2*wa

		w1, w2 = wc, wb
	}

	return generic.DF2(c, kernel.State{w1, w2}, buf[n:])
}
