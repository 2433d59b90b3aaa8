package main

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/eq"
	"github.com/cwbudde/algo-fx/measure/response"
)

// settings are the design parameters shared by every analysed type.
type settings struct {
	sampleRate float64
	freq       float64
	q          float64
	gainDB     float64
	structure  biquad.Structure
	irLength   int
	probes     []float64
}

// row is the analysis of one filter type.
type row struct {
	typ      eq.Type
	coeffs   biquad.Coefficients
	stable   bool
	designDB []float64 // |H| from the coefficients at each probe
	measured []float64 // |H| from the FFT of the impulse response
	maxErrDB float64
}

func analyzeAll(ctx context.Context, types []eq.Type, s settings) ([]row, error) {
	rows := make([]row, len(types))

	g, ctx := errgroup.WithContext(ctx)
	for i, typ := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := analyze(typ, s)
			if err != nil {
				return fmt.Errorf("%s: %w", typ, err)
			}
			rows[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func analyze(typ eq.Type, s settings) (row, error) {
	f, err := eq.New(
		eq.WithType(typ),
		eq.WithStructure(s.structure),
		eq.WithFrequency(s.freq),
		eq.WithQ(s.q),
		eq.WithGainDB(s.gainDB),
	)
	if err != nil {
		return row{}, err
	}

	cfg := core.ApplyProcessorOptions(core.WithSampleRate(s.sampleRate), core.WithChannels(1))
	if err := f.Prepare(cfg); err != nil {
		return row{}, err
	}

	ir, err := response.Capture(func(x float64) float64 { return f.ProcessSample(x, 0) }, s.irLength)
	if err != nil {
		return row{}, err
	}
	resp, err := response.NewAnalyzer(s.sampleRate).Analyze(ir)
	if err != nil {
		return row{}, err
	}

	c := f.Coefficients()
	r := row{
		typ:      typ,
		coeffs:   c,
		stable:   c.IsStable(),
		designDB: make([]float64, len(s.probes)),
		measured: make([]float64, len(s.probes)),
	}
	for i, hz := range s.probes {
		r.designDB[i] = c.MagnitudeDB(hz, s.sampleRate)
		r.measured[i] = resp.MagnitudeDBAt(hz)
		// Notch and band edges go to -Inf; skip them in the error figure.
		if d := math.Abs(r.designDB[i] - r.measured[i]); r.designDB[i] > -60 && !math.IsNaN(d) {
			r.maxErrDB = max(r.maxErrDB, d)
		}
	}

	return r, nil
}
