package signal

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

// Generator creates deterministic test signals at a fixed sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used by WhiteNoise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator from processor options.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with processor and
// generator-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates amplitude*sin(2*pi*f*n/fs) starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Periodic(lfo.Sine, freqHz, amplitude, samples)
}

// Sawtooth generates a rising sawtooth in [-amplitude, amplitude).
func (g *Generator) Sawtooth(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Periodic(lfo.Sawtooth, freqHz, amplitude, samples)
}

// Periodic generates any LFO waveform at audio rate.
func (g *Generator) Periodic(w lfo.Waveform, freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%s samples must be > 0: %d", w, samples)
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%s sample rate must be > 0: %f", w, g.cfg.SampleRate)
	}

	if !w.Valid() {
		return nil, fmt.Errorf("signal waveform is unknown: %d", int(w))
	}

	out := make([]float64, samples)
	inc := freqHz / g.cfg.SampleRate

	for i := range out {
		out[i] = amplitude * lfo.Value(w, lfo.Wrap(inc*float64(i)))
	}

	return out, nil
}

// Impulse returns a buffer of zeros with amplitude at position pos.
func (g *Generator) Impulse(amplitude float64, pos, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}

	if pos < 0 || pos >= samples {
		return nil, fmt.Errorf("impulse position must be in [0, %d): %d", samples, pos)
	}

	out := make([]float64, samples)
	out[pos] = amplitude

	return out, nil
}

// WhiteNoise generates deterministic uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// Normalize scales data to the target peak amplitude and returns a new
// slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := math.Max(floats.Max(data), -floats.Min(data))

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	floats.ScaleTo(out, targetPeak/maxAbs, data)

	return out, nil
}
