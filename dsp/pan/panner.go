package pan

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
	"github.com/cwbudde/algo-vecmath"
)

const (
	positionGlideSeconds = 0.02
	maxAutoPanRateHz     = 20.0
)

// Option mutates panner construction parameters.
type Option func(*config) error

type config struct {
	law      Law
	position float64
	rateHz   float64
	depth    float64
	waveform lfo.Waveform
}

func defaultConfig() config {
	return config{
		law:      ConstantPower,
		rateHz:   1,
		waveform: lfo.Sine,
	}
}

// WithLaw selects the pan law.
func WithLaw(law Law) Option {
	return func(cfg *config) error {
		if !law.Valid() {
			return fmt.Errorf("pan law is unknown: %d", int(law))
		}
		cfg.law = law
		return nil
	}
}

// WithPosition sets the static position in [-1, 1].
func WithPosition(position float64) Option {
	return func(cfg *config) error {
		if err := validatePosition(position); err != nil {
			return err
		}
		cfg.position = position
		return nil
	}
}

// WithAutoPanRateHz sets the auto-pan LFO rate in [0, 20] Hz.
func WithAutoPanRateHz(rateHz float64) Option {
	return func(cfg *config) error {
		if err := validateRate(rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithAutoPanDepth sets how far the LFO moves the position, in [0, 1].
// Zero disables auto-pan.
func WithAutoPanDepth(depth float64) Option {
	return func(cfg *config) error {
		if err := validateDepth(depth); err != nil {
			return err
		}
		cfg.depth = depth
		return nil
	}
}

// WithAutoPanWaveform selects the auto-pan LFO shape.
func WithAutoPanWaveform(w lfo.Waveform) Option {
	return func(cfg *config) error {
		if !w.Valid() {
			return fmt.Errorf("pan waveform is unknown: %d", int(w))
		}
		cfg.waveform = w
		return nil
	}
}

func validatePosition(position float64) error {
	if position < -1 || position > 1 || !core.IsFinite(position) {
		return fmt.Errorf("pan position must be in [-1, 1]: %f", position)
	}
	return nil
}

func validateRate(rateHz float64) error {
	if rateHz < 0 || rateHz > maxAutoPanRateHz || !core.IsFinite(rateHz) {
		return fmt.Errorf("pan rate must be in [0, %g]: %f", maxAutoPanRateHz, rateHz)
	}
	return nil
}

func validateDepth(depth float64) error {
	if depth < 0 || depth > 1 || !core.IsFinite(depth) {
		return fmt.Errorf("pan depth must be in [0, 1]: %f", depth)
	}
	return nil
}

// Panner spreads the mono signal in channel 0 of a block over channels 0
// and 1. The instantaneous position is position + depth*lfo, clamped to
// [-1, 1]. Position changes glide over 20 ms.
type Panner struct {
	law Law
	osc *lfo.LFO

	position core.Param
	depth    core.Param
	rateHz   core.Param

	prepared bool
	rate     float64
	posRamp  core.Ramp
}

var _ core.Processor = (*Panner)(nil)

// New creates a panner with optional overrides.
func New(opts ...Option) (*Panner, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	osc, err := lfo.New(lfo.WithWaveform(cfg.waveform), lfo.WithRateHz(cfg.rateHz))
	if err != nil {
		return nil, fmt.Errorf("pan: %w", err)
	}

	p := &Panner{law: cfg.law, osc: osc, rate: cfg.rateHz}
	p.position.Store(cfg.position)
	p.depth.Store(cfg.depth)
	p.rateHz.Store(cfg.rateHz)
	p.posRamp.SetImmediate(cfg.position)

	return p, nil
}

// Prepare requires at least two channels.
func (p *Panner) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("pan: %w", err)
	}
	if cfg.Channels < 2 {
		return fmt.Errorf("pan: %w: need 2 output channels, got %d", core.ErrInvalidChannels, cfg.Channels)
	}

	oscCfg := cfg
	oscCfg.Channels = 1
	if err := p.osc.Prepare(oscCfg); err != nil {
		return fmt.Errorf("pan: %w", err)
	}

	p.posRamp.SetLength(int(positionGlideSeconds * cfg.SampleRate))
	p.prepared = true
	p.Reset()
	return nil
}

// SetPosition sets the static position.
func (p *Panner) SetPosition(position float64) error {
	if err := validatePosition(position); err != nil {
		return err
	}
	p.position.Store(position)
	return nil
}

// SetAutoPanRateHz sets the LFO rate.
func (p *Panner) SetAutoPanRateHz(rateHz float64) error {
	if err := validateRate(rateHz); err != nil {
		return err
	}
	p.rateHz.Store(rateHz)
	return nil
}

// SetAutoPanDepth sets the LFO depth.
func (p *Panner) SetAutoPanDepth(depth float64) error {
	if err := validateDepth(depth); err != nil {
		return err
	}
	p.depth.Store(depth)
	return nil
}

// Law returns the pan law.
func (p *Panner) Law() Law { return p.law }

// Position returns the static position.
func (p *Panner) Position() float64 { return p.position.Load() }

// AutoPanRateHz returns the LFO rate.
func (p *Panner) AutoPanRateHz() float64 { return p.rateHz.Load() }

// AutoPanDepth returns the LFO depth.
func (p *Panner) AutoPanDepth() float64 { return p.depth.Load() }

func (p *Panner) pull() {
	p.posRamp.SetTarget(p.position.Load())
	if r := p.rateHz.Load(); r != p.rate {
		p.rate = r
		_ = p.osc.SetRateHz(r)
	}
}

// next returns the gains for the next frame and advances the smoother and
// the LFO.
func (p *Panner) next(depth float64) (float64, float64) {
	pos := p.posRamp.Next()
	if depth > 0 {
		pos += depth * p.osc.Next(0)
	}
	return Gains(p.law, pos)
}

// ProcessStereo pans one mono sample and returns the left and right outputs.
func (p *Panner) ProcessStereo(x float64) (float64, float64) {
	if !p.prepared {
		return x, x
	}
	p.pull()
	gl, gr := p.next(p.depth.Load())
	return gl * x, gr * x
}

// Process reads the mono source from block[0] and writes the panned signal
// to block[0] and block[1]. Further channels are left untouched.
func (p *Panner) Process(block [][]float64) {
	if !p.prepared || len(block) < 2 {
		return
	}
	left := block[0]
	right := block[1][:min(len(block[1]), len(left))]
	p.pull()

	depth := p.depth.Load()
	if depth == 0 && !p.posRamp.Active() {
		gl, gr := Gains(p.law, p.posRamp.Value())
		vecmath.ScaleBlock(right, left[:len(right)], gr)
		vecmath.ScaleBlock(left, left, gl)
		return
	}

	for i, x := range left {
		gl, gr := p.next(depth)
		left[i] = gl * x
		if i < len(right) {
			right[i] = gr * x
		}
	}
}

// Reset snaps the position to its target and restarts the LFO.
func (p *Panner) Reset() {
	p.osc.Reset()
	p.posRamp.SetImmediate(p.position.Load())
}
