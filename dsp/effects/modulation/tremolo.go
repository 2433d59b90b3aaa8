package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultTremoloRateHz      = 4.0
	defaultTremoloDepth       = 0.6
	defaultTremoloSmoothingMs = 5.0
	defaultTremoloMix         = 1.0
	maxTremoloSmoothingMs     = 100.0
)

type tremoloConfig struct {
	rateHz      float64
	depth       float64
	smoothingMs float64
	mix         float64
	waveform    lfo.Waveform
	stereoPhase float64
}

// TremoloOption mutates tremolo construction parameters.
type TremoloOption func(*tremoloConfig) error

func defaultTremoloConfig() tremoloConfig {
	return tremoloConfig{
		rateHz:      defaultTremoloRateHz,
		depth:       defaultTremoloDepth,
		smoothingMs: defaultTremoloSmoothingMs,
		mix:         defaultTremoloMix,
		waveform:    lfo.Sine,
	}
}

// WithTremoloRateHz sets the LFO rate in Hz.
func WithTremoloRateHz(rateHz float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateRate("tremolo", rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithTremoloDepth sets the modulation depth in [0, 1].
func WithTremoloDepth(depth float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateRange("tremolo", "depth", depth, 0, 1); err != nil {
			return err
		}
		cfg.depth = depth
		return nil
	}
}

// WithTremoloSmoothingMs sets the glide time for depth and mix changes.
func WithTremoloSmoothingMs(ms float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateRange("tremolo", "smoothing", ms, 0, maxTremoloSmoothingMs); err != nil {
			return err
		}
		cfg.smoothingMs = ms
		return nil
	}
}

// WithTremoloMix sets the wet amount in [0, 1].
func WithTremoloMix(mix float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateRange("tremolo", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithTremoloWaveform selects the LFO shape.
func WithTremoloWaveform(w lfo.Waveform) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if !w.Valid() {
			return errWaveform("tremolo", w)
		}
		cfg.waveform = w
		return nil
	}
}

// WithTremoloStereoPhase offsets the LFO of channel i by i*phase cycles.
// A phase of 0.5 gives an auto-pan.
func WithTremoloStereoPhase(phase float64) TremoloOption {
	return func(cfg *tremoloConfig) error {
		if err := validateRange("tremolo", "stereo phase", phase, 0, 1); err != nil {
			return err
		}
		cfg.stereoPhase = phase
		return nil
	}
}

// Tremolo is LFO amplitude modulation. Each sample is multiplied by
//
//	g = 1 - mix*depth*u(t)
//
// where u is the unipolar LFO, so depth 1 and mix 1 swing the level
// between full scale and silence.
type Tremolo struct {
	cfg tremoloConfig
	osc *lfo.LFO

	rateHz core.Param
	depth  core.Param
	mix    core.Param

	rate      float64
	channels  int
	depthRamp core.Ramp
	mixRamp   core.Ramp

	amount []float64
	gain   []float64
}

var _ core.Processor = (*Tremolo)(nil)

// NewTremolo creates a tremolo with practical defaults and optional
// overrides.
func NewTremolo(opts ...TremoloOption) (*Tremolo, error) {
	cfg := defaultTremoloConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	osc, err := lfo.New(
		lfo.WithWaveform(cfg.waveform),
		lfo.WithRateHz(cfg.rateHz),
		lfo.WithPhaseOffset(cfg.stereoPhase),
	)
	if err != nil {
		return nil, fmt.Errorf("tremolo: %w", err)
	}

	t := &Tremolo{cfg: cfg, osc: osc, rate: cfg.rateHz}
	t.rateHz.Store(cfg.rateHz)
	t.depth.Store(cfg.depth)
	t.mix.Store(cfg.mix)

	return t, nil
}

// Prepare allocates the per-block gain buffers and resets the LFO.
func (t *Tremolo) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("tremolo: %w", err)
	}
	if err := t.osc.Prepare(cfg); err != nil {
		return fmt.Errorf("tremolo: %w", err)
	}

	block := cfg.BlockSize
	if block <= 0 {
		block = core.DefaultProcessorConfig().BlockSize
	}
	t.amount = core.EnsureLen(t.amount, block)
	t.gain = core.EnsureLen(t.gain, block)
	t.channels = cfg.Channels

	n := int(core.MsToSamples(t.cfg.smoothingMs, cfg.SampleRate))
	t.depthRamp.SetLength(n)
	t.mixRamp.SetLength(n)

	t.Reset()
	return nil
}

// SetRateHz updates the LFO rate.
func (t *Tremolo) SetRateHz(rateHz float64) error {
	if err := validateRate("tremolo", rateHz); err != nil {
		return err
	}
	t.rateHz.Store(rateHz)
	return nil
}

// SetDepth updates the modulation depth.
func (t *Tremolo) SetDepth(depth float64) error {
	if err := validateRange("tremolo", "depth", depth, 0, 1); err != nil {
		return err
	}
	t.depth.Store(depth)
	return nil
}

// SetMix updates the wet amount.
func (t *Tremolo) SetMix(mix float64) error {
	if err := validateRange("tremolo", "mix", mix, 0, 1); err != nil {
		return err
	}
	t.mix.Store(mix)
	return nil
}

// RateHz returns the LFO rate in Hz.
func (t *Tremolo) RateHz() float64 { return t.rateHz.Load() }

// Depth returns the modulation depth.
func (t *Tremolo) Depth() float64 { return t.depth.Load() }

// Mix returns the wet amount.
func (t *Tremolo) Mix() float64 { return t.mix.Load() }

// SmoothingMs returns the parameter glide time.
func (t *Tremolo) SmoothingMs() float64 { return t.cfg.smoothingMs }

func (t *Tremolo) pull() {
	if r := t.rateHz.Load(); r != t.rate {
		t.rate = r
		_ = t.osc.SetRateHz(r)
	}
	t.depthRamp.SetTarget(t.depth.Load())
	t.mixRamp.SetTarget(t.mix.Load())
}

// ProcessSample processes one sample of channel ch. Channel 0 advances the
// smoothers.
func (t *Tremolo) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= t.channels {
		return x
	}
	if ch == 0 {
		t.pull()
		t.depthRamp.Next()
		t.mixRamp.Next()
	}
	amount := t.depthRamp.Value() * t.mixRamp.Value()
	return x * (1 - amount*t.osc.NextUnipolar(ch))
}

// Process applies the tremolo to block in place. The block is handled in
// chunks of the prepared block size.
func (t *Tremolo) Process(block [][]float64) {
	n := core.ChannelCount(block, t.channels)
	if n == 0 || len(t.amount) == 0 {
		return
	}
	t.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}

	for start := 0; start < frames; start += len(t.amount) {
		size := min(len(t.amount), frames-start)
		amount := t.amount[:size]
		for i := range amount {
			amount[i] = t.depthRamp.Next() * t.mixRamp.Next()
		}

		for ch := range n {
			buf := block[ch]
			if start >= len(buf) {
				continue
			}
			seg := buf[start:min(start+size, len(buf))]
			gain := t.gain[:len(seg)]
			for i := range gain {
				gain[i] = 1 - amount[i]*t.osc.NextUnipolar(ch)
			}
			vecmath.MulBlockInPlace(seg, gain)
		}
	}
}

// Reset restores the LFO phases and snaps the smoothers to their targets.
func (t *Tremolo) Reset() {
	t.osc.Reset()
	t.depthRamp.SetImmediate(t.depth.Load())
	t.mixRamp.SetImmediate(t.mix.Load())
}
