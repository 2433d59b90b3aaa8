package modulation

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

const (
	defaultChorusRateHz       = 0.35
	defaultChorusDepthSeconds = 0.003
	defaultChorusBaseSeconds  = 0.018
	defaultChorusMix          = 0.5
	defaultChorusVoices       = 3
	defaultChorusStereoPhase  = 0.25

	minChorusBaseSeconds  = 0.001
	maxChorusBaseSeconds  = 0.05
	maxChorusDepthSeconds = 0.02
	maxChorusVoices       = 8
)

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*sweepConfig) error

func defaultChorusConfig() sweepConfig {
	return sweepConfig{
		rateHz:      defaultChorusRateHz,
		depth:       defaultChorusDepthSeconds,
		base:        defaultChorusBaseSeconds,
		mix:         defaultChorusMix,
		waveform:    lfo.Sine,
		stereoPhase: defaultChorusStereoPhase,
		voices:      defaultChorusVoices,
	}
}

// WithChorusRateHz sets the LFO rate in Hz.
func WithChorusRateHz(rateHz float64) ChorusOption {
	return func(cfg *sweepConfig) error {
		if err := validateRate("chorus", rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithChorusDepth sets the modulation depth in seconds.
func WithChorusDepth(seconds float64) ChorusOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("chorus", "depth", seconds, 0, maxChorusDepthSeconds); err != nil {
			return err
		}
		cfg.depth = seconds
		return nil
	}
}

// WithChorusBaseDelay sets the delay at the bottom of the sweep in seconds.
func WithChorusBaseDelay(seconds float64) ChorusOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("chorus", "base delay", seconds, minChorusBaseSeconds, maxChorusBaseSeconds); err != nil {
			return err
		}
		cfg.base = seconds
		return nil
	}
}

// WithChorusMix sets the wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("chorus", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithChorusVoices sets the number of delay taps per channel. Voices are
// spread evenly over one LFO cycle.
func WithChorusVoices(voices int) ChorusOption {
	return func(cfg *sweepConfig) error {
		if voices < 1 || voices > maxChorusVoices {
			return errVoices(voices)
		}
		cfg.voices = voices
		return nil
	}
}

// WithChorusStereoPhase offsets the LFO of channel i by i*phase cycles.
func WithChorusStereoPhase(phase float64) ChorusOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("chorus", "stereo phase", phase, 0, 1); err != nil {
			return err
		}
		cfg.stereoPhase = phase
		return nil
	}
}

// WithChorusWaveform selects the LFO shape.
func WithChorusWaveform(w lfo.Waveform) ChorusOption {
	return func(cfg *sweepConfig) error {
		if !w.Valid() {
			return errWaveform("chorus", w)
		}
		cfg.waveform = w
		return nil
	}
}

// Chorus is a multi-voice modulated-delay chorus.
//
// Each voice reads the channel's delay line at
//
//	d(t) = baseDelay + depth * u(phase + v/voices + ch*stereoPhase)
//
// where u is the unipolar LFO. The voices are averaged and blended with the
// dry signal by mix.
type Chorus struct {
	engine *sweptDelay
}

var _ core.Processor = (*Chorus)(nil)

// NewChorus creates a chorus with musical defaults and optional overrides.
func NewChorus(opts ...ChorusOption) (*Chorus, error) {
	cfg := defaultChorusConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := newSweptDelay("chorus", cfg, maxChorusBaseSeconds+maxChorusDepthSeconds, false)
	if err != nil {
		return nil, err
	}

	return &Chorus{engine: engine}, nil
}

// Prepare sizes the delay lines and resets the LFO phases.
func (c *Chorus) Prepare(cfg core.ProcessorConfig) error { return c.engine.prepare(cfg) }

// SetRateHz updates the LFO rate.
func (c *Chorus) SetRateHz(rateHz float64) error {
	if err := validateRate("chorus", rateHz); err != nil {
		return err
	}
	c.engine.rateHz.Store(rateHz)
	return nil
}

// SetDepth updates the modulation depth in seconds.
func (c *Chorus) SetDepth(seconds float64) error {
	if err := validateRange("chorus", "depth", seconds, 0, maxChorusDepthSeconds); err != nil {
		return err
	}
	c.engine.depth.Store(seconds)
	return nil
}

// SetBaseDelay updates the base delay in seconds.
func (c *Chorus) SetBaseDelay(seconds float64) error {
	if err := validateRange("chorus", "base delay", seconds, minChorusBaseSeconds, maxChorusBaseSeconds); err != nil {
		return err
	}
	c.engine.base.Store(seconds)
	return nil
}

// SetMix updates the wet amount in [0, 1].
func (c *Chorus) SetMix(mix float64) error {
	if err := validateRange("chorus", "mix", mix, 0, 1); err != nil {
		return err
	}
	c.engine.mix.Store(mix)
	return nil
}

// RateHz returns the LFO rate in Hz.
func (c *Chorus) RateHz() float64 { return c.engine.rateHz.Load() }

// Depth returns the modulation depth in seconds.
func (c *Chorus) Depth() float64 { return c.engine.depth.Load() }

// BaseDelay returns the base delay in seconds.
func (c *Chorus) BaseDelay() float64 { return c.engine.base.Load() }

// Mix returns the wet amount.
func (c *Chorus) Mix() float64 { return c.engine.mix.Load() }

// Voices returns the number of taps per channel.
func (c *Chorus) Voices() int { return c.engine.voices }

// ProcessSample processes one sample of channel ch.
func (c *Chorus) ProcessSample(x float64, ch int) float64 { return c.engine.processSample(x, ch) }

// Process applies the chorus to block in place.
func (c *Chorus) Process(block [][]float64) { c.engine.process(block) }

// Reset clears the delay lines and restores the LFO phases.
func (c *Chorus) Reset() { c.engine.reset() }
