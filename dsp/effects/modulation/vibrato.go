package modulation

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

const (
	defaultVibratoRateHz       = 5.0
	defaultVibratoDepthSeconds = 0.002
	defaultVibratoBaseSeconds  = 0.001

	maxVibratoBaseSeconds  = 0.02
	maxVibratoDepthSeconds = 0.01
)

// VibratoOption mutates vibrato construction parameters.
type VibratoOption func(*sweepConfig) error

func defaultVibratoConfig() sweepConfig {
	return sweepConfig{
		rateHz:   defaultVibratoRateHz,
		depth:    defaultVibratoDepthSeconds,
		base:     defaultVibratoBaseSeconds,
		mix:      1,
		waveform: lfo.Sine,
		voices:   1,
	}
}

// WithVibratoRateHz sets the LFO rate in Hz.
func WithVibratoRateHz(rateHz float64) VibratoOption {
	return func(cfg *sweepConfig) error {
		if err := validateRate("vibrato", rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithVibratoDepth sets the delay swing in seconds.
func WithVibratoDepth(seconds float64) VibratoOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("vibrato", "depth", seconds, 0, maxVibratoDepthSeconds); err != nil {
			return err
		}
		cfg.depth = seconds
		return nil
	}
}

// WithVibratoBaseDelay sets the minimum delay in seconds.
func WithVibratoBaseDelay(seconds float64) VibratoOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("vibrato", "base delay", seconds, 0, maxVibratoBaseSeconds); err != nil {
			return err
		}
		cfg.base = seconds
		return nil
	}
}

// WithVibratoWaveform selects the LFO shape.
func WithVibratoWaveform(w lfo.Waveform) VibratoOption {
	return func(cfg *sweepConfig) error {
		if !w.Valid() {
			return errWaveform("vibrato", w)
		}
		cfg.waveform = w
		return nil
	}
}

// Vibrato is a modulated delay with no dry path: the output is the swept
// delay tap alone, so the only audible change is a periodic pitch bend.
type Vibrato struct {
	engine *sweptDelay
}

var _ core.Processor = (*Vibrato)(nil)

// NewVibrato creates a vibrato with practical defaults and optional
// overrides.
func NewVibrato(opts ...VibratoOption) (*Vibrato, error) {
	cfg := defaultVibratoConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := newSweptDelay("vibrato", cfg, maxVibratoBaseSeconds+maxVibratoDepthSeconds, true)
	if err != nil {
		return nil, err
	}

	return &Vibrato{engine: engine}, nil
}

// Prepare sizes the delay lines and resets the LFO phases.
func (v *Vibrato) Prepare(cfg core.ProcessorConfig) error { return v.engine.prepare(cfg) }

// SetRateHz updates the LFO rate.
func (v *Vibrato) SetRateHz(rateHz float64) error {
	if err := validateRate("vibrato", rateHz); err != nil {
		return err
	}
	v.engine.rateHz.Store(rateHz)
	return nil
}

// SetDepth updates the delay swing in seconds.
func (v *Vibrato) SetDepth(seconds float64) error {
	if err := validateRange("vibrato", "depth", seconds, 0, maxVibratoDepthSeconds); err != nil {
		return err
	}
	v.engine.depth.Store(seconds)
	return nil
}

// SetBaseDelay updates the minimum delay in seconds.
func (v *Vibrato) SetBaseDelay(seconds float64) error {
	if err := validateRange("vibrato", "base delay", seconds, 0, maxVibratoBaseSeconds); err != nil {
		return err
	}
	v.engine.base.Store(seconds)
	return nil
}

// RateHz returns the LFO rate in Hz.
func (v *Vibrato) RateHz() float64 { return v.engine.rateHz.Load() }

// Depth returns the delay swing in seconds.
func (v *Vibrato) Depth() float64 { return v.engine.depth.Load() }

// BaseDelay returns the minimum delay in seconds.
func (v *Vibrato) BaseDelay() float64 { return v.engine.base.Load() }

// ProcessSample processes one sample of channel ch.
func (v *Vibrato) ProcessSample(x float64, ch int) float64 { return v.engine.processSample(x, ch) }

// Process applies the vibrato to block in place.
func (v *Vibrato) Process(block [][]float64) { v.engine.process(block) }

// Reset clears the delay lines and restores the LFO phases.
func (v *Vibrato) Reset() { v.engine.reset() }
