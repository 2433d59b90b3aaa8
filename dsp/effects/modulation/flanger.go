package modulation

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

const (
	defaultFlangerRateHz       = 0.25
	defaultFlangerDepthSeconds = 0.0015
	defaultFlangerBaseSeconds  = 0.001
	defaultFlangerFeedback     = 0.25
	defaultFlangerMix          = 0.5

	minFlangerBaseSeconds  = 0.0001
	maxFlangerBaseSeconds  = 0.01
	maxFlangerDepthSeconds = 0.01
	maxFlangerFeedback     = 0.99
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*sweepConfig) error

func defaultFlangerConfig() sweepConfig {
	return sweepConfig{
		rateHz:   defaultFlangerRateHz,
		depth:    defaultFlangerDepthSeconds,
		base:     defaultFlangerBaseSeconds,
		feedback: defaultFlangerFeedback,
		mix:      defaultFlangerMix,
		waveform: lfo.Triangle,
		voices:   1,
	}
}

// WithFlangerRateHz sets the LFO rate in Hz.
func WithFlangerRateHz(rateHz float64) FlangerOption {
	return func(cfg *sweepConfig) error {
		if err := validateRate("flanger", rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithFlangerDepth sets the sweep depth in seconds.
func WithFlangerDepth(seconds float64) FlangerOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("flanger", "depth", seconds, 0, maxFlangerDepthSeconds); err != nil {
			return err
		}
		cfg.depth = seconds
		return nil
	}
}

// WithFlangerBaseDelay sets the minimum delay in seconds.
func WithFlangerBaseDelay(seconds float64) FlangerOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("flanger", "base delay", seconds, minFlangerBaseSeconds, maxFlangerBaseSeconds); err != nil {
			return err
		}
		cfg.base = seconds
		return nil
	}
}

// WithFlangerFeedback sets the feedback amount in [-0.99, 0.99].
func WithFlangerFeedback(feedback float64) FlangerOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("flanger", "feedback", feedback, -maxFlangerFeedback, maxFlangerFeedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithFlangerMix sets the wet amount in [0, 1].
func WithFlangerMix(mix float64) FlangerOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("flanger", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithFlangerStereoPhase offsets the LFO of channel i by i*phase cycles.
func WithFlangerStereoPhase(phase float64) FlangerOption {
	return func(cfg *sweepConfig) error {
		if err := validateRange("flanger", "stereo phase", phase, 0, 1); err != nil {
			return err
		}
		cfg.stereoPhase = phase
		return nil
	}
}

// WithFlangerWaveform selects the LFO shape. The default is Triangle.
func WithFlangerWaveform(w lfo.Waveform) FlangerOption {
	return func(cfg *sweepConfig) error {
		if !w.Valid() {
			return errWaveform("flanger", w)
		}
		cfg.waveform = w
		return nil
	}
}

// Flanger is a short modulated delay with feedback. The delay sweeps
// between baseDelay and baseDelay+depth; the delayed signal is fed back
// into the line and blended with the input by mix.
type Flanger struct {
	engine *sweptDelay
}

var _ core.Processor = (*Flanger)(nil)

// NewFlanger creates a flanger with practical defaults and optional
// overrides.
func NewFlanger(opts ...FlangerOption) (*Flanger, error) {
	cfg := defaultFlangerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := newSweptDelay("flanger", cfg, maxFlangerBaseSeconds+maxFlangerDepthSeconds, false)
	if err != nil {
		return nil, err
	}

	return &Flanger{engine: engine}, nil
}

// Prepare sizes the delay lines and resets the LFO phases.
func (f *Flanger) Prepare(cfg core.ProcessorConfig) error { return f.engine.prepare(cfg) }

// SetRateHz updates the LFO rate.
func (f *Flanger) SetRateHz(rateHz float64) error {
	if err := validateRate("flanger", rateHz); err != nil {
		return err
	}
	f.engine.rateHz.Store(rateHz)
	return nil
}

// SetDepth updates the sweep depth in seconds.
func (f *Flanger) SetDepth(seconds float64) error {
	if err := validateRange("flanger", "depth", seconds, 0, maxFlangerDepthSeconds); err != nil {
		return err
	}
	f.engine.depth.Store(seconds)
	return nil
}

// SetBaseDelay updates the minimum delay in seconds.
func (f *Flanger) SetBaseDelay(seconds float64) error {
	if err := validateRange("flanger", "base delay", seconds, minFlangerBaseSeconds, maxFlangerBaseSeconds); err != nil {
		return err
	}
	f.engine.base.Store(seconds)
	return nil
}

// SetFeedback updates the feedback amount.
func (f *Flanger) SetFeedback(feedback float64) error {
	if err := validateRange("flanger", "feedback", feedback, -maxFlangerFeedback, maxFlangerFeedback); err != nil {
		return err
	}
	f.engine.feedback.Store(feedback)
	return nil
}

// SetMix updates the wet amount.
func (f *Flanger) SetMix(mix float64) error {
	if err := validateRange("flanger", "mix", mix, 0, 1); err != nil {
		return err
	}
	f.engine.mix.Store(mix)
	return nil
}

// RateHz returns the LFO rate in Hz.
func (f *Flanger) RateHz() float64 { return f.engine.rateHz.Load() }

// Depth returns the sweep depth in seconds.
func (f *Flanger) Depth() float64 { return f.engine.depth.Load() }

// BaseDelay returns the minimum delay in seconds.
func (f *Flanger) BaseDelay() float64 { return f.engine.base.Load() }

// Feedback returns the feedback amount.
func (f *Flanger) Feedback() float64 { return f.engine.feedback.Load() }

// Mix returns the wet amount.
func (f *Flanger) Mix() float64 { return f.engine.mix.Load() }

// ProcessSample processes one sample of channel ch.
func (f *Flanger) ProcessSample(x float64, ch int) float64 { return f.engine.processSample(x, ch) }

// Process applies the flanger to block in place.
func (f *Flanger) Process(block [][]float64) { f.engine.process(block) }

// Reset clears the delay lines and restores the LFO phases.
func (f *Flanger) Reset() { f.engine.reset() }
