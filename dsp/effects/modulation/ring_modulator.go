package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

const (
	defaultRingModCarrierHz = 440.0
	defaultRingModMix       = 1.0
)

// RingModulatorOption mutates ring modulator construction parameters.
type RingModulatorOption func(*ringModConfig) error

type ringModConfig struct {
	carrierHz float64
	mix       float64
	waveform  lfo.Waveform
}

func defaultRingModConfig() ringModConfig {
	return ringModConfig{
		carrierHz: defaultRingModCarrierHz,
		mix:       defaultRingModMix,
		waveform:  lfo.Sine,
	}
}

// WithRingModCarrierHz sets the carrier oscillator frequency in Hz.
func WithRingModCarrierHz(carrierHz float64) RingModulatorOption {
	return func(cfg *ringModConfig) error {
		if err := validateCarrier(carrierHz); err != nil {
			return err
		}
		cfg.carrierHz = carrierHz
		return nil
	}
}

// WithRingModMix sets the dry/wet mix in [0, 1], where 0 is fully dry and
// 1 is fully wet.
func WithRingModMix(mix float64) RingModulatorOption {
	return func(cfg *ringModConfig) error {
		if err := validateRange("ring modulator", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithRingModWaveform selects the carrier shape.
func WithRingModWaveform(w lfo.Waveform) RingModulatorOption {
	return func(cfg *ringModConfig) error {
		if !w.Valid() {
			return errWaveform("ring modulator", w)
		}
		cfg.waveform = w
		return nil
	}
}

func validateCarrier(carrierHz float64) error {
	if carrierHz <= 0 || !core.IsFinite(carrierHz) {
		return fmt.Errorf("ring modulator carrier frequency must be > 0 and finite: %f", carrierHz)
	}
	return nil
}

// RingModulator multiplies the input by a bipolar carrier, producing sum
// and difference frequencies of the input and carrier:
//
//	wet = x * c(t)
//	y   = x*(1 - mix) + wet*mix
//
// The carrier is an audio-rate lfo.LFO, so any of its waveforms can be used.
type RingModulator struct {
	carrier *lfo.LFO

	carrierHz core.Param
	mix       core.Param

	rate     float64
	channels int
	mixRamp  core.Ramp
}

var _ core.Processor = (*RingModulator)(nil)

// NewRingModulator creates a ring modulator with optional overrides.
func NewRingModulator(opts ...RingModulatorOption) (*RingModulator, error) {
	cfg := defaultRingModConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	carrier, err := lfo.New(lfo.WithWaveform(cfg.waveform), lfo.WithRateHz(cfg.carrierHz))
	if err != nil {
		return nil, fmt.Errorf("ring modulator: %w", err)
	}

	r := &RingModulator{carrier: carrier, rate: cfg.carrierHz}
	r.carrierHz.Store(cfg.carrierHz)
	r.mix.Store(cfg.mix)
	r.mixRamp.SetImmediate(cfg.mix)

	return r, nil
}

// Prepare sets up one carrier phase per channel.
func (r *RingModulator) Prepare(cfg core.ProcessorConfig) error {
	if err := r.carrier.Prepare(cfg); err != nil {
		return fmt.Errorf("ring modulator: %w", err)
	}
	r.channels = cfg.Channels
	r.mixRamp.SetLength(int(smoothingSeconds * cfg.SampleRate))
	r.Reset()
	return nil
}

// SetCarrierHz updates the carrier frequency.
func (r *RingModulator) SetCarrierHz(carrierHz float64) error {
	if err := validateCarrier(carrierHz); err != nil {
		return err
	}
	r.carrierHz.Store(carrierHz)
	return nil
}

// SetMix updates the dry/wet mix.
func (r *RingModulator) SetMix(mix float64) error {
	if err := validateRange("ring modulator", "mix", mix, 0, 1); err != nil {
		return err
	}
	r.mix.Store(mix)
	return nil
}

// CarrierHz returns the carrier frequency in Hz.
func (r *RingModulator) CarrierHz() float64 { return r.carrierHz.Load() }

// Mix returns the dry/wet mix in [0, 1].
func (r *RingModulator) Mix() float64 { return r.mix.Load() }

func (r *RingModulator) pull() {
	if hz := r.carrierHz.Load(); hz != r.rate {
		r.rate = hz
		_ = r.carrier.SetRateHz(hz)
	}
	r.mixRamp.SetTarget(r.mix.Load())
}

// ProcessSample processes one sample of channel ch. Channel 0 advances the
// mix smoother.
func (r *RingModulator) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= r.channels {
		return x
	}
	if ch == 0 {
		r.pull()
		r.mixRamp.Next()
	}
	mix := r.mixRamp.Value()
	return x*(1-mix) + x*r.carrier.Next(ch)*mix
}

// Process applies ring modulation to block in place.
func (r *RingModulator) Process(block [][]float64) {
	n := core.ChannelCount(block, r.channels)
	if n == 0 {
		return
	}
	r.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}
	for i := range frames {
		mix := r.mixRamp.Next()
		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			x := buf[i]
			buf[i] = x*(1-mix) + x*r.carrier.Next(ch)*mix
		}
	}
}

// Reset returns the carrier to phase zero.
func (r *RingModulator) Reset() {
	r.carrier.Reset()
	r.mixRamp.SetImmediate(r.mix.Load())
}
