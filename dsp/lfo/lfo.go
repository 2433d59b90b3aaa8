package lfo

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
)

const defaultRateHz = 1.0

// Option configures an LFO at construction.
type Option func(*config) error

type config struct {
	waveform    Waveform
	rateHz      float64
	phase       float64
	phaseOffset float64
}

// WithWaveform selects the LFO shape. The default is Sine.
func WithWaveform(w Waveform) Option {
	return func(cfg *config) error {
		if !w.Valid() {
			return fmt.Errorf("lfo waveform is unknown: %d", int(w))
		}
		cfg.waveform = w
		return nil
	}
}

// WithRateHz sets the oscillation rate.
func WithRateHz(rateHz float64) Option {
	return func(cfg *config) error {
		if rateHz < 0 || !core.IsFinite(rateHz) {
			return fmt.Errorf("lfo rate must be >= 0 and finite: %f", rateHz)
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithPhase sets the starting phase of channel 0 in cycles.
func WithPhase(phase float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(phase) {
			return fmt.Errorf("lfo phase must be finite: %f", phase)
		}
		cfg.phase = Wrap(phase)
		return nil
	}
}

// WithPhaseOffset makes channel i start at phase + i*offset (cycles).
// An offset of 0 keeps all channels in lockstep; 0.25 puts a stereo pair
// 90° apart.
func WithPhaseOffset(offset float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(offset) {
			return fmt.Errorf("lfo phase offset must be finite: %f", offset)
		}
		cfg.phaseOffset = offset
		return nil
	}
}

// LFO is a per-channel phase accumulator with a selectable waveform.
type LFO struct {
	cfg        config
	sampleRate float64
	inc        float64
	phases     []float64
}

// New returns an LFO. It must be prepared before use.
func New(opts ...Option) (*LFO, error) {
	cfg := config{waveform: Sine, rateHz: defaultRateHz}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &LFO{cfg: cfg}, nil
}

// Prepare allocates one phase per channel and resets them.
func (l *LFO) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("lfo: %w", err)
	}

	l.sampleRate = cfg.SampleRate
	if len(l.phases) != cfg.Channels {
		l.phases = make([]float64, cfg.Channels)
	}
	l.updateIncrement()
	l.Reset()

	return nil
}

// SetRateHz updates the oscillation rate without touching the phase.
func (l *LFO) SetRateHz(rateHz float64) error {
	if rateHz < 0 || !core.IsFinite(rateHz) {
		return fmt.Errorf("lfo rate must be >= 0 and finite: %f", rateHz)
	}
	l.cfg.rateHz = rateHz
	l.updateIncrement()
	return nil
}

// SetWaveform changes the shape without touching the phase.
func (l *LFO) SetWaveform(w Waveform) error {
	if !w.Valid() {
		return fmt.Errorf("lfo waveform is unknown: %d", int(w))
	}
	l.cfg.waveform = w
	return nil
}

func (l *LFO) updateIncrement() {
	if l.sampleRate > 0 {
		l.inc = l.cfg.rateHz / l.sampleRate
	}
}

// RateHz returns the oscillation rate.
func (l *LFO) RateHz() float64 { return l.cfg.rateHz }

// Waveform returns the current shape.
func (l *LFO) Waveform() Waveform { return l.cfg.waveform }

// Increment returns the per-sample phase increment in cycles.
func (l *LFO) Increment() float64 { return l.inc }

// Channels returns the prepared channel count.
func (l *LFO) Channels() int { return len(l.phases) }

// Phase returns the current phase of channel ch in [0, 1).
func (l *LFO) Phase(ch int) float64 {
	if ch < 0 || ch >= len(l.phases) {
		return 0
	}
	return l.phases[ch]
}

// SetPhase moves channel ch to phase (cycles).
func (l *LFO) SetPhase(ch int, phase float64) {
	if ch < 0 || ch >= len(l.phases) {
		return
	}
	l.phases[ch] = Wrap(phase)
}

// Next returns the bipolar value of channel ch at its current phase and
// then advances that phase by one sample.
func (l *LFO) Next(ch int) float64 {
	if ch < 0 || ch >= len(l.phases) {
		return 0
	}
	p := l.phases[ch]
	v := Value(l.cfg.waveform, p)

	p += l.inc
	if p >= 1 {
		p -= 1
		if p >= 1 {
			p = Wrap(p)
		}
	}
	l.phases[ch] = p

	return v
}

// NextUnipolar is Next mapped to [0, 1].
func (l *LFO) NextUnipolar(ch int) float64 {
	return Unipolar(l.Next(ch))
}

// Generate overwrites buf with amplitude-scaled waveform samples from
// channel ch, advancing its phase.
func (l *LFO) Generate(buf []float64, ch int, amplitude float64) {
	for i := range buf {
		buf[i] = amplitude * l.Next(ch)
	}
}

// Reset returns every channel to its starting phase.
func (l *LFO) Reset() {
	for i := range l.phases {
		l.phases[i] = Wrap(l.cfg.phase + float64(i)*l.cfg.phaseOffset)
	}
}
