package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
)

const (
	defaultAutoWahMinFreqHz   = 300.0
	defaultAutoWahMaxFreqHz   = 2200.0
	defaultAutoWahQ           = 0.8
	defaultAutoWahSensitivity = 2.0
	defaultAutoWahAttackMs    = 2.0
	defaultAutoWahReleaseMs   = 80.0
	defaultAutoWahMix         = 1.0
)

// AutoWahOption mutates auto-wah construction parameters.
type AutoWahOption func(*autoWahConfig) error

type autoWahConfig struct {
	minFreqHz   float64
	maxFreqHz   float64
	q           float64
	sensitivity float64
	attackMs    float64
	releaseMs   float64
	mix         float64
}

func defaultAutoWahConfig() autoWahConfig {
	return autoWahConfig{
		minFreqHz:   defaultAutoWahMinFreqHz,
		maxFreqHz:   defaultAutoWahMaxFreqHz,
		q:           defaultAutoWahQ,
		sensitivity: defaultAutoWahSensitivity,
		attackMs:    defaultAutoWahAttackMs,
		releaseMs:   defaultAutoWahReleaseMs,
		mix:         defaultAutoWahMix,
	}
}

// WithAutoWahFrequencyRangeHz sets the band-pass centre range in Hz.
func WithAutoWahFrequencyRangeHz(minFreqHz, maxFreqHz float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if minFreqHz <= 0 || !core.IsFinite(minFreqHz) {
			return fmt.Errorf("auto-wah min frequency must be > 0 and finite: %f", minFreqHz)
		}
		if maxFreqHz <= minFreqHz || !core.IsFinite(maxFreqHz) {
			return fmt.Errorf("auto-wah max frequency must be > min frequency and finite: min=%f max=%f", minFreqHz, maxFreqHz)
		}
		cfg.minFreqHz = minFreqHz
		cfg.maxFreqHz = maxFreqHz
		return nil
	}
}

// WithAutoWahQ sets the band-pass quality factor.
func WithAutoWahQ(q float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if q <= 0 || !core.IsFinite(q) {
			return fmt.Errorf("auto-wah Q must be > 0 and finite: %f", q)
		}
		cfg.q = q
		return nil
	}
}

// WithAutoWahSensitivity scales the envelope before it is mapped onto the
// frequency range.
func WithAutoWahSensitivity(sensitivity float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if sensitivity <= 0 || !core.IsFinite(sensitivity) {
			return fmt.Errorf("auto-wah sensitivity must be > 0 and finite: %f", sensitivity)
		}
		cfg.sensitivity = sensitivity
		return nil
	}
}

// WithAutoWahAttackMs sets the envelope attack time.
func WithAutoWahAttackMs(ms float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if ms < 0 || !core.IsFinite(ms) {
			return fmt.Errorf("auto-wah attack must be >= 0 and finite: %f", ms)
		}
		cfg.attackMs = ms
		return nil
	}
}

// WithAutoWahReleaseMs sets the envelope release time.
func WithAutoWahReleaseMs(ms float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if ms < 0 || !core.IsFinite(ms) {
			return fmt.Errorf("auto-wah release must be >= 0 and finite: %f", ms)
		}
		cfg.releaseMs = ms
		return nil
	}
}

// WithAutoWahMix sets the wet amount in [0, 1].
func WithAutoWahMix(mix float64) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if err := validateRange("auto-wah", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// AutoWah is an envelope-following band-pass sweep. Each channel tracks
// its own level with a peak follower; the level picks the centre frequency
// of a constant-skirt band-pass section between the range limits.
type AutoWah struct {
	cfg autoWahConfig

	sampleRate  float64
	attackCoef  float64
	releaseCoef float64

	sections  []*biquad.Section
	envelopes []float64
	centers   []float64
	countdown int
}

var _ core.Processor = (*AutoWah)(nil)

// NewAutoWah creates an auto-wah with practical defaults and optional
// overrides.
func NewAutoWah(opts ...AutoWahOption) (*AutoWah, error) {
	cfg := defaultAutoWahConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &AutoWah{cfg: cfg}, nil
}

// Prepare allocates one band-pass section and one envelope per channel.
func (a *AutoWah) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("auto-wah: %w", err)
	}

	a.sampleRate = cfg.SampleRate
	a.attackCoef = envelopeCoefficient(a.cfg.attackMs, cfg.SampleRate)
	a.releaseCoef = envelopeCoefficient(a.cfg.releaseMs, cfg.SampleRate)

	a.sections = make([]*biquad.Section, cfg.Channels)
	for ch := range a.sections {
		a.sections[ch] = biquad.NewSection(biquad.Identity())
	}
	a.envelopes = make([]float64, cfg.Channels)
	a.centers = make([]float64, cfg.Channels)

	a.Reset()
	return nil
}

// MinFreqHz returns the bottom of the sweep in Hz.
func (a *AutoWah) MinFreqHz() float64 { return a.cfg.minFreqHz }

// MaxFreqHz returns the top of the sweep in Hz.
func (a *AutoWah) MaxFreqHz() float64 { return a.cfg.maxFreqHz }

// Q returns the band-pass quality factor.
func (a *AutoWah) Q() float64 { return a.cfg.q }

// Sensitivity returns the envelope scale.
func (a *AutoWah) Sensitivity() float64 { return a.cfg.sensitivity }

// Mix returns the wet amount.
func (a *AutoWah) Mix() float64 { return a.cfg.mix }

// CurrentCenterHz returns the centre frequency of channel ch in Hz.
func (a *AutoWah) CurrentCenterHz(ch int) float64 {
	if ch < 0 || ch >= len(a.centers) {
		return 0
	}
	return a.centers[ch]
}

func envelopeCoefficient(timeMs, sampleRate float64) float64 {
	if timeMs <= 0 {
		return 1
	}
	return core.Clamp(1-math.Exp(-1/(timeMs/1000*sampleRate)), 0, 1)
}

func (a *AutoWah) retune() {
	for ch, section := range a.sections {
		env := min(a.envelopes[ch]*a.cfg.sensitivity, 1)
		a.centers[ch] = a.cfg.minFreqHz + env*(a.cfg.maxFreqHz-a.cfg.minFreqHz)
		section.SetCoefficients(design.Bandpass(a.centers[ch], a.cfg.q, a.sampleRate))
	}
}

func (a *AutoWah) advance() {
	if a.countdown == 0 {
		a.retune()
		a.countdown = controlInterval
	}
	a.countdown--
}

func (a *AutoWah) tick(ch int, x float64) float64 {
	level := math.Abs(x)
	env := a.envelopes[ch]
	if level > env {
		env += (level - env) * a.attackCoef
	} else {
		env += (level - env) * a.releaseCoef
	}
	a.envelopes[ch] = core.FlushDenormals(env)

	wet := a.sections[ch].ProcessSample(x)
	return x*(1-a.cfg.mix) + wet*a.cfg.mix
}

// ProcessSample processes one sample of channel ch. Channel 0 advances the
// control clock.
func (a *AutoWah) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= len(a.sections) {
		return x
	}
	if ch == 0 {
		a.advance()
	}
	return a.tick(ch, x)
}

// Process applies the auto-wah to block in place.
func (a *AutoWah) Process(block [][]float64) {
	n := core.ChannelCount(block, len(a.sections))
	if n == 0 {
		return
	}

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}
	for i := range frames {
		a.advance()
		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			buf[i] = a.tick(ch, buf[i])
		}
	}
}

// Reset clears detector and filter state.
func (a *AutoWah) Reset() {
	for ch, section := range a.sections {
		section.Reset()
		a.envelopes[ch] = 0
	}
	a.countdown = 0
	a.retune()
}
