package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

const (
	defaultPhaserRateHz    = 0.4
	defaultPhaserMinFreqHz = 300.0
	defaultPhaserMaxFreqHz = 1600.0
	defaultPhaserStages    = 6
	defaultPhaserFeedback  = 0.2
	defaultPhaserMix       = 0.5
	maxPhaserStages        = 12

	// controlInterval is the number of samples between coefficient
	// updates.
	controlInterval = 32
)

type phaserConfig struct {
	rateHz      float64
	minFreqHz   float64
	maxFreqHz   float64
	q           float64
	stages      int
	feedback    float64
	mix         float64
	stereoPhase float64
}

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

func defaultPhaserConfig() phaserConfig {
	return phaserConfig{
		rateHz:    defaultPhaserRateHz,
		minFreqHz: defaultPhaserMinFreqHz,
		maxFreqHz: defaultPhaserMaxFreqHz,
		q:         core.DefaultQ,
		stages:    defaultPhaserStages,
		feedback:  defaultPhaserFeedback,
		mix:       defaultPhaserMix,
	}
}

// WithPhaserRateHz sets the LFO rate in Hz.
func WithPhaserRateHz(rateHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateRate("phaser", rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithPhaserFrequencyRangeHz sets the sweep range of the all-pass centre
// frequency.
func WithPhaserFrequencyRangeHz(minFreqHz, maxFreqHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateFrequencyRange(minFreqHz, maxFreqHz); err != nil {
			return err
		}
		cfg.minFreqHz = minFreqHz
		cfg.maxFreqHz = maxFreqHz
		return nil
	}
}

// WithPhaserQ sets the quality factor of every all-pass stage.
func WithPhaserQ(q float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if q <= 0 || !core.IsFinite(q) {
			return fmt.Errorf("phaser q must be > 0 and finite: %f", q)
		}
		cfg.q = q
		return nil
	}
}

// WithPhaserStages sets the number of all-pass stages in [1, 12].
func WithPhaserStages(stages int) PhaserOption {
	return func(cfg *phaserConfig) error {
		if stages < 1 || stages > maxPhaserStages {
			return fmt.Errorf("phaser stages must be in [1, %d]: %d", maxPhaserStages, stages)
		}
		cfg.stages = stages
		return nil
	}
}

// WithPhaserFeedback sets the feedback amount in [-0.99, 0.99].
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateRange("phaser", "feedback", feedback, -maxFlangerFeedback, maxFlangerFeedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithPhaserMix sets the wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateRange("phaser", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithPhaserStereoPhase offsets the LFO of channel i by i*phase cycles.
func WithPhaserStereoPhase(phase float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if err := validateRange("phaser", "stereo phase", phase, 0, 1); err != nil {
			return err
		}
		cfg.stereoPhase = phase
		return nil
	}
}

func validateFrequencyRange(minFreqHz, maxFreqHz float64) error {
	if minFreqHz <= 0 || !core.IsFinite(minFreqHz) {
		return fmt.Errorf("phaser min frequency must be > 0 and finite: %f", minFreqHz)
	}
	if maxFreqHz <= minFreqHz || !core.IsFinite(maxFreqHz) {
		return fmt.Errorf("phaser max frequency must be > min frequency and finite: min=%f max=%f", minFreqHz, maxFreqHz)
	}
	return nil
}

// Phaser sweeps a cascade of second-order all-pass sections and mixes the
// result with the dry signal. The centre frequency moves exponentially
// between the range limits so the sweep sounds even in pitch:
//
//	f(t) = minFreq * (maxFreq/minFreq)^u(t)
//
// Coefficients are recomputed every 32 samples.
type Phaser struct {
	cfg phaserConfig
	osc *lfo.LFO

	rateHz    core.Param
	minFreqHz core.Param
	maxFreqHz core.Param
	feedback  core.Param
	mix       core.Param

	sampleRate float64
	rate       float64
	chains     []*biquad.Chain
	last       []float64
	mod        []float64
	countdown  int

	fbRamp  core.Ramp
	mixRamp core.Ramp
}

var _ core.Processor = (*Phaser)(nil)

// NewPhaser creates a phaser with practical defaults and optional
// overrides.
func NewPhaser(opts ...PhaserOption) (*Phaser, error) {
	cfg := defaultPhaserConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	osc, err := lfo.New(
		lfo.WithRateHz(cfg.rateHz),
		lfo.WithPhaseOffset(cfg.stereoPhase),
	)
	if err != nil {
		return nil, fmt.Errorf("phaser: %w", err)
	}

	p := &Phaser{cfg: cfg, osc: osc, rate: cfg.rateHz}
	p.rateHz.Store(cfg.rateHz)
	p.minFreqHz.Store(cfg.minFreqHz)
	p.maxFreqHz.Store(cfg.maxFreqHz)
	p.feedback.Store(cfg.feedback)
	p.mix.Store(cfg.mix)

	return p, nil
}

// Prepare builds one all-pass cascade per channel.
func (p *Phaser) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("phaser: %w", err)
	}
	if err := p.osc.Prepare(cfg); err != nil {
		return fmt.Errorf("phaser: %w", err)
	}

	p.sampleRate = cfg.SampleRate

	freqs := make([]float64, p.cfg.stages)
	for i := range freqs {
		freqs[i] = p.minFreqHz.Load()
	}
	p.chains = make([]*biquad.Chain, cfg.Channels)
	for ch := range p.chains {
		p.chains[ch] = biquad.NewChain(design.AllpassCascade(freqs, p.cfg.q, cfg.SampleRate))
	}
	p.last = make([]float64, cfg.Channels)
	p.mod = make([]float64, cfg.Channels)

	n := int(smoothingSeconds * cfg.SampleRate)
	p.fbRamp.SetLength(n)
	p.mixRamp.SetLength(n)

	p.Reset()
	return nil
}

// SetRateHz updates the LFO rate.
func (p *Phaser) SetRateHz(rateHz float64) error {
	if err := validateRate("phaser", rateHz); err != nil {
		return err
	}
	p.rateHz.Store(rateHz)
	return nil
}

// SetFrequencyRangeHz updates the sweep range.
func (p *Phaser) SetFrequencyRangeHz(minFreqHz, maxFreqHz float64) error {
	if err := validateFrequencyRange(minFreqHz, maxFreqHz); err != nil {
		return err
	}
	p.minFreqHz.Store(minFreqHz)
	p.maxFreqHz.Store(maxFreqHz)
	return nil
}

// SetFeedback updates the feedback amount.
func (p *Phaser) SetFeedback(feedback float64) error {
	if err := validateRange("phaser", "feedback", feedback, -maxFlangerFeedback, maxFlangerFeedback); err != nil {
		return err
	}
	p.feedback.Store(feedback)
	return nil
}

// SetMix updates the wet amount.
func (p *Phaser) SetMix(mix float64) error {
	if err := validateRange("phaser", "mix", mix, 0, 1); err != nil {
		return err
	}
	p.mix.Store(mix)
	return nil
}

// RateHz returns the LFO rate in Hz.
func (p *Phaser) RateHz() float64 { return p.rateHz.Load() }

// MinFrequencyHz returns the bottom of the sweep in Hz.
func (p *Phaser) MinFrequencyHz() float64 { return p.minFreqHz.Load() }

// MaxFrequencyHz returns the top of the sweep in Hz.
func (p *Phaser) MaxFrequencyHz() float64 { return p.maxFreqHz.Load() }

// Stages returns the number of all-pass stages.
func (p *Phaser) Stages() int { return p.cfg.stages }

// Q returns the all-pass quality factor.
func (p *Phaser) Q() float64 { return p.cfg.q }

// Feedback returns the feedback amount.
func (p *Phaser) Feedback() float64 { return p.feedback.Load() }

// Mix returns the wet amount.
func (p *Phaser) Mix() float64 { return p.mix.Load() }

// Chain returns the all-pass cascade of channel ch, or nil.
func (p *Phaser) Chain(ch int) *biquad.Chain {
	if ch < 0 || ch >= len(p.chains) {
		return nil
	}
	return p.chains[ch]
}

// frequency maps a unipolar modulation value onto the sweep range.
func (p *Phaser) frequency(u float64) float64 {
	lo := p.minFreqHz.Load()
	hi := p.maxFreqHz.Load()
	return lo * math.Pow(hi/lo, u)
}

func (p *Phaser) retune() {
	for ch, chain := range p.chains {
		c := design.Allpass(p.frequency(p.mod[ch]), p.cfg.q, p.sampleRate)
		for i := range chain.NumSections() {
			chain.SetCoefficients(i, c)
		}
	}
}

func (p *Phaser) pull() {
	if r := p.rateHz.Load(); r != p.rate {
		p.rate = r
		_ = p.osc.SetRateHz(r)
	}
	p.fbRamp.SetTarget(p.feedback.Load())
	p.mixRamp.SetTarget(p.mix.Load())
}

// advance moves the shared control clock by one sample.
func (p *Phaser) advance() {
	if p.countdown == 0 {
		p.retune()
		p.countdown = controlInterval
	}
	p.countdown--
	p.fbRamp.Next()
	p.mixRamp.Next()
}

func (p *Phaser) tick(ch int, x float64) float64 {
	p.mod[ch] = p.osc.NextUnipolar(ch)

	in := x + p.fbRamp.Value()*p.last[ch]
	y := p.chains[ch].ProcessSample(in)
	p.last[ch] = core.FlushDenormals(y)

	mix := p.mixRamp.Value()
	return (1-mix)*x + mix*y
}

// ProcessSample processes one sample of channel ch. Channel 0 advances the
// control clock.
func (p *Phaser) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= len(p.chains) {
		return x
	}
	if ch == 0 {
		p.pull()
		p.advance()
	}
	return p.tick(ch, x)
}

// Process applies the phaser to block in place.
func (p *Phaser) Process(block [][]float64) {
	n := core.ChannelCount(block, len(p.chains))
	if n == 0 {
		return
	}
	p.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}

	for i := range frames {
		p.advance()
		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			buf[i] = p.tick(ch, buf[i])
		}
	}
}

// Reset clears filter and modulation state.
func (p *Phaser) Reset() {
	p.osc.Reset()
	for ch, chain := range p.chains {
		chain.Reset()
		p.last[ch] = 0
		p.mod[ch] = lfo.Unipolar(lfo.Value(p.osc.Waveform(), p.osc.Phase(ch)))
	}
	p.countdown = 0
	p.fbRamp.SetImmediate(p.feedback.Load())
	p.mixRamp.SetImmediate(p.mix.Load())
}
