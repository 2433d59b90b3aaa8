package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

// Direction selects which way the barber-pole notches travel.
type Direction int

const (
	// Up moves the notches upward: the delay shrinks over each cycle.
	Up Direction = iota
	// Down moves the notches downward: the delay grows over each cycle.
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

const (
	defaultBarberPoleRateHz       = 0.2
	defaultBarberPoleDepthSeconds = 0.004
	defaultBarberPoleBaseSeconds  = 0.0005
	defaultBarberPoleFeedback     = 0.0
	defaultBarberPoleMix          = 0.5

	maxBarberPoleBaseSeconds  = 0.01
	maxBarberPoleDepthSeconds = 0.01
)

type barberPoleConfig struct {
	sweepConfig
	direction Direction
}

// BarberPoleOption mutates barber-pole flanger construction parameters.
type BarberPoleOption func(*barberPoleConfig) error

func defaultBarberPoleConfig() barberPoleConfig {
	return barberPoleConfig{
		sweepConfig: sweepConfig{
			rateHz:   defaultBarberPoleRateHz,
			depth:    defaultBarberPoleDepthSeconds,
			base:     defaultBarberPoleBaseSeconds,
			feedback: defaultBarberPoleFeedback,
			mix:      defaultBarberPoleMix,
		},
		direction: Up,
	}
}

// WithBarberPoleRateHz sets the sweep rate in Hz.
func WithBarberPoleRateHz(rateHz float64) BarberPoleOption {
	return func(cfg *barberPoleConfig) error {
		if err := validateRate("barber pole", rateHz); err != nil {
			return err
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithBarberPoleDepth sets the sweep length in seconds.
func WithBarberPoleDepth(seconds float64) BarberPoleOption {
	return func(cfg *barberPoleConfig) error {
		if err := validateRange("barber pole", "depth", seconds, 0, maxBarberPoleDepthSeconds); err != nil {
			return err
		}
		cfg.depth = seconds
		return nil
	}
}

// WithBarberPoleBaseDelay sets the shortest delay in seconds.
func WithBarberPoleBaseDelay(seconds float64) BarberPoleOption {
	return func(cfg *barberPoleConfig) error {
		if err := validateRange("barber pole", "base delay", seconds, 0, maxBarberPoleBaseSeconds); err != nil {
			return err
		}
		cfg.base = seconds
		return nil
	}
}

// WithBarberPoleFeedback sets the per-line feedback in [-0.99, 0.99].
func WithBarberPoleFeedback(feedback float64) BarberPoleOption {
	return func(cfg *barberPoleConfig) error {
		if err := validateRange("barber pole", "feedback", feedback, -maxFlangerFeedback, maxFlangerFeedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithBarberPoleMix sets the wet amount in [0, 1].
func WithBarberPoleMix(mix float64) BarberPoleOption {
	return func(cfg *barberPoleConfig) error {
		if err := validateRange("barber pole", "mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithBarberPoleDirection selects the sweep direction.
func WithBarberPoleDirection(d Direction) BarberPoleOption {
	return func(cfg *barberPoleConfig) error {
		if d != Up && d != Down {
			return fmt.Errorf("barber pole direction is unknown: %d", int(d))
		}
		cfg.direction = d
		return nil
	}
}

// BarberPole is a flanger whose notches appear to move in one direction
// forever. Two delay lines are swept by sawtooth ramps half a cycle apart.
// Each tap is weighted by a triangle that is zero at its ramp reset, so the
// jump is never heard, and the two weights always sum to one:
//
//	w(p) = 1 - |2p - 1|
type BarberPole struct {
	direction Direction

	lines [2]*delay.MultiLine
	oscs  [2]*lfo.LFO

	rateHz   core.Param
	depth    core.Param
	base     core.Param
	feedback core.Param
	mix      core.Param

	sampleRate float64
	channels   int
	rate       float64

	depthRamp core.Ramp
	baseRamp  core.Ramp
	fbRamp    core.Ramp
	mixRamp   core.Ramp
}

var _ core.Processor = (*BarberPole)(nil)

// NewBarberPole creates a barber-pole flanger with practical defaults and
// optional overrides.
func NewBarberPole(opts ...BarberPoleOption) (*BarberPole, error) {
	cfg := defaultBarberPoleConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	b := &BarberPole{direction: cfg.direction, rate: cfg.rateHz}
	for i, phase := range [2]float64{0, 0.5} {
		osc, err := lfo.New(
			lfo.WithWaveform(lfo.Sawtooth),
			lfo.WithRateHz(cfg.rateHz),
			lfo.WithPhase(phase),
		)
		if err != nil {
			return nil, fmt.Errorf("barber pole: %w", err)
		}
		b.oscs[i] = osc
		b.lines[i] = delay.NewMulti()
	}

	b.rateHz.Store(cfg.rateHz)
	b.depth.Store(cfg.depth)
	b.base.Store(cfg.base)
	b.feedback.Store(cfg.feedback)
	b.mix.Store(cfg.mix)
	b.snap()

	return b, nil
}

// Prepare sizes both delay lines and resets the ramps.
func (b *BarberPole) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("barber pole: %w", err)
	}

	lineCfg := cfg
	lineCfg.MaxDelaySeconds = maxBarberPoleBaseSeconds + maxBarberPoleDepthSeconds
	for i := range b.lines {
		if err := b.lines[i].Prepare(lineCfg); err != nil {
			return fmt.Errorf("barber pole: %w", err)
		}
		if err := b.oscs[i].Prepare(cfg); err != nil {
			return fmt.Errorf("barber pole: %w", err)
		}
	}

	b.sampleRate = cfg.SampleRate
	b.channels = cfg.Channels

	n := int(smoothingSeconds * cfg.SampleRate)
	b.depthRamp.SetLength(n)
	b.baseRamp.SetLength(n)
	b.fbRamp.SetLength(n)
	b.mixRamp.SetLength(n)

	b.Reset()
	return nil
}

// SetRateHz updates the sweep rate.
func (b *BarberPole) SetRateHz(rateHz float64) error {
	if err := validateRate("barber pole", rateHz); err != nil {
		return err
	}
	b.rateHz.Store(rateHz)
	return nil
}

// SetDepth updates the sweep length in seconds.
func (b *BarberPole) SetDepth(seconds float64) error {
	if err := validateRange("barber pole", "depth", seconds, 0, maxBarberPoleDepthSeconds); err != nil {
		return err
	}
	b.depth.Store(seconds)
	return nil
}

// SetBaseDelay updates the shortest delay in seconds.
func (b *BarberPole) SetBaseDelay(seconds float64) error {
	if err := validateRange("barber pole", "base delay", seconds, 0, maxBarberPoleBaseSeconds); err != nil {
		return err
	}
	b.base.Store(seconds)
	return nil
}

// SetFeedback updates the per-line feedback.
func (b *BarberPole) SetFeedback(feedback float64) error {
	if err := validateRange("barber pole", "feedback", feedback, -maxFlangerFeedback, maxFlangerFeedback); err != nil {
		return err
	}
	b.feedback.Store(feedback)
	return nil
}

// SetMix updates the wet amount.
func (b *BarberPole) SetMix(mix float64) error {
	if err := validateRange("barber pole", "mix", mix, 0, 1); err != nil {
		return err
	}
	b.mix.Store(mix)
	return nil
}

// RateHz returns the sweep rate in Hz.
func (b *BarberPole) RateHz() float64 { return b.rateHz.Load() }

// Depth returns the sweep length in seconds.
func (b *BarberPole) Depth() float64 { return b.depth.Load() }

// BaseDelay returns the shortest delay in seconds.
func (b *BarberPole) BaseDelay() float64 { return b.base.Load() }

// Feedback returns the per-line feedback.
func (b *BarberPole) Feedback() float64 { return b.feedback.Load() }

// Mix returns the wet amount.
func (b *BarberPole) Mix() float64 { return b.mix.Load() }

// Direction returns the sweep direction.
func (b *BarberPole) Direction() Direction { return b.direction }

// Weights returns the current crossfade weights of channel ch.
func (b *BarberPole) Weights(ch int) (float64, float64) {
	return crossfadeWeight(b.oscs[0].Phase(ch)), crossfadeWeight(b.oscs[1].Phase(ch))
}

func crossfadeWeight(phase float64) float64 {
	return 1 - math.Abs(2*phase-1)
}

func (b *BarberPole) snap() {
	b.depthRamp.SetImmediate(b.depth.Load())
	b.baseRamp.SetImmediate(b.base.Load())
	b.fbRamp.SetImmediate(b.feedback.Load())
	b.mixRamp.SetImmediate(b.mix.Load())
	b.pullRate()
}

func (b *BarberPole) pull() {
	b.depthRamp.SetTarget(b.depth.Load())
	b.baseRamp.SetTarget(b.base.Load())
	b.fbRamp.SetTarget(b.feedback.Load())
	b.mixRamp.SetTarget(b.mix.Load())
	b.pullRate()
}

func (b *BarberPole) pullRate() {
	if r := b.rateHz.Load(); r != b.rate {
		b.rate = r
		for _, osc := range b.oscs {
			_ = osc.SetRateHz(r)
		}
	}
}

// ProcessSample processes one sample of channel ch. Channel 0 advances the
// shared smoothers.
func (b *BarberPole) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= b.channels {
		return x
	}
	if ch == 0 {
		b.pull()
		b.depthRamp.Next()
		b.baseRamp.Next()
		b.fbRamp.Next()
		b.mixRamp.Next()
	}

	return b.tick(ch, x,
		b.baseRamp.Value()*b.sampleRate,
		b.depthRamp.Value()*b.sampleRate,
		b.fbRamp.Value(),
		b.mixRamp.Value())
}

// Process applies the effect to block in place.
func (b *BarberPole) Process(block [][]float64) {
	n := core.ChannelCount(block, b.channels)
	if n == 0 {
		return
	}
	b.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}

	for i := range frames {
		depth := b.depthRamp.Next() * b.sampleRate
		base := b.baseRamp.Next() * b.sampleRate
		fb := b.fbRamp.Next()
		mix := b.mixRamp.Next()

		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			buf[i] = b.tick(ch, buf[i], base, depth, fb, mix)
		}
	}
}

func (b *BarberPole) tick(ch int, x, base, depth, fb, mix float64) float64 {
	wet := 0.0
	var taps [2]float64
	for i := range b.lines {
		phase := b.oscs[i].Phase(ch)
		b.oscs[i].Next(ch)

		ramp := phase
		if b.direction == Up {
			ramp = 1 - phase
		}

		d := max(base+depth*ramp, 1)
		taps[i] = b.lines[i].PopAt(ch, d-1)
		wet += crossfadeWeight(phase) * taps[i]
	}

	for i := range b.lines {
		b.lines[i].Push(ch, core.FlushDenormals(x+fb*taps[i]))
	}

	return (1-mix)*x + mix*wet
}

// Reset clears both delay lines and restores the ramp phases.
func (b *BarberPole) Reset() {
	for i := range b.lines {
		b.lines[i].Reset()
		b.oscs[i].Reset()
	}
	b.snap()
}
