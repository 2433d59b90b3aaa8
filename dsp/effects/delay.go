package effects

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/interp"
)

const (
	defaultDelayTimeSeconds = 0.25
	defaultDelayFeedback    = 0.35
	defaultDelayMix         = 0.25
)

type delayConfig struct {
	time     *delayTime
	feedback float64
	mix      float64
	mode     interp.Mode
}

// DelayOption mutates delay construction parameters.
type DelayOption func(*delayConfig) error

func defaultDelayConfig() delayConfig {
	return delayConfig{
		time:     secondsTime(defaultDelayTimeSeconds),
		feedback: defaultDelayFeedback,
		mix:      defaultDelayMix,
		mode:     interp.Linear,
	}
}

// WithDelayTime sets the delay time in seconds.
func WithDelayTime(seconds float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := validateSeconds("delay", seconds); err != nil {
			return err
		}
		cfg.time = secondsTime(seconds)
		return nil
	}
}

// WithDelayTimeMs sets the delay time in milliseconds.
func WithDelayTimeMs(ms float64) DelayOption {
	return WithDelayTime(ms / 1000)
}

// WithDelaySamples sets the delay time in (possibly fractional) samples.
func WithDelaySamples(samples float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := validateSamples("delay", samples); err != nil {
			return err
		}
		cfg.time = samplesTime(samples)
		return nil
	}
}

// WithDelayBPM syncs the delay time to beats at the given tempo.
func WithDelayBPM(bpm, beats float64) DelayOption {
	return func(cfg *delayConfig) error {
		seconds, err := bpmSeconds("delay", bpm, beats)
		if err != nil {
			return err
		}
		cfg.time = secondsTime(seconds)
		return nil
	}
}

// WithDelayFeedback sets the feedback amount in [-0.99, 0.99].
func WithDelayFeedback(feedback float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := validateFeedback("delay", feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithDelayMix sets the wet amount in [0, 1].
func WithDelayMix(mix float64) DelayOption {
	return func(cfg *delayConfig) error {
		if err := validateMix("delay", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithDelayInterpolation selects the fractional read algorithm.
func WithDelayInterpolation(mode interp.Mode) DelayOption {
	return func(cfg *delayConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("delay interpolation is unknown: %d", int(mode))
		}
		cfg.mode = mode
		return nil
	}
}

// Delay is a feedback delay with dry/wet mix. The time may be given in
// seconds, milliseconds, samples or beats at a tempo, and may be
// fractional. Time changes glide over 50 ms so the read position never
// jumps.
//
// For a delay of d >= 1 samples each channel computes
//
//	wet  = line[n - d]
//	line <- x + feedback*wet
//	y    = (1-mix)*x + mix*wet
//
// Below one sample the feedback loop cannot close, so the input is pushed
// first and read back at d with feedback ignored.
type Delay struct {
	line *delay.MultiLine

	time     atomic.Pointer[delayTime]
	feedback core.Param
	mix      core.Param

	sampleRate float64
	channels   int

	timeRamp core.Ramp
	fbRamp   core.Ramp
	mixRamp  core.Ramp
}

var _ core.Processor = (*Delay)(nil)

// NewDelay creates a delay with practical defaults and optional overrides.
func NewDelay(opts ...DelayOption) (*Delay, error) {
	cfg := defaultDelayConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	d := &Delay{line: delay.NewMulti(delay.WithMode(cfg.mode))}
	d.time.Store(cfg.time)
	d.feedback.Store(cfg.feedback)
	d.mix.Store(cfg.mix)
	d.fbRamp.SetImmediate(cfg.feedback)
	d.mixRamp.SetImmediate(cfg.mix)

	return d, nil
}

// Prepare sizes the delay line to cfg.MaxDelaySeconds and clears it.
func (d *Delay) Prepare(cfg core.ProcessorConfig) error {
	if err := d.line.Prepare(cfg); err != nil {
		return fmt.Errorf("delay: %w", err)
	}

	d.sampleRate = cfg.SampleRate
	d.channels = cfg.Channels
	d.timeRamp.SetLength(int(timeGlideSeconds * cfg.SampleRate))
	d.fbRamp.SetLength(int(paramGlideSeconds * cfg.SampleRate))
	d.mixRamp.SetLength(int(paramGlideSeconds * cfg.SampleRate))

	d.Reset()
	return nil
}

// SetTime sets the delay time in seconds.
func (d *Delay) SetTime(seconds float64) error {
	if err := validateSeconds("delay", seconds); err != nil {
		return err
	}
	d.time.Store(secondsTime(seconds))
	return nil
}

// SetTimeMs sets the delay time in milliseconds.
func (d *Delay) SetTimeMs(ms float64) error {
	return d.SetTime(ms / 1000)
}

// SetTimeSamples sets the delay time in samples.
func (d *Delay) SetTimeSamples(samples float64) error {
	if err := validateSamples("delay", samples); err != nil {
		return err
	}
	d.time.Store(samplesTime(samples))
	return nil
}

// SetBPM syncs the delay time to beats at bpm.
func (d *Delay) SetBPM(bpm, beats float64) error {
	seconds, err := bpmSeconds("delay", bpm, beats)
	if err != nil {
		return err
	}
	d.time.Store(secondsTime(seconds))
	return nil
}

// SetFeedback sets the feedback amount.
func (d *Delay) SetFeedback(feedback float64) error {
	if err := validateFeedback("delay", feedback); err != nil {
		return err
	}
	d.feedback.Store(feedback)
	return nil
}

// SetMix sets the wet amount.
func (d *Delay) SetMix(mix float64) error {
	if err := validateMix("delay", mix); err != nil {
		return err
	}
	d.mix.Store(mix)
	return nil
}

// Time returns the requested delay time in seconds. Before Prepare a time
// set in samples reports 0.
func (d *Delay) Time() float64 { return d.time.Load().seconds(d.sampleRate) }

// Feedback returns the feedback amount.
func (d *Delay) Feedback() float64 { return d.feedback.Load() }

// Mix returns the wet amount.
func (d *Delay) Mix() float64 { return d.mix.Load() }

// CurrentDelaySamples returns the delay in samples the line is reading at,
// including any glide in progress.
func (d *Delay) CurrentDelaySamples() float64 { return d.timeRamp.Value() }

// MaxDelaySamples returns the longest delay the prepared line can serve.
func (d *Delay) MaxDelaySamples() float64 { return d.line.MaxDelay() }

func (d *Delay) targetSamples() float64 {
	return core.Clamp(d.time.Load().samples(d.sampleRate), 0, d.line.MaxDelay())
}

func (d *Delay) pull() {
	d.timeRamp.SetTarget(d.targetSamples())
	d.fbRamp.SetTarget(d.feedback.Load())
	d.mixRamp.SetTarget(d.mix.Load())
}

func (d *Delay) tick(ch int, x, delaySamples, fb, mix float64) float64 {
	var wet float64
	if delaySamples < 1 {
		d.line.Push(ch, x)
		wet = d.line.PopAt(ch, delaySamples)
	} else {
		wet = d.line.PopAt(ch, delaySamples-1)
		d.line.Push(ch, core.FlushDenormals(x+fb*wet))
	}
	return (1-mix)*x + mix*wet
}

// ProcessSample processes one sample of channel ch. Channel 0 advances the
// shared smoothers.
func (d *Delay) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= d.channels {
		return x
	}
	if ch == 0 {
		d.pull()
		d.timeRamp.Next()
		d.fbRamp.Next()
		d.mixRamp.Next()
	}
	return d.tick(ch, x, d.timeRamp.Value(), d.fbRamp.Value(), d.mixRamp.Value())
}

// Process applies the delay to block in place.
func (d *Delay) Process(block [][]float64) {
	n := core.ChannelCount(block, d.channels)
	if n == 0 {
		return
	}
	d.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}
	for i := range frames {
		delaySamples := d.timeRamp.Next()
		fb := d.fbRamp.Next()
		mix := d.mixRamp.Next()
		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			buf[i] = d.tick(ch, buf[i], delaySamples, fb, mix)
		}
	}
}

// Reset clears the line and snaps every smoother to its target.
func (d *Delay) Reset() {
	d.line.Reset()
	d.timeRamp.SetImmediate(d.targetSamples())
	d.fbRamp.SetImmediate(d.feedback.Load())
	d.mixRamp.SetImmediate(d.mix.Load())
}
