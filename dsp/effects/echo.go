package effects

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
)

// EchoMode selects how the echo channels are routed.
type EchoMode int

const (
	// EchoFeedback runs an independent feedback loop per channel with a
	// shared time.
	EchoFeedback EchoMode = iota
	// EchoStereo is EchoFeedback with separate left and right times.
	EchoStereo
	// EchoPingPong feeds each side of a stereo pair into the other, so
	// repeats alternate between the channels.
	EchoPingPong
)

// String returns the mode name.
func (m EchoMode) String() string {
	switch m {
	case EchoFeedback:
		return "feedback"
	case EchoStereo:
		return "stereo"
	case EchoPingPong:
		return "pingpong"
	default:
		return fmt.Sprintf("EchoMode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m EchoMode) Valid() bool { return m >= EchoFeedback && m <= EchoPingPong }

const (
	defaultEchoTimeSeconds = 0.3
	defaultEchoFeedback    = 0.45
	defaultEchoMix         = 0.35
	defaultEchoDampingHz   = 6000.0
)

type echoConfig struct {
	mode      EchoMode
	left      *delayTime
	right     *delayTime
	feedback  float64
	mix       float64
	dampingHz float64
}

// EchoOption mutates echo construction parameters.
type EchoOption func(*echoConfig) error

func defaultEchoConfig() echoConfig {
	return echoConfig{
		mode:      EchoFeedback,
		left:      secondsTime(defaultEchoTimeSeconds),
		right:     secondsTime(defaultEchoTimeSeconds),
		feedback:  defaultEchoFeedback,
		mix:       defaultEchoMix,
		dampingHz: defaultEchoDampingHz,
	}
}

// WithEchoMode selects the channel routing.
func WithEchoMode(mode EchoMode) EchoOption {
	return func(cfg *echoConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("echo mode is unknown: %d", int(mode))
		}
		cfg.mode = mode
		return nil
	}
}

// WithEchoTime sets the repeat time of both sides in seconds.
func WithEchoTime(seconds float64) EchoOption {
	return func(cfg *echoConfig) error {
		if err := validateSeconds("echo", seconds); err != nil {
			return err
		}
		cfg.left = secondsTime(seconds)
		cfg.right = cfg.left
		return nil
	}
}

// WithEchoStereoTimes sets separate left and right repeat times in seconds.
func WithEchoStereoTimes(left, right float64) EchoOption {
	return func(cfg *echoConfig) error {
		if err := validateSeconds("echo", left); err != nil {
			return err
		}
		if err := validateSeconds("echo", right); err != nil {
			return err
		}
		cfg.left = secondsTime(left)
		cfg.right = secondsTime(right)
		return nil
	}
}

// WithEchoSamples sets the repeat time of both sides in samples.
func WithEchoSamples(samples float64) EchoOption {
	return func(cfg *echoConfig) error {
		if err := validateSamples("echo", samples); err != nil {
			return err
		}
		cfg.left = samplesTime(samples)
		cfg.right = cfg.left
		return nil
	}
}

// WithEchoBPM syncs both repeat times to beats at bpm.
func WithEchoBPM(bpm, beats float64) EchoOption {
	return func(cfg *echoConfig) error {
		seconds, err := bpmSeconds("echo", bpm, beats)
		if err != nil {
			return err
		}
		cfg.left = secondsTime(seconds)
		cfg.right = cfg.left
		return nil
	}
}

// WithEchoFeedback sets the repeat gain in [-0.99, 0.99].
func WithEchoFeedback(feedback float64) EchoOption {
	return func(cfg *echoConfig) error {
		if err := validateFeedback("echo", feedback); err != nil {
			return err
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithEchoMix sets the wet amount in [0, 1].
func WithEchoMix(mix float64) EchoOption {
	return func(cfg *echoConfig) error {
		if err := validateMix("echo", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithEchoDamping sets the cutoff of the low-pass in the feedback path.
// 0 disables damping.
func WithEchoDamping(hz float64) EchoOption {
	return func(cfg *echoConfig) error {
		if err := validateDamping(hz); err != nil {
			return err
		}
		cfg.dampingHz = hz
		return nil
	}
}

func validateDamping(hz float64) error {
	if hz < 0 || !core.IsFinite(hz) {
		return fmt.Errorf("echo damping must be >= 0 and finite: %f", hz)
	}
	return nil
}

// Echo is a feedback delay with a low-pass in the loop, so every repeat is
// darker than the one before. Repeat times are at least one sample.
type Echo struct {
	mode EchoMode
	line *delay.MultiLine

	left      atomic.Pointer[delayTime]
	right     atomic.Pointer[delayTime]
	feedback  core.Param
	mix       core.Param
	dampingHz core.Param

	sampleRate float64
	channels   int
	damping    float64
	dampers    []*biquad.Section
	wet        []float64

	leftRamp  core.Ramp
	rightRamp core.Ramp
	fbRamp    core.Ramp
	mixRamp   core.Ramp
}

var _ core.Processor = (*Echo)(nil)

// NewEcho creates an echo with practical defaults and optional overrides.
func NewEcho(opts ...EchoOption) (*Echo, error) {
	cfg := defaultEchoConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	e := &Echo{mode: cfg.mode, line: delay.NewMulti(), damping: -1}
	e.left.Store(cfg.left)
	e.right.Store(cfg.right)
	e.feedback.Store(cfg.feedback)
	e.mix.Store(cfg.mix)
	e.dampingHz.Store(cfg.dampingHz)

	return e, nil
}

// Prepare sizes the delay line and builds one damping filter per channel.
func (e *Echo) Prepare(cfg core.ProcessorConfig) error {
	if err := e.line.Prepare(cfg); err != nil {
		return fmt.Errorf("echo: %w", err)
	}

	e.sampleRate = cfg.SampleRate
	e.channels = cfg.Channels
	e.dampers = make([]*biquad.Section, cfg.Channels)
	for ch := range e.dampers {
		e.dampers[ch] = biquad.NewSection(biquad.Identity())
	}
	e.wet = make([]float64, cfg.Channels)
	e.damping = -1

	glide := int(timeGlideSeconds * cfg.SampleRate)
	e.leftRamp.SetLength(glide)
	e.rightRamp.SetLength(glide)
	e.fbRamp.SetLength(int(paramGlideSeconds * cfg.SampleRate))
	e.mixRamp.SetLength(int(paramGlideSeconds * cfg.SampleRate))

	e.Reset()
	return nil
}

// Mode returns the channel routing.
func (e *Echo) Mode() EchoMode { return e.mode }

// SetTime sets both repeat times in seconds.
func (e *Echo) SetTime(seconds float64) error {
	if err := validateSeconds("echo", seconds); err != nil {
		return err
	}
	t := secondsTime(seconds)
	e.left.Store(t)
	e.right.Store(t)
	return nil
}

// SetStereoTimes sets separate left and right repeat times in seconds.
func (e *Echo) SetStereoTimes(left, right float64) error {
	if err := validateSeconds("echo", left); err != nil {
		return err
	}
	if err := validateSeconds("echo", right); err != nil {
		return err
	}
	e.left.Store(secondsTime(left))
	e.right.Store(secondsTime(right))
	return nil
}

// SetBPM syncs both repeat times to beats at bpm.
func (e *Echo) SetBPM(bpm, beats float64) error {
	seconds, err := bpmSeconds("echo", bpm, beats)
	if err != nil {
		return err
	}
	return e.SetTime(seconds)
}

// SetFeedback sets the repeat gain.
func (e *Echo) SetFeedback(feedback float64) error {
	if err := validateFeedback("echo", feedback); err != nil {
		return err
	}
	e.feedback.Store(feedback)
	return nil
}

// SetMix sets the wet amount.
func (e *Echo) SetMix(mix float64) error {
	if err := validateMix("echo", mix); err != nil {
		return err
	}
	e.mix.Store(mix)
	return nil
}

// SetDamping sets the feedback low-pass cutoff; 0 disables it.
func (e *Echo) SetDamping(hz float64) error {
	if err := validateDamping(hz); err != nil {
		return err
	}
	e.dampingHz.Store(hz)
	return nil
}

// Times returns the left and right repeat times in seconds.
func (e *Echo) Times() (float64, float64) {
	return e.left.Load().seconds(e.sampleRate), e.right.Load().seconds(e.sampleRate)
}

// Feedback returns the repeat gain.
func (e *Echo) Feedback() float64 { return e.feedback.Load() }

// Mix returns the wet amount.
func (e *Echo) Mix() float64 { return e.mix.Load() }

// Damping returns the feedback low-pass cutoff in Hz.
func (e *Echo) Damping() float64 { return e.dampingHz.Load() }

// DampingCoefficients returns the coefficients of the feedback low-pass.
func (e *Echo) DampingCoefficients() biquad.Coefficients {
	if len(e.dampers) == 0 {
		return biquad.Identity()
	}
	return e.dampers[0].Coefficients
}

func (e *Echo) clampTime(t *delayTime) float64 {
	return core.Clamp(t.samples(e.sampleRate), 1, max(e.line.MaxDelay(), 1))
}

func (e *Echo) updateDamping() {
	hz := e.dampingHz.Load()
	if hz == e.damping {
		return
	}
	e.damping = hz

	c := biquad.Identity()
	if hz > 0 {
		c = design.Lowpass(hz, core.DefaultQ, e.sampleRate)
	}
	for _, s := range e.dampers {
		s.SetCoefficients(c)
	}
}

func (e *Echo) pull() {
	e.leftRamp.SetTarget(e.clampTime(e.left.Load()))
	e.rightRamp.SetTarget(e.clampTime(e.right.Load()))
	e.fbRamp.SetTarget(e.feedback.Load())
	e.mixRamp.SetTarget(e.mix.Load())
	e.updateDamping()
}

// source returns the channel whose repeat feeds channel ch.
func (e *Echo) source(ch, n int) int {
	if e.mode == EchoPingPong && n >= 2 && ch < 2 {
		return 1 - ch
	}
	return ch
}

func (e *Echo) timeFor(ch int, left, right float64) float64 {
	if e.mode != EchoFeedback && ch == 1 {
		return right
	}
	return left
}

// Process applies the echo to block in place.
func (e *Echo) Process(block [][]float64) {
	n := core.ChannelCount(block, e.channels)
	if n == 0 {
		return
	}
	e.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}

	for i := range frames {
		left := e.leftRamp.Next()
		right := e.rightRamp.Next()
		fb := e.fbRamp.Next()
		mix := e.mixRamp.Next()

		for ch := range n {
			e.wet[ch] = e.line.PopAt(ch, e.timeFor(ch, left, right)-1)
		}
		for ch := range n {
			if i >= len(block[ch]) {
				continue
			}
			x := block[ch][i]
			loop := e.dampers[ch].ProcessSample(e.wet[e.source(ch, n)])
			e.line.Push(ch, core.FlushDenormals(x+fb*loop))
			block[ch][i] = (1-mix)*x + mix*e.wet[ch]
		}
	}
}

// Reset clears the line and the damping filters.
func (e *Echo) Reset() {
	e.line.Reset()
	for ch, s := range e.dampers {
		s.Reset()
		e.wet[ch] = 0
	}
	e.leftRamp.SetImmediate(e.clampTime(e.left.Load()))
	e.rightRamp.SetImmediate(e.clampTime(e.right.Load()))
	e.fbRamp.SetImmediate(e.feedback.Load())
	e.mixRamp.SetImmediate(e.mix.Load())
	e.updateDamping()
}
