package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/interp"
)

const (
	defaultDopplerRatio         = 1.0
	defaultDopplerWindowSeconds = 0.05
	defaultDopplerMix           = 1.0

	minDopplerRatio         = 0.25
	maxDopplerRatio         = 4.0
	minDopplerWindowSeconds = 0.005
	maxDopplerWindowSeconds = 0.5

	mixGlideSeconds = 0.02
)

// DopplerOption mutates Doppler shifter construction parameters.
type DopplerOption func(*dopplerConfig) error

type dopplerConfig struct {
	ratio     float64
	window    float64
	mix       float64
	crossfade bool
	mode      interp.Mode
}

func defaultDopplerConfig() dopplerConfig {
	return dopplerConfig{
		ratio:  defaultDopplerRatio,
		window: defaultDopplerWindowSeconds,
		mix:    defaultDopplerMix,
		mode:   interp.Linear,
	}
}

// WithDopplerRatio sets the playback speed ratio in [0.25, 4].
// Ratios above 1 raise the pitch.
func WithDopplerRatio(ratio float64) DopplerOption {
	return func(cfg *dopplerConfig) error {
		if err := validateRatio(ratio); err != nil {
			return err
		}
		cfg.ratio = ratio
		return nil
	}
}

// WithDopplerSemitones sets the ratio as a transposition in semitones.
func WithDopplerSemitones(semitones float64) DopplerOption {
	return func(cfg *dopplerConfig) error {
		ratio := SemitonesToRatio(semitones)
		if err := validateRatio(ratio); err != nil {
			return err
		}
		cfg.ratio = ratio
		return nil
	}
}

// WithDopplerWindow sets the sweep window in seconds, [0.005, 0.5]. The
// delay resets once per window length of sweep.
func WithDopplerWindow(seconds float64) DopplerOption {
	return func(cfg *dopplerConfig) error {
		if err := validateWindow(seconds); err != nil {
			return err
		}
		cfg.window = seconds
		return nil
	}
}

// WithDopplerWindowMs sets the sweep window in milliseconds.
func WithDopplerWindowMs(ms float64) DopplerOption {
	return WithDopplerWindow(ms / 1000)
}

// WithDopplerMix sets the wet amount in [0, 1].
func WithDopplerMix(mix float64) DopplerOption {
	return func(cfg *dopplerConfig) error {
		if err := validateMix(mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithDopplerCrossfade reads a second tap half a window away and blends
// the two with complementary triangular weights, hiding the reset jump.
func WithDopplerCrossfade(enabled bool) DopplerOption {
	return func(cfg *dopplerConfig) error {
		cfg.crossfade = enabled
		return nil
	}
}

// WithDopplerInterpolation selects the read interpolation of the delay line.
func WithDopplerInterpolation(mode interp.Mode) DopplerOption {
	return func(cfg *dopplerConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("doppler interpolation is unknown: %d", int(mode))
		}
		cfg.mode = mode
		return nil
	}
}

func validateRatio(ratio float64) error {
	if ratio < minDopplerRatio || ratio > maxDopplerRatio || !core.IsFinite(ratio) {
		return fmt.Errorf("doppler pitch ratio must be in [%g, %g]: %f", minDopplerRatio, maxDopplerRatio, ratio)
	}
	return nil
}

func validateWindow(seconds float64) error {
	if seconds < minDopplerWindowSeconds || seconds > maxDopplerWindowSeconds || !core.IsFinite(seconds) {
		return fmt.Errorf("doppler window must be in [%g, %g] s: %f",
			minDopplerWindowSeconds, maxDopplerWindowSeconds, seconds)
	}
	return nil
}

func validateMix(mix float64) error {
	if mix < 0 || mix > 1 || !core.IsFinite(mix) {
		return fmt.Errorf("doppler mix must be in [0, 1]: %f", mix)
	}
	return nil
}

// SemitonesToRatio converts a transposition in semitones to a speed ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// RatioToSemitones converts a speed ratio to semitones.
func RatioToSemitones(ratio float64) float64 {
	return 12 * math.Log2(ratio)
}

// DopplerShifter changes pitch by sweeping the read position of a delay
// line at a constant speed. The delay moves by 1-ratio samples per sample,
// so the output plays the input back at ratio times its speed. When the
// delay leaves [0, window] it jumps to the opposite end, which produces an
// audible click once per cycle unless crossfading is enabled.
//
// The sweep position is kept as a phase in [0, 1) per channel.
type DopplerShifter struct {
	line      *delay.MultiLine
	crossfade bool

	ratio  core.Param
	window core.Param
	mix    core.Param

	sampleRate float64
	channels   int
	phases     []float64

	curRatio float64
	span     float64
	step     float64
	mixRamp  core.Ramp
}

var _ PitchProcessor = (*DopplerShifter)(nil)

// NewDopplerShifter creates a Doppler shifter with optional overrides.
func NewDopplerShifter(opts ...DopplerOption) (*DopplerShifter, error) {
	cfg := defaultDopplerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &DopplerShifter{
		line:      delay.NewMulti(delay.WithMode(cfg.mode)),
		crossfade: cfg.crossfade,
	}
	p.ratio.Store(cfg.ratio)
	p.window.Store(cfg.window)
	p.mix.Store(cfg.mix)
	p.mixRamp.SetImmediate(cfg.mix)

	return p, nil
}

// NewPitchUp creates a shifter that raises the pitch by semitones >= 0.
func NewPitchUp(semitones float64, opts ...DopplerOption) (*DopplerShifter, error) {
	if semitones < 0 || !core.IsFinite(semitones) {
		return nil, fmt.Errorf("pitch up semitones must be >= 0: %f", semitones)
	}
	return NewDopplerShifter(append([]DopplerOption{WithDopplerSemitones(semitones)}, opts...)...)
}

// NewPitchDown creates a shifter that lowers the pitch by semitones >= 0.
func NewPitchDown(semitones float64, opts ...DopplerOption) (*DopplerShifter, error) {
	if semitones < 0 || !core.IsFinite(semitones) {
		return nil, fmt.Errorf("pitch down semitones must be >= 0: %f", semitones)
	}
	return NewDopplerShifter(append([]DopplerOption{WithDopplerSemitones(-semitones)}, opts...)...)
}

// Prepare sizes the delay line for the longest window and resets the sweep.
func (p *DopplerShifter) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("doppler: %w", err)
	}

	lineCfg := cfg
	lineCfg.MaxDelaySeconds = maxDopplerWindowSeconds
	if err := p.line.Prepare(lineCfg); err != nil {
		return fmt.Errorf("doppler: %w", err)
	}

	p.sampleRate = cfg.SampleRate
	p.channels = cfg.Channels
	p.phases = make([]float64, cfg.Channels)
	p.mixRamp.SetLength(int(mixGlideSeconds * cfg.SampleRate))

	p.Reset()
	return nil
}

// SetPitchRatio sets the playback speed ratio.
func (p *DopplerShifter) SetPitchRatio(ratio float64) error {
	if err := validateRatio(ratio); err != nil {
		return err
	}
	p.ratio.Store(ratio)
	return nil
}

// SetPitchSemitones sets the transposition in semitones.
func (p *DopplerShifter) SetPitchSemitones(semitones float64) error {
	return p.SetPitchRatio(SemitonesToRatio(semitones))
}

// SetWindow sets the sweep window in seconds.
func (p *DopplerShifter) SetWindow(seconds float64) error {
	if err := validateWindow(seconds); err != nil {
		return err
	}
	p.window.Store(seconds)
	return nil
}

// SetMix sets the wet amount.
func (p *DopplerShifter) SetMix(mix float64) error {
	if err := validateMix(mix); err != nil {
		return err
	}
	p.mix.Store(mix)
	return nil
}

// PitchRatio returns the playback speed ratio.
func (p *DopplerShifter) PitchRatio() float64 { return p.ratio.Load() }

// PitchSemitones returns the transposition in semitones.
func (p *DopplerShifter) PitchSemitones() float64 { return RatioToSemitones(p.ratio.Load()) }

// Window returns the sweep window in seconds.
func (p *DopplerShifter) Window() float64 { return p.window.Load() }

// Mix returns the wet amount.
func (p *DopplerShifter) Mix() float64 { return p.mix.Load() }

// Crossfade reports whether the two-tap crossfade is enabled.
func (p *DopplerShifter) Crossfade() bool { return p.crossfade }

// CurrentDelaySamples returns the primary tap delay of channel ch.
func (p *DopplerShifter) CurrentDelaySamples(ch int) float64 {
	if ch < 0 || ch >= len(p.phases) {
		return 0
	}
	return p.phases[ch] * p.span
}

// pull picks up ratio, window and mix changes. The sweep phase is kept, so
// a window change rescales the current delay.
func (p *DopplerShifter) pull() {
	p.mixRamp.SetTarget(p.mix.Load())

	ratio := p.ratio.Load()
	span := min(p.window.Load()*p.sampleRate, p.line.MaxDelay())
	if ratio == p.curRatio && span == p.span {
		return
	}
	p.curRatio = ratio
	p.span = span
	p.step = (1 - ratio) / span
}

func crossfadeWeight(phase float64) float64 {
	return 1 - math.Abs(2*phase-1)
}

func wrap(phase float64) float64 {
	phase -= math.Floor(phase)
	if phase >= 1 {
		return 0
	}
	return phase
}

func (p *DopplerShifter) tick(ch int, x, mix float64) float64 {
	p.line.Push(ch, x)

	phase := p.phases[ch]
	var wet float64
	if p.crossfade {
		other := wrap(phase + 0.5)
		wet = crossfadeWeight(phase)*p.line.PopAt(ch, phase*p.span) +
			crossfadeWeight(other)*p.line.PopAt(ch, other*p.span)
	} else {
		wet = p.line.PopAt(ch, phase*p.span)
	}
	p.phases[ch] = wrap(phase + p.step)

	return (1-mix)*x + mix*wet
}

// ProcessSample processes one sample of channel ch. Channel 0 picks up
// parameter changes and advances the mix smoother.
func (p *DopplerShifter) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= p.channels {
		return x
	}
	if ch == 0 {
		p.pull()
		p.mixRamp.Next()
	}
	return p.tick(ch, x, p.mixRamp.Value())
}

// Process shifts block in place.
func (p *DopplerShifter) Process(block [][]float64) {
	n := core.ChannelCount(block, p.channels)
	if n == 0 {
		return
	}
	p.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}

	for i := range frames {
		mix := p.mixRamp.Next()
		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			buf[i] = p.tick(ch, buf[i], mix)
		}
	}
}

// Reset clears the delay line and restarts every channel at zero delay.
func (p *DopplerShifter) Reset() {
	p.line.Reset()
	for ch := range p.phases {
		p.phases[ch] = 0
	}
	p.mixRamp.SetImmediate(p.mix.Load())
	p.curRatio = 0
	p.span = 0
	if p.sampleRate > 0 {
		p.pull()
	}
}
