package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

// smoothingSeconds is the glide applied to depth, base delay, feedback and
// mix when a new value is picked up at a block boundary.
const smoothingSeconds = 0.02

// sweepConfig holds the construction parameters shared by the swept-delay
// effects. Times are in seconds.
type sweepConfig struct {
	rateHz      float64
	depth       float64
	base        float64
	feedback    float64
	mix         float64
	waveform    lfo.Waveform
	stereoPhase float64
	voices      int
}

// sweptDelay runs one fractional delay line per channel. Each voice reads
// it at base + depth*u(t), where u is the unipolar LFO value of that voice.
// The line input is x + feedback*wet, the output (1-mix)*x + mix*wet, or
// wet alone for wet-only effects.
type sweptDelay struct {
	name            string
	maxDelaySeconds float64
	wetOnly         bool
	voices          int
	stereoPhase     float64

	line *delay.MultiLine
	osc  *lfo.LFO

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

func newSweptDelay(name string, cfg sweepConfig, maxDelaySeconds float64, wetOnly bool) (*sweptDelay, error) {
	osc, err := lfo.New(lfo.WithWaveform(cfg.waveform), lfo.WithRateHz(cfg.rateHz))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	s := &sweptDelay{
		name:            name,
		maxDelaySeconds: maxDelaySeconds,
		wetOnly:         wetOnly,
		voices:          max(cfg.voices, 1),
		stereoPhase:     cfg.stereoPhase,
		line:            delay.NewMulti(),
		osc:             osc,
		rate:            cfg.rateHz,
	}
	s.rateHz.Store(cfg.rateHz)
	s.depth.Store(cfg.depth)
	s.base.Store(cfg.base)
	s.feedback.Store(cfg.feedback)
	s.mix.Store(cfg.mix)
	s.snap()

	return s, nil
}

func (s *sweptDelay) prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}

	lineCfg := cfg
	lineCfg.MaxDelaySeconds = s.maxDelaySeconds
	if err := s.line.Prepare(lineCfg); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}

	oscCfg := cfg
	oscCfg.Channels = cfg.Channels * s.voices
	if err := s.osc.Prepare(oscCfg); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}

	s.sampleRate = cfg.SampleRate
	s.channels = cfg.Channels

	n := int(smoothingSeconds * cfg.SampleRate)
	s.depthRamp.SetLength(n)
	s.baseRamp.SetLength(n)
	s.fbRamp.SetLength(n)
	s.mixRamp.SetLength(n)

	s.reset()
	return nil
}

// resetPhases spreads voices evenly over one cycle and offsets channel ch
// by ch*stereoPhase.
func (s *sweptDelay) resetPhases() {
	for ch := range s.channels {
		for v := range s.voices {
			phase := float64(ch)*s.stereoPhase + float64(v)/float64(s.voices)
			s.osc.SetPhase(ch*s.voices+v, phase)
		}
	}
}

// snap moves every smoother straight to its stored parameter.
func (s *sweptDelay) snap() {
	s.depthRamp.SetImmediate(s.depth.Load())
	s.baseRamp.SetImmediate(s.base.Load())
	s.fbRamp.SetImmediate(s.feedback.Load())
	s.mixRamp.SetImmediate(s.mix.Load())
	s.pullRate()
}

// pull retargets the smoothers from the stored parameters.
func (s *sweptDelay) pull() {
	s.depthRamp.SetTarget(s.depth.Load())
	s.baseRamp.SetTarget(s.base.Load())
	s.fbRamp.SetTarget(s.feedback.Load())
	s.mixRamp.SetTarget(s.mix.Load())
	s.pullRate()
}

func (s *sweptDelay) pullRate() {
	if r := s.rateHz.Load(); r != s.rate {
		s.rate = r
		_ = s.osc.SetRateHz(r)
	}
}

func (s *sweptDelay) reset() {
	s.line.Reset()
	s.osc.Reset()
	s.resetPhases()
	s.snap()
}

func (s *sweptDelay) process(block [][]float64) {
	n := core.ChannelCount(block, s.channels)
	if n == 0 {
		return
	}
	s.pull()

	frames := 0
	for ch := range n {
		frames = max(frames, len(block[ch]))
	}

	for i := range frames {
		depth := s.depthRamp.Next() * s.sampleRate
		base := s.baseRamp.Next() * s.sampleRate
		fb := s.fbRamp.Next()
		mix := s.mixRamp.Next()

		for ch := range n {
			buf := block[ch]
			if i >= len(buf) {
				continue
			}
			buf[i] = s.tick(ch, buf[i], base, depth, fb, mix)
		}
	}
}

// processSample runs one sample of channel ch. Channel 0 advances the
// shared smoothers; the other channels reuse its values.
func (s *sweptDelay) processSample(x float64, ch int) float64 {
	if ch < 0 || ch >= s.channels {
		return x
	}
	if ch == 0 {
		s.pull()
		s.depthRamp.Next()
		s.baseRamp.Next()
		s.fbRamp.Next()
		s.mixRamp.Next()
	}

	return s.tick(ch, x,
		s.baseRamp.Value()*s.sampleRate,
		s.depthRamp.Value()*s.sampleRate,
		s.fbRamp.Value(),
		s.mixRamp.Value())
}

// tick reads before writing so the feedback path sees the delayed sample
// of the current frame. A delay of d samples is read at d-1 before the
// push, which is the same sample as d after it.
func (s *sweptDelay) tick(ch int, x, base, depth, fb, mix float64) float64 {
	wet := 0.0
	first := ch * s.voices
	for v := range s.voices {
		d := max(base+depth*s.osc.NextUnipolar(first+v), 1)
		wet += s.line.PopAt(ch, d-1)
	}
	if s.voices > 1 {
		wet /= float64(s.voices)
	}

	s.line.Push(ch, core.FlushDenormals(x+fb*wet))

	if s.wetOnly {
		return wet
	}
	return (1-mix)*x + mix*wet
}

func validateRate(name string, rateHz float64) error {
	if rateHz <= 0 || rateHz > maxRateHz || !core.IsFinite(rateHz) {
		return fmt.Errorf("%s rate must be in (0, %g]: %f", name, maxRateHz, rateHz)
	}
	return nil
}

func validateRange(name, param string, v, lo, hi float64) error {
	if v < lo || v > hi || !core.IsFinite(v) {
		return fmt.Errorf("%s %s must be in [%g, %g]: %f", name, param, lo, hi, v)
	}
	return nil
}

// maxRateHz bounds every modulation LFO.
const maxRateHz = 20.0

func errVoices(voices int) error {
	return fmt.Errorf("chorus voices must be in [1, %d]: %d", maxChorusVoices, voices)
}

func errWaveform(name string, w lfo.Waveform) error {
	return fmt.Errorf("%s waveform is unknown: %d", name, int(w))
}
