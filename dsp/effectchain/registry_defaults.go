package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/effects"
	"github.com/cwbudde/algo-fx/dsp/effects/modulation"
	"github.com/cwbudde/algo-fx/dsp/effects/pitch"
	"github.com/cwbudde/algo-fx/dsp/pan"
)

const msToSeconds = 1e-3

// parseEnum resolves name against the String of each value.
func parseEnum[T fmt.Stringer](kind, name string, values ...T) (T, error) {
	for _, v := range values {
		if v.String() == name {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, name)
}

func intParam(p Params, key string, def int) int {
	return int(math.Round(p.GetNum(key, float64(def))))
}

// DefaultRegistry returns a Registry pre-populated with all built-in effect runtimes.
//
//nolint:funlen
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("chorus", func(p Params) (Runtime, error) {
		fx, err := modulation.NewChorus(modulation.WithChorusVoices(intParam(p, "voices", 3)))
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.Chorus, s *setter) {
			s.set("rateHz", fx.SetRateHz)
			s.set("depth", fx.SetDepth)
			s.set("baseDelay", fx.SetBaseDelay)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("flanger", func(Params) (Runtime, error) {
		fx, err := modulation.NewFlanger()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.Flanger, s *setter) {
			s.set("rateHz", fx.SetRateHz)
			s.set("depth", fx.SetDepth)
			s.set("baseDelay", fx.SetBaseDelay)
			s.set("feedback", fx.SetFeedback)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("vibrato", func(Params) (Runtime, error) {
		fx, err := modulation.NewVibrato()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.Vibrato, s *setter) {
			s.set("rateHz", fx.SetRateHz)
			s.set("depth", fx.SetDepth)
			s.set("baseDelay", fx.SetBaseDelay)
		}), nil
	})
	r.MustRegister("barberpole", func(p Params) (Runtime, error) {
		dir, err := parseEnum("direction", p.GetStr("direction", "up"), modulation.Up, modulation.Down)
		if err != nil {
			return nil, err
		}
		fx, err := modulation.NewBarberPole(modulation.WithBarberPoleDirection(dir))
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.BarberPole, s *setter) {
			s.set("rateHz", fx.SetRateHz)
			s.set("depth", fx.SetDepth)
			s.set("baseDelay", fx.SetBaseDelay)
			s.set("feedback", fx.SetFeedback)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("phaser", func(p Params) (Runtime, error) {
		fx, err := modulation.NewPhaser(modulation.WithPhaserStages(intParam(p, "stages", 6)))
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.Phaser, s *setter) {
			s.set("rateHz", fx.SetRateHz)
			s.set("feedback", fx.SetFeedback)
			s.set("mix", fx.SetMix)
			_, hasMin := s.p.num("minHz")
			_, hasMax := s.p.num("maxHz")
			if hasMin || hasMax {
				lo := s.p.GetNum("minHz", fx.MinFrequencyHz())
				hi := s.p.GetNum("maxHz", fx.MaxFrequencyHz())
				if err := fx.SetFrequencyRangeHz(lo, hi); err != nil {
					s.errs = append(s.errs, fmt.Errorf("%s.frequencyRange: %w", s.p.ID, err))
				}
			}
		}), nil
	})
	r.MustRegister("tremolo", func(Params) (Runtime, error) {
		fx, err := modulation.NewTremolo()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.Tremolo, s *setter) {
			s.set("rateHz", fx.SetRateHz)
			s.set("depth", fx.SetDepth)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("ringmod", func(Params) (Runtime, error) {
		fx, err := modulation.NewRingModulator()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *modulation.RingModulator, s *setter) {
			s.set("carrierHz", fx.SetCarrierHz)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("autowah", func(p Params) (Runtime, error) {
		var opts []modulation.AutoWahOption
		if v, ok := p.num("sensitivity"); ok {
			opts = append(opts, modulation.WithAutoWahSensitivity(v))
		}
		if v, ok := p.num("q"); ok {
			opts = append(opts, modulation.WithAutoWahQ(v))
		}
		if v, ok := p.num("mix"); ok {
			opts = append(opts, modulation.WithAutoWahMix(v))
		}
		fx, err := modulation.NewAutoWah(opts...)
		if err != nil {
			return nil, err
		}
		// AutoWah is configured at construction only.
		return newRuntime(fx, func(*modulation.AutoWah, *setter) {}), nil
	})
	r.MustRegister("delay", func(Params) (Runtime, error) {
		fx, err := effects.NewDelay()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *effects.Delay, s *setter) {
			s.set("time", fx.SetTime)
			s.set("timeMs", fx.SetTimeMs)
			s.set("bpm", func(bpm float64) error { return fx.SetBPM(bpm, s.p.GetNum("beats", 1)) })
			s.set("feedback", fx.SetFeedback)
			s.set("mix", fx.SetMix)
		}), nil
	})
	echoFactory := func(defaultMode string) Factory {
		return func(p Params) (Runtime, error) {
			mode, err := parseEnum("echo mode", p.GetStr("mode", defaultMode),
				effects.EchoFeedback, effects.EchoStereo, effects.EchoPingPong)
			if err != nil {
				return nil, err
			}
			fx, err := effects.NewEcho(effects.WithEchoMode(mode))
			if err != nil {
				return nil, err
			}
			return newRuntime(fx, configureEcho), nil
		}
	}
	r.MustRegister("echo", echoFactory(effects.EchoFeedback.String()))
	r.MustRegister("pingpong", echoFactory(effects.EchoPingPong.String()))
	r.MustRegister("distortion", func(Params) (Runtime, error) {
		fx, err := effects.NewDistortion()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *effects.Distortion, s *setter) {
			if name, ok := s.p.Str["mode"]; ok {
				mode, err := parseEnum("distortion mode", name,
					effects.DistortionModeHardClip, effects.DistortionModeSoftClip,
					effects.DistortionModeTanh, effects.DistortionModeSaturate,
					effects.DistortionModeFullWaveRectify, effects.DistortionModeHalfWaveRectify)
				if err == nil {
					err = fx.SetMode(mode)
				}
				if err != nil {
					s.errs = append(s.errs, fmt.Errorf("%s.mode: %w", s.p.ID, err))
				}
			}
			s.set("drive", fx.SetDrive)
			s.set("clipLevel", fx.SetClipLevel)
			s.set("bias", fx.SetBias)
			s.set("outputLevel", fx.SetOutputLevel)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("bitcrusher", func(Params) (Runtime, error) {
		fx, err := effects.NewBitCrusher()
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *effects.BitCrusher, s *setter) {
			s.set("bitDepth", fx.SetBitDepth)
			s.set("downsample", func(v float64) error { return fx.SetDownsample(int(math.Round(v))) })
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("doppler", func(p Params) (Runtime, error) {
		fx, err := pitch.NewDopplerShifter(pitch.WithDopplerCrossfade(p.GetNum("crossfade", 0) != 0))
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *pitch.DopplerShifter, s *setter) {
			s.set("ratio", fx.SetPitchRatio)
			s.set("semitones", fx.SetPitchSemitones)
			s.scaled("windowMs", msToSeconds, fx.SetWindow)
			s.set("mix", fx.SetMix)
		}), nil
	})
	r.MustRegister("pan", func(p Params) (Runtime, error) {
		law, err := parseEnum("pan law", p.GetStr("law", pan.ConstantPower.String()),
			pan.Linear, pan.ConstantPower, pan.Minus4_5dB)
		if err != nil {
			return nil, err
		}
		fx, err := pan.New(pan.WithLaw(law))
		if err != nil {
			return nil, err
		}
		return newRuntime(fx, func(fx *pan.Panner, s *setter) {
			s.set("position", fx.SetPosition)
			s.set("rateHz", fx.SetAutoPanRateHz)
			s.set("depth", fx.SetAutoPanDepth)
		}), nil
	})

	return r
}

func configureEcho(fx *effects.Echo, s *setter) {
	s.set("time", fx.SetTime)
	s.scaled("timeMs", msToSeconds, fx.SetTime)
	_, hasLeft := s.p.num("leftTime")
	_, hasRight := s.p.num("rightTime")
	if hasLeft || hasRight {
		left, right := fx.Times()
		if err := fx.SetStereoTimes(s.p.GetNum("leftTime", left), s.p.GetNum("rightTime", right)); err != nil {
			s.errs = append(s.errs, fmt.Errorf("%s.stereoTimes: %w", s.p.ID, err))
		}
	}
	s.set("bpm", func(bpm float64) error { return fx.SetBPM(bpm, s.p.GetNum("beats", 1)) })
	s.set("feedback", fx.SetFeedback)
	s.set("mix", fx.SetMix)
	s.set("dampingHz", fx.SetDamping)
}
