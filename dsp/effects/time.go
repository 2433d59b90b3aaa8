package effects

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
)

type timeUnit int

const (
	unitSeconds timeUnit = iota
	unitSamples
)

// delayTime is a delay length kept in the unit it was set in, so that a
// sample count stays exact and a time survives a sample-rate change.
type delayTime struct {
	value float64
	unit  timeUnit
}

func secondsTime(seconds float64) *delayTime { return &delayTime{value: seconds, unit: unitSeconds} }

func samplesTime(samples float64) *delayTime { return &delayTime{value: samples, unit: unitSamples} }

func (t *delayTime) samples(sampleRate float64) float64 {
	if t.unit == unitSamples {
		return t.value
	}
	return t.value * sampleRate
}

func (t *delayTime) seconds(sampleRate float64) float64 {
	if t.unit == unitSeconds {
		return t.value
	}
	if sampleRate <= 0 {
		return 0
	}
	return t.value / sampleRate
}

func validateSeconds(name string, seconds float64) error {
	if seconds < 0 || !core.IsFinite(seconds) {
		return fmt.Errorf("%s time must be >= 0 and finite: %f", name, seconds)
	}
	return nil
}

func validateSamples(name string, samples float64) error {
	if samples < 0 || !core.IsFinite(samples) {
		return fmt.Errorf("%s time must be >= 0 samples and finite: %f", name, samples)
	}
	return nil
}

func bpmSeconds(name string, bpm, beats float64) (float64, error) {
	if bpm <= 0 || !core.IsFinite(bpm) {
		return 0, fmt.Errorf("%s tempo must be > 0 and finite: %f", name, bpm)
	}
	if beats <= 0 || !core.IsFinite(beats) {
		return 0, fmt.Errorf("%s beats must be > 0 and finite: %f", name, beats)
	}
	return core.BeatsToSeconds(beats, bpm), nil
}

func validateFeedback(name string, feedback float64) error {
	if feedback < -maxFeedback || feedback > maxFeedback || !core.IsFinite(feedback) {
		return fmt.Errorf("%s feedback must be in [-%g, %g]: %f", name, maxFeedback, maxFeedback, feedback)
	}
	return nil
}

func validateMix(name string, mix float64) error {
	if mix < 0 || mix > 1 || !core.IsFinite(mix) {
		return fmt.Errorf("%s mix must be in [0, 1]: %f", name, mix)
	}
	return nil
}

const (
	maxFeedback = 0.99

	// timeGlideSeconds is how long a delay-time change takes to settle.
	timeGlideSeconds = 0.05
	// paramGlideSeconds is the glide for feedback and mix changes.
	paramGlideSeconds = 0.02
)
