package lfo

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Waveform selects the LFO shape.
type Waveform int

const (
	// Sine is sin(2π·phase).
	Sine Waveform = iota
	// Triangle rises from -1 at phase 0 to +1 at phase 0.5 and back.
	Triangle
	// Sawtooth ramps from -1 to +1 over one cycle.
	Sawtooth
	// SawtoothDown ramps from +1 to -1 over one cycle.
	SawtoothDown
	// Square is +1 for the first half cycle and -1 for the second.
	Square
)

// String returns the waveform name.
func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	case SawtoothDown:
		return "sawtooth-down"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// Valid reports whether w is a known waveform.
func (w Waveform) Valid() bool {
	return w >= Sine && w <= Square
}

// Value returns the bipolar waveform value in [-1, 1] at phase (cycles).
func Value(w Waveform, phase float64) float64 {
	phase = Wrap(phase)

	switch w {
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case Sawtooth:
		return 2*phase - 1
	case SawtoothDown:
		return 1 - 2*phase
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(core.TwoPi * phase)
	}
}

// Unipolar maps a bipolar value in [-1, 1] to [0, 1].
func Unipolar(v float64) float64 {
	return 0.5 * (v + 1)
}

// Wrap folds phase into [0, 1).
func Wrap(phase float64) float64 {
	if phase >= 0 && phase < 1 {
		return phase
	}
	phase -= math.Floor(phase)
	if phase >= 1 {
		phase = 0
	}
	return phase
}
