package eq

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
)

// Type selects the coefficient formula.
type Type int

const (
	Lowpass Type = iota
	Highpass
	Bandpass
	Notch
	Allpass
	LowShelf
	HighShelf
	Peaking
)

var typeNames = [...]string{"lowpass", "highpass", "bandpass", "notch", "allpass", "lowshelf", "highshelf", "peaking"}

// Types lists every filter type in declaration order.
func Types() []Type {
	return []Type{Lowpass, Highpass, Bandpass, Notch, Allpass, LowShelf, HighShelf, Peaking}
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known filter type.
func (t Type) Valid() bool {
	return t >= Lowpass && t <= Peaking
}

// UsesGain reports whether the gain parameter affects t.
func (t Type) UsesGain() bool {
	return t == LowShelf || t == HighShelf || t == Peaking
}

// UsesQ reports whether the Q parameter affects t. Shelves use a fixed unit
// slope instead.
func (t Type) UsesQ() bool {
	return t != LowShelf && t != HighShelf
}

// Design returns the a0-normalized coefficients of t.
func (t Type) Design(freq, q, gainDB, sampleRate float64) biquad.Coefficients {
	switch t {
	case Lowpass:
		return design.Lowpass(freq, q, sampleRate)
	case Highpass:
		return design.Highpass(freq, q, sampleRate)
	case Bandpass:
		return design.Bandpass(freq, q, sampleRate)
	case Notch:
		return design.Notch(freq, q, sampleRate)
	case Allpass:
		return design.Allpass(freq, q, sampleRate)
	case LowShelf:
		return design.LowShelf(freq, gainDB, sampleRate)
	case HighShelf:
		return design.HighShelf(freq, gainDB, sampleRate)
	case Peaking:
		return design.Peak(freq, gainDB, q, sampleRate)
	default:
		return biquad.Identity()
	}
}
