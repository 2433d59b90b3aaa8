package pitch

import "github.com/cwbudde/algo-fx/dsp/core"

// PitchProcessor is the control surface shared by pitch shifters.
//
//nolint:revive
type PitchProcessor interface {
	core.Processor

	PitchRatio() float64
	PitchSemitones() float64
	SetPitchRatio(ratio float64) error
	SetPitchSemitones(semitones float64) error
}
