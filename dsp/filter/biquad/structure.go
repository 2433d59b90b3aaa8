package biquad

import "fmt"

// Structure selects the realisation used to run a set of coefficients.
type Structure int

const (
	// TransposedDirectForm2 is the default structure.
	TransposedDirectForm2 Structure = iota
	// DirectForm1 keeps input and output history.
	DirectForm1
	// DirectForm2 keeps one canonical state line.
	DirectForm2
)

// String returns a short name for the structure.
func (s Structure) String() string {
	switch s {
	case TransposedDirectForm2:
		return "TDF2"
	case DirectForm1:
		return "DF1"
	case DirectForm2:
		return "DF2"
	default:
		return fmt.Sprintf("Structure(%d)", int(s))
	}
}

// Valid reports whether s names a known structure.
func (s Structure) Valid() bool {
	return s >= TransposedDirectForm2 && s <= DirectForm2
}

// Stage is a single second-order section in any of the supported structures.
type Stage interface {
	SetCoefficients(c Coefficients)
	ProcessSample(x float64) float64
	ProcessBlock(buf []float64)
	Reset()
}

var (
	_ Stage = (*Section)(nil)
	_ Stage = (*DF1Section)(nil)
	_ Stage = (*DF2Section)(nil)
)

// NewStage returns a zero-state stage of the requested structure.
func NewStage(s Structure, c Coefficients) (Stage, error) {
	switch s {
	case TransposedDirectForm2:
		return NewSection(c), nil
	case DirectForm1:
		return NewDF1Section(c), nil
	case DirectForm2:
		return NewDF2Section(c), nil
	default:
		return nil, fmt.Errorf("biquad: unknown structure %d", int(s))
	}
}
