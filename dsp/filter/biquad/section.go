package biquad

import "github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel"

// Coefficients holds the transfer function of one second-order section.
// a0 is normalized to 1 and not stored:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns pass-through coefficients (H(z) = 1).
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Section is a Transposed Direct Form II biquad:
//
//	y  = B0*x + r1
//	r1 = B1*x - A1*y + r2
//	r2 = B2*x - A2*y
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients replaces the coefficients and keeps the state.
func (s *Section) SetCoefficients(c Coefficients) { s.Coefficients = c }

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place with the kernel selected for the CPU.
func (s *Section) ProcessBlock(buf []float64) {
	st := kernels().TDF2(s.kernelCoefficients(), kernel.State{s.d0, s.d1}, buf)
	s.d0, s.d1 = st[0], st[1]
}

// Reset clears the accumulator registers.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current accumulator registers [r1, r2].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved register state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}
