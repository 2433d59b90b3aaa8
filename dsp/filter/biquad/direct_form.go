package biquad

import "github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel"

// DF1Section is a Direct Form I biquad. It keeps the last two inputs and the
// last two outputs:
//
//	y = B0*x + B1*x1 + B2*x2 - A1*y1 - A2*y2
//
// DF1 tolerates coefficient changes well since its state holds real signal
// values rather than intermediate sums.
type DF1Section struct {
	Coefficients

	x1, x2 float64
	y1, y2 float64
}

// NewDF1Section returns a DF1Section with the given coefficients and zero
// history.
func NewDF1Section(c Coefficients) *DF1Section {
	return &DF1Section{Coefficients: c}
}

// SetCoefficients replaces the coefficients and keeps the history.
func (s *DF1Section) SetCoefficients(c Coefficients) { s.Coefficients = c }

// ProcessSample filters one input sample and returns the output.
func (s *DF1Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.B1*s.x1 + s.B2*s.x2 - s.A1*s.y1 - s.A2*s.y2
	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

// ProcessBlock filters buf in place.
func (s *DF1Section) ProcessBlock(buf []float64) {
	st := kernels().DF1(s.kernelCoefficients(), kernel.State{s.x1, s.x2, s.y1, s.y2}, buf)
	s.x1, s.x2, s.y1, s.y2 = st[0], st[1], st[2], st[3]
}

// Reset clears the input and output history.
func (s *DF1Section) Reset() {
	s.x1, s.x2 = 0, 0
	s.y1, s.y2 = 0, 0
}

// State returns the history as [x1, x2, y1, y2].
func (s *DF1Section) State() [4]float64 {
	return [4]float64{s.x1, s.x2, s.y1, s.y2}
}

// DF2Section is a canonical Direct Form II biquad with a single two-element
// state line shared by the recursive and non-recursive parts:
//
//	w = x - A1*w1 - A2*w2
//	y = B0*w + B1*w1 + B2*w2
type DF2Section struct {
	Coefficients

	w1, w2 float64
}

// NewDF2Section returns a DF2Section with the given coefficients and zero
// state.
func NewDF2Section(c Coefficients) *DF2Section {
	return &DF2Section{Coefficients: c}
}

// SetCoefficients replaces the coefficients and keeps the state.
func (s *DF2Section) SetCoefficients(c Coefficients) { s.Coefficients = c }

// ProcessSample filters one input sample and returns the output.
func (s *DF2Section) ProcessSample(x float64) float64 {
	w := x - s.A1*s.w1 - s.A2*s.w2
	y := s.B0*w + s.B1*s.w1 + s.B2*s.w2
	s.w2, s.w1 = s.w1, w

	return y
}

// ProcessBlock filters buf in place.
func (s *DF2Section) ProcessBlock(buf []float64) {
	st := kernels().DF2(s.kernelCoefficients(), kernel.State{s.w1, s.w2}, buf)
	s.w1, s.w2 = st[0], st[1]
}

// Reset clears the state line.
func (s *DF2Section) Reset() {
	s.w1, s.w2 = 0, 0
}

// State returns the state line as [w1, w2].
func (s *DF2Section) State() [2]float64 {
	return [2]float64{s.w1, s.w2}
}
