package response

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Errors returned by the analyzer.
var (
	ErrEmptyIR           = errors.New("response: impulse response is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidLength     = errors.New("response: length must be positive")
)

// SampleFunc processes one sample. Single-channel processors expose it as a
// method value, e.g. section.ProcessSample.
type SampleFunc func(x float64) float64

// Capture feeds a unit impulse followed by n-1 zeros through fn.
func Capture(fn SampleFunc, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	ir := make([]float64, n)
	ir[0] = fn(1)

	for i := 1; i < n; i++ {
		ir[i] = fn(0)
	}

	return ir, nil
}

// Response is the one-sided spectrum of an impulse response. Bin k lies at
// k*SampleRate/FFTSize Hz, for k = 0..FFTSize/2.
type Response struct {
	SampleRate float64
	FFTSize    int
	Magnitude  []float64 // linear
	Phase      []float64 // radians
}

// BinHz returns the bin spacing in Hz.
func (r Response) BinHz() float64 {
	if r.FFTSize == 0 {
		return 0
	}

	return r.SampleRate / float64(r.FFTSize)
}

// MagnitudeAt returns the linear magnitude at freq, interpolated between
// the two neighbouring bins.
func (r Response) MagnitudeAt(freq float64) float64 {
	if len(r.Magnitude) == 0 || r.BinHz() == 0 {
		return 0
	}

	pos := freq / r.BinHz()
	if pos <= 0 {
		return r.Magnitude[0]
	}

	last := len(r.Magnitude) - 1
	if pos >= float64(last) {
		return r.Magnitude[last]
	}

	i := int(pos)
	frac := pos - float64(i)

	return r.Magnitude[i]*(1-frac) + r.Magnitude[i+1]*frac
}

// MagnitudeDBAt returns 20*log10 of MagnitudeAt(freq).
func (r Response) MagnitudeDBAt(freq float64) float64 {
	return 20 * math.Log10(r.MagnitudeAt(freq))
}

// Analyzer computes spectra and time-domain metrics of impulse responses.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer for the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze zero-pads ir to the next power of two and returns its one-sided
// spectrum.
func (a *Analyzer) Analyze(ir []float64) (Response, error) {
	if len(ir) == 0 {
		return Response{}, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return Response{}, ErrInvalidSampleRate
	}

	fftSize := nextPowerOf2(len(ir))

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Response{}, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Response{}, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	phase := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
		phase[k] = cmplx.Phase(out[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return Response{
		SampleRate: a.SampleRate,
		FFTSize:    fftSize,
		Magnitude:  mag,
		Phase:      phase,
	}, nil
}

// AnalyzeFunc captures n samples of fn's impulse response and analyzes it.
func (a *Analyzer) AnalyzeFunc(fn SampleFunc, n int) (Response, error) {
	ir, err := Capture(fn, n)
	if err != nil {
		return Response{}, err
	}

	return a.Analyze(ir)
}

// RealSpectrum returns the len(ir)/2+1 complex coefficients of ir computed
// with gonum's real FFT, without padding.
func (a *Analyzer) RealSpectrum(ir []float64) ([]complex128, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	fft := fourier.NewFFT(len(ir))

	return fft.Coefficients(nil, ir), nil
}

// PeakIndex returns the index of the absolute maximum of ir.
func (a *Analyzer) PeakIndex(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	peakIdx := 0
	peakVal := 0.0

	for i, v := range ir {
		if av := math.Abs(v); av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}

	return peakIdx, nil
}

// FindImpulseStart returns the first index whose magnitude reaches a tenth
// of the peak (-20 dB). Delay lines are measured with it.
func (a *Analyzer) FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	peak := 0.0
	for _, v := range ir {
		peak = math.Max(peak, math.Abs(v))
	}

	threshold := peak * 0.1
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i, nil
		}
	}

	return 0, nil
}

// SchroederIntegral returns the backward-integrated energy decay curve of
// ir in dB relative to the total energy, floored at -200 dB.
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	n := len(ir)
	result := make([]float64, n)

	var cumSum float64
	for i := n - 1; i >= 0; i-- {
		cumSum += ir[i] * ir[i]
		result[i] = cumSum
	}

	totalEnergy := result[0]
	if totalEnergy <= 0 {
		return result, nil
	}

	for i := range result {
		ratio := result[i] / totalEnergy
		if ratio <= 0 {
			result[i] = -200
		} else {
			result[i] = 10 * math.Log10(ratio)
		}
	}

	return result, nil
}

// DecayTime returns the time in seconds until the energy decay curve of ir
// falls dropDB below its start. It returns +Inf when the curve never gets
// there within ir.
func (a *Analyzer) DecayTime(ir []float64, dropDB float64) (float64, error) {
	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	curve, err := a.SchroederIntegral(ir)
	if err != nil {
		return 0, err
	}

	for i, v := range curve {
		if v <= -dropDB {
			return float64(i) / a.SampleRate, nil
		}
	}

	return math.Inf(1), nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
