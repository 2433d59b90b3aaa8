package design

import (
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
)

// MaxFrequencyRatio is the highest designable frequency as a fraction of
// the sample rate.
const MaxFrequencyRatio = 0.49

// ClampFrequency limits freq to MaxFrequencyRatio*sampleRate.
func ClampFrequency(freq, sampleRate float64) float64 {
	if limit := MaxFrequencyRatio * sampleRate; freq > limit {
		return limit
	}

	return freq
}

// Lowpass designs a second-order lowpass at freq with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw, alpha := math.Cos(w0), alphaQ(w0, q)

	b1 := 1 - cw
	b0 := b1 / 2

	return normalizeBiquad(b0, b1, b0, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs a second-order highpass at freq with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw, alpha := math.Cos(w0), alphaQ(w0, q)

	b0 := (1 + cw) / 2

	return normalizeBiquad(b0, -(1 + cw), b0, 1+alpha, -2*cw, 1-alpha)
}

// Bandpass designs a constant-skirt-gain bandpass: the peak gain equals q.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := alphaQ(w0, q)

	return normalizeBiquad(sw/2, 0, -sw/2, 1+alpha, -2*cw, 1-alpha)
}

// Notch designs a band-reject filter centred on freq.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw, alpha := math.Cos(w0), alphaQ(w0, q)

	return normalizeBiquad(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

// Allpass designs a second-order all-pass whose phase passes -180 degrees
// at freq.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw, alpha := math.Cos(w0), alphaQ(w0, q)

	return normalizeBiquad(1-alpha, -2*cw, 1+alpha, 1+alpha, -2*cw, 1-alpha)
}

// AllpassCascade designs one all-pass section per frequency, all sharing q.
// The result feeds a [biquad.Chain] for phaser-style notch combs.
func AllpassCascade(freqs []float64, q, sampleRate float64) []biquad.Coefficients {
	out := make([]biquad.Coefficients, len(freqs))
	for i, f := range freqs {
		out[i] = Allpass(f, q, sampleRate)
	}

	return out
}

// Peak designs a peaking EQ with gainDB at freq.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw, alpha := math.Cos(w0), alphaQ(w0, q)
	a := shelfAmplitude(gainDB)

	return normalizeBiquad(1+alpha*a, -2*cw, 1-alpha*a, 1+alpha/a, -2*cw, 1-alpha/a)
}

// LowShelf designs a low shelf with unit slope.
func LowShelf(freq, gainDB, sampleRate float64) biquad.Coefficients {
	return LowShelfSlope(freq, gainDB, 1, sampleRate)
}

// HighShelf designs a high shelf with unit slope.
func HighShelf(freq, gainDB, sampleRate float64) biquad.Coefficients {
	return HighShelfSlope(freq, gainDB, 1, sampleRate)
}

// LowShelfSlope designs a low shelf with an explicit shelf slope S. S = 1 is
// the steepest slope that stays monotonic.
func LowShelfSlope(freq, gainDB, slope, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	a := shelfAmplitude(gainDB)
	cw := math.Cos(w0)
	beta := 2 * math.Sqrt(a) * alphaSlope(w0, a, slope)

	b0 := a * ((a + 1) - (a-1)*cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*cw)
	b2 := a * ((a + 1) - (a-1)*cw - beta)
	a0 := (a + 1) + (a-1)*cw + beta
	a1 := -2 * ((a - 1) + (a+1)*cw)
	a2 := (a + 1) + (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// HighShelfSlope designs a high shelf with an explicit shelf slope S.
func HighShelfSlope(freq, gainDB, slope, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	a := shelfAmplitude(gainDB)
	cw := math.Cos(w0)
	beta := 2 * math.Sqrt(a) * alphaSlope(w0, a, slope)

	b0 := a * ((a + 1) + (a-1)*cw + beta)
	b1 := -2 * a * ((a - 1) + (a+1)*cw)
	b2 := a * ((a + 1) + (a-1)*cw - beta)
	a0 := (a + 1) - (a-1)*cw + beta
	a1 := 2 * ((a - 1) - (a+1)*cw)
	a2 := (a + 1) - (a-1)*cw - beta

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return 0, false
	}

	if freq <= 0 || math.IsNaN(freq) {
		return 0, false
	}

	return core.TwoPi * ClampFrequency(freq, sampleRate) / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || !core.IsFinite(q) {
		return core.DefaultQ
	}

	return q
}

func alphaQ(w0, q float64) float64 {
	return math.Sin(w0) / (2 * normalizedQ(q))
}

// alphaSlope is sin(w0)/2 * sqrt((A + 1/A)(1/S - 1) + 2).
func alphaSlope(w0, a, slope float64) float64 {
	if slope <= 0 || !core.IsFinite(slope) {
		slope = 1
	}

	term := (a+1/a)*(1/slope-1) + 2
	if term < 0 {
		term = 0
	}

	return math.Sin(w0) / 2 * math.Sqrt(term)
}

func shelfAmplitude(gainDB float64) float64 {
	if !core.IsFinite(gainDB) {
		return 1
	}

	return math.Pow(10, gainDB/40)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !core.IsFinite(a0) {
		return biquad.Identity()
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
