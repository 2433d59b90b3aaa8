// Package response measures the behaviour of a processor from its impulse
// response: magnitude and phase spectra, arrival time and energy decay.
//
// The spectrum is computed with algo-fft on a zero-padded power-of-two
// frame. A gonum real FFT is available as an independent reference through
// [Analyzer.RealSpectrum].
package response
