// Package design computes biquad coefficients for the classic cookbook
// filter shapes.
//
// Every designer takes the corner or centre frequency in Hz and the sample
// rate, derives w0 = 2*pi*f/fs and the bandwidth term alpha, and returns
// a0-normalized [biquad.Coefficients]. Frequencies at or above
// [MaxFrequencyRatio]*fs are clamped there; a Q that is not positive and
// finite is replaced by 1/sqrt(2). Inputs that cannot be designed at all
// (non-positive frequency or sample rate) yield [biquad.Identity].
package design
