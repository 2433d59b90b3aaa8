// Package eq provides a multi-channel biquad filter processor.
//
// A [Filter] pairs one filter [Type] with one [biquad.Structure] and keeps
// per-channel state. Frequency, Q and gain may be changed from any
// goroutine; the new coefficients are designed in the setter and picked up
// by the audio goroutine at the next block or sample.
package eq
