// Package lfo provides the phase accumulator and low-frequency oscillator
// shared by the modulated delay effects.
//
// Phase is measured in cycles and wrapped into [0, 1). Each sample adds
// rateHz/sampleRate. An [LFO] keeps one phase per channel; channels may start
// at different phase offsets, which gives modulated effects a small amount
// of stereo decorrelation.
//
// Running an LFO at audio rate and writing its output with [LFO.Generate]
// turns it into a plain sine/triangle/sawtooth/square source.
package lfo
