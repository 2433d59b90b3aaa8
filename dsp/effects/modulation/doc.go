// Package modulation provides LFO-driven effects built on the fractional
// delay line and the biquad all-pass.
//
// Included processors:
//   - AutoWah: Envelope follower driving a band-pass sweep.
//   - Chorus: Multi-voice modulated delay.
//   - Flanger: Short modulated delay with feedback.
//   - Vibrato: Wet-only modulated delay.
//   - BarberPole: Two crossfaded sawtooth-swept delays for an endless sweep.
//   - Phaser: All-pass cascade swept by an LFO.
//   - RingModulator: Audio-rate carrier multiply with dry/wet blend.
//   - Tremolo: LFO amplitude modulation.
//
// All processors implement core.Processor. Setters may be called from any
// goroutine; new values are picked up at the next block and glide over a
// short ramp. With depth 0 every delay effect reduces to a static delay of
// its base delay.
package modulation
