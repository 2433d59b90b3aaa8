// Package effects provides delay-line and waveshaping effect processors.
//
// Subpackages:
//   - github.com/cwbudde/algo-fx/dsp/effects/modulation
//   - github.com/cwbudde/algo-fx/dsp/effects/pitch
//
// Effects in this package:
//   - Delay: Fractional delay with feedback, dry/wet mix and time, ms,
//     sample or tempo-synced settings.
//   - Echo: Feedback, stereo and ping-pong echo with low-pass damping in
//     the loop.
//   - Distortion: Hard and soft clipping, tanh and rational saturation,
//     full- and half-wave rectification.
//   - BitCrusher: Bit-depth reduction with sample-and-hold downsampling.
//
// Every effect implements core.Processor. Parameters can be set from any
// goroutine; Process picks them up at the next block and glides delay
// times and mix levels to avoid zipper noise.
package effects
