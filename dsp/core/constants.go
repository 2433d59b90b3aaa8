package core

import "math"

// Shared numeric constants. Processors reference these instead of
// redefining π-derived values locally.
const (
	Pi    = math.Pi
	TwoPi = 2 * math.Pi

	// DefaultQ is the Butterworth quality factor 1/sqrt(2).
	DefaultQ = 1 / math.Sqrt2

	// DenormalThreshold is the magnitude below which FlushDenormals
	// returns exact zero.
	DenormalThreshold = 1e-30

	// DefaultSampleRate is used when no configuration is supplied.
	DefaultSampleRate = 48000.0

	// DefaultMaxDelaySeconds sizes delay buffers when the caller does not
	// request a specific capacity.
	DefaultMaxDelaySeconds = 2.0
)
