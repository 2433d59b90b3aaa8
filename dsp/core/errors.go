package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSampleRate is returned by Prepare for non-positive or
	// non-finite sample rates.
	ErrInvalidSampleRate = errors.New("sample rate must be > 0 and finite")

	// ErrInvalidChannels is returned by Prepare when the channel count is
	// not positive.
	ErrInvalidChannels = errors.New("channel count must be > 0")

	// ErrNotPrepared is returned by setters that need the sample rate
	// before Prepare has been called.
	ErrNotPrepared = errors.New("processor is not prepared")
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateConfig checks the fields every processor depends on.
func ValidateConfig(cfg ProcessorConfig) error {
	if cfg.SampleRate <= 0 || !IsFinite(cfg.SampleRate) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, cfg.SampleRate)
	}

	if cfg.Channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}

	return nil
}
