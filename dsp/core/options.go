package core

// ProcessorConfig defines common DSP processing settings.
//
// It is the argument of every Prepare call: processors size their state
// (per-channel filter registers, delay buffers, scratch blocks) from it so
// that Process never allocates.
type ProcessorConfig struct {
	SampleRate      float64
	BlockSize       int
	Channels        int
	MaxDelaySeconds float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:      DefaultSampleRate,
		BlockSize:       1024,
		Channels:        2,
		MaxDelaySeconds: DefaultMaxDelaySeconds,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the number of planar channels per block.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithMaxDelaySeconds sets the capacity of delay buffers in seconds.
func WithMaxDelaySeconds(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 && IsFinite(seconds) {
			cfg.MaxDelaySeconds = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
