package effects

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
)

const (
	defaultBitCrusherBitDepth   = 8.0
	defaultBitCrusherDownsample = 1
	defaultBitCrusherMix        = 1.0
	minBitCrusherBitDepth       = 1.0
	maxBitCrusherBitDepth       = 32.0
	maxBitCrusherDownsample     = 256
)

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	bitDepth   float64
	downsample int
	mix        float64
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{
		bitDepth:   defaultBitCrusherBitDepth,
		downsample: defaultBitCrusherDownsample,
		mix:        defaultBitCrusherMix,
	}
}

// WithBitCrusherBitDepth sets the target bit depth for quantization.
// Fractional values are supported for smooth parameter sweeps.
// Range: [1, 32].
func WithBitCrusherBitDepth(bitDepth float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := validateBitDepth(bitDepth); err != nil {
			return err
		}
		cfg.bitDepth = bitDepth
		return nil
	}
}

// WithBitCrusherDownsample sets the sample-and-hold factor. A value of 1
// means no downsampling; 4 means every 4th sample is held.
// Range: [1, 256].
func WithBitCrusherDownsample(factor int) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := validateDownsample(factor); err != nil {
			return err
		}
		cfg.downsample = factor
		return nil
	}
}

// WithBitCrusherMix sets the dry/wet mix in [0, 1].
func WithBitCrusherMix(mix float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := validateMix("bit crusher", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

func validateBitDepth(bitDepth float64) error {
	if bitDepth < minBitCrusherBitDepth || bitDepth > maxBitCrusherBitDepth || !core.IsFinite(bitDepth) {
		return fmt.Errorf("bit crusher bit depth must be in [%g, %g]: %f",
			minBitCrusherBitDepth, maxBitCrusherBitDepth, bitDepth)
	}
	return nil
}

func validateDownsample(factor int) error {
	if factor < 1 || factor > maxBitCrusherDownsample {
		return fmt.Errorf("bit crusher downsample factor must be in [1, %d]: %d",
			maxBitCrusherDownsample, factor)
	}
	return nil
}

// BitCrusher reduces bit depth and effective sample rate for lo-fi
// aesthetics. It combines two independent degradation mechanisms:
//
//   - Quantization: snaps samples to a grid of 2^(bitDepth-1) steps per
//     unit. Values outside [-1, 1] are quantized but not clipped.
//
//   - Downsampling: holds each quantized sample for Downsample consecutive
//     output samples (sample-and-hold).
//
// With BitDepth=32 and Downsample=1 the effect is transparent for any
// practical signal.
type BitCrusher struct {
	bitDepth   core.Param
	downsample atomic.Int64
	mix        core.Param

	counters []int
	held     []float64
}

var _ core.Processor = (*BitCrusher)(nil)

// NewBitCrusher creates a bit crusher with optional overrides.
func NewBitCrusher(opts ...BitCrusherOption) (*BitCrusher, error) {
	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bc := &BitCrusher{}
	bc.bitDepth.Store(cfg.bitDepth)
	bc.downsample.Store(int64(cfg.downsample))
	bc.mix.Store(cfg.mix)

	return bc, nil
}

// Prepare allocates per-channel sample-and-hold state.
func (bc *BitCrusher) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("bit crusher: %w", err)
	}
	bc.counters = make([]int, cfg.Channels)
	bc.held = make([]float64, cfg.Channels)
	return nil
}

// SetBitDepth sets the quantization bit depth in [1, 32].
func (bc *BitCrusher) SetBitDepth(bitDepth float64) error {
	if err := validateBitDepth(bitDepth); err != nil {
		return err
	}
	bc.bitDepth.Store(bitDepth)
	return nil
}

// SetDownsample sets the downsample factor in [1, 256].
func (bc *BitCrusher) SetDownsample(factor int) error {
	if err := validateDownsample(factor); err != nil {
		return err
	}
	bc.downsample.Store(int64(factor))
	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (bc *BitCrusher) SetMix(mix float64) error {
	if err := validateMix("bit crusher", mix); err != nil {
		return err
	}
	bc.mix.Store(mix)
	return nil
}

// BitDepth returns the quantization bit depth.
func (bc *BitCrusher) BitDepth() float64 { return bc.bitDepth.Load() }

// Downsample returns the downsample factor.
func (bc *BitCrusher) Downsample() int { return int(bc.downsample.Load()) }

// Mix returns the dry/wet mix in [0, 1].
func (bc *BitCrusher) Mix() float64 { return bc.mix.Load() }

// Quantize snaps x to the grid of a bitDepth-bit converter.
func Quantize(x, bitDepth float64) float64 {
	levels := math.Exp2(bitDepth - 1)
	return math.Round(x*levels) / levels
}

func (bc *BitCrusher) tick(ch int, x, bitDepth float64, factor int, mix float64) float64 {
	bc.counters[ch]++
	if bc.counters[ch] >= factor {
		bc.counters[ch] = 0
		bc.held[ch] = Quantize(x, bitDepth)
	}
	return x*(1-mix) + bc.held[ch]*mix
}

// ProcessSample processes one sample of channel ch.
func (bc *BitCrusher) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= len(bc.counters) {
		return x
	}
	return bc.tick(ch, x, bc.bitDepth.Load(), bc.Downsample(), bc.mix.Load())
}

// Process applies the bit crusher to block in place.
func (bc *BitCrusher) Process(block [][]float64) {
	n := core.ChannelCount(block, len(bc.counters))
	if n == 0 {
		return
	}

	bitDepth := bc.bitDepth.Load()
	factor := bc.Downsample()
	mix := bc.mix.Load()

	for ch := range n {
		buf := block[ch]
		for i, x := range buf {
			buf[i] = bc.tick(ch, x, bitDepth, factor, mix)
		}
	}
}

// Reset clears the sample-and-hold state.
func (bc *BitCrusher) Reset() {
	for ch := range bc.counters {
		bc.counters[ch] = 0
		bc.held[ch] = 0
	}
}
