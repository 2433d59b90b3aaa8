package effects

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultDistortionDrive       = 1.0
	defaultDistortionMix         = 1.0
	defaultDistortionOutputLevel = 1.0
	defaultDistortionClipLevel   = 1.0

	minDistortionDrive       = 0.01
	maxDistortionDrive       = 20.0
	maxDistortionOutputLevel = 4.0
	minDistortionClipLevel   = 0.05
	maxDistortionClipLevel   = 1.0
	maxDistortionBias        = 1.0
)

// DistortionMode selects the transfer function used by Distortion.
type DistortionMode int

const (
	// DistortionModeHardClip limits the signal to ±clipLevel and rescales
	// it to ±1.
	DistortionModeHardClip DistortionMode = iota
	// DistortionModeSoftClip is the cubic 1.5*(x - x³/3) inside ±1.
	DistortionModeSoftClip
	// DistortionModeTanh is tanh(x).
	DistortionModeTanh
	// DistortionModeSaturate is x / (1 + |x|).
	DistortionModeSaturate
	// DistortionModeFullWaveRectify is |x|.
	DistortionModeFullWaveRectify
	// DistortionModeHalfWaveRectify is max(x, 0).
	DistortionModeHalfWaveRectify
)

// String returns the mode name.
func (m DistortionMode) String() string {
	switch m {
	case DistortionModeHardClip:
		return "hardclip"
	case DistortionModeSoftClip:
		return "softclip"
	case DistortionModeTanh:
		return "tanh"
	case DistortionModeSaturate:
		return "saturate"
	case DistortionModeFullWaveRectify:
		return "fullwave"
	case DistortionModeHalfWaveRectify:
		return "halfwave"
	default:
		return fmt.Sprintf("DistortionMode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m DistortionMode) Valid() bool {
	return m >= DistortionModeHardClip && m <= DistortionModeHalfWaveRectify
}

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	mode        DistortionMode
	drive       float64
	mix         float64
	outputLevel float64
	clipLevel   float64
	bias        float64
}

func defaultDistortionConfig() distortionConfig {
	return distortionConfig{
		mode:        DistortionModeSoftClip,
		drive:       defaultDistortionDrive,
		mix:         defaultDistortionMix,
		outputLevel: defaultDistortionOutputLevel,
		clipLevel:   defaultDistortionClipLevel,
	}
}

// WithDistortionMode selects the transfer function.
func WithDistortionMode(mode DistortionMode) DistortionOption {
	return func(cfg *distortionConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("distortion mode is invalid: %d", mode)
		}
		cfg.mode = mode
		return nil
	}
}

// WithDistortionDrive sets the input gain in [0.01, 20].
func WithDistortionDrive(drive float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateDrive(drive); err != nil {
			return err
		}
		cfg.drive = drive
		return nil
	}
}

// WithDistortionMix sets the wet amount in [0, 1].
func WithDistortionMix(mix float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateMix("distortion", mix); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// WithDistortionOutputLevel sets the wet output gain in [0, 4].
func WithDistortionOutputLevel(level float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateOutputLevel(level); err != nil {
			return err
		}
		cfg.outputLevel = level
		return nil
	}
}

// WithDistortionClipLevel sets the hard-clip threshold in [0.05, 1].
func WithDistortionClipLevel(level float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateClipLevel(level); err != nil {
			return err
		}
		cfg.clipLevel = level
		return nil
	}
}

// WithDistortionBias adds a DC offset before shaping, in [-1, 1]. A bias
// makes the clipping asymmetric and adds even harmonics.
func WithDistortionBias(bias float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if err := validateBias(bias); err != nil {
			return err
		}
		cfg.bias = bias
		return nil
	}
}

func validateDrive(drive float64) error {
	if drive < minDistortionDrive || drive > maxDistortionDrive || !core.IsFinite(drive) {
		return fmt.Errorf("distortion drive must be in [%g, %g]: %f", minDistortionDrive, maxDistortionDrive, drive)
	}
	return nil
}

func validateOutputLevel(level float64) error {
	if level < 0 || level > maxDistortionOutputLevel || !core.IsFinite(level) {
		return fmt.Errorf("distortion output level must be in [0, %g]: %f", maxDistortionOutputLevel, level)
	}
	return nil
}

func validateClipLevel(level float64) error {
	if level < minDistortionClipLevel || level > maxDistortionClipLevel || !core.IsFinite(level) {
		return fmt.Errorf("distortion clip level must be in [%g, %g]: %f", minDistortionClipLevel, maxDistortionClipLevel, level)
	}
	return nil
}

func validateBias(bias float64) error {
	if bias < -maxDistortionBias || bias > maxDistortionBias || !core.IsFinite(bias) {
		return fmt.Errorf("distortion bias must be in [-%g, %g]: %f", maxDistortionBias, maxDistortionBias, bias)
	}
	return nil
}

// Distortion is a static waveshaper:
//
//	wet = outputLevel * shape(drive*x + bias)
//	y   = (1-mix)*x + mix*wet
//
// It keeps no per-sample state, so every channel shares one instance.
// Parameters are read once per block.
type Distortion struct {
	mode        atomic.Int32
	drive       core.Param
	mix         core.Param
	outputLevel core.Param
	clipLevel   core.Param
	bias        core.Param

	channels int
	scratch  []float64
}

var _ core.Processor = (*Distortion)(nil)

// NewDistortion creates a distortion with optional overrides.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := defaultDistortionConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	d := &Distortion{}
	d.mode.Store(int32(cfg.mode))
	d.drive.Store(cfg.drive)
	d.mix.Store(cfg.mix)
	d.outputLevel.Store(cfg.outputLevel)
	d.clipLevel.Store(cfg.clipLevel)
	d.bias.Store(cfg.bias)

	return d, nil
}

// Prepare allocates the wet scratch buffer.
func (d *Distortion) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("distortion: %w", err)
	}
	block := cfg.BlockSize
	if block <= 0 {
		block = core.DefaultProcessorConfig().BlockSize
	}
	d.scratch = core.EnsureLen(d.scratch, block)
	d.channels = cfg.Channels
	return nil
}

// SetMode selects the transfer function.
func (d *Distortion) SetMode(mode DistortionMode) error {
	if !mode.Valid() {
		return fmt.Errorf("distortion mode is invalid: %d", mode)
	}
	d.mode.Store(int32(mode))
	return nil
}

// SetDrive sets the input gain.
func (d *Distortion) SetDrive(drive float64) error {
	if err := validateDrive(drive); err != nil {
		return err
	}
	d.drive.Store(drive)
	return nil
}

// SetMix sets the wet amount.
func (d *Distortion) SetMix(mix float64) error {
	if err := validateMix("distortion", mix); err != nil {
		return err
	}
	d.mix.Store(mix)
	return nil
}

// SetOutputLevel sets the wet output gain.
func (d *Distortion) SetOutputLevel(level float64) error {
	if err := validateOutputLevel(level); err != nil {
		return err
	}
	d.outputLevel.Store(level)
	return nil
}

// SetClipLevel sets the hard-clip threshold.
func (d *Distortion) SetClipLevel(level float64) error {
	if err := validateClipLevel(level); err != nil {
		return err
	}
	d.clipLevel.Store(level)
	return nil
}

// SetBias sets the pre-shaping DC offset.
func (d *Distortion) SetBias(bias float64) error {
	if err := validateBias(bias); err != nil {
		return err
	}
	d.bias.Store(bias)
	return nil
}

// Mode returns the transfer function.
func (d *Distortion) Mode() DistortionMode { return DistortionMode(d.mode.Load()) }

// Drive returns the input gain.
func (d *Distortion) Drive() float64 { return d.drive.Load() }

// Mix returns the wet amount.
func (d *Distortion) Mix() float64 { return d.mix.Load() }

// OutputLevel returns the wet output gain.
func (d *Distortion) OutputLevel() float64 { return d.outputLevel.Load() }

// ClipLevel returns the hard-clip threshold.
func (d *Distortion) ClipLevel() float64 { return d.clipLevel.Load() }

// Bias returns the pre-shaping DC offset.
func (d *Distortion) Bias() float64 { return d.bias.Load() }

// Shape applies the transfer function of mode to x. clipLevel only affects
// DistortionModeHardClip.
func Shape(mode DistortionMode, x, clipLevel float64) float64 {
	switch mode {
	case DistortionModeHardClip:
		return core.Clamp(x, -clipLevel, clipLevel) / clipLevel
	case DistortionModeTanh:
		return math.Tanh(x)
	case DistortionModeSaturate:
		return x / (1 + math.Abs(x))
	case DistortionModeFullWaveRectify:
		return math.Abs(x)
	case DistortionModeHalfWaveRectify:
		return max(x, 0)
	default:
		if math.Abs(x) < 1 {
			return 1.5 * (x - x*x*x/3)
		}
		return math.Copysign(1, x)
	}
}

// ProcessSample processes one sample. The channel is ignored.
func (d *Distortion) ProcessSample(x float64, _ int) float64 {
	wet := d.outputLevel.Load() * Shape(d.Mode(), d.drive.Load()*x+d.bias.Load(), d.clipLevel.Load())
	mix := d.mix.Load()
	return (1-mix)*x + mix*wet
}

// Process applies the distortion to block in place.
func (d *Distortion) Process(block [][]float64) {
	n := core.ChannelCount(block, d.channels)
	if n == 0 || len(d.scratch) == 0 {
		return
	}

	mode := d.Mode()
	drive := d.drive.Load()
	bias := d.bias.Load()
	clip := d.clipLevel.Load()
	mix := d.mix.Load()
	wetGain := mix * d.outputLevel.Load()

	for ch := range n {
		buf := block[ch]
		for start := 0; start < len(buf); start += len(d.scratch) {
			seg := buf[start:min(start+len(d.scratch), len(buf))]
			wet := d.scratch[:len(seg)]

			vecmath.ScaleBlock(wet, seg, drive)
			for i, v := range wet {
				wet[i] = Shape(mode, v+bias, clip)
			}
			vecmath.ScaleBlock(wet, wet, wetGain)
			vecmath.ScaleBlock(seg, seg, 1-mix)
			vecmath.AddBlockInPlace(seg, wet)
		}
	}
}

// Reset is a no-op; Distortion has no state.
func (d *Distortion) Reset() {}
