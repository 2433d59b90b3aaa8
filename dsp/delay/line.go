package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/interp"
)

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// Option configures a Line or MultiLine.
type Option func(*lineConfig)

type lineConfig struct {
	mode interp.Mode
}

// WithMode selects the fractional read algorithm. The default is
// interp.Linear.
func WithMode(mode interp.Mode) Option {
	return func(cfg *lineConfig) { cfg.mode = mode }
}

func applyOptions(opts []Option) lineConfig {
	cfg := lineConfig{mode: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// New returns a delay line of fixed size.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	cfg := applyOptions(opts)
	return &Line{buffer: make([]float64, size), mode: cfg.mode}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the fractional read algorithm.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// MaxDelay returns the largest delay, in samples, that ReadFractional
// serves without clamping. Larger delays would read samples that are about
// to be overwritten.
func (d *Line) MaxDelay() float64 {
	return float64(max(len(d.buffer)-d.mode.Taps()/2-1, 0))
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples; 0 is the most recent write.
// The delay is clamped to the buffer.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	delay = min(max(delay, 0), size-1)
	readPos := d.writePos - delay - 1
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadFractional reads a possibly non-integer delay, clamped to
// [0, MaxDelay].
func (d *Line) ReadFractional(delay float64) float64 {
	if len(d.buffer) == 0 {
		return 0
	}
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	k := int(delay)
	return d.readSplit(k, delay-float64(k))
}

// readSplit reads delay k+frac with k already clamped.
func (d *Line) readSplit(k int, frac float64) float64 {
	size := len(d.buffer)
	idx := d.writePos - k - 1
	if idx < 0 {
		idx += size
	}
	x0 := d.buffer[idx]
	if frac == 0 {
		return x0
	}

	older := idx - 1
	if older < 0 {
		older += size
	}
	newer := idx + 1
	if newer >= size {
		newer = 0
	}
	if k == 0 {
		newer = idx
	}
	oldest := older - 1
	if oldest < 0 {
		oldest += size
	}

	return interp.At(d.mode, frac, d.buffer[newer], x0, d.buffer[older], d.buffer[oldest])
}

// Reset clears line state.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
