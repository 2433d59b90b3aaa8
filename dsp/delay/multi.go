package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/interp"
)

// MultiLine is a per-channel fractional delay line with a shared delay
// setting. Buffers are allocated by Prepare; Push, Pop and Process never
// allocate.
//
// Setters are not safe to call concurrently with Process. Effects built on
// MultiLine exchange parameters through core.Param instead.
type MultiLine struct {
	mode       interp.Mode
	lines      []Line
	sampleRate float64
	capacity   int

	// Requested delay, kept in the unit it was given in so that it
	// survives a Prepare with a different sample rate.
	reqSamples float64
	reqSeconds float64
	timeBased  bool

	delay     float64
	delayInt  int
	delayFrac float64
}

// NewMulti returns an unprepared multi-channel delay line.
func NewMulti(opts ...Option) *MultiLine {
	cfg := applyOptions(opts)
	return &MultiLine{mode: cfg.mode}
}

// Prepare sizes one buffer per channel to hold cfg.MaxDelaySeconds of audio
// and clears all state.
func (m *MultiLine) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("delay line: %w", err)
	}

	maxSeconds := cfg.MaxDelaySeconds
	if maxSeconds <= 0 {
		maxSeconds = core.DefaultMaxDelaySeconds
	}

	capacity := int(math.Ceil(maxSeconds*cfg.SampleRate)) + m.mode.Taps()
	if len(m.lines) != cfg.Channels || m.capacity != capacity {
		m.lines = make([]Line, cfg.Channels)
		for i := range m.lines {
			m.lines[i] = Line{buffer: make([]float64, capacity), mode: m.mode}
		}
	} else {
		m.Reset()
	}

	m.sampleRate = cfg.SampleRate
	m.capacity = capacity
	m.resolveDelay()

	return nil
}

// Prepared reports whether Prepare has allocated the buffers.
func (m *MultiLine) Prepared() bool { return len(m.lines) > 0 }

// Capacity returns the per-channel buffer length in samples.
func (m *MultiLine) Capacity() int { return m.capacity }

// Channels returns the prepared channel count.
func (m *MultiLine) Channels() int { return len(m.lines) }

// SampleRate returns the prepared sample rate in Hz.
func (m *MultiLine) SampleRate() float64 { return m.sampleRate }

// MaxDelay returns the largest delay in samples the buffers can serve.
func (m *MultiLine) MaxDelay() float64 {
	if len(m.lines) == 0 {
		return 0
	}
	return m.lines[0].MaxDelay()
}

// SetDelaySamples sets the delay in (possibly fractional) samples. Values
// beyond MaxDelay are clamped.
func (m *MultiLine) SetDelaySamples(samples float64) error {
	if samples < 0 || !core.IsFinite(samples) {
		return fmt.Errorf("delay line delay must be >= 0 and finite: %f", samples)
	}
	m.reqSamples = samples
	m.timeBased = false
	m.resolveDelay()
	return nil
}

// SetDelaySeconds sets the delay in seconds.
func (m *MultiLine) SetDelaySeconds(seconds float64) error {
	if seconds < 0 || !core.IsFinite(seconds) {
		return fmt.Errorf("delay line time must be >= 0 and finite: %f", seconds)
	}
	m.reqSeconds = seconds
	m.timeBased = true
	m.resolveDelay()
	return nil
}

// SetDelayMs sets the delay in milliseconds.
func (m *MultiLine) SetDelayMs(ms float64) error {
	return m.SetDelaySeconds(ms * 0.001)
}

// SetBPM sets the delay to a number of beats at the given tempo, e.g.
// beats=0.5 for an eighth note.
func (m *MultiLine) SetBPM(bpm, beats float64) error {
	if bpm <= 0 || !core.IsFinite(bpm) {
		return fmt.Errorf("delay line tempo must be > 0 and finite: %f", bpm)
	}
	if beats < 0 || !core.IsFinite(beats) {
		return fmt.Errorf("delay line beats must be >= 0 and finite: %f", beats)
	}
	return m.SetDelaySeconds(core.BeatsToSeconds(beats, bpm))
}

// DelaySamples returns the effective delay after unit conversion and
// clamping.
func (m *MultiLine) DelaySamples() float64 { return m.delay }

func (m *MultiLine) resolveDelay() {
	d := m.reqSamples
	if m.timeBased {
		d = m.reqSeconds * m.sampleRate
	}
	if len(m.lines) > 0 {
		d = min(d, m.MaxDelay())
	}
	m.delay = d
	m.delayInt = int(d)
	m.delayFrac = d - float64(m.delayInt)
}

// Push writes one sample into channel ch and advances its write index.
func (m *MultiLine) Push(ch int, sample float64) {
	if ch < 0 || ch >= len(m.lines) {
		return
	}
	m.lines[ch].Write(sample)
}

// Pop reads channel ch at the configured delay.
func (m *MultiLine) Pop(ch int) float64 {
	if ch < 0 || ch >= len(m.lines) {
		return 0
	}
	return m.lines[ch].readSplit(m.delayInt, m.delayFrac)
}

// PopAt reads channel ch at an explicit delay in samples, clamped to
// [0, MaxDelay]. Modulated effects use it to retarget the read position
// every sample.
func (m *MultiLine) PopAt(ch int, delay float64) float64 {
	if ch < 0 || ch >= len(m.lines) {
		return 0
	}
	return m.lines[ch].ReadFractional(delay)
}

// Tick pushes x into channel ch and returns the delayed sample.
func (m *MultiLine) Tick(ch int, x float64) float64 {
	m.Push(ch, x)
	return m.Pop(ch)
}

// Process replaces every sample of the block with its delayed version,
// pushing before popping.
func (m *MultiLine) Process(block [][]float64) {
	n := core.ChannelCount(block, len(m.lines))
	for ch := range n {
		line := &m.lines[ch]
		buf := block[ch]
		for i, x := range buf {
			line.Write(x)
			buf[i] = line.readSplit(m.delayInt, m.delayFrac)
		}
	}
}

// Reset clears all buffers and write indices, keeping the delay setting.
func (m *MultiLine) Reset() {
	for i := range m.lines {
		m.lines[i].Reset()
	}
}
