package eq

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
)

const (
	defaultFrequency = 1000.0
	defaultGainDB    = 0.0
)

// Option configures a Filter at construction time.
type Option func(*filterConfig) error

type filterConfig struct {
	typ       Type
	structure biquad.Structure
	freq      float64
	q         float64
	gainDB    float64
}

// WithType selects the filter type. Default is Lowpass.
func WithType(t Type) Option {
	return func(cfg *filterConfig) error {
		if !t.Valid() {
			return fmt.Errorf("eq filter type is unknown: %d", int(t))
		}

		cfg.typ = t

		return nil
	}
}

// WithStructure selects the realisation. Default is Transposed Direct Form II.
func WithStructure(s biquad.Structure) Option {
	return func(cfg *filterConfig) error {
		if !s.Valid() {
			return fmt.Errorf("eq filter structure is unknown: %d", int(s))
		}

		cfg.structure = s

		return nil
	}
}

// WithFrequency sets the corner or centre frequency in Hz. Default 1 kHz.
func WithFrequency(hz float64) Option {
	return func(cfg *filterConfig) error {
		if err := validateFrequency(hz); err != nil {
			return err
		}

		cfg.freq = hz

		return nil
	}
}

// WithQ sets the quality factor. Default 1/sqrt(2).
func WithQ(q float64) Option {
	return func(cfg *filterConfig) error {
		if err := validateQ(q); err != nil {
			return err
		}

		cfg.q = q

		return nil
	}
}

// WithGainDB sets the shelf or peak gain in dB. Default 0.
func WithGainDB(db float64) Option {
	return func(cfg *filterConfig) error {
		if err := validateGain(db); err != nil {
			return err
		}

		cfg.gainDB = db

		return nil
	}
}

// Filter is a multi-channel biquad processor.
//
// SetFrequency, SetQ, SetGain and SetType may be called from any goroutine.
// Prepare, Process, ProcessSample and Reset belong to the audio goroutine.
type Filter struct {
	typ       atomic.Int32
	structure biquad.Structure

	freq       core.Param
	q          core.Param
	gainDB     core.Param
	sampleRate core.Param

	pending atomic.Pointer[biquad.Coefficients]
	coeffs  biquad.Coefficients
	stages  []biquad.Stage
}

// New creates an unprepared filter.
func New(opts ...Option) (*Filter, error) {
	cfg := filterConfig{
		typ:       Lowpass,
		structure: biquad.TransposedDirectForm2,
		freq:      defaultFrequency,
		q:         core.DefaultQ,
		gainDB:    defaultGainDB,
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Filter{structure: cfg.structure, coeffs: biquad.Identity()}
	f.typ.Store(int32(cfg.typ))
	f.freq.Store(cfg.freq)
	f.q.Store(cfg.q)
	f.gainDB.Store(cfg.gainDB)

	return f, nil
}

// Prepare allocates per-channel state for cfg.Channels channels, designs the
// coefficients for cfg.SampleRate and clears all history.
func (f *Filter) Prepare(cfg core.ProcessorConfig) error {
	if err := core.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("eq filter: %w", err)
	}

	f.sampleRate.Store(cfg.SampleRate)
	f.coeffs = f.design()
	f.pending.Store(nil)

	if len(f.stages) != cfg.Channels {
		f.stages = make([]biquad.Stage, cfg.Channels)
		for i := range f.stages {
			st, err := biquad.NewStage(f.structure, f.coeffs)
			if err != nil {
				return err
			}

			f.stages[i] = st
		}

		return nil
	}

	for _, st := range f.stages {
		st.SetCoefficients(f.coeffs)
		st.Reset()
	}

	return nil
}

// SetFrequency sets the corner or centre frequency in Hz. Frequencies at or
// above 0.49*fs are clamped when the coefficients are designed.
func (f *Filter) SetFrequency(hz float64) error {
	if err := validateFrequency(hz); err != nil {
		return err
	}

	f.freq.Store(hz)
	f.updateFilter()

	return nil
}

// SetQ sets the quality factor.
func (f *Filter) SetQ(q float64) error {
	if err := validateQ(q); err != nil {
		return err
	}

	f.q.Store(q)
	f.updateFilter()

	return nil
}

// SetGain sets the shelf or peak gain in dB. Other types ignore it.
func (f *Filter) SetGain(db float64) error {
	if err := validateGain(db); err != nil {
		return err
	}

	f.gainDB.Store(db)
	f.updateFilter()

	return nil
}

// SetType switches the coefficient formula and keeps the filter state.
func (f *Filter) SetType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("eq filter type is unknown: %d", int(t))
	}

	f.typ.Store(int32(t))
	f.updateFilter()

	return nil
}

// Type returns the filter type.
func (f *Filter) Type() Type { return Type(f.typ.Load()) }

// Structure returns the realisation chosen at construction.
func (f *Filter) Structure() biquad.Structure { return f.structure }

// Frequency returns the requested frequency in Hz.
func (f *Filter) Frequency() float64 { return f.freq.Load() }

// Q returns the quality factor.
func (f *Filter) Q() float64 { return f.q.Load() }

// Gain returns the gain in dB.
func (f *Filter) Gain() float64 { return f.gainDB.Load() }

// Channels returns the prepared channel count.
func (f *Filter) Channels() int { return len(f.stages) }

// Coefficients designs and returns the coefficients for the current
// parameters. Before Prepare it returns the identity.
func (f *Filter) Coefficients() biquad.Coefficients {
	if f.sampleRate.Load() <= 0 {
		return biquad.Identity()
	}

	return f.design()
}

// ProcessSample filters one sample of channel ch. Out-of-range channels
// pass through.
func (f *Filter) ProcessSample(x float64, ch int) float64 {
	f.applyPending()

	if ch < 0 || ch >= len(f.stages) {
		return x
	}

	return f.stages[ch].ProcessSample(x)
}

// Process filters block in place. block[ch] is one channel; channels beyond
// the prepared count are left untouched.
func (f *Filter) Process(block [][]float64) {
	f.applyPending()

	n := core.ChannelCount(block, len(f.stages))
	for ch := range n {
		f.stages[ch].ProcessBlock(block[ch])
	}
}

// Reset clears the history of every channel.
func (f *Filter) Reset() {
	for _, st := range f.stages {
		st.Reset()
	}
}

func (f *Filter) design() biquad.Coefficients {
	return f.Type().Design(f.freq.Load(), f.q.Load(), f.gainDB.Load(), f.sampleRate.Load())
}

func (f *Filter) updateFilter() {
	if f.sampleRate.Load() <= 0 {
		return
	}

	c := f.design()
	f.pending.Store(&c)
}

func (f *Filter) applyPending() {
	if f.pending.Load() == nil {
		return
	}

	c := f.pending.Swap(nil)
	if c == nil {
		return
	}

	f.coeffs = *c
	for _, st := range f.stages {
		st.SetCoefficients(f.coeffs)
	}
}

func validateFrequency(hz float64) error {
	if hz <= 0 || !core.IsFinite(hz) {
		return fmt.Errorf("eq filter frequency must be > 0 and finite: %f", hz)
	}

	return nil
}

func validateQ(q float64) error {
	if q <= 0 || !core.IsFinite(q) {
		return fmt.Errorf("eq filter q must be > 0 and finite: %f", q)
	}

	return nil
}

func validateGain(db float64) error {
	if !core.IsFinite(db) {
		return fmt.Errorf("eq filter gain must be finite: %f", db)
	}

	return nil
}

var _ core.Processor = (*Filter)(nil)
