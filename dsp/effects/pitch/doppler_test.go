package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/interp"
	"github.com/cwbudde/algo-fx/internal/testutil"
)

const testSampleRate = 48000.0

func monoConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithChannels(1))
}

func newPrepared(t *testing.T, cfg core.ProcessorConfig, opts ...DopplerOption) *DopplerShifter {
	t.Helper()
	p, err := NewDopplerShifter(opts...)
	require.NoError(t, err)
	require.NoError(t, p.Prepare(cfg))
	return p
}

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// meanPeriod returns the average distance between rising zero crossings of
// x[from:to], with crossings located by linear interpolation.
func meanPeriod(t *testing.T, x []float64, from, to int) float64 {
	t.Helper()
	var crossings []float64
	for i := from + 1; i < to; i++ {
		if x[i-1] < 0 && x[i] >= 0 {
			crossings = append(crossings, float64(i-1)+x[i-1]/(x[i-1]-x[i]))
		}
	}
	require.GreaterOrEqual(t, len(crossings), 3)
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

func TestDopplerUnityIsTransparent(t *testing.T) {
	p := newPrepared(t, monoConfig())

	input := testutil.DeterministicNoise(1, 1, 2048)
	block := testutil.Block(input)
	p.Process(block)

	testutil.RequireSliceNearlyEqual(t, block[0], input, 0)
}

func TestDopplerPitchDownPlaysAtHalfSpeed(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerRatio(0.5), WithDopplerWindowMs(100))

	block := testutil.Block(ramp(2000))
	p.Process(block)

	for n, y := range block[0] {
		require.InDelta(t, 0.5*float64(n), y, 1e-6, "sample %d", n)
	}
}

func TestDopplerPitchUpPlaysAtDoubleSpeed(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerRatio(2), WithDopplerWindowMs(100))

	block := testutil.Block(ramp(4800))
	p.Process(block)

	// The delay starts a full window back, so the output catches up with
	// the input after half a window.
	for n := 2401; n < 4790; n++ {
		require.InDelta(t, float64(2*n-4800), block[0][n], 1e-6, "sample %d", n)
	}
}

func TestDopplerShiftsSineFrequency(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (*DopplerShifter, error)
		from, to int
		period   float64
	}{
		{
			name:   "octave down",
			build:  func() (*DopplerShifter, error) { return NewPitchDown(12, WithDopplerWindowMs(100)) },
			from:   200,
			to:     9400,
			period: 96,
		},
		{
			name:   "octave up",
			build:  func() (*DopplerShifter, error) { return NewPitchUp(12, WithDopplerWindowMs(100)) },
			from:   2450,
			to:     4750,
			period: 24,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.build()
			require.NoError(t, err)
			require.NoError(t, p.Prepare(monoConfig()))

			block := testutil.Block(testutil.DeterministicSine(1000, testSampleRate, 1, 9600))
			p.Process(block)

			assert.InDelta(t, tc.period, meanPeriod(t, block[0], tc.from, tc.to), 0.1)
		})
	}
}

func TestDopplerDelayResetsAtWindow(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerRatio(0.5), WithDopplerWindowMs(10))

	p.Process(testutil.Block(make([]float64, 950)))
	assert.InDelta(t, 475, p.CurrentDelaySamples(0), 1e-6)

	p.Process(testutil.Block(make([]float64, 20)))
	assert.InDelta(t, 5, p.CurrentDelaySamples(0), 1e-6)
}

func TestDopplerCrossfadeAtUnityIsHalfWindowDelay(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerWindowMs(10), WithDopplerCrossfade(true))
	require.True(t, p.Crossfade())

	block := testutil.Block(testutil.Impulse(600, 0))
	p.Process(block)

	testutil.RequireSliceNearlyEqual(t, block[0], testutil.Impulse(600, 240), 1e-12)
}

func TestCrossfadeWeightsAreComplementary(t *testing.T) {
	for phase := 0.0; phase < 1; phase += 1.0 / 64 {
		assert.InDelta(t, 1, crossfadeWeight(phase)+crossfadeWeight(wrap(phase+0.5)), 1e-12)
	}
	assert.InDelta(t, 0, crossfadeWeight(0), 0)
	assert.InDelta(t, 1, crossfadeWeight(0.5), 0)
}

func TestWrap(t *testing.T) {
	assert.InDelta(t, 0.25, wrap(1.25), 1e-15)
	assert.InDelta(t, 0.75, wrap(-0.25), 1e-15)
	assert.InDelta(t, 0.0, wrap(-1e-20), 0)
}

func TestDopplerCrossfadeStaysBounded(t *testing.T) {
	p := newPrepared(t, monoConfig(),
		WithDopplerSemitones(7),
		WithDopplerCrossfade(true),
		WithDopplerInterpolation(interp.Hermite),
	)

	block := testutil.Block(testutil.DeterministicSine(440, testSampleRate, 1, 8192))
	p.Process(block)

	testutil.RequireFinite(t, block[0])
	assert.LessOrEqual(t, testutil.Peak(block[0]), 1.0+1e-3)
}

func TestDopplerProcessMatchesProcessSample(t *testing.T) {
	opts := []DopplerOption{WithDopplerSemitones(-5), WithDopplerWindowMs(20), WithDopplerMix(0.7)}
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithChannels(2))
	blockShifter := newPrepared(t, cfg, opts...)
	sampleShifter := newPrepared(t, cfg, opts...)

	left := testutil.DeterministicNoise(2, 1, 1024)
	right := testutil.DeterministicSine(300, testSampleRate, 0.5, 1024)
	block := testutil.Block(left, right)
	blockShifter.Process(block)

	for i := range left {
		require.InDelta(t, block[0][i], sampleShifter.ProcessSample(left[i], 0), 1e-12)
		require.InDelta(t, block[1][i], sampleShifter.ProcessSample(right[i], 1), 1e-12)
	}
}

func TestDopplerResetReproducesOutput(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerSemitones(3))

	input := testutil.DeterministicNoise(5, 1, 4096)
	first := testutil.Block(input)
	p.Process(first)

	p.Reset()
	second := testutil.Block(input)
	p.Process(second)

	testutil.RequireSliceNearlyEqual(t, second[0], first[0], 0)
}

func TestDopplerMixZeroIsTransparent(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerRatio(3), WithDopplerMix(0))

	input := testutil.DeterministicNoise(6, 1, 512)
	block := testutil.Block(input)
	p.Process(block)

	testutil.RequireSliceNearlyEqual(t, block[0], input, 0)
}

func TestDopplerUnpreparedPassesThrough(t *testing.T) {
	p, err := NewDopplerShifter(WithDopplerRatio(2))
	require.NoError(t, err)

	input := ramp(32)
	block := testutil.Block(append([]float64(nil), input...))
	p.Process(block)

	assert.Equal(t, input, block[0])
	assert.InDelta(t, 0.7, p.ProcessSample(0.7, 0), 0)
}

func TestSemitoneConversions(t *testing.T) {
	assert.InDelta(t, 2.0, SemitonesToRatio(12), 1e-15)
	assert.InDelta(t, 0.5, SemitonesToRatio(-12), 1e-15)
	assert.InDelta(t, 7.0, RatioToSemitones(SemitonesToRatio(7)), 1e-12)
}

func TestPitchUpDown(t *testing.T) {
	up, err := NewPitchUp(7)
	require.NoError(t, err)
	assert.Greater(t, up.PitchRatio(), 1.0)
	assert.InDelta(t, 7, up.PitchSemitones(), 1e-12)

	down, err := NewPitchDown(7)
	require.NoError(t, err)
	assert.Less(t, down.PitchRatio(), 1.0)
	assert.InDelta(t, -7, down.PitchSemitones(), 1e-12)

	_, err = NewPitchUp(-1)
	assert.Error(t, err)
	_, err = NewPitchDown(math.NaN())
	assert.Error(t, err)
	_, err = NewPitchUp(36)
	assert.Error(t, err)
}

func TestDopplerValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  DopplerOption
	}{
		{"ratio low", WithDopplerRatio(0.1)},
		{"ratio high", WithDopplerRatio(5)},
		{"ratio nan", WithDopplerRatio(math.NaN())},
		{"semitones", WithDopplerSemitones(-30)},
		{"window short", WithDopplerWindowMs(1)},
		{"window long", WithDopplerWindow(1)},
		{"mix", WithDopplerMix(-0.5)},
		{"interpolation", WithDopplerInterpolation(interp.Mode(7))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDopplerShifter(tc.opt)
			assert.Error(t, err)
		})
	}
}

func TestDopplerSetters(t *testing.T) {
	var p PitchProcessor
	shifter := newPrepared(t, monoConfig())
	p = shifter

	require.NoError(t, p.SetPitchSemitones(12))
	assert.InDelta(t, 2.0, p.PitchRatio(), 1e-15)
	require.NoError(t, p.SetPitchRatio(0.75))
	assert.InDelta(t, 0.75, p.PitchRatio(), 0)
	assert.Error(t, p.SetPitchRatio(0))
	assert.Error(t, p.SetPitchSemitones(48))
	assert.InDelta(t, 0.75, p.PitchRatio(), 0)

	require.NoError(t, shifter.SetWindow(0.02))
	require.NoError(t, shifter.SetMix(0.4))
	assert.InDelta(t, 0.02, shifter.Window(), 0)
	assert.InDelta(t, 0.4, shifter.Mix(), 0)
	assert.Error(t, shifter.SetWindow(0))
	assert.Error(t, shifter.SetMix(2))

	assert.InDelta(t, 0, shifter.CurrentDelaySamples(-1), 0)
}

func TestDopplerWindowChangeKeepsPhase(t *testing.T) {
	p := newPrepared(t, monoConfig(), WithDopplerRatio(0.5), WithDopplerWindowMs(10))

	p.Process(testutil.Block(make([]float64, 240)))
	require.InDelta(t, 120, p.CurrentDelaySamples(0), 1e-9)

	require.NoError(t, p.SetWindow(0.02))
	p.Process(testutil.Block(make([]float64, 0)))
	assert.InDelta(t, 240, p.CurrentDelaySamples(0), 1e-9)
}

func TestDopplerPrepareRejectsInvalidConfig(t *testing.T) {
	p, err := NewDopplerShifter()
	require.NoError(t, err)

	cfg := monoConfig()
	cfg.SampleRate = math.Inf(1)
	assert.ErrorIs(t, p.Prepare(cfg), core.ErrInvalidSampleRate)
}

func BenchmarkDopplerProcess(b *testing.B) {
	p, err := NewPitchUp(5, WithDopplerCrossfade(true))
	if err != nil {
		b.Fatal(err)
	}
	if err := p.Prepare(core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithChannels(2))); err != nil {
		b.Fatal(err)
	}

	block := testutil.Block(
		testutil.DeterministicSine(440, testSampleRate, 0.5, 1024),
		testutil.DeterministicSine(550, testSampleRate, 0.5, 1024),
	)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		p.Process(block)
	}
}
