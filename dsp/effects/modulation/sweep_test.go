package modulation

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/internal/testutil"
)

const testSampleRate = 48000.0

func monoConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithChannels(1))
}

func stereoConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithChannels(2))
}

// delayed returns in shifted right by n samples.
func delayed(in []float64, n int) []float64 {
	out := make([]float64, len(in))
	copy(out[n:], in)
	return out
}

func TestZeroDepthIsStaticDelay(t *testing.T) {
	const baseSamples = 240
	base := baseSamples / testSampleRate

	chorus, err := NewChorus(WithChorusDepth(0), WithChorusBaseDelay(base), WithChorusMix(1))
	require.NoError(t, err)
	flanger, err := NewFlanger(WithFlangerDepth(0), WithFlangerBaseDelay(base), WithFlangerFeedback(0), WithFlangerMix(1))
	require.NoError(t, err)
	vibrato, err := NewVibrato(WithVibratoDepth(0), WithVibratoBaseDelay(base))
	require.NoError(t, err)
	barber, err := NewBarberPole(WithBarberPoleDepth(0), WithBarberPoleBaseDelay(base), WithBarberPoleFeedback(0), WithBarberPoleMix(1))
	require.NoError(t, err)

	cases := []struct {
		name string
		proc core.Processor
	}{
		{"chorus", chorus},
		{"flanger", flanger},
		{"vibrato", vibrato},
		{"barberpole", barber},
	}

	in := testutil.DeterministicNoise(7, 0.5, 2048)
	want := delayed(in, baseSamples)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.proc.Prepare(stereoConfig()))

			block := testutil.Block(in, in)
			tc.proc.Process(block)

			testutil.RequireSliceNearlyEqual(t, block[0], want, 1e-9)
			testutil.RequireSliceNearlyEqual(t, block[1], want, 1e-9)
		})
	}
}

func TestSilenceInSilenceOut(t *testing.T) {
	chorus, _ := NewChorus()
	flanger, _ := NewFlanger(WithFlangerFeedback(0.9))
	vibrato, _ := NewVibrato()
	barber, _ := NewBarberPole(WithBarberPoleFeedback(0.5))
	phaser, _ := NewPhaser()
	tremolo, _ := NewTremolo()
	ring, _ := NewRingModulator()
	wah, _ := NewAutoWah()

	for _, proc := range []core.Processor{chorus, flanger, vibrato, barber, phaser, tremolo, ring, wah} {
		require.NoError(t, proc.Prepare(stereoConfig()))

		block := core.NewBlock(2, 4096)
		proc.Process(block)

		for ch := range block {
			for i, v := range block[ch] {
				require.Zerof(t, v, "%T ch %d sample %d", proc, ch, i)
			}
		}
	}
}

func TestUnpreparedProcessIsPassThrough(t *testing.T) {
	flanger, err := NewFlanger()
	require.NoError(t, err)

	in := testutil.DeterministicSine(440, testSampleRate, 1, 64)
	block := testutil.Block(in)
	flanger.Process(block)
	assert.Equal(t, in, block[0])
	assert.Equal(t, 0.25, flanger.ProcessSample(0.25, 0))
}

func TestFlangerFeedbackEchoes(t *testing.T) {
	const n = 100

	f, err := NewFlanger(
		WithFlangerDepth(0),
		WithFlangerBaseDelay(n/testSampleRate),
		WithFlangerFeedback(0.5),
		WithFlangerMix(1),
	)
	require.NoError(t, err)
	require.NoError(t, f.Prepare(monoConfig()))

	block := testutil.Block(testutil.Impulse(4*n+1, 0))
	f.Process(block)

	out := block[0]
	assert.InDelta(t, 1.0, out[n], 1e-9)
	assert.InDelta(t, 0.5, out[2*n], 1e-9)
	assert.InDelta(t, 0.25, out[3*n], 1e-9)
	assert.InDelta(t, 0.125, out[4*n], 1e-9)
	assert.InDelta(t, 0.0, out[n+1], 1e-9)
}

func TestFlangerProcessMatchesProcessSample(t *testing.T) {
	f1, err := NewFlanger()
	require.NoError(t, err)
	f2, err := NewFlanger()
	require.NoError(t, err)
	require.NoError(t, f1.Prepare(monoConfig()))
	require.NoError(t, f2.Prepare(monoConfig()))

	in := testutil.DeterministicSine(220, testSampleRate, 0.8, 1024)

	block := testutil.Block(in)
	f1.Process(block)

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = f2.ProcessSample(x, 0)
	}

	testutil.RequireSliceNearlyEqual(t, block[0], want, 1e-12)
}

func TestResetRestoresOutput(t *testing.T) {
	c, err := NewChorus()
	require.NoError(t, err)
	require.NoError(t, c.Prepare(stereoConfig()))

	in := testutil.DeterministicNoise(3, 1, 1500)

	first := testutil.Block(in, in)
	c.Process(first)

	c.Reset()

	second := testutil.Block(in, in)
	c.Process(second)

	testutil.RequireSliceNearlyEqual(t, second[0], first[0], 1e-12)
	testutil.RequireSliceNearlyEqual(t, second[1], first[1], 1e-12)
}

func TestChorusStereoPhaseDecorrelatesChannels(t *testing.T) {
	in := testutil.DeterministicSine(330, testSampleRate, 1, 4800)

	locked, err := NewChorus(WithChorusStereoPhase(0), WithChorusRateHz(2))
	require.NoError(t, err)
	require.NoError(t, locked.Prepare(stereoConfig()))
	block := testutil.Block(in, in)
	locked.Process(block)
	testutil.RequireSliceNearlyEqual(t, block[1], block[0], 0)

	spread, err := NewChorus(WithChorusStereoPhase(0.25), WithChorusRateHz(2))
	require.NoError(t, err)
	require.NoError(t, spread.Prepare(stereoConfig()))
	block = testutil.Block(in, in)
	spread.Process(block)

	diff, err := testutil.MaxAbsDiff(block[0], block[1])
	require.NoError(t, err)
	assert.Greater(t, diff, 1e-3)
}

func TestMixChangeGlidesToDry(t *testing.T) {
	c, err := NewChorus(WithChorusMix(1))
	require.NoError(t, err)
	require.NoError(t, c.Prepare(monoConfig()))

	require.NoError(t, c.SetMix(0))
	assert.Equal(t, 0.0, c.Mix())

	in := testutil.DeterministicNoise(11, 1, 4096)
	block := testutil.Block(in)
	c.Process(block)

	glide := int(smoothingSeconds * testSampleRate)
	assert.NotEqual(t, in[10], block[0][10])
	testutil.RequireSliceNearlyEqual(t, block[0][glide:], in[glide:], 1e-12)
}

func TestSweptDelayStaysWithinBounds(t *testing.T) {
	v, err := NewVibrato(
		WithVibratoRateHz(maxRateHz),
		WithVibratoDepth(maxVibratoDepthSeconds),
		WithVibratoBaseDelay(maxVibratoBaseSeconds),
	)
	require.NoError(t, err)
	require.NoError(t, v.Prepare(monoConfig()))

	block := testutil.Block(testutil.DeterministicNoise(5, 1, 8192))
	v.Process(block)
	testutil.RequireFinite(t, block[0])
	assert.LessOrEqual(t, testutil.Peak(block[0]), 1.0)
}

func TestSettersValidate(t *testing.T) {
	c, err := NewChorus()
	require.NoError(t, err)
	f, err := NewFlanger()
	require.NoError(t, err)
	v, err := NewVibrato()
	require.NoError(t, err)

	assert.Error(t, c.SetRateHz(0))
	assert.Error(t, c.SetRateHz(math.NaN()))
	assert.Error(t, c.SetDepth(-0.001))
	assert.Error(t, c.SetBaseDelay(0))
	assert.Error(t, c.SetMix(1.5))
	assert.Error(t, f.SetFeedback(1))
	assert.Error(t, f.SetBaseDelay(1))
	assert.Error(t, v.SetDepth(math.Inf(1)))

	require.NoError(t, f.SetFeedback(-0.5))
	assert.Equal(t, -0.5, f.Feedback())
	require.NoError(t, c.SetRateHz(1.5))
	assert.Equal(t, 1.5, c.RateHz())
	assert.Equal(t, defaultChorusBaseSeconds, c.BaseDelay())
}

func TestOptionsValidate(t *testing.T) {
	_, err := NewChorus(WithChorusVoices(0))
	assert.Error(t, err)
	_, err = NewChorus(WithChorusVoices(maxChorusVoices + 1))
	assert.Error(t, err)
	_, err = NewFlanger(WithFlangerWaveform(99))
	assert.Error(t, err)
	_, err = NewVibrato(WithVibratoRateHz(-1))
	assert.Error(t, err)
	_, err = NewBarberPole(WithBarberPoleDirection(5))
	assert.Error(t, err)

	c, err := NewChorus(nil, WithChorusVoices(4))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Voices())
}

func TestPrepareRejectsInvalidConfig(t *testing.T) {
	f, err := NewFlanger()
	require.NoError(t, err)

	cfg := monoConfig()
	cfg.SampleRate = 0
	require.ErrorIs(t, f.Prepare(cfg), core.ErrInvalidSampleRate)

	cfg = monoConfig()
	cfg.Channels = 0
	require.ErrorIs(t, f.Prepare(cfg), core.ErrInvalidChannels)
}

func TestConcurrentSettersDuringProcess(t *testing.T) {
	f, err := NewFlanger()
	require.NoError(t, err)
	require.NoError(t, f.Prepare(stereoConfig()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			_ = f.SetDepth(float64(i%10) * 0.0005)
			_ = f.SetMix(float64(i%5) * 0.2)
		}
	}()

	block := core.NewBlock(2, 256)
	for range 50 {
		copy(block[0], testutil.DeterministicNoise(1, 1, 256))
		copy(block[1], block[0])
		f.Process(block)
	}
	wg.Wait()

	testutil.RequireFinite(t, block[0])
	testutil.RequireFinite(t, block[1])
}

func BenchmarkChorusProcess(b *testing.B) {
	c, err := NewChorus()
	if err != nil {
		b.Fatal(err)
	}
	if err := c.Prepare(stereoConfig()); err != nil {
		b.Fatal(err)
	}

	block := core.NewBlock(2, 1024)
	copy(block[0], testutil.DeterministicNoise(1, 1, 1024))
	copy(block[1], block[0])

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		c.Process(block)
	}
}
