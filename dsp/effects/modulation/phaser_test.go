package modulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fx/internal/testutil"
)

func TestPhaserBuildsAllpassCascade(t *testing.T) {
	p, err := NewPhaser(WithPhaserStages(4))
	require.NoError(t, err)
	require.NoError(t, p.Prepare(stereoConfig()))

	for ch := range 2 {
		chain := p.Chain(ch)
		require.NotNil(t, chain)
		require.Equal(t, 4, chain.NumSections())

		for i := range chain.NumSections() {
			c := chain.Section(i).Coefficients
			assert.InDelta(t, 1.0, c.B2, 1e-12)
			assert.InDelta(t, c.B0, c.A2, 1e-12)
			assert.InDelta(t, c.B1, c.A1, 1e-12)
			assert.True(t, c.IsStable())
		}
	}
	assert.Nil(t, p.Chain(2))
}

func TestPhaserZeroMixIsDry(t *testing.T) {
	p, err := NewPhaser(WithPhaserMix(0))
	require.NoError(t, err)
	require.NoError(t, p.Prepare(monoConfig()))

	in := testutil.DeterministicNoise(2, 1, 2048)
	block := testutil.Block(in)
	p.Process(block)
	testutil.RequireSliceNearlyEqual(t, block[0], in, 0)
}

func TestPhaserWetPathPreservesEnergy(t *testing.T) {
	p, err := NewPhaser(
		WithPhaserRateHz(0.01),
		WithPhaserFeedback(0),
		WithPhaserMix(1),
	)
	require.NoError(t, err)
	require.NoError(t, p.Prepare(monoConfig()))

	block := testutil.Block(testutil.Impulse(8192, 0))
	p.Process(block)

	energy := 0.0
	for _, v := range block[0] {
		energy += v * v
	}
	assert.InDelta(t, 1.0, energy, 1e-2)
}

func TestPhaserSweepStaysInRange(t *testing.T) {
	p, err := NewPhaser(WithPhaserFrequencyRangeHz(200, 2000), WithPhaserRateHz(5))
	require.NoError(t, err)
	assert.InDelta(t, 200.0, p.frequency(0), 1e-9)
	assert.InDelta(t, 2000.0, p.frequency(1), 1e-9)
	assert.InDelta(t, 632.4555320336759, p.frequency(0.5), 1e-9)

	require.NoError(t, p.Prepare(monoConfig()))
	block := testutil.Block(testutil.DeterministicNoise(4, 1, 48000))
	p.Process(block)
	testutil.RequireFinite(t, block[0])
}

func TestPhaserHighFeedbackStaysFinite(t *testing.T) {
	p, err := NewPhaser(WithPhaserFeedback(0.99), WithPhaserStages(12))
	require.NoError(t, err)
	require.NoError(t, p.Prepare(monoConfig()))

	block := testutil.Block(testutil.DeterministicNoise(8, 1, 48000))
	p.Process(block)
	testutil.RequireFinite(t, block[0])
}

func TestPhaserValidation(t *testing.T) {
	_, err := NewPhaser(WithPhaserStages(0))
	assert.Error(t, err)
	_, err = NewPhaser(WithPhaserStages(maxPhaserStages + 1))
	assert.Error(t, err)
	_, err = NewPhaser(WithPhaserQ(0))
	assert.Error(t, err)
	_, err = NewPhaser(WithPhaserFrequencyRangeHz(500, 400))
	assert.Error(t, err)

	p, err := NewPhaser()
	require.NoError(t, err)
	assert.Error(t, p.SetFrequencyRangeHz(0, 100))
	assert.Error(t, p.SetFeedback(-1))
	require.NoError(t, p.SetFrequencyRangeHz(100, 4000))
	assert.Equal(t, 100.0, p.MinFrequencyHz())
	assert.Equal(t, 4000.0, p.MaxFrequencyHz())
	assert.Equal(t, defaultPhaserStages, p.Stages())
}
