package buffer

import (
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZeroFilled(t *testing.T) {
	b := New(2, 8)
	require.Equal(t, 2, b.Channels())
	require.Equal(t, 8, b.Frames())

	for ch := range b.Channels() {
		assert.Equal(t, make([]float64, 8), b.Channel(ch))
	}

	empty := New(-1, -4)
	assert.Zero(t, empty.Channels())
	assert.Zero(t, empty.Frames())
}

func TestFromChannelsSharesMemoryAndTruncates(t *testing.T) {
	l := []float64{1, 2, 3}
	r := []float64{4, 5}

	b := FromChannels(l, r)
	require.Equal(t, 2, b.Frames())

	b.Channel(0)[0] = 99
	assert.Equal(t, 99.0, l[0])
	assert.Zero(t, FromChannels().Frames())
}

func TestResizeKeepsAndZeroes(t *testing.T) {
	b := New(1, 4)
	copy(b.Channel(0), []float64{1, 2, 3, 4})

	b.Resize(1, 2)
	b.Resize(2, 6)

	assert.Equal(t, []float64{1, 2, 0, 0, 0, 0}, b.Channel(0))
	assert.Equal(t, make([]float64, 6), b.Channel(1))
}

func TestScaleZeroCopy(t *testing.T) {
	b := FromChannels([]float64{1, -2}, []float64{0.5, 4})
	c := b.Copy()

	b.Scale(0.5)
	assert.Equal(t, []float64{0.5, -1}, b.Channel(0))
	assert.Equal(t, []float64{0.25, 2}, b.Channel(1))
	assert.Equal(t, []float64{1, -2}, c.Channel(0))

	b.Zero()
	assert.Equal(t, []float64{0, 0}, b.Channel(1))
}

func TestInterleaveRoundTrip(t *testing.T) {
	for _, nch := range []int{1, 2, 3} {
		b := New(nch, 5)
		for ch := range nch {
			for i := range 5 {
				b.Channel(ch)[i] = float64(10*ch + i)
			}
		}

		inter := make([]float64, nch*5)
		b.Interleave(inter)
		assert.Equal(t, float64(10*(nch-1)), inter[nch-1], "channels=%d", nch)

		back := New(nch, 0)
		back.Deinterleave(inter)
		assert.Equal(t, b.Data(), back.Data(), "channels=%d", nch)
	}
}

func TestFloat32BufferAdapters(t *testing.T) {
	src := &audio.Float32Buffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:   []float32{0.5, -0.5, 0.25, -0.25, 1, -1},
	}

	b := New(0, 0)
	b.FromFloat32Buffer(src)
	require.Equal(t, 2, b.Channels())
	assert.Equal(t, []float64{0.5, 0.25, 1}, b.Channel(0))
	assert.Equal(t, []float64{-0.5, -0.25, -1}, b.Channel(1))

	b.Scale(2)

	dst := &audio.Float32Buffer{}
	scratch := b.ToFloat32Buffer(dst, nil)
	assert.Len(t, scratch, 2)
	assert.Equal(t, []float32{1, -1, 0.5, -0.5, 2, -2}, dst.Data)
	assert.Equal(t, 2, dst.Format.NumChannels)
	assert.Equal(t, 32, dst.SourceBitDepth)

	mono := FromChannels([]float64{0.25, 0.75})
	mono.ToFloat32Buffer(dst, scratch)
	assert.Equal(t, []float32{0.25, 0.75}, dst.Data)
	assert.Equal(t, 1, dst.Format.NumChannels)
}

func TestFloatBufferAdapters(t *testing.T) {
	src := &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 3, SampleRate: 44100},
		Data:   []float64{1, 2, 3, 4, 5, 6},
	}

	b := New(0, 0)
	b.FromFloatBuffer(src)
	require.Equal(t, 3, b.Channels())
	assert.Equal(t, []float64{1, 4}, b.Channel(0))

	dst := &audio.FloatBuffer{Format: &audio.Format{SampleRate: 44100}}
	b.ToFloatBuffer(dst)
	assert.Equal(t, src.Data, dst.Data)
	assert.Equal(t, 3, dst.Format.NumChannels)

	noFormat := &audio.FloatBuffer{Data: []float64{7, 8}}
	b.FromFloatBuffer(noFormat)
	assert.Equal(t, 1, b.Channels())
	assert.Equal(t, []float64{7, 8}, b.Channel(0))
}
