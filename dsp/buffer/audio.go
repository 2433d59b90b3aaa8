package buffer

import (
	"github.com/go-audio/audio"
	"github.com/tphakala/simd/f32"
)

// FromFloat32Buffer reshapes b to the layout of src and converts its
// interleaved float32 samples.
func (b *Block) FromFloat32Buffer(src *audio.Float32Buffer) {
	nch := channelsOf(src.Format)
	b.Resize(nch, len(src.Data)/nch)

	for ch, dst := range b.channels {
		for i := range dst {
			dst[i] = float64(src.Data[i*nch+ch])
		}
	}
}

// ToFloat32Buffer writes the block into dst as interleaved float32 samples,
// growing dst.Data when needed. scratch holds one float32 line per channel
// for the stereo fast path; pass nil to let it allocate.
func (b *Block) ToFloat32Buffer(dst *audio.Float32Buffer, scratch [][]float32) [][]float32 {
	nch := len(b.channels)
	n := nch * b.frames

	if cap(dst.Data) < n {
		dst.Data = make([]float32, n)
	}

	dst.Data = dst.Data[:n]

	if dst.Format == nil {
		dst.Format = &audio.Format{NumChannels: nch}
	} else {
		dst.Format.NumChannels = nch
	}

	dst.SourceBitDepth = 32

	if nch != 2 {
		for ch, src := range b.channels {
			for i, v := range src {
				dst.Data[i*nch+ch] = float32(v)
			}
		}

		return scratch
	}

	scratch = ensureScratch(scratch, 2, b.frames)
	for ch, src := range b.channels {
		line := scratch[ch]
		for i, v := range src {
			line[i] = float32(v)
		}
	}

	f32.Interleave2(dst.Data, scratch[0], scratch[1])

	return scratch
}

// FromFloatBuffer reshapes b to the layout of src and copies its
// interleaved float64 samples.
func (b *Block) FromFloatBuffer(src *audio.FloatBuffer) {
	b.Resize(channelsOf(src.Format), 0)
	b.Deinterleave(src.Data)
}

// ToFloatBuffer writes the block into dst as interleaved float64 samples.
func (b *Block) ToFloatBuffer(dst *audio.FloatBuffer) {
	nch := len(b.channels)
	n := nch * b.frames

	if cap(dst.Data) < n {
		dst.Data = make([]float64, n)
	}

	dst.Data = dst.Data[:n]

	if dst.Format == nil {
		dst.Format = &audio.Format{NumChannels: nch}
	} else {
		dst.Format.NumChannels = nch
	}

	b.Interleave(dst.Data)
}

func channelsOf(f *audio.Format) int {
	if f == nil || f.NumChannels <= 0 {
		return 1
	}

	return f.NumChannels
}

func ensureScratch(scratch [][]float32, channels, frames int) [][]float32 {
	if len(scratch) < channels {
		scratch = make([][]float32, channels)
	}

	for i := range channels {
		if cap(scratch[i]) < frames {
			scratch[i] = make([]float32, frames)
		}

		scratch[i] = scratch[i][:frames]
	}

	return scratch
}
