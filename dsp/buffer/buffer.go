package buffer

import (
	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Block is a planar audio block: one []float64 per channel, all of the same
// length.
type Block struct {
	channels [][]float64
	frames   int
}

// New returns a zeroed block of the given shape.
func New(channels, frames int) *Block {
	b := &Block{}
	b.Resize(channels, frames)

	return b
}

// FromChannels wraps existing channel slices without copying. All slices
// are truncated to the shortest one.
func FromChannels(channels ...[]float64) *Block {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
		for _, ch := range channels[1:] {
			frames = min(frames, len(ch))
		}
	}

	b := &Block{channels: make([][]float64, len(channels)), frames: frames}
	for i, ch := range channels {
		b.channels[i] = ch[:frames]
	}

	return b
}

// Data returns the planar channel slices for passing to Process.
func (b *Block) Data() [][]float64 { return b.channels }

// Channel returns the samples of channel ch.
func (b *Block) Channel(ch int) []float64 { return b.channels[ch] }

// Channels returns the channel count.
func (b *Block) Channels() int { return len(b.channels) }

// Frames returns the number of samples per channel.
func (b *Block) Frames() int { return b.frames }

// Resize reshapes the block, reusing existing capacity where possible.
// Samples exposed by growing are zeroed; retained samples are kept.
func (b *Block) Resize(channels, frames int) {
	channels = max(channels, 0)
	frames = max(frames, 0)

	if cap(b.channels) >= channels {
		b.channels = b.channels[:channels]
	} else {
		grown := make([][]float64, channels)
		copy(grown, b.channels)
		b.channels = grown
	}

	for i, ch := range b.channels {
		old := min(len(ch), frames)
		if cap(ch) >= frames {
			ch = ch[:frames]
		} else {
			next := make([]float64, frames)
			core.CopyInto(next, ch)
			ch = next
		}

		clear(ch[old:])
		b.channels[i] = ch
	}

	b.frames = frames
}

// Zero sets every sample to 0.
func (b *Block) Zero() {
	core.ZeroBlock(b.channels)
}

// Scale multiplies every sample by gain.
func (b *Block) Scale(gain float64) {
	for _, ch := range b.channels {
		f64.Scale(ch, ch, gain)
	}
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	c := New(len(b.channels), b.frames)
	for i, ch := range b.channels {
		core.CopyInto(c.channels[i], ch)
	}

	return c
}

// Interleave writes the block into dst as frame-major samples
// (L0 R0 L1 R1 ...). dst must hold Channels()*Frames() values.
func (b *Block) Interleave(dst []float64) {
	nch := len(b.channels)
	if nch == 2 {
		f64.Interleave2(dst[:2*b.frames], b.channels[0], b.channels[1])
		return
	}

	for ch, src := range b.channels {
		for i, v := range src {
			dst[i*nch+ch] = v
		}
	}
}

// Deinterleave fills the block from frame-major src. The block must already
// have the desired channel count; its frame count is set from len(src).
func (b *Block) Deinterleave(src []float64) {
	nch := len(b.channels)
	if nch == 0 {
		return
	}

	b.Resize(nch, len(src)/nch)

	for ch, dst := range b.channels {
		for i := range dst {
			dst[i] = src[i*nch+ch]
		}
	}
}
