package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroBlock clears every channel of a planar block.
func ZeroBlock(block [][]float64) {
	for _, ch := range block {
		Zero(ch)
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	return n
}

// NewBlock allocates a zeroed planar block.
func NewBlock(channels, frames int) [][]float64 {
	block := make([][]float64, channels)
	for i := range block {
		block[i] = make([]float64, frames)
	}
	return block
}

// ChannelCount returns the number of block channels a processor prepared
// for `prepared` channels should touch.
func ChannelCount(block [][]float64, prepared int) int {
	return min(len(block), prepared)
}
