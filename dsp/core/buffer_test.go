package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestCopyInto(t *testing.T) {
	dst := make([]float64, 2)

	n := CopyInto(dst, []float64{1, 2, 3})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	if dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestZeroBlockAndChannelCount(t *testing.T) {
	block := NewBlock(3, 4)
	for _, ch := range block {
		for i := range ch {
			ch[i] = 1
		}
	}
	ZeroBlock(block)
	for c, ch := range block {
		for i, v := range ch {
			if v != 0 {
				t.Fatalf("block[%d][%d] = %v, want 0", c, i, v)
			}
		}
	}

	if n := ChannelCount(block, 2); n != 2 {
		t.Fatalf("ChannelCount = %d, want 2", n)
	}
	if n := ChannelCount(block, 8); n != 3 {
		t.Fatalf("ChannelCount = %d, want 3", n)
	}
}
