package buffer

import "testing"

func TestPoolReuseIsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(2, 4)
	b.Channel(0)[0] = 42
	b.Channel(1)[3] = 43
	p.Put(b)

	b2 := p.Get(2, 4)
	for ch := range b2.Channels() {
		for i, v := range b2.Channel(ch) {
			if v != 0 {
				t.Fatalf("reused channel %d sample %d = %v, want 0", ch, i, v)
			}
		}
	}

	p.Put(b2)
}

func TestPoolPutNilSafe(_ *testing.T) {
	p := NewPool()
	p.Put(nil)
}
