package core

import (
	"sync"
	"testing"
)

func TestParamLoadStore(t *testing.T) {
	p := NewParam(0.25)
	if got := p.Load(); got != 0.25 {
		t.Fatalf("Load() = %v, want 0.25", got)
	}
	p.Store(-3.5)
	if got := p.Load(); got != -3.5 {
		t.Fatalf("Load() = %v, want -3.5", got)
	}
}

func TestParamConcurrentAccess(t *testing.T) {
	p := NewParam(0)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			p.Store(float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			if v := p.Load(); v < 0 || v > 999 {
				t.Errorf("torn read: %v", v)
				return
			}
		}
	}()
	wg.Wait()
}

func TestRampReachesTargetExactly(t *testing.T) {
	r := NewRamp(4, 0)
	r.SetTarget(1)

	want := []float64{0.25, 0.5, 0.75, 1, 1}
	for i, w := range want {
		got := r.Next()
		if !NearlyEqual(got, w, 1e-12) {
			t.Fatalf("step %d: got %v want %v", i, got, w)
		}
	}
	if r.Value() != 1 {
		t.Fatalf("final value = %v, want exactly 1", r.Value())
	}
	if r.Active() {
		t.Fatal("ramp still active after completion")
	}
}

func TestRampZeroLengthIsImmediate(t *testing.T) {
	r := NewRamp(0, 2)
	r.SetTarget(5)
	if got := r.Next(); got != 5 {
		t.Fatalf("Next() = %v, want 5", got)
	}
}

func TestRampRetargetMidway(t *testing.T) {
	r := NewRamp(2, 0)
	r.SetTarget(2)
	r.Next()
	r.SetTarget(0)
	r.Next()
	if got := r.Next(); got != 0 {
		t.Fatalf("Next() = %v, want 0", got)
	}
	if r.Target() != 0 {
		t.Fatalf("Target() = %v, want 0", r.Target())
	}
}
