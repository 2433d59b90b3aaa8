package core

import (
	"math"
	"sync/atomic"
)

// Param is a float64 parameter that may be written from a control goroutine
// while the audio goroutine reads it. Reads and writes are single atomic
// operations on the IEEE-754 bit pattern, so neither side ever blocks.
//
// Processors load each Param once per block and feed the value into a Ramp
// so that a change becomes an audible glide instead of a step.
type Param struct {
	bits atomic.Uint64
}

// NewParam returns a Param holding v.
func NewParam(v float64) *Param {
	p := &Param{}
	p.Store(v)
	return p
}

// Load returns the most recently stored value.
func (p *Param) Load() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Store publishes v.
func (p *Param) Store(v float64) {
	p.bits.Store(math.Float64bits(v))
}

// Ramp is a linear smoother. After SetTarget it moves toward the target in
// a fixed number of equal steps and lands on it exactly, so a constant
// parameter produces bit-exact output.
type Ramp struct {
	current float64
	target  float64
	step    float64
	left    int
	length  int
}

// NewRamp returns a ramp that completes a transition in length samples.
// A length <= 0 makes every change immediate.
func NewRamp(length int, initial float64) Ramp {
	return Ramp{current: initial, target: initial, length: max(length, 0)}
}

// SetLength changes the transition time used by subsequent SetTarget calls.
func (r *Ramp) SetLength(length int) {
	r.length = max(length, 0)
}

// SetTarget starts a transition toward v. It is a no-op if v is already
// the target.
func (r *Ramp) SetTarget(v float64) {
	if v == r.target {
		return
	}

	r.target = v
	if r.length == 0 {
		r.current = v
		r.left = 0
		return
	}

	r.left = r.length
	r.step = (v - r.current) / float64(r.length)
}

// SetImmediate jumps to v without a transition.
func (r *Ramp) SetImmediate(v float64) {
	r.current = v
	r.target = v
	r.left = 0
}

// Next advances one sample and returns the new value.
func (r *Ramp) Next() float64 {
	if r.left == 0 {
		return r.current
	}

	r.left--
	if r.left == 0 {
		r.current = r.target
	} else {
		r.current += r.step
	}

	return r.current
}

// Value returns the current value without advancing.
func (r *Ramp) Value() float64 { return r.current }

// Target returns the value the ramp is moving toward.
func (r *Ramp) Target() float64 { return r.target }

// Active reports whether a transition is in progress.
func (r *Ramp) Active() bool { return r.left > 0 }
