// Package kernel holds the block kernels of the three biquad structures and
// picks the best set for the running CPU.
package kernel

import (
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients are a0-normalized biquad coefficients.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// State is the memory of one section. TDF2 and DF2 use the first two slots
// ([r1 r2] and [w1 w2]); DF1 uses all four as [x1 x2 y1 y2].
type State [4]float64

// BlockFn filters buf in place starting from s and returns the final state.
type BlockFn func(c Coefficients, s State, buf []float64) State

// Set is one implementation of every structure.
type Set struct {
	TDF2 BlockFn
	DF1  BlockFn
	DF2  BlockFn
}

// Entry is a registered kernel set.
type Entry struct {
	Name     string
	Level    cpu.SIMDLevel
	Priority int
	Kernels  Set
}

// Registry keeps entries ordered by descending priority.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// Default is the registry backends register into from init.
var Default = &Registry{}

// Register adds e. Entries of equal priority keep registration order.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	slices.SortStableFunc(r.entries, func(a, b Entry) int { return b.Priority - a.Priority })
}

// Select returns the highest priority entry the CPU can run.
func (r *Registry) Select(f cpu.Features) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if runs(f, e.Level) {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the registered entries in selection order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries)
}

// Clear drops every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}

func runs(f cpu.Features, level cpu.SIMDLevel) bool {
	if level == cpu.SIMDNone {
		return true
	}
	if f.ForceGeneric {
		return false
	}
	return (level == cpu.SIMDSSE2 && f.HasSSE2) || (level == cpu.SIMDAVX2 && f.HasAVX2)
}
