package biquad

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func resetKernels() {
	kernelSet, kernelName = kernel.Set{}, ""
	kernelOnce = sync.Once{}
}

func TestKernelSetsMatchSampleLoop(t *testing.T) {
	c := smoothing()
	for _, e := range kernel.Default.Entries() {
		for _, n := range []int{0, 1, 3, 4, 37} {
			t.Run(fmt.Sprintf("%s/%d", e.Name, n), func(t *testing.T) {
				input := noise(n, 5)
				stages := []struct {
					name string
					ref  Stage
					run  kernel.BlockFn
				}{
					{"tdf2", NewSection(c), e.Kernels.TDF2},
					{"df1", NewDF1Section(c), e.Kernels.DF1},
					{"df2", NewDF2Section(c), e.Kernels.DF2},
				}
				for _, st := range stages {
					want := make([]float64, n)
					for i, x := range input {
						want[i] = st.ref.ProcessSample(x)
					}
					got := append([]float64(nil), input...)
					st.run(c.kernelCoefficients(), kernel.State{}, got)
					for i := range got {
						if !almostEqual(got[i], want[i], eps) {
							t.Fatalf("%s sample %d: got %.15f, want %.15f", st.name, i, got[i], want[i])
						}
					}
				}
			})
		}
	}
}

func TestKernelStateCarriesAcrossBlocks(t *testing.T) {
	c := smoothing()
	input := noise(23, 9)
	for _, e := range kernel.Default.Entries() {
		whole := append([]float64(nil), input...)
		e.Kernels.DF1(c.kernelCoefficients(), kernel.State{}, whole)

		split := append([]float64(nil), input...)
		st := e.Kernels.DF1(c.kernelCoefficients(), kernel.State{}, split[:10])
		e.Kernels.DF1(c.kernelCoefficients(), st, split[10:])

		for i := range whole {
			if !almostEqual(whole[i], split[i], eps) {
				t.Fatalf("%s sample %d: got %.15f, want %.15f", e.Name, i, split[i], whole[i])
			}
		}
	}
}

func TestKernelNameFollowsFeatures(t *testing.T) {
	cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true})
	defer cpu.ResetDetection()
	resetKernels()
	defer resetKernels()

	if got := KernelName(); got != "generic" {
		t.Fatalf("forced generic: got %q", got)
	}
}

func BenchmarkSectionProcessBlock(b *testing.B) {
	for _, e := range kernel.Default.Entries() {
		b.Run(e.Name, func(b *testing.B) {
			c := smoothing().kernelCoefficients()
			buf := noise(4096, 1)
			var st kernel.State
			b.SetBytes(4096 * 8)
			b.ReportAllocs()
			for b.Loop() {
				st = e.Kernels.TDF2(c, st, buf)
			}
		})
	}
}
