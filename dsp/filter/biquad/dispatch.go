package biquad

import (
	"sync"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel"
	_ "github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel/generic"
	"github.com/cwbudde/algo-vecmath/cpu"
)

var (
	kernelSet  kernel.Set
	kernelName string
	kernelOnce sync.Once
)

func kernels() *kernel.Set {
	kernelOnce.Do(selectKernels)
	return &kernelSet
}

func selectKernels() {
	e, ok := kernel.Default.Select(cpu.DetectFeatures())
	if !ok {
		panic("biquad: no block kernels registered")
	}
	kernelSet, kernelName = e.Kernels, e.Name
}

// KernelName reports which block kernel set ProcessBlock runs on.
func KernelName() string {
	kernelOnce.Do(selectKernels)
	return kernelName
}

func (c Coefficients) kernelCoefficients() kernel.Coefficients {
	return kernel.Coefficients{B0: c.B0, B1: c.B1, B2: c.B2, A1: c.A1, A2: c.A2}
}
