package effectchain

import (
	"github.com/cwbudde/algo-fx/dsp/core"
)

// gainRuntime multiplies every sample by a gain parameter.
type gainRuntime struct {
	gain           float64
	configureErr   error
	configureCalls int
	prepareCalls   int
	resetCalls     int
}

func (g *gainRuntime) Configure(params Params) error {
	g.configureCalls++
	g.gain = params.GetNum("gain", 1)
	return g.configureErr
}

func (g *gainRuntime) Prepare(core.ProcessorConfig) error {
	g.prepareCalls++
	return nil
}

func (g *gainRuntime) Process(block [][]float64) {
	for _, ch := range block {
		for i := range ch {
			ch[i] *= g.gain
		}
	}
}

func (g *gainRuntime) Reset() { g.resetCalls++ }

func gainRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("gain", func(Params) (Runtime, error) { return &gainRuntime{}, nil })
	r.MustRegister("gain2", func(Params) (Runtime, error) { return &gainRuntime{}, nil })
	return r
}

func stereoConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(core.WithSampleRate(48000), core.WithChannels(2))
}
