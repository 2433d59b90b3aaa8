package effectchain

import "github.com/cwbudde/algo-fx/dsp/core"

// Runtime is the per-node processing and configuration contract.
type Runtime interface {
	core.Processor
	Configure(params Params) error
}

// effectRuntime adapts a processor and its parameter mapping to Runtime.
type effectRuntime[P core.Processor] struct {
	fx        P
	configure func(fx P, s *setter)
}

func newRuntime[P core.Processor](fx P, configure func(P, *setter)) *effectRuntime[P] {
	return &effectRuntime[P]{fx: fx, configure: configure}
}

func (r *effectRuntime[P]) Configure(p Params) error {
	s := &setter{p: p}
	r.configure(r.fx, s)
	return s.err()
}

func (r *effectRuntime[P]) Prepare(cfg core.ProcessorConfig) error { return r.fx.Prepare(cfg) }

func (r *effectRuntime[P]) Process(block [][]float64) { r.fx.Process(block) }

func (r *effectRuntime[P]) Reset() { r.fx.Reset() }

// Effect returns the wrapped processor.
func (r *effectRuntime[P]) Effect() P { return r.fx }
