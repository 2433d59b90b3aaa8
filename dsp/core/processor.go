package core

// Processor is the uniform three-phase lifecycle shared by every effect:
// Prepare once per stream configuration, control-rate setters at any time,
// then Process once per audio block.
//
// Process mutates a planar block (block[channel][frame]) in place. It never
// allocates, blocks or returns an error; channels beyond the prepared
// count are left untouched.
type Processor interface {
	Prepare(cfg ProcessorConfig) error
	Process(block [][]float64)
	Reset()
}

// SampleProcessor is implemented by processors that can also run one
// sample at a time on a given channel.
type SampleProcessor interface {
	ProcessSample(x float64, channel int) float64
}
