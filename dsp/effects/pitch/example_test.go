package pitch_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effects/pitch"
)

func ExampleNewPitchDown() {
	p, err := pitch.NewPitchDown(12, pitch.WithDopplerWindowMs(100))
	if err != nil {
		panic(err)
	}
	if err := p.Prepare(core.ApplyProcessorOptions(core.WithChannels(1))); err != nil {
		panic(err)
	}

	block := core.NewBlock(1, 9)
	for i := range block[0] {
		block[0][i] = float64(i)
	}
	p.Process(block)

	fmt.Printf("ratio %.2f: %.1f\n", p.PitchRatio(), block[0])
	// Output: ratio 0.50: [0.0 0.5 1.0 1.5 2.0 2.5 3.0 3.5 4.0]
}
