package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effects"
)

func ExampleNewDelay() {
	d, err := effects.NewDelay(
		effects.WithDelaySamples(3),
		effects.WithDelayFeedback(0),
		effects.WithDelayMix(1),
	)
	if err != nil {
		panic(err)
	}
	if err := d.Prepare(core.ApplyProcessorOptions(core.WithChannels(1))); err != nil {
		panic(err)
	}

	block := [][]float64{{1, 0, 0, 0, 0, 0}}
	d.Process(block)
	fmt.Println(block[0])
	// Output: [0 0 0 1 0 0]
}

func ExampleNewEcho_pingPong() {
	e, err := effects.NewEcho(
		effects.WithEchoMode(effects.EchoPingPong),
		effects.WithEchoSamples(100),
		effects.WithEchoFeedback(0.5),
		effects.WithEchoDamping(0),
		effects.WithEchoMix(1),
	)
	if err != nil {
		panic(err)
	}
	if err := e.Prepare(core.ApplyProcessorOptions(core.WithChannels(2))); err != nil {
		panic(err)
	}

	block := core.NewBlock(2, 400)
	block[0][0] = 1
	e.Process(block)

	fmt.Printf("L100=%.2f R200=%.2f L300=%.2f\n", block[0][100], block[1][200], block[0][300])
	// Output: L100=1.00 R200=0.50 L300=0.25
}

func ExampleShape() {
	for _, mode := range []effects.DistortionMode{
		effects.DistortionModeSoftClip,
		effects.DistortionModeFullWaveRectify,
		effects.DistortionModeHalfWaveRectify,
	} {
		fmt.Printf("%s: %.4f\n", mode, effects.Shape(mode, -0.5, 1))
	}
	// Output:
	// softclip: -0.6875
	// fullwave: 0.5000
	// halfwave: 0.0000
}

func ExampleNewBitCrusher() {
	bc, err := effects.NewBitCrusher(effects.WithBitCrusherBitDepth(2))
	if err != nil {
		panic(err)
	}
	if err := bc.Prepare(core.ApplyProcessorOptions(core.WithChannels(1))); err != nil {
		panic(err)
	}

	block := [][]float64{{0.3, -0.8, 0.1}}
	bc.Process(block)
	fmt.Println(block[0])
	// Output: [0.5 -1 0]
}
