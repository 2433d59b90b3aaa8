package modulation_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effects/modulation"
)

func ExampleNewVibrato() {
	v, err := modulation.NewVibrato(
		modulation.WithVibratoDepth(0),
		modulation.WithVibratoBaseDelay(0.001),
	)
	if err != nil {
		fmt.Println("error")
		return
	}
	if err := v.Prepare(core.ApplyProcessorOptions(core.WithChannels(1))); err != nil {
		fmt.Println("error")
		return
	}

	buf := make([]float64, 64)
	buf[0] = 1
	v.Process([][]float64{buf})

	for i, x := range buf {
		if x != 0 {
			fmt.Printf("impulse at %d: %.2f\n", i, x)
		}
	}
	// Output:
	// impulse at 48: 1.00
}

func ExampleBarberPole_Weights() {
	b, err := modulation.NewBarberPole(modulation.WithBarberPoleRateHz(1))
	if err != nil {
		fmt.Println("error")
		return
	}
	if err := b.Prepare(core.ApplyProcessorOptions(core.WithChannels(1))); err != nil {
		fmt.Println("error")
		return
	}

	b.Process([][]float64{make([]float64, 12000)})
	wa, wb := b.Weights(0)
	fmt.Printf("%.2f + %.2f = %.2f\n", wa, wb, wa+wb)
	// Output:
	// 0.50 + 0.50 = 1.00
}
