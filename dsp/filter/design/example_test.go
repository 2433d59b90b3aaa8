package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/filter/design"
)

func ExampleLowpass() {
	lp := design.Lowpass(1000, 0.7071067811865476, 48000)
	peak := design.Peak(1000, 6, 1, 48000)
	shelf := design.LowShelf(200, 6, 48000)

	fmt.Printf("lowpass at corner: %.2f dB\n", lp.MagnitudeDB(1000, 48000))
	fmt.Printf("peak at centre:    %.2f dB\n", peak.MagnitudeDB(1000, 48000))
	fmt.Printf("shelf at 1 Hz:     %.2f dB\n", shelf.MagnitudeDB(1, 48000))
	fmt.Println("stable:", lp.IsStable() && peak.IsStable() && shelf.IsStable())
	// Output:
	// lowpass at corner: -3.01 dB
	// peak at centre:    6.00 dB
	// shelf at 1 Hz:     6.00 dB
	// stable: true
}
