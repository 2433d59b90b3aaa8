package pan

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Law maps a pan position to a pair of channel gains.
type Law int

const (
	// Linear crossfades the gains: L = 1-t, R = t. The center is 6 dB down.
	Linear Law = iota
	// ConstantPower keeps L² + R² = 1: L = cos(tπ/2), R = sin(tπ/2). The
	// center is 3 dB down.
	ConstantPower
	// Minus4_5dB is the geometric mean of Linear and ConstantPower. The
	// center is 4.5 dB down.
	Minus4_5dB
)

// String returns the law name.
func (l Law) String() string {
	switch l {
	case Linear:
		return "linear"
	case ConstantPower:
		return "constant-power"
	case Minus4_5dB:
		return "-4.5dB"
	default:
		return fmt.Sprintf("Law(%d)", int(l))
	}
}

// Valid reports whether l is a known law.
func (l Law) Valid() bool { return l >= Linear && l <= Minus4_5dB }

// Gains returns the left and right gains of law at position, where -1 is
// hard left, 0 center and +1 hard right. Positions outside [-1, 1] are
// clamped. Unknown laws fall back to ConstantPower.
func Gains(law Law, position float64) (left, right float64) {
	t := (core.Clamp(position, -1, 1) + 1) / 2

	switch law {
	case Linear:
		return 1 - t, t
	case Minus4_5dB:
		a := t * math.Pi / 2
		return math.Sqrt((1 - t) * math.Cos(a)), math.Sqrt(t * math.Sin(a))
	default:
		a := t * math.Pi / 2
		return math.Cos(a), math.Sin(a)
	}
}
