package interp

// Mode selects the fractional read algorithm of a delay line.
type Mode int

const (
	// Linear blends the two samples adjacent to the read position.
	Linear Mode = iota
	// Hermite uses four samples and a cubic Hermite polynomial.
	Hermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Hermite:
		return "Hermite"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Linear || m == Hermite
}

// Taps returns the number of neighbouring samples the mode reads.
func (m Mode) Taps() int {
	if m == Hermite {
		return 4
	}
	return 2
}

// Linear2 interpolates between x0 (t=0) and x1 (t=1).
func Linear2(t, x0, x1 float64) float64 {
	return x0*(1-t) + x1*t
}

// At reads position t in [0, 1] between x0 and x1 with the given mode.
// xm1 and x2 are the outer neighbours; Linear ignores them.
func At(mode Mode, t, xm1, x0, x1, x2 float64) float64 {
	if mode == Hermite {
		return Hermite4(t, xm1, x0, x1, x2)
	}
	return Linear2(t, x0, x1)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
