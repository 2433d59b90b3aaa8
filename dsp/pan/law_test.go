package pan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-fx/dsp/core"
)

func TestGainsEndpoints(t *testing.T) {
	for _, law := range []Law{Linear, ConstantPower, Minus4_5dB} {
		t.Run(law.String(), func(t *testing.T) {
			l, r := Gains(law, -1)
			assert.InDelta(t, 1, l, 1e-12)
			assert.InDelta(t, 0, r, 1e-12)

			l, r = Gains(law, 1)
			assert.InDelta(t, 0, l, 1e-12)
			assert.InDelta(t, 1, r, 1e-12)
		})
	}
}

func TestGainsCenterLevel(t *testing.T) {
	tests := []struct {
		law  Law
		want float64
	}{
		{Linear, -6.0206},
		{ConstantPower, -3.0103},
		{Minus4_5dB, -4.5154},
	}

	for _, tc := range tests {
		t.Run(tc.law.String(), func(t *testing.T) {
			l, r := Gains(tc.law, 0)
			assert.InDelta(t, l, r, 1e-12)
			assert.InDelta(t, tc.want, core.LinearToDB(l), 1e-3)
		})
	}
}

func TestConstantPowerKeepsPower(t *testing.T) {
	for pos := -1.0; pos <= 1; pos += 0.05 {
		l, r := Gains(ConstantPower, pos)
		assert.InDelta(t, 1, l*l+r*r, 1e-12, "position %g", pos)
	}
}

func TestLinearKeepsAmplitude(t *testing.T) {
	for pos := -1.0; pos <= 1; pos += 0.05 {
		l, r := Gains(Linear, pos)
		assert.InDelta(t, 1, l+r, 1e-12, "position %g", pos)
	}
}

func TestGainsAreMirrored(t *testing.T) {
	for _, law := range []Law{Linear, ConstantPower, Minus4_5dB} {
		for pos := 0.0; pos <= 1; pos += 0.1 {
			l1, r1 := Gains(law, pos)
			l2, r2 := Gains(law, -pos)
			assert.InDelta(t, l1, r2, 1e-12)
			assert.InDelta(t, r1, l2, 1e-12)
		}
	}
}

func TestGainsClampPosition(t *testing.T) {
	l, r := Gains(ConstantPower, 3)
	assert.InDelta(t, 0, l, 1e-12)
	assert.InDelta(t, 1, r, 1e-12)

	l, r = Gains(Law(9), -0.5)
	wl, wr := Gains(ConstantPower, -0.5)
	assert.InDelta(t, wl, l, 0)
	assert.InDelta(t, wr, r, 0)
	assert.False(t, math.IsNaN(l))
}

func TestLawString(t *testing.T) {
	assert.Equal(t, "linear", Linear.String())
	assert.Equal(t, "constant-power", ConstantPower.String())
	assert.Equal(t, "-4.5dB", Minus4_5dB.String())
	assert.Equal(t, "Law(7)", Law(7).String())
	assert.False(t, Law(-1).Valid())
}
