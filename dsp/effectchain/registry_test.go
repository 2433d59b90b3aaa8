package effectchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	factory := func(Params) (Runtime, error) { return &gainRuntime{}, nil }

	require.NoError(t, r.Register("gain", factory))
	require.ErrorIs(t, r.Register("gain", factory), errDuplicateEffect)
	assert.Error(t, r.Register("", factory))
	assert.Error(t, r.Register("nil", nil))

	assert.NotNil(t, r.Lookup("gain"))
	assert.Nil(t, r.Lookup("missing"))
	assert.Panics(t, func() { r.MustRegister("gain", factory) })
}

func TestRegistryTypesSorted(t *testing.T) {
	assert.Equal(t, []string{"gain", "gain2"}, gainRegistry().Types())
}

func TestDefaultRegistryTypes(t *testing.T) {
	want := []string{
		"autowah", "barberpole", "bitcrusher", "chorus", "delay", "distortion", "doppler",
		"echo", "flanger", "pan", "phaser", "pingpong", "ringmod", "tremolo", "vibrato",
	}
	assert.Equal(t, want, DefaultRegistry().Types())
}

func TestDefaultRegistryEffectsSilentOnSilence(t *testing.T) {
	r := DefaultRegistry()
	for _, typ := range r.Types() {
		t.Run(typ, func(t *testing.T) {
			rt, err := r.Lookup(typ)(Params{ID: typ, Type: typ})
			require.NoError(t, err)
			require.NoError(t, rt.Configure(Params{ID: typ, Type: typ}))
			require.NoError(t, rt.Prepare(stereoConfig()))

			for blk := range 100 {
				block := [][]float64{make([]float64, 512), make([]float64, 512)}
				rt.Process(block)

				for ch := range block {
					for i, v := range block[ch] {
						require.Zerof(t, v, "block %d channel %d sample %d", blk, ch, i)
					}
				}
			}

			rt.Reset()
		})
	}
}

func TestDefaultRegistryRejectsBadEnums(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Lookup("echo")(Params{Str: map[string]string{"mode": "triple"}})
	assert.Error(t, err)
	_, err = r.Lookup("barberpole")(Params{Str: map[string]string{"direction": "sideways"}})
	assert.Error(t, err)
	_, err = r.Lookup("pan")(Params{Str: map[string]string{"law": "cubic"}})
	assert.Error(t, err)
}

func TestParamsAccessors(t *testing.T) {
	p := Params{Num: map[string]float64{"a": 2}, Str: map[string]string{"s": "x"}}

	assert.InDelta(t, 2.0, p.GetNum("a", 5), 0)
	assert.InDelta(t, 5.0, p.GetNum("b", 5), 0)
	assert.Equal(t, "x", p.GetStr("s", "y"))
	assert.Equal(t, "y", p.GetStr("t", "y"))
	assert.InDelta(t, 1.0, Params{}.GetNum("a", 1), 0)
}
