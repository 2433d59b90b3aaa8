package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/lfo"
)

func TestSineValues(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	s, err := g.Sine(1000, 0.5, 96)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	if len(s) != 96 {
		t.Fatalf("len = %d, want 96", len(s))
	}

	for i, v := range s {
		want := 0.5 * math.Sin(2*math.Pi*1000*float64(i)/48000)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, v, want)
		}
	}
}

func TestSawtoothRamps(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(8))

	s, err := g.Sawtooth(1, 1, 9)
	if err != nil {
		t.Fatalf("Sawtooth() error = %v", err)
	}

	want := []float64{-1, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 0.75, -1}
	for i := range want {
		if math.Abs(s[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, s[i], want[i])
		}
	}
}

func TestPeriodicErrors(t *testing.T) {
	g := NewGenerator()

	if _, err := g.Periodic(lfo.Waveform(42), 100, 1, 10); err == nil {
		t.Fatal("expected error for unknown waveform")
	}

	if _, err := g.Sine(100, 1, 0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestImpulse(t *testing.T) {
	g := NewGenerator()

	x, err := g.Impulse(0.5, 3, 8)
	if err != nil {
		t.Fatalf("Impulse() error = %v", err)
	}

	for i, v := range x {
		want := 0.0
		if i == 3 {
			want = 0.5
		}

		if v != want {
			t.Fatalf("sample %d: got %v, want %v", i, v, want)
		}
	}

	if _, err := g.Impulse(1, 8, 8); err == nil {
		t.Fatal("expected error for position out of range")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	n1, err := NewGeneratorWithOptions(nil, WithSeed(42)).WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	n2, _ := NewGeneratorWithOptions(nil, WithSeed(42)).WhiteNoise(1, 16)
	n3, _ := NewGeneratorWithOptions(nil, WithSeed(43)).WhiteNoise(1, 16)

	same := true

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}

		if math.Abs(n1[i]) > 1 {
			t.Fatalf("sample %d out of range: %v", i, n1[i])
		}

		same = same && n1[i] == n3[i]
	}

	if same {
		t.Fatal("different seeds produced identical noise")
	}

	if _, err := NewGenerator().WhiteNoise(-1, 4); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-2, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if out[0] != -0.5 || out[1] != 0.25 {
		t.Fatalf("got %v", out)
	}

	zero, err := Normalize([]float64{0, 0}, 1)
	if err != nil || zero[0] != 0 {
		t.Fatalf("silence: got %v, %v", zero, err)
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := Normalize([]float64{1}, -1); err == nil {
		t.Fatal("expected error for negative peak")
	}
}
