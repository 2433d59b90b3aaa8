package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-audio/audio"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-fx/dsp/buffer"
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effectchain"
	"github.com/cwbudde/algo-fx/dsp/signal"
)

const renderChannels = 2

type renderSettings struct {
	sampleRate float64
	blockSize  int
	seconds    float64
	source     string
	freq       float64
	amplitude  float64
}

// level holds per-channel peak and RMS in dBFS.
type level struct {
	stage  string
	peakDB [renderChannels]float64
	rmsDB  [renderChannels]float64
}

// renderChain runs a test signal through the chain document in host-sized
// interleaved float32 blocks and reports input and output levels.
func renderChain(doc string, rs renderSettings) ([]level, error) {
	frames := int(math.Round(rs.seconds * rs.sampleRate))
	if frames <= 0 {
		return nil, fmt.Errorf("render length must be > 0 samples: %d", frames)
	}
	if rs.blockSize <= 0 {
		return nil, fmt.Errorf("render block size must be > 0: %d", rs.blockSize)
	}

	mono, err := generate(rs, frames)
	if err != nil {
		return nil, err
	}

	chain := effectchain.New(effectchain.DefaultRegistry())
	if err := chain.LoadChain(doc); err != nil {
		return nil, err
	}
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(rs.sampleRate),
		core.WithBlockSize(rs.blockSize),
		core.WithChannels(renderChannels),
	)
	if err := chain.Prepare(cfg); err != nil {
		return nil, err
	}

	in := buffer.FromChannels(mono, mono)
	hostF32 := &audio.Float32Buffer{
		Format: &audio.Format{NumChannels: renderChannels, SampleRate: int(rs.sampleRate)},
	}
	scratch := in.ToFloat32Buffer(hostF32, nil)

	pool := buffer.NewPool()
	blk := pool.Get(renderChannels, rs.blockSize)
	defer pool.Put(blk)

	stride := renderChannels * rs.blockSize
	for start := 0; start < len(hostF32.Data); start += stride {
		end := min(start+stride, len(hostF32.Data))
		view := &audio.Float32Buffer{Format: hostF32.Format, Data: hostF32.Data[start:end]}

		blk.FromFloat32Buffer(view)
		chain.Process(blk.Data())
		scratch = blk.ToFloat32Buffer(view, scratch)
	}

	out := buffer.New(renderChannels, 0)
	out.FromFloat32Buffer(hostF32)

	return []level{measure("input", in), measure("output", out)}, nil
}

func generate(rs renderSettings, frames int) ([]float64, error) {
	gen := signal.NewGenerator(core.WithSampleRate(rs.sampleRate))

	switch strings.ToLower(rs.source) {
	case "sine":
		return gen.Sine(rs.freq, rs.amplitude, frames)
	case "saw":
		return gen.Sawtooth(rs.freq, rs.amplitude, frames)
	case "noise":
		return gen.WhiteNoise(rs.amplitude, frames)
	case "impulse":
		return gen.Impulse(rs.amplitude, 0, frames)
	default:
		return nil, fmt.Errorf("unknown source %q (sine, saw, noise or impulse)", rs.source)
	}
}

func measure(stage string, b *buffer.Block) level {
	l := level{stage: stage}
	for ch := range renderChannels {
		x := b.Channel(ch)
		peak := math.Max(floats.Max(x), -floats.Min(x))
		l.peakDB[ch] = core.LinearToDB(peak)
		l.rmsDB[ch] = core.LinearToDB(math.Sqrt(floats.Dot(x, x) / float64(len(x))))
	}
	return l
}

func levelHeader() []string {
	return []string{"Stage", "Peak L [dBFS]", "Peak R [dBFS]", "RMS L [dBFS]", "RMS R [dBFS]"}
}

func levelFields(l level) []string {
	return []string{
		l.stage,
		formatDB(l.peakDB[0]),
		formatDB(l.peakDB[1]),
		formatDB(l.rmsDB[0]),
		formatDB(l.rmsDB[1]),
	}
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.2f", db)
}
