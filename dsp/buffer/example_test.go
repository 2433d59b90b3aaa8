package buffer_test

import (
	"fmt"

	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-fx/dsp/buffer"
)

func ExampleBlock_FromFloat32Buffer() {
	host := &audio.Float32Buffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:   []float32{1, 0.5, 0.5, 0.25},
	}

	b := buffer.New(0, 0)
	b.FromFloat32Buffer(host)
	b.Scale(0.5)
	b.ToFloat32Buffer(host, nil)

	fmt.Println(b.Channel(0), b.Channel(1))
	fmt.Println(host.Data)
	// Output:
	// [0.5 0.25] [0.25 0.125]
	// [0.5 0.25 0.25 0.125]
}
