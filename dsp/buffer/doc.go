// Package buffer holds planar multi-channel audio blocks and converts them
// to and from the interleaved buffers used by hosts and file libraries.
//
// Processors in this module work on [][]float64 blocks, one slice per
// channel. [Block] owns such a slice set and bridges it to
// go-audio's Float32Buffer and FloatBuffer. [Pool] recycles blocks across
// callbacks.
package buffer
