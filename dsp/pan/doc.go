// Package pan places a mono signal in a stereo field.
//
// Gains returns the left and right gains of a pan law for a position in
// [-1, 1]. Panner applies them to a block, optionally sweeping the position
// with an LFO (auto-pan).
package pan
