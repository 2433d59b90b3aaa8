// Package delay provides circular fractional delay lines.
//
// [Line] is a single-channel ring buffer. [MultiLine] holds one Line per
// channel, is sized by Prepare, and implements the push-then-pop
// fractional delay used by echo, chorus, flanger, vibrato and
// delay-sweep pitch shifting.
//
// Delays are measured from the most recently written sample: a delay of 0
// returns the sample just pushed, a delay of N returns x[n-N], and a
// fractional delay k+f returns x[n-k]*(1-f) + x[n-k-1]*f.
package delay
