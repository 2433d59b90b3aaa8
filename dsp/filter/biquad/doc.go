// Package biquad provides second-order IIR filter runtime primitives.
//
// The same a0-normalized [Coefficients] can be run through three
// realisations that share one transfer function:
//
//   - [DF1Section]: Direct Form I, two input and two output history values.
//   - [DF2Section]: Direct Form II (canonical), two internal state values.
//   - [Section]: Transposed Direct Form II, two accumulator registers. This is
//     the default.
//
// ProcessBlock of every structure runs on a kernel set chosen once for the
// CPU; [KernelName] reports which. [NewStage] builds any of them from a
// [Structure] value. Sections can be cascaded via [Chain]. Coefficient
// design lives in dsp/filter/design.
package biquad
