// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation (the fractional-delay default)
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum lets delay lines select the algorithm at construction
// time, and [At] reads with whichever mode was selected.
package interp
