// Package pitch provides delay-based pitch shifting.
//
// Included processors:
//   - DopplerShifter: Linear delay sweep with a reset per window, optionally
//     crossfaded between two taps. NewPitchUp and NewPitchDown build it from
//     a semitone interval.
//   - PitchProcessor: Shared interface for interchangeable shifters.
package pitch
