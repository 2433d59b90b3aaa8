//go:build amd64 && !purego

package biquad

import _ "github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/kernel/unroll4"
