// Package stats reduces trial samples into summary statistics.
//
// Order statistics are exact: callers pass fully sorted slices and
// percentiles interpolate linearly between neighbouring ranks.
package stats

import (
	"golang.org/x/exp/constraints"
)

// Number is any element type the engine can summarize.
type Number interface {
	constraints.Integer | constraints.Float
}

// Percentile returns the k-th percentile (0..100) of sorted data.
//
// With n = len(sorted), r = k(n-1)/100 and rmod = k(n-1) mod 100, the
// result is sorted[r] when rmod is zero and otherwise
// sorted[r] + rmod/100 * (sorted[r+1] - sorted[r]).
func Percentile[T Number](sorted []T, k int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if k <= 0 {
		return float64(sorted[0])
	}
	if k >= 100 {
		return float64(sorted[n-1])
	}

	r := k * (n - 1) / 100
	rmod := k * (n - 1) % 100
	if rmod == 0 {
		return float64(sorted[r])
	}

	lo := float64(sorted[r])
	hi := float64(sorted[r+1])
	return lo + (float64(rmod)/100.0)*(hi-lo)
}
