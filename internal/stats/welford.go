package stats

import "math"

// Welford accumulates mean and variance in a single numerically stable pass.
// The zero value is ready to use.
type Welford struct {
	n    int
	mean float64
	m2   float64
}

// Add folds x into the running moments.
func (w *Welford) Add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// Count returns the number of values added.
func (w *Welford) Count() int {
	return w.n
}

// Mean returns the running mean, or 0 before any value is added.
func (w *Welford) Mean() float64 {
	return w.mean
}

// Variance returns the sum of squared deviations divided by n-1, or 0 for
// fewer than two values.
func (w *Welford) Variance() float64 {
	if w.n < 2 {
		return 0
	}
	return w.m2 / float64(w.n-1)
}

// StdDev returns the square root of Variance.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}
