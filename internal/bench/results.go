package bench

import (
	"sort"
	"time"
)

// Sample is one recorded access.
type Sample struct {
	Size    int64         `json:"size"`
	Latency time.Duration `json:"latency"`
}

// Rate returns size*1024/latency, the throughput figure summarized by the
// statistics engine. A non-positive latency yields 0.
func (s Sample) Rate() float64 {
	if s.Latency <= 0 {
		return 0
	}
	return float64(s.Size) * 1024 / float64(s.Latency.Nanoseconds())
}

// ResultSet is a fixed-capacity, append-only list of samples in arrival
// order. It is written by a single sampler goroutine and only read after
// that goroutine has been joined, so it carries no lock.
type ResultSet struct {
	samples []Sample
	dropped int64
}

// NewResultSet creates a result set holding at most capacity samples.
func NewResultSet(capacity int) *ResultSet {
	if capacity < 0 {
		capacity = 0
	}
	return &ResultSet{samples: make([]Sample, 0, capacity)}
}

// Append stores s if capacity remains. Otherwise the sample is counted as
// dropped and Append returns false; stored samples are never overwritten.
func (r *ResultSet) Append(s Sample) bool {
	if len(r.samples) == cap(r.samples) {
		r.dropped++
		return false
	}
	r.samples = append(r.samples, s)
	return true
}

// Len returns the number of stored samples.
func (r *ResultSet) Len() int {
	return len(r.samples)
}

// Cap returns the capacity.
func (r *ResultSet) Cap() int {
	return cap(r.samples)
}

// Dropped returns how many appends were rejected.
func (r *ResultSet) Dropped() int64 {
	return r.dropped
}

// Samples returns the stored samples in arrival order. The slice must not
// be modified.
func (r *ResultSet) Samples() []Sample {
	return r.samples
}

// Sizes returns the sample sizes sorted ascending.
func (r *ResultSet) Sizes() []int64 {
	out := make([]int64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Size
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Latencies returns the sample latencies in nanoseconds sorted ascending.
func (r *ResultSet) Latencies() []int64 {
	out := make([]int64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Latency.Nanoseconds()
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Rates returns the derived sample rates sorted ascending.
func (r *ResultSet) Rates() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Rate()
	}
	sort.Float64s(out)
	return out
}
