package stats

// Summary describes one axis (sizes, latencies or rates) of a trial.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	P99    float64 `json:"p99"`
	P95    float64 `json:"p95"`
	P90    float64 `json:"p90"`
}

// Summarize computes a Summary of data, which must be sorted ascending.
// An empty slice yields the zero Summary.
func Summarize[T Number](sorted []T) Summary {
	n := len(sorted)
	if n == 0 {
		return Summary{}
	}

	var w Welford
	var sum float64
	for _, v := range sorted {
		x := float64(v)
		w.Add(x)
		sum += x
	}

	return Summary{
		Count:  n,
		Min:    float64(sorted[0]),
		Max:    float64(sorted[n-1]),
		Sum:    sum,
		Mean:   w.Mean(),
		StdDev: w.StdDev(),
		P99:    Percentile(sorted, 99),
		P95:    Percentile(sorted, 95),
		P90:    Percentile(sorted, 90),
	}
}

// Set groups the per-axis summaries of one trial.
type Set struct {
	Sizes     Summary  `json:"sizes"`
	Latencies Summary  `json:"latencies"`
	Rates     *Summary `json:"rates,omitempty"`
}

// Compute summarizes sorted sizes and latencies, and rates when non-nil.
// Each slice is an independently sorted view of the same samples.
func Compute(sizes, latencies []int64, rates []float64) *Set {
	set := &Set{
		Sizes:     Summarize(sizes),
		Latencies: Summarize(latencies),
	}
	if rates != nil {
		r := Summarize(rates)
		set.Rates = &r
	}
	return set
}
