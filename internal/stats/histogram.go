package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range for latencies in nanoseconds: 1ns to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = int64(time.Hour)
	histogramSigFigs = 3
)

// Quantile is one rung of a latency ladder.
type Quantile struct {
	Quantile float64 `json:"quantile"`
	Value    int64   `json:"value"`
}

// LadderQuantiles are the quantiles reported by Ladder.
var LadderQuantiles = []float64{50, 75, 99.9, 99.99, 100}

// Ladder estimates latency quantiles with an HDR histogram. The values are
// approximate (3 significant figures) and complement the exact percentiles
// of Summarize with the tail rungs it does not compute.
func Ladder(latencies []int64) []Quantile {
	if len(latencies) == 0 {
		return nil
	}

	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	for _, v := range latencies {
		if v < histogramMin {
			v = histogramMin
		}
		if v > histogramMax {
			v = histogramMax
		}
		// RecordValue only fails outside [histogramMin, histogramMax],
		// which the clamp above rules out.
		_ = hist.RecordValue(v)
	}

	ladder := make([]Quantile, 0, len(LadderQuantiles))
	for _, q := range LadderQuantiles {
		ladder = append(ladder, Quantile{Quantile: q, Value: hist.ValueAtQuantile(q)})
	}
	return ladder
}
