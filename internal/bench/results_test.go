package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultSet_CapacityAndDrops(t *testing.T) {
	rs := NewResultSet(3)

	for i := 1; i <= 5; i++ {
		ok := rs.Append(Sample{Size: int64(i), Latency: time.Duration(i)})
		assert.Equal(t, i <= 3, ok, "append %d", i)
	}

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, 3, rs.Cap())
	assert.Equal(t, int64(2), rs.Dropped())

	// Earlier samples are kept, never overwritten.
	for i, s := range rs.Samples() {
		assert.Equal(t, int64(i+1), s.Size)
	}
}

func TestResultSet_ZeroCapacity(t *testing.T) {
	rs := NewResultSet(-1)

	assert.False(t, rs.Append(Sample{Size: 1, Latency: 1}))
	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, int64(1), rs.Dropped())
	assert.Empty(t, rs.Sizes())
}

func TestResultSet_IndependentSortedViews(t *testing.T) {
	rs := NewResultSet(4)
	rs.Append(Sample{Size: 400, Latency: 10})
	rs.Append(Sample{Size: 100, Latency: 40})
	rs.Append(Sample{Size: 300, Latency: 20})
	rs.Append(Sample{Size: 200, Latency: 30})

	assert.Equal(t, []int64{100, 200, 300, 400}, rs.Sizes())
	assert.Equal(t, []int64{10, 20, 30, 40}, rs.Latencies())

	// Arrival order is untouched by the views.
	assert.Equal(t, int64(400), rs.Samples()[0].Size)

	rates := rs.Rates()
	assert.Len(t, rates, 4)
	for i := 1; i < len(rates); i++ {
		assert.LessOrEqual(t, rates[i-1], rates[i])
	}
}

func TestSample_Rate(t *testing.T) {
	tests := []struct {
		name     string
		sample   Sample
		expected float64
	}{
		{"one byte per ns", Sample{Size: 100, Latency: 100}, 1024},
		{"half", Sample{Size: 50, Latency: 100}, 512},
		{"empty access", Sample{Size: 0, Latency: 7}, 0},
		{"zero latency", Sample{Size: 10, Latency: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sample.Rate())
		})
	}
}
