package bench

import (
	"context"
	"fmt"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/membench/internal/arena"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/metrics"
)

func trialConfig(duration time.Duration) *config.RunConfig {
	return &config.RunConfig{
		Duration:     config.Duration(duration),
		DataSizeGB:   1,
		Seed:         42,
		Mode:         config.ModeRead,
		Quick:        true,
		TickInterval: config.Duration(33 * time.Millisecond),
		MaxAccessMB:  config.DefaultMaxAccessMB,
	}
}

func TestTrial_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1GB end-to-end trial in short mode")
	}

	cfg := trialConfig(2 * time.Second)
	logger, hook := logtest.NewNullLogger()
	collector := metrics.NewCollector(nil)
	a := arena.New(make([]byte, cfg.DataSizeBytes()))
	defer a.Release()

	trial := NewTrial(cfg, a, WithLogger(logger), WithCollector(collector))
	res, err := trial.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateStopped, trial.State())

	assert.Equal(t, 60, res.Capacity)
	assert.Equal(t, int64(60), res.Ticks.Issued)
	assert.Equal(t, res.Ticks.Issued, res.Ticks.Delivered+res.Ticks.Missed)
	assert.LessOrEqual(t, int64(res.Len()), res.Ticks.Delivered)
	assert.Greater(t, res.Len(), 30)
	assert.Zero(t, res.Dropped)

	for _, s := range res.Samples() {
		assert.Less(t, s.Size, cfg.MaxAccessBytes())
		assert.Positive(t, s.Latency)
	}

	set := res.Stats(true)
	require.NotNil(t, set)
	assert.Equal(t, res.Len(), set.Sizes.Count)
	assert.Equal(t, res.Len(), set.Latencies.Count)
	require.NotNil(t, set.Rates)
	assert.Less(t, set.Sizes.Max, float64(cfg.MaxAccessBytes()))
	assert.NotEmpty(t, res.Ladder())

	assert.Equal(t, fmt.Sprintf("Read %d segments of memory.", res.Len()), hook.LastEntry().Message)
}

func TestTrial_AlwaysBusyWorker(t *testing.T) {
	cfg := trialConfig(time.Second)
	logger, hook := logtest.NewNullLogger()
	a := arena.New(make([]byte, 4096))

	trial := NewTrial(cfg, a, WithLogger(logger), withWorker(newBusyWorker()))
	res, err := trial.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Len())
	assert.Equal(t, int64(30), res.Ticks.Missed)
	assert.Nil(t, res.Stats(true))
	assert.Nil(t, res.Ladder())
	assert.Equal(t, "Read 0 segments of memory.", hook.LastEntry().Message)
}

func TestTrial_WithoutRates(t *testing.T) {
	cfg := trialConfig(time.Second)
	cfg.TickInterval = config.Duration(10 * time.Millisecond)
	cfg.MaxAccessMB = 1
	a := arena.New(make([]byte, 8<<20))

	res, err := NewTrial(cfg, a).Run(context.Background())
	require.NoError(t, err)
	require.Positive(t, res.Len())

	set := res.Stats(false)
	require.NotNil(t, set)
	assert.Nil(t, set.Rates)
}
