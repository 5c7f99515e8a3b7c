package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/wesleyorama2/membench/internal/bench/rate"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/report"
	"github.com/wesleyorama2/membench/internal/stats"
	"github.com/wesleyorama2/membench/internal/topology"
)

// Writes a two-worker fan-out report for trying "membench show" without
// loading an arena.
func main() {
	outputPath := "sample-report.json"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	runID := report.NewRunID()
	reports := []*report.Report{
		createSampleReport(runID, 0, 0),
		createSampleReport(runID, 1, 1),
	}

	if err := report.WriteJSON(outputPath, runID, reports); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

func createSampleReport(runID string, index, node int) *report.Report {
	now := time.Now()
	cfg := &config.RunConfig{
		Duration:       config.Duration(30 * time.Second),
		DataSizeGB:     10,
		Seed:           1700000000 + int64(index),
		Mode:           config.ModeRead,
		Fanout:         2,
		NUMADistribute: true,
		TickInterval:   config.Duration(config.DefaultTickInterval),
		MaxAccessMB:    config.DefaultMaxAccessMB,
	}

	// Latencies in ns for accesses of up to 64MB on a ~10GB/s link.
	sizes := make([]int64, 0, 900)
	latencies := make([]int64, 0, 900)
	rates := make([]float64, 0, 900)
	for i := int64(1); i <= 900; i++ {
		size := (i * 74573) % (64 << 20)
		latency := size/10 + 250 + int64(node)*1500
		sizes = append(sizes, size)
		latencies = append(latencies, latency)
		rates = append(rates, float64(size)*1024/float64(latency))
	}
	slices.Sort(sizes)
	slices.Sort(latencies)
	slices.Sort(rates)

	return &report.Report{
		RunID:    runID,
		Hostname: "sample-host",
		Worker: &report.Worker{
			Index:     index,
			PID:       40000 + index,
			Placement: topology.OnNode(node),
		},
		Config:          cfg,
		ClockResolution: time.Nanosecond,
		Started:         now.Add(-30 * time.Second),
		Elapsed:         30 * time.Second,
		Ticks: rate.Stats{
			Interval:  config.DefaultTickInterval,
			Scheduled: 909,
			Issued:    909,
			Delivered: 900,
			Missed:    9,
		},
		Capacity: cfg.TickCount(),
		Recorded: len(sizes),
		Stats:    stats.Compute(sizes, latencies, rates),
		Ladder:   stats.Ladder(latencies),
	}
}
