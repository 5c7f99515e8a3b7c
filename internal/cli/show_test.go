package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/membench/internal/bench/rate"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/report"
	"github.com/wesleyorama2/membench/internal/stats"
)

func writeTestReport(t *testing.T) string {
	t.Helper()
	cfg := &config.RunConfig{
		Duration:     config.Duration(2 * time.Second),
		DataSizeGB:   1,
		Seed:         5,
		Mode:         config.ModeRead,
		TickInterval: config.Duration(config.DefaultTickInterval),
		MaxAccessMB:  config.DefaultMaxAccessMB,
	}
	sizes := stats.Summarize([]float64{1024, 2048, 4096})
	latencies := stats.Summarize([]float64{100, 200, 300})
	r := &report.Report{
		RunID:    "run-show",
		Config:   cfg,
		Started:  time.Unix(1700000000, 0),
		Elapsed:  2 * time.Second,
		Ticks:    rate.Stats{Interval: config.DefaultTickInterval, Scheduled: 60, Issued: 60, Delivered: 3, Missed: 57},
		Capacity: 60,
		Recorded: 3,
		Stats:    &stats.Set{Sizes: sizes, Latencies: latencies},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteJSON(path, "run-show", []*report.Report{r}))
	return path
}

func newShowTestCmd(t *testing.T, flags ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "show", RunE: showReport}
	cmd.Flags().StringP("path", "p", "", "")
	cmd.Flags().Bool("no-color", true, "")
	require.NoError(t, cmd.ParseFlags(flags))

	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestShowReport_Console(t *testing.T) {
	path := writeTestReport(t)
	cmd, out := newShowTestCmd(t)

	require.NoError(t, showReport(cmd, []string{path}))
	assert.Contains(t, out.String(), "membench read")
}

func TestShowReport_Path(t *testing.T) {
	path := writeTestReport(t)

	cmd, out := newShowTestCmd(t, "--path", "reports.0.ticks.missed")
	require.NoError(t, showReport(cmd, []string{path}))
	assert.Equal(t, "57\n", out.String())

	cmd, out = newShowTestCmd(t, "--path", "$.runId")
	require.NoError(t, showReport(cmd, []string{path}))
	assert.Equal(t, "run-show\n", out.String())
}

func TestShowReport_Errors(t *testing.T) {
	cmd, _ := newShowTestCmd(t)
	err := showReport(cmd, []string{filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read report")

	path := writeTestReport(t)
	cmd, _ = newShowTestCmd(t, "--path", "reports.9.nothing")
	assert.Error(t, showReport(cmd, []string{path}))
}
