// Package report turns trial results into JSON, CSV and console output.
// It formats statistics computed by the stats package and never derives
// statistics of its own.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/wesleyorama2/membench/internal/bench"
	"github.com/wesleyorama2/membench/internal/bench/rate"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/stats"
	"github.com/wesleyorama2/membench/internal/topology"
)

// Worker tags a report produced by a fan-out worker.
type Worker struct {
	Index     int                `json:"index"`
	PID       int                `json:"pid"`
	Placement topology.Placement `json:"placement"`
}

// Report is the outcome of one trial in one process.
type Report struct {
	RunID           string            `json:"runId"`
	Hostname        string            `json:"hostname,omitempty"`
	Worker          *Worker           `json:"worker,omitempty"`
	Config          *config.RunConfig `json:"config"`
	ClockResolution time.Duration     `json:"clockResolution,omitempty"`
	Started         time.Time         `json:"started"`
	Elapsed         time.Duration     `json:"elapsed"`

	Ticks    rate.Stats `json:"ticks"`
	Capacity int        `json:"capacity"`
	Recorded int        `json:"recorded"`
	Dropped  int64      `json:"dropped"`

	// Stats is nil when no sample was recorded.
	Stats  *stats.Set       `json:"stats,omitempty"`
	Ladder []stats.Quantile `json:"latencyLadder,omitempty"`

	Samples []bench.Sample `json:"samples,omitempty"`
}

// Document is the file format written by --json.
type Document struct {
	RunID   string    `json:"runId"`
	Reports []*Report `json:"reports"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// FromResult builds a report from a finished trial.
func FromResult(runID string, cfg *config.RunConfig, res *bench.Result) *Report {
	hostname, _ := os.Hostname()
	r := &Report{
		RunID:    runID,
		Hostname: hostname,
		Config:   cfg,
		Started:  res.Started,
		Elapsed:  res.Elapsed,
		Ticks:    res.Ticks,
		Capacity: res.Capacity,
		Recorded: res.Len(),
		Dropped:  res.Dropped,
		Stats:    res.Stats(!cfg.DisableThroughput),
		Ladder:   res.Ladder(),
	}
	if cfg.Output.IncludeSamples || cfg.Output.CSV != "" || cfg.Output.HTML != "" {
		r.Samples = append([]bench.Sample(nil), res.Samples()...)
	}
	return r
}

// Encode writes v as indented JSON.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Decode reads one report.
func Decode(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}

// WriteJSON writes a document holding reports to path.
func WriteJSON(path, runID string, reports []*Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, &Document{RunID: runID, Reports: reports}); err != nil {
		return err
	}
	return f.Close()
}

// DecodeDocument reads a file written by WriteJSON.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &doc, nil
}
