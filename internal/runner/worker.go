package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/wesleyorama2/membench/internal/arena"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/gate"
	"github.com/wesleyorama2/membench/internal/logging"
	"github.com/wesleyorama2/membench/internal/metrics"
	"github.com/wesleyorama2/membench/internal/report"
	"github.com/wesleyorama2/membench/internal/topology"
)

// Payload is everything a fan-out worker needs, sent on its stdin.
type Payload struct {
	RunID      string              `json:"runId"`
	Config     *config.RunConfig   `json:"config"`
	Spec       topology.WorkerSpec `json:"spec"`
	ArenaBytes int64               `json:"arenaBytes"`
	LogLevel   string              `json:"logLevel,omitempty"`
	NoColor    bool                `json:"noColor,omitempty"`
}

func newPayload(opts Options, runID string, spec topology.WorkerSpec) *Payload {
	cfg := opts.Config.WithSeed(spec.Seed)
	cfg.Output.MetricsFile = workerMetricsPath(cfg.Output.MetricsFile, spec.Index)
	return &Payload{
		RunID:      runID,
		Config:     cfg,
		Spec:       spec,
		ArenaBytes: opts.arenaBytes(),
		LogLevel:   opts.LogLevel,
		NoColor:    opts.NoColor,
	}
}

// workerMetricsPath derives a per-worker textfile path: "m.prom" becomes
// "m.worker2.prom".
func workerMetricsPath(path string, index int) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".worker" + strconv.Itoa(index) + ext
}

// RunWorker is the body of a fan-out worker process. It reads a Payload
// from in, loads its own arena, reports readiness, waits for the trigger
// signal, runs the trial and writes its report as JSON to out. Logs go to
// stderr.
func RunWorker(ctx context.Context, in io.Reader, out, stderr io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read worker payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode worker payload: %w", err)
	}
	if p.Config == nil {
		return fmt.Errorf("worker payload has no config")
	}

	logger, err := logging.New(logging.Options{Level: p.LogLevel, Output: stderr, NoColor: p.NoColor})
	if err != nil {
		return err
	}
	entry := logging.ForWorker(logger, p.Spec.Index, os.Getpid())

	// The handler must be in place before readiness is reported, or the
	// parent's trigger would terminate the process.
	g := gate.New()
	stop := gate.Notify(g)
	defer stop()

	r, err := runWorkerTrial(ctx, &p, entry, nil, topology.NotifyReady, g)
	if err != nil {
		return err
	}
	return report.Encode(out, r)
}

// localWork runs workers in-process with the same body as RunWorker.
func localWork(opts Options, runID string) topology.WorkFunc {
	return func(ctx context.Context, spec topology.WorkerSpec, ready func(), g *gate.Gate) ([]byte, error) {
		p := newPayload(opts, runID, spec)
		logger := logging.ForWorker(opts.Logger, spec.Index, os.Getpid())

		r, err := runWorkerTrial(ctx, p, logger, opts.Source, func() error {
			ready()
			return nil
		}, g)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := report.Encode(&buf, r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

func runWorkerTrial(ctx context.Context, p *Payload, logger log.FieldLogger, source arena.Source, ready func() error, g *gate.Gate) (*report.Report, error) {
	var arenaOpts []arena.Option
	if source != nil {
		arenaOpts = append(arenaOpts, arena.WithSource(source))
	}
	a, err := loadArena(logger, p.ArenaBytes, arenaOpts...)
	if err != nil {
		return nil, err
	}
	defer a.Release()

	if err := ready(); err != nil {
		return nil, err
	}
	logger.Info("Waiting for release by the parent...")
	if err := g.Wait(ctx); err != nil {
		return nil, fmt.Errorf("interrupted while waiting for release: %w", err)
	}
	logger.Info("Released.")

	collector := metrics.NewCollector(prometheus.Labels{"worker": strconv.Itoa(p.Spec.Index)})
	res, err := runTrial(ctx, logger, p.Config, a, collector)
	if err != nil {
		return nil, err
	}

	r := report.FromResult(p.RunID, p.Config, res)
	r.ClockResolution, _ = clockResolution()
	r.Worker = &report.Worker{
		Index:     p.Spec.Index,
		PID:       os.Getpid(),
		Placement: p.Spec.Placement,
	}

	if err := collector.WriteTextfile(p.Config.Output.MetricsFile); err != nil {
		return nil, err
	}
	return r, nil
}
