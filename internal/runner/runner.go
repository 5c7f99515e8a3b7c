// Package runner wires the arena, the readiness gate, the trial and the
// report sinks into a complete run, in-process or fanned out over workers.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/wesleyorama2/membench/internal/arena"
	"github.com/wesleyorama2/membench/internal/bench"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/gate"
	"github.com/wesleyorama2/membench/internal/logging"
	"github.com/wesleyorama2/membench/internal/metrics"
	"github.com/wesleyorama2/membench/internal/report"
	"github.com/wesleyorama2/membench/internal/topology"
)

// Options configures a run. Only Config is required.
type Options struct {
	// Config must be validated.
	Config *config.RunConfig

	Logger log.FieldLogger

	// Stdout receives the console report, Stderr the workers' logs.
	Stdout io.Writer
	Stderr io.Writer

	NoColor  bool
	LogLevel string

	// Source replaces the entropy source of the arena.
	Source arena.Source

	// ArenaBytes overrides the arena size derived from Config.
	ArenaBytes int64

	// Gate replaces the signal-driven readiness gate.
	Gate *gate.Gate

	// Topology replaces NUMA discovery in fan-out mode.
	Topology *topology.Topology

	// Launcher replaces the worker process launcher in fan-out mode.
	Launcher topology.Launcher

	// InProcess runs fan-out workers as goroutines instead of processes.
	InProcess bool
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

func (o *Options) arenaBytes() int64 {
	if o.ArenaBytes > 0 {
		return o.ArenaBytes
	}
	return o.Config.DataSizeBytes()
}

func (o *Options) arenaOptions() []arena.Option {
	if o.Source == nil {
		return nil
	}
	return []arena.Option{arena.WithSource(o.Source)}
}

// Run executes one trial, or one trial per worker when Config.Fanout > 0,
// and emits the reports. It returns an error for every fatal condition; a
// trial that recorded no samples is not an error.
func Run(ctx context.Context, opts Options) error {
	opts.setDefaults()
	if opts.Config.Fanout > 0 {
		return runFanout(ctx, opts)
	}
	return runSingle(ctx, opts)
}

func runSingle(ctx context.Context, opts Options) (err error) {
	cfg := opts.Config
	logger := opts.Logger
	logClockResolution(logger)

	g, stopSignals := openGate(opts.Gate)
	defer stopSignals()

	a, err := loadArena(logger, opts.arenaBytes(), opts.arenaOptions()...)
	if err != nil {
		return err
	}
	defer a.Release()

	marker, err := createMarker(logger, cfg.MarkerPath)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := marker.Remove(); rmErr != nil {
			err = multierror.Append(err, rmErr).ErrorOrNil()
		}
	}()

	if err := waitForTrigger(ctx, logger, cfg, g); err != nil {
		return err
	}

	collector := metrics.NewCollector(nil)
	res, err := runTrial(ctx, logger, cfg, a, collector)
	if err != nil {
		return err
	}

	r := report.FromResult(report.NewRunID(), cfg, res)
	r.ClockResolution, _ = clockResolution()

	if err := collector.WriteTextfile(cfg.Output.MetricsFile); err != nil {
		return err
	}
	return emit(opts, r.RunID, []*report.Report{r})
}

// openGate returns g, or a new gate triggered by the trigger signal.
func openGate(g *gate.Gate) (*gate.Gate, func()) {
	if g != nil {
		return g, func() {}
	}
	g = gate.New()
	return g, gate.Notify(g)
}

func waitForTrigger(ctx context.Context, logger log.FieldLogger, cfg *config.RunConfig, g *gate.Gate) error {
	if cfg.Quick {
		return nil
	}
	logger.Infof("Waiting for %s...", gate.TriggerSignalName)
	if err := g.Wait(ctx); err != nil {
		return fmt.Errorf("interrupted while waiting for trigger: %w", err)
	}
	logger.Info("Signal received.")
	return nil
}

// createMarker creates the readiness marker at path, if any.
func createMarker(logger log.FieldLogger, path string) (*gate.Marker, error) {
	marker := gate.NewMarker(path)
	if err := marker.Create(); err != nil {
		return nil, err
	}
	if marker.Path() != "" {
		logger.Infof("Created readiness marker %s", marker.Path())
	}
	return marker, nil
}

func loadArena(logger log.FieldLogger, size int64, opts ...arena.Option) (*arena.Arena, error) {
	logger.Infof("Loading %s into memory...", sizeString(size))
	a, err := arena.Load(size, opts...)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %s into memory.", sizeString(size))
	return a, nil
}

func sizeString(size int64) string {
	if size >= arena.GB && size%arena.GB == 0 {
		return fmt.Sprintf("%d GB", size/arena.GB)
	}
	return fmt.Sprintf("%d bytes", size)
}

// runTrial runs one trial over a. The arena must already be loaded and the
// trigger consumed.
func runTrial(ctx context.Context, logger log.FieldLogger, cfg *config.RunConfig, a *arena.Arena, collector *metrics.Collector) (*bench.Result, error) {
	verb := "Reading"
	if cfg.Mode == config.ModeWrite {
		verb = "Writing"
	}
	logger.Infof("%s memory for %s...", verb, time.Duration(cfg.Duration))

	res, err := bench.NewTrial(cfg, a, bench.WithLogger(logger), bench.WithCollector(collector)).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("trial failed: %w", err)
	}
	return res, nil
}

func logClockResolution(logger log.FieldLogger) {
	if res, ok := clockResolution(); ok {
		logger.Infof("Clock resolution: %s", res)
	}
}

// emit prints every report and writes the configured report files.
func emit(opts Options, runID string, reports []*report.Report) error {
	out := opts.Config.Output
	console := report.NewConsole(report.ConsoleOptions{Writer: opts.Stdout, NoColor: opts.NoColor})
	for _, r := range reports {
		console.PrintReport(r)
	}
	if len(reports) > 1 {
		console.PrintOverview(reports)
	}

	if out.CSV != "" {
		if err := report.WriteCSVFile(out.CSV, reports); err != nil {
			return err
		}
	}
	if out.HTML != "" {
		if err := report.WriteHTML(out.HTML, runID, reports); err != nil {
			return err
		}
	}
	if out.JSON != "" {
		if !out.IncludeSamples {
			for _, r := range reports {
				r.Samples = nil
			}
		}
		if err := report.WriteJSON(out.JSON, runID, reports); err != nil {
			return err
		}
	}
	return nil
}
