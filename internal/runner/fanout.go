package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/wesleyorama2/membench/internal/report"
	"github.com/wesleyorama2/membench/internal/topology"
)

// workerCommand is the hidden subcommand a worker process is started with.
const workerCommand = "worker"

// runFanout starts one worker per configured slot, waits until every worker
// has loaded its arena, then releases them together. Each worker runs its
// own trial; the parent only collects the reports.
func runFanout(ctx context.Context, opts Options) (err error) {
	cfg := opts.Config
	logger := opts.Logger
	logClockResolution(logger)

	g, stopSignals := openGate(opts.Gate)
	defer stopSignals()

	topo := opts.Topology
	if topo == nil && !opts.InProcess {
		topo, err = topology.Discover()
		if err != nil {
			return err
		}
	}
	if !opts.InProcess && opts.Launcher == nil {
		switch {
		case !topo.Known():
			logger.Warn("NUMA topology unavailable, workers run unconstrained")
		case !topology.PlacementSupported():
			logger.Warn("NUMA placement is not supported on this platform, workers run unconstrained")
			topo = nil
		}
	}

	runID := report.NewRunID()
	specs := topology.Specs(cfg.Fanout, cfg.NUMADistribute, topo, cfg.Seed)
	pool := topology.NewPool(launcherFor(opts, runID), logger)

	if err := pool.Start(ctx, specs); err != nil {
		return err
	}
	if err := pool.AwaitReady(ctx); err != nil {
		pool.Stop()
		return fmt.Errorf("workers failed to load: %w", err)
	}
	logger.Infof("All %d workers loaded", pool.Size())

	marker, err := createMarker(logger, cfg.MarkerPath)
	if err != nil {
		pool.Stop()
		return err
	}
	defer func() {
		if rmErr := marker.Remove(); rmErr != nil {
			err = multierror.Append(err, rmErr).ErrorOrNil()
		}
	}()

	if err := waitForTrigger(ctx, logger, cfg, g); err != nil {
		pool.Stop()
		return err
	}
	if err := pool.Release(); err != nil {
		pool.Stop()
		return err
	}

	outcomes, waitErr := pool.Wait()
	var result *multierror.Error
	if waitErr != nil {
		result = multierror.Append(result, waitErr)
	}

	reports := make([]*report.Report, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		r, err := report.Decode(o.Report)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("worker %d: %w", o.Spec.Index, err))
			continue
		}
		reports = append(reports, r)
	}

	if len(reports) > 0 {
		if err := emit(opts, runID, reports); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func launcherFor(opts Options, runID string) topology.Launcher {
	if opts.Launcher != nil {
		return opts.Launcher
	}
	if opts.InProcess {
		return &topology.LocalLauncher{Work: localWork(opts, runID)}
	}
	return &topology.ProcessLauncher{
		Args: []string{workerCommand},
		Payload: func(spec topology.WorkerSpec) ([]byte, error) {
			return json.Marshal(newPayload(opts, runID, spec))
		},
		Stderr: opts.Stderr,
	}
}
