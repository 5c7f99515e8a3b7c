package topology

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrExitedBeforeReady is returned by AwaitReady when a worker terminates
// before it reports readiness.
var ErrExitedBeforeReady = errors.New("worker exited before it was ready")

// WorkerSpec is the construction-time directive of one worker.
type WorkerSpec struct {
	Index     int       `json:"index"`
	Placement Placement `json:"placement"`
	Seed      int64     `json:"seed"`
}

// Specs builds count worker specs. Worker i uses seed baseSeed+i so every
// worker draws an independent access sequence.
func Specs(count int, distribute bool, topo *Topology, baseSeed int64) []WorkerSpec {
	placements := Plan(count, distribute, topo)
	specs := make([]WorkerSpec, count)
	for i := range specs {
		specs[i] = WorkerSpec{
			Index:     i,
			Placement: placements[i],
			Seed:      baseSeed + int64(i),
		}
	}
	return specs
}

// Handle controls one launched worker.
type Handle interface {
	// PID identifies the worker; in-process workers report the parent pid.
	PID() int
	// Ready is closed once the worker is primed and waiting for release.
	Ready() <-chan struct{}
	// Done is closed once the worker has exited.
	Done() <-chan struct{}
	// Release triggers the worker's readiness gate.
	Release() error
	// Stop aborts the worker.
	Stop()
	// Wait blocks until the worker exits and returns its report.
	Wait() ([]byte, error)
}

// Launcher starts workers.
type Launcher interface {
	Launch(ctx context.Context, spec WorkerSpec) (Handle, error)
}

// Outcome is what one worker produced.
type Outcome struct {
	Spec   WorkerSpec
	PID    int
	Report []byte
	Err    error
}

// Pool runs a fixed set of workers through start, ready, release and wait.
type Pool struct {
	launcher Launcher
	log      log.FieldLogger

	specs   []WorkerSpec
	handles []Handle
}

// NewPool creates a pool using launcher.
func NewPool(launcher Launcher, logger log.FieldLogger) *Pool {
	return &Pool{launcher: launcher, log: logger}
}

// Size returns the number of started workers.
func (p *Pool) Size() int {
	return len(p.handles)
}

// Start launches a worker per spec. If a launch fails the workers already
// started are stopped and reaped.
func (p *Pool) Start(ctx context.Context, specs []WorkerSpec) error {
	for _, spec := range specs {
		h, err := p.launcher.Launch(ctx, spec)
		if err != nil {
			p.Stop()
			return fmt.Errorf("failed to launch worker %d: %w", spec.Index, err)
		}
		p.log.Infof("Started worker %d (pid %d, %s, seed %d)", spec.Index, h.PID(), spec.Placement, spec.Seed)
		p.specs = append(p.specs, spec)
		p.handles = append(p.handles, h)
	}
	return nil
}

// AwaitReady blocks until every worker is primed. It fails as soon as one
// worker exits early or ctx ends.
func (p *Pool) AwaitReady(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, h := range p.handles {
		i, h := i, h
		g.Go(func() error {
			select {
			case <-h.Ready():
				return nil
			case <-h.Done():
				// A worker may close both in quick succession.
				select {
				case <-h.Ready():
					return nil
				default:
				}
				_, err := h.Wait()
				if err == nil {
					return fmt.Errorf("worker %d: %w", p.specs[i].Index, ErrExitedBeforeReady)
				}
				return fmt.Errorf("worker %d: %w: %w", p.specs[i].Index, ErrExitedBeforeReady, err)
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}

// Release triggers every worker.
func (p *Pool) Release() error {
	var result *multierror.Error
	for i, h := range p.handles {
		if err := h.Release(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to release worker %d: %w", p.specs[i].Index, err))
		}
	}
	return result.ErrorOrNil()
}

// Wait reaps every worker. Outcomes are returned in spec order; the error
// aggregates every worker failure.
func (p *Pool) Wait() ([]Outcome, error) {
	outcomes := make([]Outcome, len(p.handles))
	var g multierror.Group
	for i, h := range p.handles {
		i, h := i, h
		g.Go(func() error {
			report, err := h.Wait()
			outcomes[i] = Outcome{Spec: p.specs[i], PID: h.PID(), Report: report, Err: err}
			if err != nil {
				return fmt.Errorf("worker %d (pid %d) failed: %w", p.specs[i].Index, h.PID(), err)
			}
			return nil
		})
	}
	return outcomes, g.Wait().ErrorOrNil()
}

// Stop aborts and reaps every worker.
func (p *Pool) Stop() {
	for _, h := range p.handles {
		h.Stop()
	}
	for _, h := range p.handles {
		_, _ = h.Wait()
	}
}
