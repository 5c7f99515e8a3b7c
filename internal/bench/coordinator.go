package bench

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/wesleyorama2/membench/internal/bench/rate"
	"github.com/wesleyorama2/membench/internal/logging"
	"github.com/wesleyorama2/membench/internal/metrics"
)

// Coordinator drives a Worker with the ticks of a Metronome.
//
// It never waits for the worker between ticks: a tick the worker cannot
// take is logged as missed and skipped.
type Coordinator struct {
	metronome *rate.Metronome
	log       log.FieldLogger
	collector *metrics.Collector

	state atomic.Int32
}

// NewCoordinator creates a coordinator. A nil logger discards output.
func NewCoordinator(m *rate.Metronome, logger log.FieldLogger, collector *metrics.Collector) *Coordinator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Coordinator{
		metronome: m,
		log:       logger,
		collector: collector,
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
	c.log.Debugf("Coordinator %s", s)
}

// Run starts w, waits for it to become ready, issues every tick, then
// cancels and joins it. An access still in flight at that point is
// abandoned.
func (c *Coordinator) Run(ctx context.Context, w Worker) error {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(workerCtx)
	}()

	select {
	case <-w.Ready():
	case err := <-done:
		c.setState(StateStopped)
		if err == nil {
			err = errors.New("exited without error")
		}
		return fmt.Errorf("worker stopped before it was ready: %w", err)
	case <-ctx.Done():
		cancel()
		<-done
		c.setState(StateStopped)
		return ctx.Err()
	}
	c.setState(StateWorkerReady)

	c.setState(StateTicking)
	tickErr := c.metronome.Run(ctx, func(int) bool {
		if !w.TryTick() {
			return false
		}
		c.collector.TickDelivered()
		return true
	}, func(i int) {
		c.log.Warnf("Missed tick %d: sampler still busy", i)
		c.collector.TickMissed()
	})

	c.setState(StateDraining)
	cancel()
	workerErr := <-done
	c.setState(StateStopped)

	if tickErr != nil {
		return tickErr
	}
	if workerErr != nil {
		return fmt.Errorf("worker failed: %w", workerErr)
	}
	return nil
}
