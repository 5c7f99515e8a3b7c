package topology

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/wesleyorama2/membench/internal/gate"
)

// WorkFunc is the body of an in-process worker. It calls ready once primed,
// waits on g and returns the worker's report.
type WorkFunc func(ctx context.Context, spec WorkerSpec, ready func(), g *gate.Gate) ([]byte, error)

// LocalLauncher runs workers as goroutines of the current process. Memory
// placement is not applied; it exists for tests and for platforms where
// worker processes cannot be placed.
type LocalLauncher struct {
	Work WorkFunc
}

// Launch starts spec's worker on a goroutine.
func (l *LocalLauncher) Launch(ctx context.Context, spec WorkerSpec) (Handle, error) {
	if l.Work == nil {
		return nil, errors.New("no work function")
	}

	wctx, cancel := context.WithCancel(ctx)
	h := &localHandle{
		gate:   gate.New(),
		cancel: cancel,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("worker panicked: %v", r)
			}
		}()
		h.report, h.err = l.Work(wctx, spec, h.markReady, h.gate)
	}()
	return h, nil
}

type localHandle struct {
	gate      *gate.Gate
	cancel    context.CancelFunc
	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}

	report []byte
	err    error
}

func (h *localHandle) markReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

func (h *localHandle) PID() int {
	return os.Getpid()
}

func (h *localHandle) Ready() <-chan struct{} {
	return h.ready
}

func (h *localHandle) Done() <-chan struct{} {
	return h.done
}

func (h *localHandle) Release() error {
	h.gate.Trigger()
	return nil
}

func (h *localHandle) Stop() {
	h.cancel()
}

func (h *localHandle) Wait() ([]byte, error) {
	<-h.done
	return h.report, h.err
}
