// Package gate holds a trial until an external controller says go.
//
// A controller watches for the readiness marker, then delivers the trigger
// signal. The gate itself never times out.
package gate

import (
	"context"
	"os"
	"os/signal"
)

// Gate is a level-triggered, single-slot notification.
type Gate struct {
	proceed chan struct{}
}

// New returns a closed gate.
func New() *Gate {
	return &Gate{proceed: make(chan struct{}, 1)}
}

// Trigger opens the gate for one waiter. It never blocks and repeated
// triggers collapse into one.
func (g *Gate) Trigger() {
	select {
	case g.proceed <- struct{}{}:
	default:
	}
}

// Wait blocks until a trigger is consumed or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.proceed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify makes delivery of any of sigs trigger g. With no signals,
// TriggerSignal is used. The returned function uninstalls the handler.
func Notify(g *Gate, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{TriggerSignal}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, sigs...)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-c:
				g.Trigger()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(c)
		close(done)
	}
}
