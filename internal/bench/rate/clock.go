package rate

import (
	"context"
	"time"
)

// Clock is the time source of a Metronome.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// DefaultClock uses the wall clock.
type DefaultClock struct{}

// Now returns time.Now().
func (DefaultClock) Now() time.Time { return time.Now() }

// Sleep waits on a timer, stopping it early if ctx is cancelled.
func (DefaultClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
