package rate

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock advances virtual time on Sleep instead of blocking.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

func TestTickCount(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		interval time.Duration
		expected int
	}{
		{"two seconds at 33ms", 2 * time.Second, 33 * time.Millisecond, 60},
		{"one second at 33ms", time.Second, 33 * time.Millisecond, 30},
		{"exact multiple", time.Second, 10 * time.Millisecond, 100},
		{"interval longer than duration", time.Second, 2 * time.Second, 0},
		{"sub-millisecond interval", time.Second, time.Microsecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TickCount(tt.duration, tt.interval); got != tt.expected {
				t.Errorf("TickCount() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestNewMetronome_Defaults(t *testing.T) {
	m := NewMetronome(0, -3)
	if m.Interval() != time.Millisecond {
		t.Errorf("Interval() = %v, want 1ms", m.Interval())
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestMetronome_IssuesEveryTick(t *testing.T) {
	clock := newFakeClock()
	m := NewMetronome(33*time.Millisecond, 10, WithClock(clock))

	var seen []int
	err := m.Run(context.Background(), func(i int) bool {
		seen = append(seen, i)
		return true
	}, func(i int) {
		t.Errorf("unexpected miss at tick %d", i)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(seen) != 10 {
		t.Fatalf("ticks = %d, want 10", len(seen))
	}
	for i, v := range seen {
		if v != i {
			t.Errorf("tick %d reported index %d", i, v)
		}
	}
	for _, d := range clock.sleeps {
		if d != 33*time.Millisecond {
			t.Errorf("slept %v, want 33ms", d)
		}
	}

	stats := m.Stats()
	if stats.Issued != 10 || stats.Delivered != 10 || stats.Missed != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.TotalWaitTime != 330*time.Millisecond {
		t.Errorf("TotalWaitTime = %v, want 330ms", stats.TotalWaitTime)
	}
}

func TestMetronome_ReportsMisses(t *testing.T) {
	m := NewMetronome(time.Millisecond, 9, WithClock(newFakeClock()))

	var missed []int
	err := m.Run(context.Background(), func(i int) bool {
		return i%3 == 0
	}, func(i int) {
		missed = append(missed, i)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int{1, 2, 4, 5, 7, 8}
	if len(missed) != len(want) {
		t.Fatalf("missed = %v, want %v", missed, want)
	}
	for i := range want {
		if missed[i] != want[i] {
			t.Errorf("missed = %v, want %v", missed, want)
			break
		}
	}

	stats := m.Stats()
	if stats.Delivered != 3 || stats.Missed != 6 {
		t.Errorf("Stats() = %+v, want 3 delivered and 6 missed", stats)
	}
}

func TestMetronome_NilMissedCallback(t *testing.T) {
	m := NewMetronome(time.Millisecond, 4, WithClock(newFakeClock()))

	if err := m.Run(context.Background(), func(int) bool { return false }, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if m.Stats().Missed != 4 {
		t.Errorf("Missed = %d, want 4", m.Stats().Missed)
	}
}

func TestMetronome_RespectsContext(t *testing.T) {
	m := NewMetronome(time.Second, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.Run(ctx, func(int) bool { return true }, nil)
	elapsed := time.Since(start)

	if err != context.DeadlineExceeded {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("Run() took %v after cancellation", elapsed)
	}
	if m.Stats().Issued != 1 {
		t.Errorf("Issued = %d, want 1", m.Stats().Issued)
	}
}

func TestMetronome_WallClockCadence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	m := NewMetronome(10*time.Millisecond, 10)

	start := time.Now()
	if err := m.Run(context.Background(), func(int) bool { return true }, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Errorf("Run() finished in %v, want at least 100ms", elapsed)
	}
}
