// Package rate provides the fixed-cadence tick source of a trial.
package rate

import (
	"context"
	"sync/atomic"
	"time"
)

// Metronome issues a fixed number of ticks at a fixed interval.
//
// Each tick is offered to a consumer through a non-blocking callback. When
// the consumer declines (it is still busy with the previous tick) the miss
// is reported through a second callback and the metronome moves on; it never
// waits for the consumer.
//
// The interval is slept after every tick without correcting for the time
// the callbacks took, so the cadence is
//
//	tick, sleep(interval), tick, sleep(interval), ...
//
// # Example
//
//	m := NewMetronome(33*time.Millisecond, TickCount(2*time.Second, 33*time.Millisecond))
//	err := m.Run(ctx, worker.TryTick, func(i int) { log.Warnf("missed tick %d", i) })
type Metronome struct {
	interval time.Duration
	count    int
	clock    Clock

	issued    atomic.Int64
	delivered atomic.Int64
	missed    atomic.Int64
	waitTime  atomic.Int64 // nanoseconds
}

// Option configures a Metronome.
type Option func(*Metronome)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(m *Metronome) {
		m.clock = c
	}
}

// NewMetronome creates a metronome issuing count ticks every interval.
// A non-positive interval defaults to one millisecond.
func NewMetronome(interval time.Duration, count int, opts ...Option) *Metronome {
	if interval <= 0 {
		interval = time.Millisecond
	}
	if count < 0 {
		count = 0
	}
	m := &Metronome{
		interval: interval,
		count:    count,
		clock:    DefaultClock{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TickCount returns how many ticks of interval fit in duration, using
// whole milliseconds on both sides.
func TickCount(duration, interval time.Duration) int {
	ims := interval.Milliseconds()
	if ims <= 0 {
		return 0
	}
	return int(duration.Milliseconds() / ims)
}

// Interval returns the tick interval.
func (m *Metronome) Interval() time.Duration {
	return m.interval
}

// Count returns the number of ticks Run issues.
func (m *Metronome) Count() int {
	return m.count
}

// Run issues the ticks. tick(i) returns whether the tick was accepted;
// missed(i), when non-nil, is called for every declined tick. Run returns
// ctx.Err() if the context ends early and nil once every tick is issued.
func (m *Metronome) Run(ctx context.Context, tick func(i int) bool, missed func(i int)) error {
	for i := 0; i < m.count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.issued.Add(1)
		if tick(i) {
			m.delivered.Add(1)
		} else {
			m.missed.Add(1)
			if missed != nil {
				missed(i)
			}
		}

		start := m.clock.Now()
		err := m.clock.Sleep(ctx, m.interval)
		m.waitTime.Add(int64(m.clock.Now().Sub(start)))
		if err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the tick counters accumulated so far.
func (m *Metronome) Stats() Stats {
	return Stats{
		Interval:      m.interval,
		Scheduled:     int64(m.count),
		Issued:        m.issued.Load(),
		Delivered:     m.delivered.Load(),
		Missed:        m.missed.Load(),
		TotalWaitTime: time.Duration(m.waitTime.Load()),
	}
}

// Stats contains the counters of a metronome.
type Stats struct {
	Interval      time.Duration `json:"interval"`      // Tick interval
	Scheduled     int64         `json:"scheduled"`     // Ticks the run was configured for
	Issued        int64         `json:"issued"`        // Ticks offered to the consumer
	Delivered     int64         `json:"delivered"`     // Ticks the consumer accepted
	Missed        int64         `json:"missed"`        // Ticks declined because the consumer was busy
	TotalWaitTime time.Duration `json:"totalWaitTime"` // Time spent sleeping between ticks
}
