package bench

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/logging"
	"github.com/wesleyorama2/membench/internal/metrics"
)

// Worker is what a Coordinator drives.
type Worker interface {
	// Run blocks until ctx is cancelled, performing one unit of work per
	// accepted tick.
	Run(ctx context.Context) error
	// Ready is closed once Run is waiting for ticks.
	Ready() <-chan struct{}
	// TryTick hands the worker a tick without blocking. It returns false
	// when the worker is still busy with the previous one.
	TryTick() bool
}

// SamplerConfig describes the accesses a Sampler performs.
type SamplerConfig struct {
	Mode config.Mode
	// MaxAccess is the exclusive upper bound of an access size in bytes.
	MaxAccess int64
	Seed      int64
}

// Sampler performs one randomly placed memory access per tick and records
// its size and latency.
type Sampler struct {
	data      []byte
	mode      config.Mode
	maxAccess int64
	rng       *rand.Rand
	results   *ResultSet

	ready     chan struct{}
	readyOnce sync.Once
	ticks     chan struct{}
	done      chan struct{}
	primed    atomic.Bool

	log       log.FieldLogger
	collector *metrics.Collector

	// observe, when set, sees every access before it is performed.
	observe func(offset, size int64)
}

// NewSampler creates a sampler over data recording into results. A nil
// logger discards output; a nil collector disables counters.
func NewSampler(data []byte, results *ResultSet, cfg SamplerConfig, logger log.FieldLogger, collector *metrics.Collector) *Sampler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sampler{
		data:      data,
		mode:      cfg.Mode,
		maxAccess: cfg.MaxAccess,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		results:   results,
		ready:     make(chan struct{}),
		ticks:     make(chan struct{}),
		done:      make(chan struct{}),
		log:       logger,
		collector: collector,
	}
}

// Ready is closed once Run has started.
func (s *Sampler) Ready() <-chan struct{} {
	return s.ready
}

// TryTick offers a tick. The tick channel is unbuffered, so the hand-off
// only succeeds while Run is idle in its receive.
//
// The first tick after Ready waits for Run to reach that receive: a sampler
// that has just become ready has no access in flight, so it cannot miss.
func (s *Sampler) TryTick() bool {
	if !s.primed.Load() && s.isReady() {
		select {
		case s.ticks <- struct{}{}:
			s.primed.Store(true)
			return true
		case <-s.done:
			return false
		}
	}

	select {
	case s.ticks <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run signals readiness and then performs one access per received tick
// until ctx is cancelled. Cancellation is the normal way to stop a sampler
// and is not reported as an error.
func (s *Sampler) Run(ctx context.Context) error {
	defer close(s.done)
	s.readyOnce.Do(func() { close(s.ready) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.ticks:
			s.access(ctx)
		}
	}
}

func (s *Sampler) isReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// nextAccess draws a size in [0, maxAccess) and an offset in [0, len(data)),
// then shrinks size so the access stays inside the arena.
func (s *Sampler) nextAccess() (offset, size int64) {
	n := int64(len(s.data))
	if n == 0 {
		return 0, 0
	}
	if s.maxAccess > 0 {
		size = s.rng.Int63n(s.maxAccess)
	}
	offset = s.rng.Int63n(n)
	if offset+size > n {
		size = n - offset
	}
	return offset, size
}

func (s *Sampler) access(ctx context.Context) {
	offset, size := s.nextAccess()
	if s.observe != nil {
		s.observe(offset, size)
	}

	scratch := make([]byte, size)
	region := s.data[offset : offset+size]

	start := time.Now()
	if s.mode == config.ModeWrite {
		copy(region, scratch)
	} else {
		copy(scratch, region)
	}
	elapsed := time.Since(start)
	runtime.KeepAlive(scratch)

	if elapsed < time.Nanosecond {
		elapsed = time.Nanosecond
	}

	// The trial ended while this access was in flight.
	if ctx.Err() != nil {
		return
	}

	if !s.results.Append(Sample{Size: size, Latency: elapsed}) {
		s.log.Warnf("Storage limit of %d samples reached, dropping sample", s.results.Cap())
		s.collector.SampleDropped()
		return
	}
	s.collector.SampleRecorded(size, elapsed)
}
