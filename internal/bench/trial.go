package bench

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wesleyorama2/membench/internal/arena"
	"github.com/wesleyorama2/membench/internal/bench/rate"
	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/logging"
	"github.com/wesleyorama2/membench/internal/metrics"
	"github.com/wesleyorama2/membench/internal/stats"
)

// Trial bundles everything one measurement run touches: the arena, the
// result set, the sampler and the coordinator driving it.
type Trial struct {
	cfg         *config.RunConfig
	arena       *arena.Arena
	results     *ResultSet
	sampler     *Sampler
	worker      Worker
	metronome   *rate.Metronome
	coordinator *Coordinator

	log       log.FieldLogger
	collector *metrics.Collector
}

// TrialOption configures a Trial.
type TrialOption func(*Trial)

// WithLogger sets the logger.
func WithLogger(l log.FieldLogger) TrialOption {
	return func(t *Trial) {
		if l != nil {
			t.log = l
		}
	}
}

// WithCollector enables Prometheus counters.
func WithCollector(c *metrics.Collector) TrialOption {
	return func(t *Trial) {
		t.collector = c
	}
}

// withWorker replaces the sampler as the driven worker.
func withWorker(w Worker) TrialOption {
	return func(t *Trial) {
		t.worker = w
	}
}

// NewTrial prepares a trial over a loaded arena. cfg must be validated.
func NewTrial(cfg *config.RunConfig, a *arena.Arena, opts ...TrialOption) *Trial {
	t := &Trial{
		cfg:   cfg,
		arena: a,
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}

	count := cfg.TickCount()
	t.results = NewResultSet(count)
	t.sampler = NewSampler(a.Bytes(), t.results, SamplerConfig{
		Mode:      cfg.Mode,
		MaxAccess: cfg.MaxAccessBytes(),
		Seed:      cfg.Seed,
	}, t.log, t.collector)
	if t.worker == nil {
		t.worker = t.sampler
	}

	t.metronome = rate.NewMetronome(time.Duration(cfg.TickInterval), count)
	t.coordinator = NewCoordinator(t.metronome, t.log, t.collector)
	return t
}

// State returns the coordinator state.
func (t *Trial) State() State {
	return t.coordinator.State()
}

// Run executes the ticking phase and returns what was recorded. The result
// is returned alongside any error so callers can still report partial
// counters.
func (t *Trial) Run(ctx context.Context) (*Result, error) {
	t.collector.SetArenaBytes(t.arena.Size())
	started := time.Now()
	t.collector.MarkTrialStart(started)

	err := t.coordinator.Run(ctx, t.worker)

	res := &Result{
		Mode:     t.cfg.Mode,
		Seed:     t.cfg.Seed,
		Started:  started,
		Elapsed:  time.Since(started),
		Capacity: t.results.Cap(),
		Dropped:  t.results.Dropped(),
		Ticks:    t.metronome.Stats(),
		results:  t.results,
	}
	t.log.Infof("Read %d segments of memory.", res.Len())
	return res, err
}

// Result is the outcome of a Trial.
type Result struct {
	Mode     config.Mode
	Seed     int64
	Started  time.Time
	Elapsed  time.Duration
	Capacity int
	Dropped  int64
	Ticks    rate.Stats

	results *ResultSet
}

// Len returns the number of recorded samples.
func (r *Result) Len() int {
	return r.results.Len()
}

// Samples returns the recorded samples in arrival order.
func (r *Result) Samples() []Sample {
	return r.results.Samples()
}

// Stats summarizes sizes, latencies and, when withRates is set, rates.
// It returns nil when nothing was recorded.
func (r *Result) Stats(withRates bool) *stats.Set {
	if r.Len() == 0 {
		return nil
	}
	var rates []float64
	if withRates {
		rates = r.results.Rates()
	}
	return stats.Compute(r.results.Sizes(), r.results.Latencies(), rates)
}

// Ladder returns the HDR latency quantiles, or nil when nothing was recorded.
func (r *Result) Ladder() []stats.Quantile {
	if r.Len() == 0 {
		return nil
	}
	return stats.Ladder(r.results.Latencies())
}
