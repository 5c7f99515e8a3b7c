// Package metrics exposes the counters of a trial as Prometheus metrics.
//
// Every Collector owns a private registry so several trials can run in one
// process (tests, fan-out workers hosted on goroutines) without clashing
// on the default registerer. All methods are no-ops on a nil *Collector,
// which lets the hot path call them unconditionally.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "membench"

// Tick outcomes used as the "outcome" label of the ticks counter.
const (
	OutcomeDelivered = "delivered"
	OutcomeMissed    = "missed"
)

// Collector records trial counters.
type Collector struct {
	registry *prometheus.Registry

	ticks          *prometheus.CounterVec
	samples        prometheus.Counter
	dropped        prometheus.Counter
	bytes          prometheus.Counter
	latency        prometheus.Histogram
	arenaBytes     prometheus.Gauge
	trialStartTime prometheus.Gauge
}

// NewCollector creates a collector whose metrics carry the given constant
// labels (for example the worker index in fan-out mode).
func NewCollector(labels prometheus.Labels) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "ticks_total",
			Help:        "Ticks issued by the coordinator, by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "samples_recorded_total",
			Help:        "Accesses recorded into the result set",
			ConstLabels: labels,
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "samples_dropped_total",
			Help:        "Accesses dropped because the result set was full",
			ConstLabels: labels,
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bytes_accessed_total",
			Help:        "Bytes copied by recorded accesses",
			ConstLabels: labels,
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "access_latency_seconds",
			Help:        "Latency of recorded accesses",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
		arenaBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "arena_bytes",
			Help:        "Size of the loaded arena",
			ConstLabels: labels,
		}),
		trialStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "trial_start_time_seconds",
			Help:        "Unix time the ticking phase started",
			ConstLabels: labels,
		}),
	}

	// Pre-create both outcomes so a trial without misses still exports 0.
	c.ticks.WithLabelValues(OutcomeDelivered)
	c.ticks.WithLabelValues(OutcomeMissed)

	c.registry.MustRegister(c.ticks, c.samples, c.dropped, c.bytes, c.latency, c.arenaBytes, c.trialStartTime)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// TickDelivered counts a tick the sampler accepted.
func (c *Collector) TickDelivered() {
	if c == nil {
		return
	}
	c.ticks.WithLabelValues(OutcomeDelivered).Inc()
}

// TickMissed counts a tick declined because the sampler was busy.
func (c *Collector) TickMissed() {
	if c == nil {
		return
	}
	c.ticks.WithLabelValues(OutcomeMissed).Inc()
}

// SampleRecorded counts one recorded access.
func (c *Collector) SampleRecorded(size int64, latency time.Duration) {
	if c == nil {
		return
	}
	c.samples.Inc()
	c.bytes.Add(float64(size))
	c.latency.Observe(latency.Seconds())
}

// SampleDropped counts one access dropped for lack of capacity.
func (c *Collector) SampleDropped() {
	if c == nil {
		return
	}
	c.dropped.Inc()
}

// SetArenaBytes records the arena size.
func (c *Collector) SetArenaBytes(n int64) {
	if c == nil {
		return
	}
	c.arenaBytes.Set(float64(n))
}

// MarkTrialStart records the start of the ticking phase.
func (c *Collector) MarkTrialStart(t time.Time) {
	if c == nil {
		return
	}
	c.trialStartTime.Set(float64(t.UnixNano()) / 1e9)
}

// WriteTextfile writes the collected metrics in the text exposition format,
// for node_exporter's textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
