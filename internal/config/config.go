// Package config provides the run configuration for a membench trial.
package config

import (
	"time"

	"github.com/wesleyorama2/membench/internal/bench/rate"
)

// Mode selects the direction of every memory access in a trial.
type Mode string

const (
	// ModeRead copies from the arena into a scratch buffer.
	ModeRead Mode = "read"

	// ModeWrite copies from a scratch buffer into the arena.
	ModeWrite Mode = "write"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultDataSizeGB   = 10
	DefaultDuration     = 10 * time.Second
	DefaultTickInterval = 33 * time.Millisecond
	DefaultMaxAccessMB  = 64
)

// MaxDataSizeGB bounds the arena so its size in bytes fits an int64.
const MaxDataSizeGB = 1 << 20

// RunConfig is the immutable input of one trial.
//
// Example YAML:
//
//	duration: 30s
//	dataSizeGB: 4
//	seed: 42
//	mode: write
//	fanout: 2
//	numaDistribute: true
//	quick: true
//	output:
//	  json: report.json
type RunConfig struct {
	// Duration of the ticking phase. Must be at least one second.
	Duration Duration `json:"duration" yaml:"duration"`

	// DataSizeGB is the arena size in gigabytes.
	DataSizeGB int `json:"dataSizeGB" yaml:"dataSizeGB"`

	// Seed for the access generator. Fan-out workers use Seed+index.
	Seed int64 `json:"seed" yaml:"seed"`

	// Mode is read or write.
	Mode Mode `json:"mode" yaml:"mode"`

	// Fanout is the number of worker processes; 0 runs in-process.
	Fanout int `json:"fanout,omitempty" yaml:"fanout,omitempty"`

	// NUMADistribute places worker i on node i mod node_count instead of
	// placing every worker on the first node.
	NUMADistribute bool `json:"numaDistribute,omitempty" yaml:"numaDistribute,omitempty"`

	// Quick skips the readiness wait.
	Quick bool `json:"quick,omitempty" yaml:"quick,omitempty"`

	// MarkerPath is created once the arena is loaded and removed on exit.
	MarkerPath string `json:"marker,omitempty" yaml:"marker,omitempty"`

	// TickInterval is the fixed cadence of the sampler.
	TickInterval Duration `json:"tickInterval,omitempty" yaml:"tickInterval,omitempty"`

	// MaxAccessMB bounds the size of a single access (exclusive).
	MaxAccessMB int `json:"maxAccessMB,omitempty" yaml:"maxAccessMB,omitempty"`

	// DisableThroughput skips the derived rate statistics.
	DisableThroughput bool `json:"disableThroughput,omitempty" yaml:"disableThroughput,omitempty"`

	// Output controls where reports are written.
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`
}

// OutputConfig lists the optional report sinks.
type OutputConfig struct {
	// JSON is a path for the machine-readable report.
	JSON string `json:"json,omitempty" yaml:"json,omitempty"`

	// CSV is a path for the raw samples.
	CSV string `json:"csv,omitempty" yaml:"csv,omitempty"`

	// HTML is a path for a standalone page with latency charts.
	HTML string `json:"html,omitempty" yaml:"html,omitempty"`

	// MetricsFile is a Prometheus textfile-collector path.
	MetricsFile string `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty"`

	// IncludeSamples embeds raw samples in the JSON report.
	IncludeSamples bool `json:"includeSamples,omitempty" yaml:"includeSamples,omitempty"`
}

// DataSizeBytes returns the arena size in bytes.
func (c *RunConfig) DataSizeBytes() int64 {
	return int64(c.DataSizeGB) << 30
}

// MaxAccessBytes returns the exclusive upper bound of an access size.
func (c *RunConfig) MaxAccessBytes() int64 {
	return int64(c.MaxAccessMB) << 20
}

// TickCount returns the number of ticks in a trial, which is also the
// capacity of its result set.
func (c *RunConfig) TickCount() int {
	return rate.TickCount(time.Duration(c.Duration), time.Duration(c.TickInterval))
}

// WithSeed returns a copy of the config using the given seed.
func (c RunConfig) WithSeed(seed int64) *RunConfig {
	c.Seed = seed
	return &c
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
