package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/membench/internal/config"
)

func newRunTestCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

func TestBuildRunConfig_Defaults(t *testing.T) {
	cfg, err := buildRunConfig(newRunTestCmd(t), nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDataSizeGB, cfg.DataSizeGB)
	assert.Equal(t, config.DefaultDuration, time.Duration(cfg.Duration))
	assert.Equal(t, config.DefaultTickInterval, time.Duration(cfg.TickInterval))
	assert.Equal(t, config.DefaultMaxAccessMB, cfg.MaxAccessMB)
	assert.Equal(t, config.ModeRead, cfg.Mode)
	assert.Positive(t, cfg.Seed)
}

func TestBuildRunConfig_PositionalArgs(t *testing.T) {
	cfg, err := buildRunConfig(newRunTestCmd(t), []string{"4", "30"})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.DataSizeGB)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Duration))

	cfg, err = buildRunConfig(newRunTestCmd(t), []string{"2", "1m30s"})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Duration))
}

func TestBuildRunConfig_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "non-numeric size", args: []string{"ten"}},
		{name: "fractional size", args: []string{"1.5"}},
		{name: "bad duration", args: []string{"1", "soon"}},
		{name: "zero size", args: []string{"0", "5"}},
		{name: "short duration", args: []string{"1", "500ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRunConfig(newRunTestCmd(t), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestBuildRunConfig_FlagsOverrideArgs(t *testing.T) {
	cmd := newRunTestCmd(t,
		"--size-gb", "8",
		"--duration", "2m",
		"--seed", "99",
		"--mode", "write",
		"--fanout", "2",
		"--numa-distribute",
		"--quick",
		"--marker", "/tmp/ready",
		"--tick-interval", "10ms",
		"--max-access-mb", "16",
		"--no-throughput",
		"--json", "out.json",
		"--csv", "out.csv",
		"--html", "out.html",
		"--metrics-file", "out.prom",
		"--samples",
	)

	cfg, err := buildRunConfig(cmd, []string{"4", "30"})
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.DataSizeGB)
	assert.Equal(t, 2*time.Minute, time.Duration(cfg.Duration))
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, config.ModeWrite, cfg.Mode)
	assert.Equal(t, 2, cfg.Fanout)
	assert.True(t, cfg.NUMADistribute)
	assert.True(t, cfg.Quick)
	assert.Equal(t, "/tmp/ready", cfg.MarkerPath)
	assert.Equal(t, 10*time.Millisecond, time.Duration(cfg.TickInterval))
	assert.Equal(t, 16, cfg.MaxAccessMB)
	assert.True(t, cfg.DisableThroughput)
	assert.Equal(t, config.OutputConfig{
		JSON:           "out.json",
		CSV:            "out.csv",
		HTML:           "out.html",
		MetricsFile:    "out.prom",
		IncludeSamples: true,
	}, cfg.Output)
}

func TestBuildRunConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trial.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
duration: 20s
dataSizeGB: 2
seed: 7
mode: write
quick: true
output:
  json: from-file.json
`), 0o644))

	cfg, err := buildRunConfig(newRunTestCmd(t, "--config", path), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.DataSizeGB)
	assert.Equal(t, 20*time.Second, time.Duration(cfg.Duration))
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, config.ModeWrite, cfg.Mode)
	assert.True(t, cfg.Quick)
	assert.Equal(t, "from-file.json", cfg.Output.JSON)

	// Positional arguments beat the file, flags beat both.
	cfg, err = buildRunConfig(newRunTestCmd(t, "--config", path, "--seed", "11"), []string{"3", "15"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DataSizeGB)
	assert.Equal(t, 15*time.Second, time.Duration(cfg.Duration))
	assert.Equal(t, int64(11), cfg.Seed)
	assert.Equal(t, config.ModeWrite, cfg.Mode)
}

func TestBuildRunConfig_MissingConfigFile(t *testing.T) {
	cmd := newRunTestCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := buildRunConfig(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config")
}

func TestBuildRunConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
	}{
		{name: "unknown mode", flags: []string{"--mode", "sideways"}},
		{name: "numa without fanout", flags: []string{"--numa-distribute"}},
		{name: "negative fanout", flags: []string{"--fanout", "-1"}},
		{name: "tick longer than duration", flags: []string{"--duration", "1s", "--tick-interval", "2s"}},
		{name: "access larger than arena", flags: []string{"--size-gb", "1", "--max-access-mb", "2048"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRunConfig(newRunTestCmd(t, tt.flags...), nil)
			assert.Error(t, err)
		})
	}
}
