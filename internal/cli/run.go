package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/membench/internal/config"
	"github.com/wesleyorama2/membench/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run [gigabytes] [seconds]",
	Short: "Run a benchmark trial",
	Long: `Load an arena and run one fixed-duration trial.

Positional arguments are the arena size in gigabytes and the trial duration
in seconds; they override the config file and are overridden by flags.

Examples:
  membench run 10 30 --quick
  membench run --config trial.yaml --json report.json
  membench run 4 60 --fanout 4 --numa-distribute --marker /tmp/membench.ready`,
	Args: cobra.MaximumNArgs(2),
	RunE: runBenchmark,
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetString("log-level")
	noColor, _ := cmd.Flags().GetBool("no-color")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runner.Run(ctx, runner.Options{
		Config:   cfg,
		Logger:   logger,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		NoColor:  noColor,
		LogLevel: level,
	})
}

// buildRunConfig merges the config file, positional arguments and flags,
// in increasing precedence, then applies defaults and validates.
func buildRunConfig(cmd *cobra.Command, args []string) (*config.RunConfig, error) {
	cfg := &config.RunConfig{}

	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		gb, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: must be a whole number of gigabytes", args[0])
		}
		cfg.DataSizeGB = gb
	}
	if len(args) > 1 {
		d, err := config.ParseDurationString(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", args[1], err)
		}
		cfg.Duration = config.Duration(d)
	}

	if flags.Changed("size-gb") {
		cfg.DataSizeGB, _ = flags.GetInt("size-gb")
	}
	if flags.Changed("duration") {
		d, _ := flags.GetDuration("duration")
		cfg.Duration = config.Duration(d)
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		cfg.Mode = config.Mode(mode)
	}
	if flags.Changed("fanout") {
		cfg.Fanout, _ = flags.GetInt("fanout")
	}
	if flags.Changed("numa-distribute") {
		cfg.NUMADistribute, _ = flags.GetBool("numa-distribute")
	}
	if flags.Changed("quick") {
		cfg.Quick, _ = flags.GetBool("quick")
	}
	if flags.Changed("marker") {
		cfg.MarkerPath, _ = flags.GetString("marker")
	}
	if flags.Changed("tick-interval") {
		d, _ := flags.GetDuration("tick-interval")
		cfg.TickInterval = config.Duration(d)
	}
	if flags.Changed("max-access-mb") {
		cfg.MaxAccessMB, _ = flags.GetInt("max-access-mb")
	}
	if flags.Changed("no-throughput") {
		cfg.DisableThroughput, _ = flags.GetBool("no-throughput")
	}
	if flags.Changed("json") {
		cfg.Output.JSON, _ = flags.GetString("json")
	}
	if flags.Changed("csv") {
		cfg.Output.CSV, _ = flags.GetString("csv")
	}
	if flags.Changed("html") {
		cfg.Output.HTML, _ = flags.GetString("html")
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("samples") {
		cfg.Output.IncludeSamples, _ = flags.GetBool("samples")
	}

	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().Int("size-gb", config.DefaultDataSizeGB, "Arena size in gigabytes")
	cmd.Flags().DurationP("duration", "d", config.DefaultDuration, "Trial duration (e.g. 30s, 2m)")
	cmd.Flags().Int64("seed", 0, "Random seed (default: current unix time)")
	cmd.Flags().StringP("mode", "m", string(config.ModeRead), "Access mode: read or write")
	cmd.Flags().IntP("fanout", "f", 0, "Number of worker processes (0 runs in-process)")
	cmd.Flags().Bool("numa-distribute", false, "Place worker i on NUMA node i mod node_count")
	cmd.Flags().BoolP("quick", "q", false, "Do not wait for the trigger signal")
	cmd.Flags().String("marker", "", "Readiness marker file, created once the arena is loaded")
	cmd.Flags().Duration("tick-interval", config.DefaultTickInterval, "Interval between accesses")
	cmd.Flags().Int("max-access-mb", config.DefaultMaxAccessMB, "Exclusive upper bound of an access size in MB")
	cmd.Flags().Bool("no-throughput", false, "Skip rate statistics")
	cmd.Flags().String("json", "", "Write the JSON report to this file")
	cmd.Flags().String("csv", "", "Write raw samples as CSV to this file")
	cmd.Flags().String("html", "", "Write an HTML report with latency charts to this file")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().Bool("samples", false, "Embed raw samples in the JSON report")
}

func init() {
	addRunFlags(runCmd)
}
