package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/membench/internal/logging"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "membench",
	Short:   "A random memory access micro-benchmark",
	Version: version,
	Long: `membench measures the latency, size distribution and throughput of random
reads or writes against a large in-memory arena filled with random data.

A trial loads the arena, optionally waits for SIGUSR1, then performs one
randomly sized and placed access per tick for a fixed duration and reports
min/max/avg/stddev/P99/P95/P90 for sizes, latencies and rates. Trials can
be fanned out over worker processes placed on NUMA nodes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.Main().
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newLogger builds the logger from the persistent flags.
func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		color.NoColor = true
	}
	return logging.New(logging.Options{
		Level:   level,
		Output:  cmd.ErrOrStderr(),
		NoColor: noColor,
	})
}

func init() {
	RootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(workerCmd)
	RootCmd.AddCommand(showCmd)
}
