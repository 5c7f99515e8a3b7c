package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/membench/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <report.json>",
	Short: "Print a saved report",
	Long: `Print a JSON report written by "membench run --json".

With --path, print a single value instead:
  membench show report.json --path reports.0.stats.latencies.p99
  membench show report.json --path '$.reports[0].ticks.missed'`,
	Args: cobra.ExactArgs(1),
	RunE: showReport,
}

func showReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	if path, _ := cmd.Flags().GetString("path"); path != "" {
		value, err := report.Query(data, path)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	doc, err := report.DecodeDocument(data)
	if err != nil {
		return err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	console := report.NewConsole(report.ConsoleOptions{Writer: cmd.OutOrStdout(), NoColor: noColor})
	for _, r := range doc.Reports {
		console.PrintReport(r)
	}
	if len(doc.Reports) > 1 {
		console.PrintOverview(doc.Reports)
	}
	return nil
}

func init() {
	showCmd.Flags().StringP("path", "p", "", "Print only the value at this path (gjson or JSONPath)")
}
