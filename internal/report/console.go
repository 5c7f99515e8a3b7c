package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wesleyorama2/membench/internal/stats"
)

const ruleWidth = 56

// ConsoleOptions configures a Console.
type ConsoleOptions struct {
	Writer      io.Writer
	NoColor     bool
	ForceColors bool
}

// Console prints human-readable reports.
type Console struct {
	w      io.Writer
	scheme *ColorScheme
}

// NewConsole creates a console writing to opts.Writer (stdout by default).
// Colors are used on terminals unless disabled.
func NewConsole(opts ConsoleOptions) *Console {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	scheme := NoColorScheme()
	switch {
	case opts.NoColor:
	case opts.ForceColors:
		scheme = DefaultColorScheme().forceColors()
	case isTerminal(opts.Writer) && supportsColors():
		scheme = DefaultColorScheme()
	}
	return &Console{w: opts.Writer, scheme: scheme}
}

// PrintReport prints one trial report.
func (c *Console) PrintReport(r *Report) {
	s := c.scheme
	rule := strings.Repeat("━", ruleWidth)

	c.writeln(s.Rule.Sprint(rule))
	c.writeln(s.Title.Sprint(reportTitle(r)))
	c.writeln(s.Rule.Sprint(rule))

	c.field("Run ID", r.RunID)
	if r.ClockResolution > 0 {
		c.field("Clock res", r.ClockResolution.String())
	}
	c.field("Elapsed", formatDuration(r.Elapsed))
	c.field("Ticks", fmt.Sprintf("%s issued, %s delivered, %s missed",
		formatNumber(r.Ticks.Issued),
		formatNumber(r.Ticks.Delivered),
		c.countColor(r.Ticks.Missed).Sprint(formatNumber(r.Ticks.Missed))))
	c.field("Segments", fmt.Sprintf("%s recorded (capacity %s, %s dropped)",
		formatNumber(int64(r.Recorded)),
		formatNumber(int64(r.Capacity)),
		c.countColor(r.Dropped).Sprint(formatNumber(r.Dropped))))
	c.writeln("")

	if r.Stats == nil {
		c.writeln(s.Warn.Sprint("No samples recorded, statistics skipped."))
		c.writeln("")
		return
	}

	c.summary("Sizes", r.Stats.Sizes, formatBytes)
	c.summary("Latencies", r.Stats.Latencies, formatNanos)
	if r.Stats.Rates != nil {
		c.summary("Rates (bytes*1024/ns)", *r.Stats.Rates, formatRate)
	}

	if len(r.Ladder) > 0 {
		c.writeln(s.Title.Sprint("Latency ladder (HDR):"))
		for _, q := range r.Ladder {
			c.writeln(fmt.Sprintf("  %-10s %s", formatQuantile(q.Quantile), s.Value.Sprint(formatNanos(float64(q.Value)))))
		}
		c.writeln("")
	}
}

// PrintOverview prints one line per worker report.
func (c *Console) PrintOverview(reports []*Report) {
	s := c.scheme
	c.writeln(s.Title.Sprintf("%d workers:", len(reports)))
	for _, r := range reports {
		tag := "local"
		if r.Worker != nil {
			tag = fmt.Sprintf("worker %d pid %d %s", r.Worker.Index, r.Worker.PID, r.Worker.Placement)
		}
		line := fmt.Sprintf("  %-32s %6d segments", tag, r.Recorded)
		if r.Stats != nil {
			line += fmt.Sprintf("  p99 %s  avg %s",
				s.Value.Sprint(formatNanos(r.Stats.Latencies.P99)),
				s.Value.Sprint(formatNanos(r.Stats.Latencies.Mean)))
		}
		c.writeln(line)
	}
	c.writeln("")
}

// reportTitle describes the trial and, for fan-out reports, its worker.
func reportTitle(r *Report) string {
	title := "membench"
	if r.Config != nil {
		title = fmt.Sprintf("membench %s - %d GB arena, %s @ %s",
			r.Config.Mode, r.Config.DataSizeGB,
			formatDuration(time.Duration(r.Config.Duration)), r.Ticks.Interval)
	}
	if r.Worker != nil {
		title += fmt.Sprintf(" [worker %d, pid %d, %s]", r.Worker.Index, r.Worker.PID, r.Worker.Placement)
	}
	return title
}

func (c *Console) summary(name string, sum stats.Summary, format func(float64) string) {
	s := c.scheme
	c.writeln(s.Title.Sprintf("%s:", name))
	rows := []struct {
		label string
		value float64
	}{
		{"Min", sum.Min},
		{"Max", sum.Max},
		{"Avg", sum.Mean},
		{"StdDev", sum.StdDev},
		{"P99", sum.P99},
		{"P95", sum.P95},
		{"P90", sum.P90},
	}
	for _, row := range rows {
		c.writeln(fmt.Sprintf("  %-10s %s", s.Label.Sprint(row.label+":"), s.Value.Sprint(format(row.value))))
	}
	c.writeln("")
}

func (c *Console) field(label, value string) {
	c.writeln(fmt.Sprintf("%-14s %s", c.scheme.Label.Sprint(label+":"), value))
}

func (c *Console) countColor(n int64) *color.Color {
	if n > 0 {
		return c.scheme.Warn
	}
	return c.scheme.Good
}

func (c *Console) writeln(s string) {
	fmt.Fprintln(c.w, s)
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, sec)
}

// formatNanos formats a latency given in nanoseconds.
func formatNanos(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.2fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}

// formatBytes formats a byte count with binary units.
func formatBytes(b float64) string {
	switch {
	case b < 1<<10:
		return fmt.Sprintf("%.0f B", b)
	case b < 1<<20:
		return fmt.Sprintf("%.2f KiB", b/(1<<10))
	case b < 1<<30:
		return fmt.Sprintf("%.2f MiB", b/(1<<20))
	default:
		return fmt.Sprintf("%.2f GiB", b/(1<<30))
	}
}

func formatRate(r float64) string {
	return fmt.Sprintf("%.2f", r)
}

func formatQuantile(q float64) string {
	if q >= 100 {
		return "Max"
	}
	return "P" + strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}
	if len(str) <= 3 {
		if neg {
			return "-" + str
		}
		return str
	}

	var result strings.Builder
	if neg {
		result.WriteString("-")
	}
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
