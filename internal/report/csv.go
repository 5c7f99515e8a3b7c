package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{"run_id", "worker", "pid", "sequence", "size_bytes", "latency_ns", "rate"}

// WriteCSV writes the raw samples of every report, one row per sample in
// arrival order. Reports built without samples contribute no rows.
func WriteCSV(w io.Writer, reports []*Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range reports {
		worker, pid := "", ""
		if r.Worker != nil {
			worker = strconv.Itoa(r.Worker.Index)
			pid = strconv.Itoa(r.Worker.PID)
		}
		for i, s := range r.Samples {
			row := []string{
				r.RunID,
				worker,
				pid,
				strconv.Itoa(i),
				strconv.FormatInt(s.Size, 10),
				strconv.FormatInt(s.Latency.Nanoseconds(), 10),
				strconv.FormatFloat(s.Rate(), 'f', 4, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes WriteCSV output to path.
func WriteCSVFile(path string, reports []*Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, reports); err != nil {
		return err
	}
	return f.Close()
}
