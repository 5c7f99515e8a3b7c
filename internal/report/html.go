package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/wesleyorama2/membench/internal/bench"
)

// maxSeriesPoints bounds the number of points charted per worker. Longer
// sample lists are bucketed in arrival order.
const maxSeriesPoints = 300

// HTMLData contains all data needed to render the HTML report.
type HTMLData struct {
	RunID     string
	Generated time.Time
	Reports   []*Report
	Multi     bool

	// SeriesJSON holds one latency series per report, in report order.
	SeriesJSON template.JS
}

// SeriesPoint summarizes a run of consecutive samples in arrival order.
type SeriesPoint struct {
	Sequence    int     `json:"sequence"`
	Count       int     `json:"count"`
	LatencyMean float64 `json:"latencyMean"`
	LatencyMax  int64   `json:"latencyMax"`
	SizeMean    float64 `json:"sizeMean"`
}

// WriteHTML renders reports as a standalone HTML page at path.
func WriteHTML(path, runID string, reports []*Report) error {
	html, err := GenerateHTMLString(runID, reports)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}

// GenerateHTMLString renders reports as an HTML page. Latency charts are
// only drawn for reports that carry raw samples.
func GenerateHTMLString(runID string, reports []*Report) (string, error) {
	if len(reports) == 0 {
		return "", fmt.Errorf("no reports to render")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	series := make([][]SeriesPoint, len(reports))
	for i, r := range reports {
		series[i] = latencySeries(r.Samples, maxSeriesPoints)
	}
	seriesJSON, err := json.Marshal(series)
	if err != nil {
		return "", fmt.Errorf("failed to convert latency series: %w", err)
	}

	data := HTMLData{
		RunID:      runID,
		Generated:  time.Now(),
		Reports:    reports,
		Multi:      len(reports) > 1,
		SeriesJSON: template.JS(seriesJSON),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// latencySeries buckets samples into at most maxPoints points.
func latencySeries(samples []bench.Sample, maxPoints int) []SeriesPoint {
	if len(samples) == 0 || maxPoints < 1 {
		return []SeriesPoint{}
	}

	width := (len(samples) + maxPoints - 1) / maxPoints
	points := make([]SeriesPoint, 0, (len(samples)+width-1)/width)
	for start := 0; start < len(samples); start += width {
		end := min(start+width, len(samples))

		p := SeriesPoint{Sequence: start, Count: end - start}
		var latencySum, sizeSum float64
		for _, s := range samples[start:end] {
			ns := s.Latency.Nanoseconds()
			latencySum += float64(ns)
			sizeSum += float64(s.Size)
			p.LatencyMax = max(p.LatencyMax, ns)
		}
		p.LatencyMean = latencySum / float64(p.Count)
		p.SizeMean = sizeSum / float64(p.Count)
		points = append(points, p)
	}
	return points
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"title":          reportTitle,
		"formatDuration": formatDuration,
		"formatNanos":    formatNanos,
		"formatBytes":    formatBytes,
		"formatRate":     formatRate,
		"formatQuantile": formatQuantile,
		"formatNumber":   formatNumber,
		"formatCount":    func(n int) string { return formatNumber(int64(n)) },
		"nanos":          func(v int64) float64 { return float64(v) },
	}
}
