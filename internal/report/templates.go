package report

// htmlTemplate is the page rendered by GenerateHTMLString.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>membench {{.RunID}} - Memory Benchmark Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --accent-warning: #f59e0b;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        [data-theme="dark"] {
            --bg-primary: #0f172a;
            --bg-secondary: #1e293b;
            --bg-card: #1e293b;
            --text-primary: #f1f5f9;
            --text-secondary: #94a3b8;
            --text-muted: #64748b;
            --border-color: #334155;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.3);
        }

        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container { max-width: 1400px; margin: 0 auto; padding: 2rem; }

        .header {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
            display: flex;
            justify-content: space-between;
            align-items: center;
        }

        .header h1 { font-size: 1.75rem; font-weight: 700; }
        .header .meta { display: flex; gap: 2rem; font-size: 0.875rem; color: var(--text-muted); }

        .theme-toggle {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 0.5rem 0.75rem;
            cursor: pointer;
            color: var(--text-secondary);
        }

        .section {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
        }

        .section-title {
            font-size: 1.125rem;
            font-weight: 600;
            margin-bottom: 1.5rem;
            border-left: 4px solid var(--accent-primary);
            padding-left: 0.5rem;
        }

        .metrics-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            gap: 1rem;
            margin-bottom: 1.5rem;
        }

        .metric-card { background: var(--bg-secondary); border-radius: 8px; padding: 1rem; }
        .metric-card .label { font-size: 0.75rem; text-transform: uppercase; color: var(--text-muted); }
        .metric-card .value { font-size: 1.5rem; font-weight: 700; }
        .metric-card .value.warn { color: var(--accent-warning); }

        .stats-table { width: 100%; border-collapse: collapse; margin-bottom: 1.5rem; }
        .stats-table th, .stats-table td {
            padding: 0.5rem 1rem;
            text-align: right;
            border-bottom: 1px solid var(--border-color);
            font-size: 0.875rem;
        }
        .stats-table th { font-size: 0.75rem; text-transform: uppercase; color: var(--text-muted); }
        .stats-table th:first-child, .stats-table td:first-child { text-align: left; }

        .latency-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(120px, 1fr));
            gap: 1rem;
            margin-bottom: 1.5rem;
        }

        .latency-item { text-align: center; padding: 1rem; background: var(--bg-secondary); border-radius: 8px; }
        .latency-item .percentile { font-size: 0.75rem; text-transform: uppercase; color: var(--text-muted); }
        .latency-item .time { font-size: 1.25rem; font-weight: 600; }

        .chart-wrapper { position: relative; height: 260px; }
        .empty { color: var(--accent-warning); }

        .footer { text-align: center; padding: 2rem; color: var(--text-muted); font-size: 0.75rem; }

        @media print {
            .theme-toggle { display: none; }
            .section, .header { break-inside: avoid; box-shadow: none; border: 1px solid #e2e8f0; }
        }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div>
                <h1>Memory Benchmark Report</h1>
                <div class="meta">
                    <span>Run {{.RunID}}</span>
                    <span>{{len .Reports}} {{if .Multi}}workers{{else}}process{{end}}</span>
                </div>
            </div>
            <button class="theme-toggle" onclick="toggleTheme()" title="Toggle dark mode">Theme</button>
        </header>

        {{range $i, $r := .Reports}}
        <section class="section report">
            <h2 class="section-title">{{title $r}}</h2>

            <div class="metrics-grid">
                <div class="metric-card">
                    <div class="label">Segments Read</div>
                    <div class="value">{{formatCount $r.Recorded}}</div>
                </div>
                <div class="metric-card">
                    <div class="label">Capacity</div>
                    <div class="value">{{formatCount $r.Capacity}}</div>
                </div>
                <div class="metric-card">
                    <div class="label">Missed Ticks</div>
                    <div class="value{{if $r.Ticks.Missed}} warn{{end}}">{{formatNumber $r.Ticks.Missed}}</div>
                </div>
                <div class="metric-card">
                    <div class="label">Dropped</div>
                    <div class="value{{if $r.Dropped}} warn{{end}}">{{formatNumber $r.Dropped}}</div>
                </div>
                <div class="metric-card">
                    <div class="label">Elapsed</div>
                    <div class="value">{{formatDuration $r.Elapsed}}</div>
                </div>
                {{if $r.Stats}}
                <div class="metric-card">
                    <div class="label">P99 Latency</div>
                    <div class="value">{{formatNanos $r.Stats.Latencies.P99}}</div>
                </div>
                {{end}}
            </div>

            {{if $r.Stats}}
            <table class="stats-table">
                <thead>
                    <tr><th></th><th>Min</th><th>Max</th><th>Avg</th><th>StdDev</th><th>P90</th><th>P95</th><th>P99</th></tr>
                </thead>
                <tbody>
                    {{with $r.Stats.Sizes}}
                    <tr>
                        <td>Sizes</td>
                        <td>{{formatBytes .Min}}</td><td>{{formatBytes .Max}}</td><td>{{formatBytes .Mean}}</td>
                        <td>{{formatBytes .StdDev}}</td><td>{{formatBytes .P90}}</td><td>{{formatBytes .P95}}</td><td>{{formatBytes .P99}}</td>
                    </tr>
                    {{end}}
                    {{with $r.Stats.Latencies}}
                    <tr>
                        <td>Latencies</td>
                        <td>{{formatNanos .Min}}</td><td>{{formatNanos .Max}}</td><td>{{formatNanos .Mean}}</td>
                        <td>{{formatNanos .StdDev}}</td><td>{{formatNanos .P90}}</td><td>{{formatNanos .P95}}</td><td>{{formatNanos .P99}}</td>
                    </tr>
                    {{end}}
                    {{with $r.Stats.Rates}}
                    <tr>
                        <td>Rates</td>
                        <td>{{formatRate .Min}}</td><td>{{formatRate .Max}}</td><td>{{formatRate .Mean}}</td>
                        <td>{{formatRate .StdDev}}</td><td>{{formatRate .P90}}</td><td>{{formatRate .P95}}</td><td>{{formatRate .P99}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <p class="empty">No samples recorded, statistics skipped.</p>
            {{end}}

            {{if $r.Ladder}}
            <div class="latency-grid">
                {{range $r.Ladder}}
                <div class="latency-item">
                    <div class="percentile">{{formatQuantile .Quantile}}</div>
                    <div class="time">{{formatNanos (nanos .Value)}}</div>
                </div>
                {{end}}
            </div>
            {{end}}

            {{if $r.Samples}}
            <div class="chart-wrapper">
                <canvas id="latencyChart{{$i}}"></canvas>
            </div>
            {{end}}
        </section>
        {{end}}

        <footer class="footer">
            <p>Generated by membench {{.Generated.Format "2006-01-02 15:04:05 MST"}}</p>
        </footer>
    </div>

    <script>
        function toggleTheme() {
            const html = document.documentElement;
            const next = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
            html.setAttribute('data-theme', next);
            localStorage.setItem('theme', next);
        }

        document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'light');

        // One latency series per report, bucketed in arrival order.
        const seriesData = {{.SeriesJSON}};

        document.addEventListener('DOMContentLoaded', function() {
            seriesData.forEach(function(series, i) {
                const ctx = document.getElementById('latencyChart' + i);
                if (!ctx || series.length === 0) {
                    return;
                }
                new Chart(ctx.getContext('2d'), {
                    type: 'line',
                    data: {
                        labels: series.map(p => '#' + p.sequence),
                        datasets: [
                            {
                                label: 'Mean latency (µs)',
                                data: series.map(p => p.latencyMean / 1000),
                                borderColor: '#3b82f6',
                                pointRadius: 0,
                                borderWidth: 2,
                                tension: 0.3,
                            },
                            {
                                label: 'Max latency (µs)',
                                data: series.map(p => p.latencyMax / 1000),
                                borderColor: '#ef4444',
                                pointRadius: 0,
                                borderWidth: 1,
                                tension: 0.3,
                            }
                        ]
                    },
                    options: {
                        responsive: true,
                        maintainAspectRatio: false,
                        interaction: { mode: 'index', intersect: false },
                        scales: { y: { beginAtZero: true, title: { display: true, text: 'Latency (µs)' } } }
                    }
                });
            });
        });
    </script>
</body>
</html>`
