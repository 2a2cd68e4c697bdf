package output

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/torosent/sweepfire/internal/metrics"
	"github.com/torosent/sweepfire/internal/sweep"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt string
	Entries     []sweep.ReportEntry
	Rows        []HTMLRow
	Peak        *sweep.ReportEntry
	History     []metrics.Point
	HistoryJSON string
	Metadata    ReportMetadata
}

// HTMLRow is one report entry with its bar widths scaled to the widest value.
type HTMLRow struct {
	sweep.ReportEntry
	RPSWidth float64
	CPUWidth float64
}

// ReportMetadata contains configuration information about the sweep.
type ReportMetadata struct {
	RunID        string
	Method       string
	TargetURL    string
	RequestCount int
	RepeatCount  int
	Duration     time.Duration
}

const barMaxWidth = 400.0

// GenerateHTMLReport generates a standalone HTML report with inline SVG bars.
func GenerateHTMLReport(w io.Writer, entries []sweep.ReportEntry, history []metrics.Point, metadata ReportMetadata) error {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	data := HTMLReportData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Entries:     entries,
		Rows:        scaleRows(entries, barMaxWidth),
		History:     history,
		HistoryJSON: string(historyJSON),
		Metadata:    metadata,
	}
	if peak, ok := peakEntry(entries); ok {
		data.Peak = &peak
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			return d.Round(time.Millisecond).String()
		},
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

func scaleRows(entries []sweep.ReportEntry, width float64) []HTMLRow {
	var maxRPS, maxCPU float64
	for _, e := range entries {
		if e.RequestsPerSecond > maxRPS {
			maxRPS = e.RequestsPerSecond
		}
		if e.CPUPercentage > maxCPU {
			maxCPU = e.CPUPercentage
		}
	}
	rows := make([]HTMLRow, len(entries))
	for i, e := range entries {
		rows[i] = HTMLRow{ReportEntry: e}
		if maxRPS > 0 {
			rows[i].RPSWidth = e.RequestsPerSecond / maxRPS * width
		}
		if maxCPU > 0 {
			rows[i].CPUWidth = e.CPUPercentage / maxCPU * width
		}
	}
	return rows
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sweepfire Concurrency Sweep Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1400px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #f97316 0%, #b91c1c 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #f97316;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover {
            background: #f8f9fa;
        }
        .bar-rps { fill: #f97316; }
        .bar-cpu { fill: #3b82f6; }
        .no-data {
            text-align: center;
            padding: 40px;
            color: #6c757d;
            font-style: italic;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Sweepfire Concurrency Sweep Report</h1>
            {{if .Metadata.TargetURL}}
            <div class="meta" style="margin-top: 5px;">Target: {{.Metadata.Method}} <a href="{{.Metadata.TargetURL}}" style="color: white; text-decoration: underline;">{{.Metadata.TargetURL}}</a></div>
            {{end}}
            <div class="meta">Generated: {{.GeneratedAt}}{{if .Metadata.Duration}} | Duration: {{formatDuration .Metadata.Duration}}{{end}}{{if .Metadata.RunID}} | Run: {{.Metadata.RunID}}{{end}}</div>
        </header>
        <div class="content">
            <div class="grid">
                <div class="card">
                    <h3>Requests per Trial</h3>
                    <div class="value">{{.Metadata.RequestCount}}</div>
                </div>
                <div class="card">
                    <h3>Repeats</h3>
                    <div class="value">{{.Metadata.RepeatCount}}</div>
                </div>
                {{if .Peak}}
                <div class="card">
                    <h3>Peak Throughput</h3>
                    <div class="value">{{formatFloat .Peak.RequestsPerSecond}}</div>
                    <div>req/s at concurrency {{.Peak.Concurrency}}</div>
                </div>
                {{end}}
            </div>

            <div class="section">
                <h2>Results by Concurrency</h2>
                {{if .Rows}}
                <table>
                    <thead>
                        <tr>
                            <th>Concurrency</th>
                            <th>Requests/sec</th>
                            <th>CPU %</th>
                            <th>Throughput</th>
                            <th>CPU</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Rows}}
                        <tr>
                            <td><strong>{{.Concurrency}}</strong></td>
                            <td>{{formatFloat .RequestsPerSecond}}</td>
                            <td>{{formatFloat .CPUPercentage}}</td>
                            <td><svg width="400" height="14"><rect class="bar-rps" x="0" y="0" height="14" width="{{formatFloat .RPSWidth}}"/></svg></td>
                            <td><svg width="400" height="14"><rect class="bar-cpu" x="0" y="0" height="14" width="{{formatFloat .CPUWidth}}"/></svg></td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
                {{else}}
                <div class="no-data">No trials recorded</div>
                {{end}}
            </div>

            {{if .History}}
            <div class="section">
                <h2>Trials</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Repeat</th>
                            <th>Concurrency</th>
                            <th>Elapsed</th>
                            <th>Requests/sec</th>
                            <th>CPU %</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .History}}
                        <tr>
                            <td>{{.Repeat}}</td>
                            <td>{{.Trial.Concurrency}}</td>
                            <td>{{formatDuration .Elapsed}}</td>
                            <td>{{formatFloat .Trial.RequestsPerSecond}}</td>
                            <td>{{formatFloat .Trial.CPUPercentage}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>
    <script>
        const trials = JSON.parse({{.HistoryJSON}});
    </script>
</body>
</html>
`
