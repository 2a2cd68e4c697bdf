package output_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/torosent/sweepfire/internal/metrics"
	"github.com/torosent/sweepfire/internal/output"
	"github.com/torosent/sweepfire/internal/sweep"
)

func sampleEntries() []sweep.ReportEntry {
	return []sweep.ReportEntry{
		{Concurrency: 1, RequestsPerSecond: 120.5, CPUPercentage: 12.25},
		{Concurrency: 2, RequestsPerSecond: 241, CPUPercentage: 24.5},
		{Concurrency: 3, RequestsPerSecond: 200.75, CPUPercentage: 49},
	}
}

func TestGenerateHTMLReport(t *testing.T) {
	history := []metrics.Point{
		{Repeat: 1, Trial: sweep.Trial{Concurrency: 1, RequestsPerSecond: 120.5, CPUPercentage: 12.25}, Elapsed: 4150 * time.Millisecond},
		{Repeat: 1, Trial: sweep.Trial{Concurrency: 2, RequestsPerSecond: 241, CPUPercentage: 24.5}, Elapsed: 2075 * time.Millisecond},
	}

	var buf bytes.Buffer
	err := output.GenerateHTMLReport(&buf, sampleEntries(), history, output.ReportMetadata{
		RunID:        "01JTESTRUN",
		Method:       "GET",
		TargetURL:    "http://localhost:8080/ping",
		RequestCount: 500,
		RepeatCount:  10,
		Duration:     90 * time.Second,
	})
	if err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}

	html := buf.String()
	requiredElements := []string{
		"<!DOCTYPE html>",
		"<body>",
		"Sweepfire Concurrency Sweep Report",
		"http://localhost:8080/ping",
		"01JTESTRUN",
		"Results by Concurrency",
		"120.50",
		"200.75",
		"49.00",
		"req/s at concurrency 2",
		"<svg",
		"Trials",
		"4.15s",
	}
	for _, elem := range requiredElements {
		if !strings.Contains(html, elem) {
			t.Errorf("HTML missing required element: %s", elem)
		}
	}

	// The widest bar in each column spans the full width.
	if !strings.Contains(html, `class="bar-rps" x="0" y="0" height="14" width="400.00"`) {
		t.Error("expected peak RPS bar at full width")
	}
	if !strings.Contains(html, `class="bar-cpu" x="0" y="0" height="14" width="400.00"`) {
		t.Error("expected peak CPU bar at full width")
	}
}

func TestGenerateHTMLReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, nil, nil, output.ReportMetadata{}); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "No trials recorded") {
		t.Error("expected empty-state message")
	}
	if strings.Contains(html, "Peak Throughput") {
		t.Error("did not expect peak card without entries")
	}
}

func TestGenerateHTMLReportEscapesTarget(t *testing.T) {
	var buf bytes.Buffer
	err := output.GenerateHTMLReport(&buf, sampleEntries(), nil, output.ReportMetadata{
		Method:    "GET",
		TargetURL: `http://example.com/<script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("target URL must be escaped")
	}
}
