package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/torosent/sweepfire/internal/sweep"
)

func TestPrintJSONReport(t *testing.T) {
	entries := []sweep.ReportEntry{
		{Concurrency: 1, RequestsPerSecond: 120.5, CPUPercentage: 12.25},
		{Concurrency: 2, RequestsPerSecond: 241, CPUPercentage: 24.5},
	}

	var buf bytes.Buffer
	if err := PrintJSONReport(&buf, entries); err != nil {
		t.Fatalf("PrintJSONReport failed: %v", err)
	}

	want := `[
  {
    "concurrency": 1,
    "requests_per_second": 120.5,
    "cpu_percentage": 12.25
  },
  {
    "concurrency": 2,
    "requests_per_second": 241.0,
    "cpu_percentage": 24.5
  }
]
`
	if buf.String() != want {
		t.Errorf("unexpected JSON output:\n%s", buf.String())
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded[0]) != 3 {
		t.Errorf("expected exactly 3 fields per entry, got %d", len(decoded[0]))
	}
}

func TestPrintJSONReportKeepsWholeNumbersAsFloats(t *testing.T) {
	var buf bytes.Buffer
	err := PrintJSONReport(&buf, []sweep.ReportEntry{{Concurrency: 5, RequestsPerSecond: 250, CPUPercentage: 0}})
	if err != nil {
		t.Fatalf("PrintJSONReport failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"requests_per_second": 250.0`) {
		t.Errorf("expected 250.0 for requests_per_second, got:\n%s", out)
	}
	if !strings.Contains(out, `"cpu_percentage": 0.0`) {
		t.Errorf("expected 0.0 for cpu_percentage, got:\n%s", out)
	}
}

func TestPrintJSONReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSONReport(&buf, nil); err != nil {
		t.Fatalf("PrintJSONReport failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestPrintYAMLReport(t *testing.T) {
	entries := []sweep.ReportEntry{{Concurrency: 10, RequestsPerSecond: 99.99, CPUPercentage: 50}}

	var buf bytes.Buffer
	if err := PrintYAMLReport(&buf, entries); err != nil {
		t.Fatalf("PrintYAMLReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"concurrency: 10", "requests_per_second: 99.99", "cpu_percentage: 50"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in YAML output:\n%s", want, out)
		}
	}

	var decoded []sweep.ReportEntry
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != entries[0] {
		t.Errorf("decoded = %+v, want %+v", decoded, entries)
	}
}

func TestPrintReport(t *testing.T) {
	entries := []sweep.ReportEntry{
		{Concurrency: 1, RequestsPerSecond: 100, CPUPercentage: 10},
		{Concurrency: 20, RequestsPerSecond: 950.5, CPUPercentage: 80.25},
		{Concurrency: 200, RequestsPerSecond: 900, CPUPercentage: 99},
	}

	var buf bytes.Buffer
	PrintReport(&buf, entries)

	output := buf.String()
	if !strings.Contains(output, "Concurrency Sweep Results") {
		t.Error("expected header in output")
	}
	if !strings.Contains(output, "950.50") {
		t.Error("expected formatted RPS in output")
	}
	if !strings.Contains(output, "Peak throughput: 950.50 req/s at concurrency 20") {
		t.Errorf("expected peak line, got:\n%s", output)
	}
}

func TestPrintReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, nil)
	if strings.Contains(buf.String(), "Peak") {
		t.Error("did not expect peak line for an empty report")
	}
}
