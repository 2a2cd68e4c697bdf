package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/torosent/sweepfire/internal/sweep"
)

// PrintReport outputs a human-readable table of the averaged sweep.
func PrintReport(w io.Writer, entries []sweep.ReportEntry) {
	fmt.Fprintln(w, "--- Concurrency Sweep Results ---")
	fmt.Fprintf(w, "%-12s %14s %10s\n", "Concurrency", "Requests/sec", "CPU %")
	for _, e := range entries {
		fmt.Fprintf(w, "%-12d %14.2f %10.2f\n", e.Concurrency, e.RequestsPerSecond, e.CPUPercentage)
	}
	if peak, ok := peakEntry(entries); ok {
		fmt.Fprintf(w, "\nPeak throughput: %.2f req/s at concurrency %d\n", peak.RequestsPerSecond, peak.Concurrency)
	}
}

// PrintJSONReport outputs the report as an indented JSON array.
func PrintJSONReport(w io.Writer, entries []sweep.ReportEntry) error {
	if entries == nil {
		entries = []sweep.ReportEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// PrintYAMLReport outputs the report as a YAML sequence.
func PrintYAMLReport(w io.Writer, entries []sweep.ReportEntry) error {
	if entries == nil {
		entries = []sweep.ReportEntry{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}

func peakEntry(entries []sweep.ReportEntry) (sweep.ReportEntry, bool) {
	if len(entries) == 0 {
		return sweep.ReportEntry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.RequestsPerSecond > best.RequestsPerSecond {
			best = e
		}
	}
	return best, true
}
