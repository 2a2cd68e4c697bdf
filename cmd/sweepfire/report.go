package main

import (
	"bytes"
	"io"

	"github.com/torosent/sweepfire/internal/config"
	"github.com/torosent/sweepfire/internal/metrics"
	"github.com/torosent/sweepfire/internal/output"
	"github.com/torosent/sweepfire/internal/sweep"
)

func renderReport(w io.Writer, format config.OutputFormat, entries []sweep.ReportEntry) error {
	switch format {
	case config.FormatYAML:
		return output.PrintYAMLReport(w, entries)
	case config.FormatText:
		output.PrintReport(w, entries)
		return nil
	default:
		return output.PrintJSONReport(w, entries)
	}
}

// writeReport writes the report to the configured file, or to stdout.
func writeReport(cfg *config.Config, entries []sweep.ReportEntry, stdout io.Writer) error {
	if cfg.OutputFile == "" {
		return renderReport(stdout, cfg.Format, entries)
	}
	return output.WriteFileLocked(cfg.OutputFile, func(b *bytes.Buffer) error {
		return renderReport(b, cfg.Format, entries)
	})
}

func writeHTMLReport(path string, entries []sweep.ReportEntry, history []metrics.Point, meta output.ReportMetadata) error {
	return output.WriteFileLocked(path, func(b *bytes.Buffer) error {
		return output.GenerateHTMLReport(b, entries, history, meta)
	})
}
