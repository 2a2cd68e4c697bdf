package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torosent/sweepfire/internal/logging"
	"github.com/torosent/sweepfire/internal/merge"
	"github.com/torosent/sweepfire/internal/output"
)

type mergeOptions struct {
	dir      string
	glob     string
	pattern  string
	format   string
	output   string
	logLevel string
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &mergeOptions{}
	cmd := &cobra.Command{
		Use:           "sweepmerge",
		Short:         "Merge sweep result files named <runtime>-sleep-<ms>.json into one list",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "d", ".", "Directory to search for result files")
	flags.StringVar(&opts.glob, "glob", merge.DefaultGlob, "File name glob")
	flags.StringVar(&opts.pattern, "pattern", merge.DefaultPattern, "Regex with groups for executable and delay in ms")
	flags.StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	flags.StringVarP(&opts.output, "output", "o", "", "Write merged output to this file instead of stdout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	return cmd
}

func runMerge(opts *mergeOptions, stdout, stderr io.Writer) error {
	logger, err := logging.New(stderr, opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	re, err := merge.CompilePattern(opts.pattern)
	if err != nil {
		return err
	}

	var write func(io.Writer, []merge.Record) error
	switch strings.ToLower(strings.TrimSpace(opts.format)) {
	case "json", "":
		write = merge.WriteJSON
	case "yaml", "yml":
		write = merge.WriteYAML
	default:
		return fmt.Errorf("unsupported format %q (want json or yaml)", opts.format)
	}

	records, err := merge.Merge(merge.Options{
		Dir:     opts.dir,
		Glob:    opts.glob,
		Pattern: re,
		Logger:  logger.Named("merge"),
	})
	if err != nil {
		return err
	}

	if opts.output != "" {
		return output.WriteFileLocked(opts.output, func(b *bytes.Buffer) error {
			return write(b, records)
		})
	}
	return write(stdout, records)
}
