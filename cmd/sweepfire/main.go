package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/torosent/sweepfire/internal/config"
	"github.com/torosent/sweepfire/internal/dashboard"
	"github.com/torosent/sweepfire/internal/httpclient"
	"github.com/torosent/sweepfire/internal/logging"
	"github.com/torosent/sweepfire/internal/metrics"
	"github.com/torosent/sweepfire/internal/output"
	"github.com/torosent/sweepfire/internal/runner"
	"github.com/torosent/sweepfire/internal/sweep"
	"github.com/torosent/sweepfire/internal/tracing"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on stderr and maps it to the process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var usageErr config.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(stderr, config.Usage())
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runID := ulid.Make().String()
	logger = logger.With(zap.String("run_id", runID))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()
	tracer := provider.Tracer()

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}
	client := httpclient.NewClient(cfg.Timeout, sweep.MaxLevel())

	var requester runner.Requester = httpclient.NewRequester(client, builder)
	if cfg.LogErrors {
		requester = runner.WithLogging(requester, newFailureLogger(logger.Named("request")))
	}
	if cfg.Tracing.Enabled() {
		requester = runner.WithTracing(requester, tracer, builder.Method())
	}

	collector := metrics.NewCollector(len(sweep.Levels()) * cfg.RepeatCount)
	sweeper, err := sweep.New(sweep.Options{
		RequestCount: cfg.RequestCount,
		RepeatCount:  cfg.RepeatCount,
		Executor:     &httpclient.Engine{Requester: requester, RatePerSecond: cfg.Rate},
		Observer:     collector,
		Tracer:       tracer,
		Logger:       logger.Named("sweep"),
	})
	if err != nil {
		return err
	}

	logger.Info("starting sweep",
		zap.String("method", builder.Method()),
		zap.String("url", cfg.TargetURL),
		zap.Int("request_count", cfg.RequestCount),
		zap.Int("repeat_count", cfg.RepeatCount),
		zap.Int("trials", sweeper.TotalTrials()),
	)

	ctx, span := tracing.StartSweepSpan(ctx, tracer, runID, builder.Method(), cfg.TargetURL, cfg.RequestCount, cfg.RepeatCount)

	stopUI, err := startUI(cfg, runID, collector, cancel, stderr)
	if err != nil {
		tracing.EndSpan(span, err)
		return err
	}

	collector.Start()
	start := time.Now()
	stats, err := sweeper.Run(ctx)
	stopUI()
	tracing.EndSpan(span, err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("sweep interrupted, no report written: %w", err)
		}
		return err
	}

	entries := sweep.Aggregate(stats)
	logger.Info("sweep finished", zap.Duration("duration", time.Since(start)))

	if err := writeReport(cfg, entries, stdout); err != nil {
		return err
	}
	if cfg.HTMLOutput != "" {
		meta := output.ReportMetadata{
			RunID:        runID,
			Method:       builder.Method(),
			TargetURL:    cfg.TargetURL,
			RequestCount: cfg.RequestCount,
			RepeatCount:  cfg.RepeatCount,
			Duration:     time.Since(start),
		}
		if err := writeHTMLReport(cfg.HTMLOutput, entries, collector.History(), meta); err != nil {
			return err
		}
		logger.Info("html report written", zap.String("path", cfg.HTMLOutput))
	}
	return nil
}

// startUI starts the dashboard or progress line and returns the matching stop function.
func startUI(cfg *config.Config, runID string, collector *metrics.Collector, cancel context.CancelFunc, stderr io.Writer) (func(), error) {
	switch {
	case cfg.Dashboard:
		dash, err := dashboard.New(collector, dashboard.SweepConfig{
			RunID:        runID,
			Method:       cfg.Method,
			TargetURL:    cfg.TargetURL,
			RequestCount: cfg.RequestCount,
			RepeatCount:  cfg.RepeatCount,
			Rate:         cfg.Rate,
			Timeout:      cfg.Timeout,
			ConfigFile:   cfg.ConfigFile,
		}, cancel)
		if err != nil {
			return nil, err
		}
		dash.Start()
		return dash.Stop, nil
	case cfg.Progress:
		progress := output.NewProgressReporter(collector, progressInterval, stderr)
		progress.Start()
		return progress.Stop, nil
	default:
		return func() {}, nil
	}
}
