package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/torosent/sweepfire/internal/cputime"
	"github.com/torosent/sweepfire/internal/tracing"
)

var levels = [...]int{1, 2, 3, 4, 5, 10, 20, 40, 60, 80, 100, 120, 140, 160, 180, 200}

// Levels returns the fixed concurrency sweep in iteration and report order.
func Levels() []int {
	out := make([]int, len(levels))
	copy(out, levels[:])
	return out
}

// MaxLevel is the widest in-flight window the sweep opens.
func MaxLevel() int {
	return levels[len(levels)-1]
}

// TrialExecutor runs total requests keeping concurrency of them in flight,
// returning once every issued request has completed.
type TrialExecutor interface {
	Execute(ctx context.Context, concurrency, total int) error
}

// Clock supplies wall-clock readings.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configure a sweep.
type Options struct {
	RequestCount int
	RepeatCount  int
	Executor     TrialExecutor
	Clock        Clock         // defaults to time.Now
	CPU          cputime.Meter // defaults to getrusage
	Observer     Observer
	Tracer       trace.Tracer
	Logger       *zap.Logger
}

// Runner executes the sweep described by Options.
type Runner struct {
	opt Options
}

func New(opt Options) (*Runner, error) {
	if opt.RequestCount < 1 {
		return nil, fmt.Errorf("request count must be >= 1, got %d", opt.RequestCount)
	}
	if opt.RepeatCount < 1 {
		return nil, fmt.Errorf("repeat count must be >= 1, got %d", opt.RepeatCount)
	}
	if opt.Executor == nil {
		return nil, errors.New("trial executor is required")
	}
	if opt.Clock == nil {
		opt.Clock = systemClock{}
	}
	if opt.CPU == nil {
		opt.CPU = cputime.NewMeter()
	}
	if opt.Observer == nil {
		opt.Observer = Observers(nil)
	}
	if opt.Tracer == nil {
		opt.Tracer = noop.NewTracerProvider().Tracer("sweep")
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Runner{opt: opt}, nil
}

// TotalTrials is RepeatCount times the number of sweep levels.
func (r *Runner) TotalTrials() int {
	return r.opt.RepeatCount * len(levels)
}

// Run executes every (repeat, level) trial and returns the recorded stats.
// Stats are only returned for a complete sweep.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	stats := NewStats()
	for repeat := 1; repeat <= r.opt.RepeatCount; repeat++ {
		for _, concurrency := range levels {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			trial, err := r.RunTrial(ctx, repeat, concurrency)
			if err != nil {
				return nil, err
			}
			stats.Record(trial)
		}
	}
	return stats, nil
}

// RunTrial measures one trial at the given concurrency.
func (r *Runner) RunTrial(ctx context.Context, repeat, concurrency int) (Trial, error) {
	ctx, span := tracing.StartTrialSpan(ctx, r.opt.Tracer, repeat, concurrency)
	r.opt.Observer.TrialStarted(repeat, concurrency)

	cpuBefore, err := r.opt.CPU.Usage()
	if err != nil {
		tracing.EndSpan(span, err)
		return Trial{}, fmt.Errorf("read cpu time: %w", err)
	}
	start := r.opt.Clock.Now()

	if err := r.opt.Executor.Execute(ctx, concurrency, r.opt.RequestCount); err != nil {
		tracing.EndSpan(span, err)
		return Trial{}, fmt.Errorf("trial repeat=%d concurrency=%d: %w", repeat, concurrency, err)
	}

	elapsed := r.opt.Clock.Now().Sub(start)
	cpuAfter, err := r.opt.CPU.Usage()
	if err != nil {
		tracing.EndSpan(span, err)
		return Trial{}, fmt.Errorf("read cpu time: %w", err)
	}

	trial := ComputeTrial(concurrency, r.opt.RequestCount, elapsed, cpuAfter-cpuBefore)
	r.opt.Logger.Debug("trial finished",
		zap.Int("repeat", repeat),
		zap.Int("concurrency", concurrency),
		zap.Duration("elapsed", elapsed),
		zap.Float64("requests_per_second", trial.RequestsPerSecond),
		zap.Float64("cpu_percentage", trial.CPUPercentage),
	)
	r.opt.Observer.TrialFinished(repeat, trial, elapsed)
	tracing.EndSpan(span, nil,
		attribute.Float64("sweepfire.requests_per_second", trial.RequestsPerSecond),
		attribute.Float64("sweepfire.cpu_percentage", trial.CPUPercentage),
	)
	return trial, nil
}

// ComputeTrial derives the trial metrics from the wall and CPU time spent.
// A non-positive elapsed time is clamped to 1ns so the rates stay finite.
func ComputeTrial(concurrency, requests int, elapsed, cpu time.Duration) Trial {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	if cpu < 0 {
		cpu = 0
	}
	seconds := elapsed.Seconds()
	return Trial{
		Concurrency:       concurrency,
		RequestsPerSecond: float64(requests) / seconds,
		CPUPercentage:     cpu.Seconds() / seconds * 100,
	}
}
