package httpclient

import (
	"context"

	"github.com/torosent/sweepfire/internal/runner"
)

// Engine executes one trial: total requests through a window of concurrency slots.
type Engine struct {
	Requester     runner.Requester
	RatePerSecond int
}

func (e *Engine) Execute(ctx context.Context, concurrency, total int) error {
	r := runner.New(runner.Options{
		Concurrency:   concurrency,
		TotalRequests: total,
		RatePerSecond: e.RatePerSecond,
		Requester:     e.Requester,
	})
	r.Run(ctx)
	return ctx.Err()
}
