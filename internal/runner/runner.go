package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Result captures execution summary. Request failures are deliberately not
// part of it: every completion, successful or not, counts as issued.
type Result struct {
	Total        int64
	PeakInFlight int64
	Duration     time.Duration
}

// Runner keeps a fixed number of requests in flight until the total is issued.
type Runner struct {
	opt     Options
	limiter *rate.Limiter
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt, limiter: opt.LimiterFactory(opt.RatePerSecond)}
}

// Run blocks until every allocated request has completed or ctx is done.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	var total int64
	var inFlight int64
	var peak int64

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	permits := make(chan struct{}, r.opt.Concurrency)

	// Scheduler: the shared issued-counter that every slot pulls from.
	go func() {
		defer close(permits)
		for {
			if ctx.Err() != nil {
				return
			}
			current := atomic.LoadInt64(&total)
			if r.opt.TotalRequests > 0 && current >= int64(r.opt.TotalRequests) {
				return
			}
			if r.limiter != nil && r.limiter.Limit() != rate.Inf {
				if err := r.limiter.Wait(ctx); err != nil {
					return
				}
			}
			// Increment total before releasing permit so workers only execute allocated slots.
			atomic.AddInt64(&total, 1)
			select {
			case permits <- struct{}{}:
			case <-ctx.Done():
				atomic.AddInt64(&total, -1)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for range permits {
				n := atomic.AddInt64(&inFlight, 1)
				observePeak(&peak, n)
				if r.opt.Requester != nil {
					// Completion refills the slot regardless of outcome.
					_ = r.opt.Requester.Do(ctx)
				}
				atomic.AddInt64(&inFlight, -1)
			}
		}()
	}
	wg.Wait()

	return Result{
		Total:        atomic.LoadInt64(&total),
		PeakInFlight: atomic.LoadInt64(&peak),
		Duration:     time.Since(start),
	}
}

func observePeak(peak *int64, n int64) {
	for {
		cur := atomic.LoadInt64(peak)
		if n <= cur || atomic.CompareAndSwapInt64(peak, cur, n) {
			return
		}
	}
}
