// Package runner provides the bounded request executor behind each sweep trial.
//
// A [Runner] keeps exactly Concurrency requests in flight until TotalRequests
// have been issued, then lets the window drain without replacement:
//
//	r := runner.New(runner.Options{
//		Concurrency:   20,
//		TotalRequests: 500,
//		Requester:     myRequester,
//	})
//	result := r.Run(ctx)
//
// A scheduler goroutine owns the issued-counter and hands out one permit per
// request; Concurrency worker goroutines consume permits until the channel is
// closed. Any completion, including an error, frees the slot for the next
// permit. Errors are not counted or retried.
//
// # Middleware
//
//   - [WithLogging]: report request failures to a [FailureLogger]
//   - [WithTracing]: wrap every request in an OpenTelemetry client span
//
// # Pacing
//
// RatePerSecond optionally paces permit issuance through a
// golang.org/x/time/rate limiter. Zero means unlimited.
package runner
