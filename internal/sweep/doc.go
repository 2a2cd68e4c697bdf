// Package sweep runs the fixed concurrency sweep and averages its results.
//
// For each repeat, a [Runner] walks [Levels] in order and runs one trial per
// level: RequestCount requests are issued through a [TrialExecutor] with the
// level as the in-flight window, while wall-clock and process CPU time are
// measured around it. Each trial yields requests/second and CPU percentage.
//
//	r, err := sweep.New(sweep.Options{
//		RequestCount: 500,
//		RepeatCount:  10,
//		Executor:     engine,
//	})
//	stats, err := r.Run(ctx)
//	report := sweep.Aggregate(stats)
//
// [Aggregate] is a pure function of the recorded [Stats] and always reports
// levels in sweep order.
package sweep
