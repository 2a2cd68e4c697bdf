// Package metrics tracks the progress of a running concurrency sweep.
//
// A [Collector] is attached to a sweep as its observer and records every
// finished trial:
//
//	collector := metrics.NewCollector(runner.TotalTrials())
//	collector.Start()
//
//	r, _ := sweep.New(sweep.Options{Observer: collector, ...})
//
// Readers such as the progress line and the terminal dashboard poll
// [Collector.Snapshot] from their own goroutines. The snapshot carries the
// running per-level averages computed with [sweep.Aggregate], so a partial
// sweep renders the same way the final report does.
//
// [Collector.History] returns the finished trials in order for the HTML
// report.
package metrics
