package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/torosent/sweepfire/internal/metrics"
)

// ProgressReporter displays a single self-overwriting status line.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates and terminates the status line.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
		fmt.Fprint(p.writer, FormatProgress(p.collector.Snapshot()), "\n")
	} else {
		p.ticker.Stop()
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, FormatProgress(p.collector.Snapshot()))
		case <-p.done:
			return
		}
	}
}

// FormatProgress renders snap as a carriage-return prefixed status line.
func FormatProgress(snap metrics.Snapshot) string {
	line := fmt.Sprintf("\rTrials: %d/%d (%d%%)", snap.Completed, snap.TotalTrials, snap.Percent())
	if snap.Running {
		line += fmt.Sprintf(" | Repeat %d | Concurrency %d", snap.Repeat, snap.Concurrency)
	}
	if snap.Last != nil {
		line += fmt.Sprintf(" | Last: %.1f req/s, CPU %.1f%%", snap.Last.RequestsPerSecond, snap.Last.CPUPercentage)
	}
	line += fmt.Sprintf(" | Elapsed: %s", snap.Elapsed.Round(time.Second))
	return line
}
