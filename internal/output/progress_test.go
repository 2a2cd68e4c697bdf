package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/torosent/sweepfire/internal/metrics"
	"github.com/torosent/sweepfire/internal/sweep"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFormatProgress(t *testing.T) {
	snap := metrics.Snapshot{
		TotalTrials: 32,
		Completed:   8,
		Repeat:      1,
		Concurrency: 40,
		Running:     true,
		Elapsed:     12400 * time.Millisecond,
		Last:        &sweep.Trial{Concurrency: 20, RequestsPerSecond: 812.34, CPUPercentage: 55.55},
	}

	line := FormatProgress(snap)
	for _, want := range []string{
		"\rTrials: 8/32 (25%)",
		"Repeat 1 | Concurrency 40",
		"Last: 812.3 req/s, CPU 55.5%",
		"Elapsed: 12s",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestFormatProgressIdle(t *testing.T) {
	line := FormatProgress(metrics.Snapshot{TotalTrials: 16})
	if strings.Contains(line, "Concurrency") || strings.Contains(line, "Last:") {
		t.Errorf("idle line should only show counts, got %q", line)
	}
}

func TestProgressReporterBasic(t *testing.T) {
	collector := metrics.NewCollector(16)
	reporter := NewProgressReporter(collector, 100*time.Millisecond, &bytes.Buffer{})
	if reporter == nil {
		t.Fatal("Expected non-nil reporter")
	}
	reporter.Stop()
}

func TestProgressReporterWritesLines(t *testing.T) {
	collector := metrics.NewCollector(16)
	collector.TrialStarted(1, 1)
	collector.TrialFinished(1, sweep.Trial{Concurrency: 1, RequestsPerSecond: 10}, time.Second)

	buf := &syncBuffer{}
	reporter := NewProgressReporter(collector, 20*time.Millisecond, buf)
	reporter.Start()
	time.Sleep(100 * time.Millisecond)
	reporter.Stop()

	out := buf.String()
	if !strings.Contains(out, "Trials: 1/16") {
		t.Errorf("Expected trial counts in progress output, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Stop should terminate the status line")
	}
}
