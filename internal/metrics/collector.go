package metrics

import (
	"sync"
	"time"

	"github.com/torosent/sweepfire/internal/sweep"
)

// Point is one finished trial in sweep order.
type Point struct {
	Repeat     int           `json:"repeat"`
	Trial      sweep.Trial   `json:"trial"`
	Elapsed    time.Duration `json:"-"`
	ElapsedMs  float64       `json:"elapsed_ms"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Snapshot is a point-in-time view of a running sweep.
type Snapshot struct {
	TotalTrials int
	Completed   int
	Repeat      int
	Concurrency int
	Running     bool
	Elapsed     time.Duration
	Last        *sweep.Trial
	// Levels holds the running per-level averages, in sweep order.
	Levels []sweep.ReportEntry
}

// Percent is the share of trials completed, 0 to 100.
func (s Snapshot) Percent() int {
	if s.TotalTrials <= 0 {
		return 0
	}
	p := s.Completed * 100 / s.TotalTrials
	if p > 100 {
		p = 100
	}
	return p
}

// Collector records trial progress in a thread-safe manner. It implements
// sweep.Observer so it can be attached directly to a sweep.Runner.
type Collector struct {
	mu          sync.Mutex
	now         func() time.Time
	totalTrials int
	start       time.Time
	completed   int
	repeat      int
	concurrency int
	running     bool
	stats       *sweep.Stats
	history     []Point
}

func NewCollector(totalTrials int) *Collector {
	return newCollector(totalTrials, time.Now)
}

func newCollector(totalTrials int, now func() time.Time) *Collector {
	return &Collector{
		now:         now,
		totalTrials: totalTrials,
		start:       now(),
		stats:       sweep.NewStats(),
	}
}

// Start resets the elapsed-time origin.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = c.now()
}

func (c *Collector) TrialStarted(repeat, concurrency int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repeat = repeat
	c.concurrency = concurrency
	c.running = true
}

func (c *Collector) TrialFinished(repeat int, trial sweep.Trial, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed++
	c.running = false
	c.stats.Record(trial)
	c.history = append(c.history, Point{
		Repeat:     repeat,
		Trial:      trial,
		Elapsed:    elapsed,
		ElapsedMs:  float64(elapsed) / float64(time.Millisecond),
		FinishedAt: c.now(),
	})
}

// Snapshot computes the current progress view.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		TotalTrials: c.totalTrials,
		Completed:   c.completed,
		Repeat:      c.repeat,
		Concurrency: c.concurrency,
		Running:     c.running,
		Elapsed:     c.now().Sub(c.start),
		Levels:      sweep.Aggregate(c.stats),
	}
	if n := len(c.history); n > 0 {
		last := c.history[n-1].Trial
		snap.Last = &last
	}
	return snap
}

// History returns a copy of every finished trial.
func (c *Collector) History() []Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Point, len(c.history))
	copy(out, c.history)
	return out
}
