package sweep

import "time"

// Trial is one measured execution at a single concurrency level.
type Trial struct {
	Concurrency       int
	RequestsPerSecond float64
	CPUPercentage     float64
}

// Stats maps each concurrency level to its trials, keeping first-seen order.
type Stats struct {
	order  []int
	trials map[int][]Trial
}

func NewStats() *Stats {
	return &Stats{trials: make(map[int][]Trial)}
}

// Record appends t to the trials for its concurrency level.
func (s *Stats) Record(t Trial) {
	if _, ok := s.trials[t.Concurrency]; !ok {
		s.order = append(s.order, t.Concurrency)
	}
	s.trials[t.Concurrency] = append(s.trials[t.Concurrency], t)
}

// Levels returns the recorded concurrency levels in insertion order.
func (s *Stats) Levels() []int {
	return append([]int(nil), s.order...)
}

// Trials returns a copy of the trials recorded for level.
func (s *Stats) Trials(level int) []Trial {
	return append([]Trial(nil), s.trials[level]...)
}

// Len is the total number of recorded trials.
func (s *Stats) Len() int {
	n := 0
	for _, ts := range s.trials {
		n += len(ts)
	}
	return n
}

// Observer is notified around every trial. Calls happen on the sweep goroutine.
type Observer interface {
	TrialStarted(repeat, concurrency int)
	TrialFinished(repeat int, trial Trial, elapsed time.Duration)
}

// Observers fans notifications out to several observers.
type Observers []Observer

func (o Observers) TrialStarted(repeat, concurrency int) {
	for _, obs := range o {
		if obs != nil {
			obs.TrialStarted(repeat, concurrency)
		}
	}
}

func (o Observers) TrialFinished(repeat int, trial Trial, elapsed time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.TrialFinished(repeat, trial, elapsed)
		}
	}
}
