// Package cputime reads the CPU time consumed by the current process.
package cputime

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Meter reports cumulative process CPU time (user + system).
type Meter interface {
	Usage() (time.Duration, error)
}

// Rusage measures the calling process through getrusage(RUSAGE_SELF).
type Rusage struct{}

// NewMeter returns the default process meter.
func NewMeter() Meter {
	return Rusage{}
}

func (Rusage) Usage() (time.Duration, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, fmt.Errorf("getrusage: %w", err)
	}
	return timevalDuration(ru.Utime) + timevalDuration(ru.Stime), nil
}

func timevalDuration(tv unix.Timeval) time.Duration {
	return time.Duration(tv.Nano())
}

// Func adapts a plain function to a Meter.
type Func func() (time.Duration, error)

func (f Func) Usage() (time.Duration, error) {
	return f()
}

// Static always reports the same usage. Useful when CPU accounting is not wanted.
type Static time.Duration

func (s Static) Usage() (time.Duration, error) {
	return time.Duration(s), nil
}
