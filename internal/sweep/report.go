package sweep

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ReportEntry is the averaged result for one concurrency level.
type ReportEntry struct {
	Concurrency       int     `json:"concurrency" yaml:"concurrency"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	CPUPercentage     float64 `json:"cpu_percentage" yaml:"cpu_percentage"`
}

// MarshalJSON keeps the two metrics as floats on the wire, so a whole-number
// average prints as 250.0 rather than 250.
func (e ReportEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Concurrency       int         `json:"concurrency"`
		RequestsPerSecond json.Number `json:"requests_per_second"`
		CPUPercentage     json.Number `json:"cpu_percentage"`
	}{
		Concurrency:       e.Concurrency,
		RequestsPerSecond: floatNumber(e.RequestsPerSecond),
		CPUPercentage:     floatNumber(e.CPUPercentage),
	})
}

func floatNumber(x float64) json.Number {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return json.Number(s)
}

// Aggregate averages each level's trials in insertion order. It does not
// modify stats, so repeated calls yield identical entries.
func Aggregate(stats *Stats) []ReportEntry {
	if stats == nil {
		return nil
	}
	entries := make([]ReportEntry, 0, len(stats.order))
	for _, level := range stats.order {
		trials := stats.trials[level]
		if len(trials) == 0 {
			continue
		}
		var rps, cpu float64
		for _, t := range trials {
			rps += t.RequestsPerSecond
			cpu += t.CPUPercentage
		}
		n := float64(len(trials))
		entries = append(entries, ReportEntry{
			Concurrency:       level,
			RequestsPerSecond: Round2(rps / n),
			CPUPercentage:     Round2(cpu / n),
		})
	}
	return entries
}

// Round2 rounds to two decimals the way "%.2f" prints: the exact binary
// value is rounded, with exact ties going to even.
func Round2(x float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return v
}
