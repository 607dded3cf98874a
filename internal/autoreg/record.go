// ABOUTME: Performance record type consumed by the auto-regulation engine.
// ABOUTME: Provides canonical recency ordering and the recent-window helper.
package autoreg

import (
	"sort"
	"time"
)

// WindowSize is the number of most recent records the engine analyses.
const WindowSize = 3

// Record is one completed set as seen by the engine.
// RPE is on the 1-10 scale; zero means "not rated" and must be filtered out by the caller.
type Record struct {
	ExerciseID string    `json:"exercise_id"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	RPE        float64   `json:"rpe"`
	Date       time.Time `json:"date"`
}

// Volume returns weight × reps for the record.
func (r Record) Volume() float64 {
	return r.Weight * float64(r.Reps)
}

// SortByRecency returns a copy of history ordered most recent first.
// The input slice is never modified. Records with equal dates keep their relative order.
func SortByRecency(history []Record) []Record {
	sorted := make([]Record, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// recentWindow returns at most WindowSize records, most recent first.
func recentWindow(history []Record) []Record {
	sorted := SortByRecency(history)
	if len(sorted) > WindowSize {
		sorted = sorted[:WindowSize]
	}
	return sorted
}

// averageRPE is the arithmetic mean RPE of records. Zero for an empty slice.
func averageRPE(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.RPE
	}
	return sum / float64(len(records))
}
