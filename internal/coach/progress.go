// ABOUTME: Multi-exercise progress report and dashboard statistics.
// ABOUTME: Exercises are evaluated concurrently; the engine holds no shared state.
package coach

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"golang.org/x/sync/errgroup"
)

// ExerciseProgress summarises one exercise.
type ExerciseProgress struct {
	Exercise  string                    `json:"exercise"`
	TotalSets int                       `json:"total_sets"`
	Records   PersonalRecords           `json:"records"`
	Volume    autoreg.VolumeProgression `json:"volume"`
	Advice    *Advice                   `json:"advice"`
}

// ProgressReport evaluates each exercise, or every logged exercise when none are given.
// Results keep the order of the requested exercises.
func (s *Service) ProgressReport(ctx context.Context, exercises ...string) ([]ExerciseProgress, error) {
	if len(exercises) == 0 {
		all, err := s.store.ListExercises()
		if err != nil {
			return nil, fmt.Errorf("list exercises: %w", err)
		}
		exercises = all
	}

	report := make([]ExerciseProgress, len(exercises))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, exercise := range exercises {
		g.Go(func() error {
			full, err := s.history(gctx, exercise, 0)
			if err != nil {
				return err
			}
			window := full
			if len(window) > s.opts.HistoryWindow {
				window = window[:s.opts.HistoryWindow]
			}

			name := models.NormalizeExercise(exercise)
			report[i] = ExerciseProgress{
				Exercise:  name,
				TotalSets: len(full),
				Records:   ComputeRecords(full),
				Volume:    autoreg.ComputeVolumeProgression(ToRecords(window)),
				Advice:    s.advise(gctx, name, window, s.sessionProgram(gctx, window), RecommendOptions{}),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("progress report: %w", err)
	}
	return report, nil
}

// RecordType names a kind of personal record.
type RecordType string

const (
	// RecordHeaviest is the heaviest weight lifted, whatever the reps.
	RecordHeaviest RecordType = "1RM"
	// RecordVolume is the largest weight × reps in a single set.
	RecordVolume RecordType = "volume"
	// RecordEndurance is the most reps in a single set.
	RecordEndurance RecordType = "endurance"
)

// PersonalRecord is one record and the set that set it.
type PersonalRecord struct {
	Type RecordType  `json:"type"`
	Set  *models.Set `json:"set"`
}

// PersonalRecords holds an exercise's best sets. A record is held by the
// first set to reach it; later equal sets do not take it over.
type PersonalRecords struct {
	Heaviest   *models.Set `json:"heaviest,omitempty"`
	BestVolume *models.Set `json:"best_volume,omitempty"`
	MostReps   *models.Set `json:"most_reps,omitempty"`
}

// List returns the records that exist, heaviest first.
func (r PersonalRecords) List() []PersonalRecord {
	var out []PersonalRecord
	for _, rec := range []PersonalRecord{
		{RecordHeaviest, r.Heaviest},
		{RecordVolume, r.BestVolume},
		{RecordEndurance, r.MostReps},
	} {
		if rec.Set != nil {
			out = append(out, rec)
		}
	}
	return out
}

// ComputeRecords finds the personal records among sets, in any order.
// Bodyweight sets count towards most reps only.
func ComputeRecords(sets []*models.Set) PersonalRecords {
	var r PersonalRecords
	for _, set := range sets {
		if set.Weight > 0 && beats(set, r.Heaviest, heavier) {
			r.Heaviest = set
		}
		if set.Volume() > 0 && beats(set, r.BestVolume, moreVolume) {
			r.BestVolume = set
		}
		if beats(set, r.MostReps, moreReps) {
			r.MostReps = set
		}
	}
	return r
}

// Record orderings return a positive value when a outranks b.
func heavier(a, b *models.Set) int {
	return cmp.Or(cmp.Compare(a.Weight, b.Weight), cmp.Compare(a.Reps, b.Reps))
}

func moreVolume(a, b *models.Set) int {
	return cmp.Or(cmp.Compare(a.Volume(), b.Volume()), cmp.Compare(a.Weight, b.Weight))
}

func moreReps(a, b *models.Set) int {
	return cmp.Or(cmp.Compare(a.Reps, b.Reps), cmp.Compare(a.Weight, b.Weight))
}

// beats reports whether set takes the record from holder. Full ties go to the earlier set.
func beats(set, holder *models.Set, order func(a, b *models.Set) int) bool {
	if holder == nil {
		return true
	}
	if c := order(set, holder); c != 0 {
		return c > 0
	}
	return set.CompletedAt.Before(holder.CompletedAt)
}

// PersonalRecords computes the records over the full history of exercise.
func (s *Service) PersonalRecords(ctx context.Context, exercise string) (PersonalRecords, error) {
	sets, err := s.history(ctx, exercise, 0)
	if err != nil {
		return PersonalRecords{}, err
	}
	return ComputeRecords(sets), nil
}

// Stats is the dashboard summary.
type Stats struct {
	WeeklySessions    int `json:"weekly_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	ActiveSessions    int `json:"active_sessions"`
	// TotalVolumeK is the summed session volume in thousands, one decimal.
	TotalVolumeK float64 `json:"total_volume_k"`
	TotalSets    int     `json:"total_sets"`
	Exercises    int     `json:"exercises"`
}

// Stats summarises training relative to now.
func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions, err := s.store.ListSessions(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sets, err := s.store.ListSets(storage.SetFilter{})
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	exercises, err := s.store.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	weekStart := now.Add(-7 * 24 * time.Hour)
	stats := &Stats{TotalSets: len(sets), Exercises: len(exercises)}
	var volume float64
	for _, session := range sessions {
		if !session.StartedAt.Before(weekStart) {
			stats.WeeklySessions++
		}
		switch session.Status {
		case models.SessionCompleted:
			stats.CompletedSessions++
		case models.SessionActive:
			stats.ActiveSessions++
		}
		volume += session.TotalVolume
	}
	stats.TotalVolumeK = math.Round(volume/1000*10) / 10

	return stats, nil
}
