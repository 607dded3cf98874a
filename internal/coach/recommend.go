// ABOUTME: Next-set recommendations and volume progression per exercise.
// ABOUTME: Fetches the recent history window and runs it through the engine.
package coach

import (
	"context"
	"fmt"

	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
)

// RecommendOptions override service defaults for a single recommendation.
type RecommendOptions struct {
	// TargetRPE overrides the configured target when positive.
	TargetRPE float64
	// RestSeconds overrides the rest taken after the last set when positive.
	RestSeconds int
	// Program names the catalog program to take prescriptions from. When
	// empty, the program of the session the last set was logged in is used.
	Program string
}

// Advice is a recommendation together with what it was derived from.
type Advice struct {
	Exercise       string                  `json:"exercise"`
	TargetRPE      float64                 `json:"target_rpe"`
	Program        string                  `json:"program,omitempty"`
	Prescription   *models.ProgramExercise `json:"prescription,omitempty"`
	Assessment     autoreg.Assessment      `json:"assessment"`
	Adjustment     autoreg.Adjustment      `json:"adjustment"`
	Recommendation autoreg.Recommendation  `json:"recommendation"`
	LastSet        *models.Set             `json:"last_set,omitempty"`
}

// Recommend computes the next-session targets for exercise.
func (s *Service) Recommend(ctx context.Context, exercise string, opts RecommendOptions) (*Advice, error) {
	var program *models.Program
	if opts.Program != "" {
		p, err := s.opts.Programs.Find(opts.Program)
		if err != nil {
			return nil, err
		}
		program = p
	}

	sets, err := s.history(ctx, exercise, s.opts.HistoryWindow)
	if err != nil {
		return nil, err
	}
	if program == nil {
		program = s.sessionProgram(ctx, sets)
	}
	return s.advise(ctx, models.NormalizeExercise(exercise), sets, program, opts), nil
}

// VolumeProgression reports the session-over-session volume change for exercise.
func (s *Service) VolumeProgression(ctx context.Context, exercise string) (autoreg.VolumeProgression, error) {
	sets, err := s.history(ctx, exercise, s.opts.HistoryWindow)
	if err != nil {
		return autoreg.VolumeProgression{}, err
	}
	return autoreg.ComputeVolumeProgression(ToRecords(sets)), nil
}

func (s *Service) history(ctx context.Context, exercise string, limit int) ([]*models.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sets, err := s.store.ExerciseHistory(exercise, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", exercise, err)
	}
	return sets, nil
}

// sessionProgram finds the catalog program of the session the newest set
// belongs to. Sets outside a session, or in a free-form session, have none.
func (s *Service) sessionProgram(ctx context.Context, sets []*models.Set) *models.Program {
	if len(sets) == 0 || sets[0].SessionID == nil {
		return nil
	}
	session, err := s.store.GetSession(sets[0].SessionID.String())
	if err != nil {
		logger := s.log(ctx)
		logger.Debug().Err(err).Str("session", sets[0].SessionID.String()).Msg("session lookup failed")
		return nil
	}
	if session.Program == "" {
		return nil
	}
	program, err := s.opts.Programs.Find(session.Program)
	if err != nil {
		return nil
	}
	return program
}

// advise runs the engine over sets, which are newest first. A program that
// prescribes the exercise supplies the default target RPE, rest and starting reps.
func (s *Service) advise(ctx context.Context, exercise string, sets []*models.Set, program *models.Program, opts RecommendOptions) *Advice {
	var (
		programID    string
		prescription *models.ProgramExercise
	)
	if program != nil {
		programID = program.ID
		prescription, _ = program.Exercise(exercise)
	}

	target := s.opts.TargetRPE
	lastWeight, lastReps, lastRest := DefaultStartWeight, DefaultStartReps, s.opts.DefaultRestSeconds
	if prescription != nil {
		target = prescription.TargetRPE()
		lastReps = prescription.Reps.Min
		lastRest = prescription.RestSeconds
	}
	if opts.TargetRPE > 0 {
		target = opts.TargetRPE
	}

	var last *models.Set
	if len(sets) > 0 {
		last = sets[0]
		lastWeight, lastReps = last.Weight, last.Reps
		if last.RestSeconds != nil {
			lastRest = *last.RestSeconds
		}
	}
	if opts.RestSeconds > 0 {
		lastRest = opts.RestSeconds
	}

	records := ToRecords(sets)
	adj := autoreg.ComputeAdjustment(records, target)
	advice := &Advice{
		Exercise:       exercise,
		TargetRPE:      target,
		Program:        programID,
		Prescription:   prescription,
		Assessment:     autoreg.Assess(records, target),
		Adjustment:     adj,
		Recommendation: autoreg.ComputeRecommendation(lastWeight, lastReps, lastRest, adj),
		LastSet:        last,
	}

	logger := logging.WithOperation(logging.WithExercise(s.log(ctx), exercise), "recommend")
	logger.Debug().
		Str("program", programID).
		Int("window", advice.Assessment.Sessions).
		Float64("avg_rpe", advice.Assessment.AverageRPE).
		Str("trend", string(advice.Assessment.Trend)).
		Str("band", advice.Assessment.Band).
		Float64("weight", advice.Recommendation.RecommendedWeight).
		Int("reps", advice.Recommendation.RecommendedReps).
		Int("rest", advice.Recommendation.RecommendedRest).
		Msg("recommendation computed")

	return advice
}
