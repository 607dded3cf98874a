// ABOUTME: Coaching service bridging stored set history and the auto-regulation engine.
// ABOUTME: Shared by the CLI and the MCP server so both give identical advice.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/rs/zerolog"
)

// Starting point used when an exercise has no history yet.
const (
	DefaultStartWeight = 20.0
	DefaultStartReps   = 8
)

// ErrSessionClosed is returned when logging to or finishing a session that is no longer active.
var ErrSessionClosed = errors.New("session is not active")

// HistoryProvider supplies per-exercise set history, most recent first.
type HistoryProvider interface {
	ListExercises() ([]string, error)
	ExerciseHistory(exercise string, limit int) ([]*models.Set, error)
}

// Store is the part of storage.Repository the service needs.
type Store interface {
	HistoryProvider
	CreateSet(s *models.Set) error
	ListSets(filter storage.SetFilter) ([]*models.Set, error)
	GetSession(idOrPrefix string) (*models.Session, error)
	GetSessionWithSets(idOrPrefix string) (*models.Session, error)
	ListSessions(status *models.SessionStatus, limit int) ([]*models.Session, error)
	UpdateSession(s *models.Session) error
}

// Options tune the service. Zero values fall back to the package defaults.
type Options struct {
	TargetRPE          float64
	DefaultRestSeconds int
	HistoryWindow      int
	Concurrency        int
	// Programs is the catalog sessions are matched against. Nil uses the built-in programs.
	Programs *models.Catalog
}

func (o Options) withDefaults() Options {
	if o.TargetRPE <= 0 {
		o.TargetRPE = autoreg.DefaultTargetRPE
	}
	if o.DefaultRestSeconds <= 0 {
		o.DefaultRestSeconds = 120
	}
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = 10
	}
	if o.HistoryWindow < autoreg.WindowSize {
		o.HistoryWindow = autoreg.WindowSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.Programs == nil {
		o.Programs = models.DefaultCatalog()
	}
	return o
}

// Service computes recommendations and progress from stored history.
type Service struct {
	store  Store
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a Service over store.
func NewService(store Store, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// Options returns the effective options after defaults.
func (s *Service) Options() Options {
	return s.opts
}

// Programs returns the program catalog.
func (s *Service) Programs() *models.Catalog {
	return s.opts.Programs
}

// ProgramLabel returns the catalog ID when name matches a program, or the
// trimmed name as a free-form label otherwise.
func (s *Service) ProgramLabel(name string) string {
	if p, err := s.opts.Programs.Find(name); err == nil {
		return p.ID
	}
	return strings.TrimSpace(name)
}

// log returns the request logger attached to ctx, or the service logger.
func (s *Service) log(ctx context.Context) zerolog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// LogSet validates and stores a set. When the set belongs to a session, the
// session must be active and the set is numbered after the session's last set.
func (s *Service) LogSet(ctx context.Context, set *models.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid set: %w", err)
	}

	if set.SessionID != nil {
		session, err := s.store.GetSession(set.SessionID.String())
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if session.Status != models.SessionActive {
			return fmt.Errorf("log set: %w (%s)", ErrSessionClosed, session.Status)
		}
		if set.SetNumber == 0 {
			existing, err := s.store.ListSets(storage.SetFilter{SessionID: set.SessionID})
			if err != nil {
				return fmt.Errorf("count session sets: %w", err)
			}
			set.SetNumber = len(existing) + 1
		}
	}

	if err := s.store.CreateSet(set); err != nil {
		return err
	}
	logger := logging.WithOperation(logging.WithExercise(s.log(ctx), set.Exercise), "log_set")
	logger.Debug().
		Float64("weight", set.Weight).
		Int("reps", set.Reps).
		Int("rpe", set.RPE).
		Msg("set logged")
	return nil
}

// FinishSession completes an active session, computing its volume and average RPE.
func (s *Service) FinishSession(ctx context.Context, idOrPrefix string) (*models.Session, error) {
	session, err := s.openSession(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	session.Complete(s.now(), session.Sets)
	if err := s.store.UpdateSession(session); err != nil {
		return nil, fmt.Errorf("finish session: %w", err)
	}

	logger := logging.WithOperation(s.log(ctx), "finish_session")
	logger.Info().
		Str("session", session.ID.String()).
		Int("sets", len(session.Sets)).
		Float64("volume", session.TotalVolume).
		Msg("session finished")
	return session, nil
}

// CancelSession marks an active session cancelled. Its sets are kept.
func (s *Service) CancelSession(ctx context.Context, idOrPrefix string) (*models.Session, error) {
	session, err := s.openSession(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	session.Cancel(s.now())
	if err := s.store.UpdateSession(session); err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}
	return session, nil
}

func (s *Service) openSession(ctx context.Context, idOrPrefix string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, err := s.store.GetSessionWithSets(idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Status != models.SessionActive {
		return nil, fmt.Errorf("%w (%s)", ErrSessionClosed, session.Status)
	}
	return session, nil
}

// ToRecords converts stored sets to engine records.
func ToRecords(sets []*models.Set) []autoreg.Record {
	records := make([]autoreg.Record, 0, len(sets))
	for _, set := range sets {
		records = append(records, autoreg.Record{
			ExerciseID: set.Exercise,
			Weight:     set.Weight,
			Reps:       set.Reps,
			RPE:        float64(set.RPE),
			Date:       set.CompletedAt,
		})
	}
	return records
}
