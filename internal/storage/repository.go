// ABOUTME: Repository interface for training log storage.
// ABOUTME: Defines the contract for set and session CRUD and per-exercise history.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

// SetFilter narrows ListSets. Zero values mean "no filter".
type SetFilter struct {
	Exercise  string
	SessionID *uuid.UUID
	Since     *time.Time
	Limit     int
}

// Matches reports whether s passes the filter, ignoring Limit.
func (f SetFilter) Matches(s *models.Set) bool {
	if f.Exercise != "" && s.Exercise != models.NormalizeExercise(f.Exercise) {
		return false
	}
	if f.SessionID != nil && (s.SessionID == nil || *s.SessionID != *f.SessionID) {
		return false
	}
	if f.Since != nil && s.CompletedAt.Before(*f.Since) {
		return false
	}
	return true
}

// Repository defines the storage interface for the training log.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Set operations
	CreateSet(s *models.Set) error
	GetSet(idOrPrefix string) (*models.Set, error)
	ListSets(filter SetFilter) ([]*models.Set, error)
	DeleteSet(idOrPrefix string) error

	// Session operations
	CreateSession(s *models.Session) error
	GetSession(idOrPrefix string) (*models.Session, error)
	GetSessionWithSets(idOrPrefix string) (*models.Session, error)
	ListSessions(status *models.SessionStatus, limit int) ([]*models.Session, error)
	UpdateSession(s *models.Session) error
	DeleteSession(idOrPrefix string) error

	// Exercise history, most recent first
	ListExercises() ([]string, error)
	ExerciseHistory(exercise string, limit int) ([]*models.Set, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
