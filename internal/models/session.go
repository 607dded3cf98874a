// ABOUTME: Session model grouping the sets of one training session.
// ABOUTME: Tracks lifecycle status and the totals computed on completion.
package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// IsValidSessionStatus checks if a string is a valid session status.
func IsValidSessionStatus(s string) bool {
	switch SessionStatus(s) {
	case SessionActive, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Session represents a training session.
type Session struct {
	ID          uuid.UUID     `json:"id" yaml:"id"`
	Program     string        `json:"program" yaml:"program"`
	Status      SessionStatus `json:"status" yaml:"status"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	EndedAt     *time.Time    `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	TotalVolume float64       `json:"total_volume" yaml:"total_volume"`
	AverageRPE  *int          `json:"average_rpe,omitempty" yaml:"average_rpe,omitempty"`
	Notes       *string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
	Sets        []Set         `json:"sets,omitempty" yaml:"sets,omitempty"` // Populated when fetching full session
}

// NewSession creates a new active Session with generated UUID and current timestamp.
func NewSession(program string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Program:   program,
		Status:    SessionActive,
		StartedAt: now,
		CreatedAt: now,
	}
}

// WithStartedAt sets a custom start timestamp.
func (s *Session) WithStartedAt(t time.Time) *Session {
	s.StartedAt = t
	return s
}

// WithNotes sets notes on the session.
func (s *Session) WithNotes(notes string) *Session {
	s.Notes = &notes
	return s
}

// Complete marks the session completed at endedAt and computes its totals from sets.
func (s *Session) Complete(endedAt time.Time, sets []Set) {
	s.Status = SessionCompleted
	s.EndedAt = &endedAt
	s.TotalVolume, s.AverageRPE = Totals(sets)
}

// Cancel marks the session cancelled at endedAt.
func (s *Session) Cancel(endedAt time.Time) {
	s.Status = SessionCancelled
	s.EndedAt = &endedAt
}

// Totals returns the summed volume and the rounded mean RPE of sets.
// The mean is nil when there are no sets.
func Totals(sets []Set) (float64, *int) {
	if len(sets) == 0 {
		return 0, nil
	}
	var volume float64
	var rpeSum int
	for i := range sets {
		volume += sets[i].Volume()
		rpeSum += sets[i].RPE
	}
	avg := int(math.Round(float64(rpeSum) / float64(len(sets))))
	return volume, &avg
}

// Duration returns how long the session lasted, or zero if still active.
func (s *Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
