// ABOUTME: Set model for a single logged strength set.
// ABOUTME: Sets carry weight, reps, RPE and rest, optionally linked to a session.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors returned by Set.Validate.
var (
	ErrEmptyExercise = errors.New("exercise name is required")
	ErrInvalidWeight = errors.New("weight must not be negative")
	ErrInvalidReps   = errors.New("reps must be at least 1")
	ErrInvalidRest   = errors.New("rest time must not be negative")
)

// Set represents one completed set of an exercise.
type Set struct {
	ID          uuid.UUID  `json:"id" yaml:"id"`
	SessionID   *uuid.UUID `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Exercise    string     `json:"exercise" yaml:"exercise"`
	SetNumber   int        `json:"set_number" yaml:"set_number"`
	Weight      float64    `json:"weight" yaml:"weight"`
	Reps        int        `json:"reps" yaml:"reps"`
	RPE         int        `json:"rpe" yaml:"rpe"`
	RestSeconds *int       `json:"rest_seconds,omitempty" yaml:"rest_seconds,omitempty"`
	CompletedAt time.Time  `json:"completed_at" yaml:"completed_at"`
	Notes       *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// NewSet creates a new Set with generated UUID and current timestamp.
// The exercise name is normalised so history lookups are case-insensitive.
func NewSet(exercise string, weight float64, reps, rpe int) *Set {
	now := time.Now()
	return &Set{
		ID:          uuid.New(),
		Exercise:    NormalizeExercise(exercise),
		Weight:      weight,
		Reps:        reps,
		RPE:         rpe,
		CompletedAt: now,
		CreatedAt:   now,
	}
}

// WithSession links the set to a session.
func (s *Set) WithSession(id uuid.UUID) *Set {
	s.SessionID = &id
	return s
}

// WithSetNumber sets the position of the set within its session.
func (s *Set) WithSetNumber(n int) *Set {
	s.SetNumber = n
	return s
}

// WithRest sets the rest taken after the set, in seconds.
func (s *Set) WithRest(seconds int) *Set {
	s.RestSeconds = &seconds
	return s
}

// WithCompletedAt sets a custom completion timestamp.
func (s *Set) WithCompletedAt(t time.Time) *Set {
	s.CompletedAt = t
	return s
}

// WithNotes sets notes on the set.
func (s *Set) WithNotes(notes string) *Set {
	s.Notes = &notes
	return s
}

// Volume returns weight × reps.
func (s *Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// Validate checks the set before it is stored or fed to the engine.
func (s *Set) Validate() error {
	if strings.TrimSpace(s.Exercise) == "" {
		return ErrEmptyExercise
	}
	if s.Weight < 0 {
		return ErrInvalidWeight
	}
	if s.Reps < 1 {
		return ErrInvalidReps
	}
	if err := ValidateRPE(s.RPE); err != nil {
		return err
	}
	if s.RestSeconds != nil && *s.RestSeconds < 0 {
		return ErrInvalidRest
	}
	return nil
}

// NormalizeExercise lower-cases and trims an exercise name.
func NormalizeExercise(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// String renders the set as "100kg × 5 @ RPE 8".
func (s *Set) String() string {
	return fmt.Sprintf("%gkg × %d @ RPE %d", s.Weight, s.Reps, s.RPE)
}
