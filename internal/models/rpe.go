// ABOUTME: Rate of perceived exertion scale helpers.
// ABOUTME: Validates ratings and describes each point of the 1-10 scale.
package models

import (
	"errors"
	"fmt"
)

// RPE scale bounds. Zero is the "not yet rated" sentinel and is never valid.
const (
	MinRPE = 1
	MaxRPE = 10
)

// ErrRPENotRated is returned for the zero "not yet rated" value.
var ErrRPENotRated = errors.New("RPE is required (1-10)")

// ValidateRPE checks that rpe is a rating on the 1-10 scale.
func ValidateRPE(rpe int) error {
	if rpe == 0 {
		return ErrRPENotRated
	}
	if rpe < MinRPE || rpe > MaxRPE {
		return fmt.Errorf("RPE %d out of range (%d-%d)", rpe, MinRPE, MaxRPE)
	}
	return nil
}

// RPEDescription describes what a rating means in reps in reserve.
func RPEDescription(rpe int) string {
	switch {
	case rpe < MinRPE || rpe > MaxRPE:
		return "not rated"
	case rpe <= 6:
		return "light - you could do a lot more"
	case rpe == 7:
		return "moderate - a few reps left"
	case rpe == 8:
		return "hard - 2-3 reps in reserve"
	case rpe == 9:
		return "very hard - 1 rep in reserve"
	default:
		return "maximal - no reps left"
	}
}
