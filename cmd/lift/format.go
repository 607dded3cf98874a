// ABOUTME: Shared parsing and formatting helpers for CLI output.
// ABOUTME: Handles timestamps, short IDs and column padding.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

var faint = color.New(color.Faint)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// printSet writes one set as a list row: ID  TIMESTAMP  EXERCISE  LOAD  (NOTES)
func printSet(s *models.Set) {
	notes := ""
	if s.Notes != nil && *s.Notes != "" {
		notes = faint.Sprintf(" (%s)", truncate(*s.Notes, 30))
	}
	fmt.Printf("%s %s %s %s%s\n",
		faint.Sprint(shortID(s.ID)),
		faint.Sprint(s.CompletedAt.Local().Format("2006-01-02 15:04")),
		padRight(s.Exercise, 18),
		s.String(),
		notes)
}

// rpeColor highlights ratings above the usual target.
func rpeColor(rpe float64) *color.Color {
	switch {
	case rpe >= 9.5:
		return color.New(color.FgRed)
	case rpe > 8.5:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
