// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Opens throwaway SQLite databases and seeds sets with fixed timestamps.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/models"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "lift.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// logSet stores a set completed daysAgo days before baseTime.
func logSet(t *testing.T, db *DB, exercise string, weight float64, reps, rpe, daysAgo int) *models.Set {
	t.Helper()

	s := models.NewSet(exercise, weight, reps, rpe).
		WithCompletedAt(baseTime.AddDate(0, 0, -daysAgo))
	require.NoError(t, db.CreateSet(s))
	return s
}
