// ABOUTME: Set CRUD and exercise history queries for SQLite storage.
// ABOUTME: Implements the Repository set methods with ID prefix resolution.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

const setColumns = `id, session_id, exercise, set_number, weight, reps, rpe, rest_seconds, completed_at, notes, created_at`

// CreateSet stores a new set in the database.
func (d *DB) CreateSet(s *models.Set) error {
	var sessionID any
	if s.SessionID != nil {
		sessionID = s.SessionID.String()
	}
	query := `INSERT INTO sets (` + setColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		s.ID.String(),
		sessionID,
		models.NormalizeExercise(s.Exercise),
		s.SetNumber,
		s.Weight,
		s.Reps,
		s.RPE,
		s.RestSeconds,
		formatTime(s.CompletedAt),
		s.Notes,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create set: %w", err)
	}
	return nil
}

// GetSet retrieves a set by ID or ID prefix.
func (d *DB) GetSet(idOrPrefix string) (*models.Set, error) {
	id, err := d.resolveID("sets", idOrPrefix)
	if err != nil {
		return nil, err
	}

	row := d.db.QueryRow(`SELECT `+setColumns+` FROM sets WHERE id = ?`, id)
	s, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return s, err
}

// ListSets retrieves sets matching the filter.
// Results are sorted by CompletedAt descending (most recent first).
func (d *DB) ListSets(filter SetFilter) ([]*models.Set, error) {
	var where []string
	var args []interface{}

	if filter.Exercise != "" {
		where = append(where, "exercise = ?")
		args = append(args, models.NormalizeExercise(filter.Exercise))
	}
	if filter.SessionID != nil {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID.String())
	}
	if filter.Since != nil {
		where = append(where, "completed_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}

	query := `SELECT ` + setColumns + ` FROM sets`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY completed_at DESC, set_number DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return d.querySets(query, args...)
}

// DeleteSet removes a set by ID or prefix.
func (d *DB) DeleteSet(idOrPrefix string) error {
	id, err := d.resolveID("sets", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM sets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete set: %w: %s", ErrNotFound, idOrPrefix)
	}

	return nil
}

// ListExercises returns every exercise with at least one logged set, alphabetically.
func (d *DB) ListExercises() ([]string, error) {
	rows, err := d.db.Query(`SELECT DISTINCT exercise FROM sets ORDER BY exercise`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// ExerciseHistory returns the most recent sets of one exercise, newest first.
// A non-positive limit returns the full history.
func (d *DB) ExerciseHistory(exercise string, limit int) ([]*models.Set, error) {
	sets, err := d.ListSets(SetFilter{Exercise: exercise, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("exercise history: %w", err)
	}
	return sets, nil
}

// resolveID finds the full ID from a prefix in the given table.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	if IsFullID(idOrPrefix) {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	// table is always one of our own constants, never user input
	rows, err := d.db.Query(`SELECT id FROM `+table+` WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan %s ID: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return MatchPrefix(ids, idOrPrefix)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSet scans a single row into a Set struct.
func scanSet(row rowScanner) (*models.Set, error) {
	var s models.Set
	var idStr, completedAt, createdAt string
	var sessionID, notes sql.NullString
	var rest sql.NullInt64

	err := row.Scan(&idStr, &sessionID, &s.Exercise, &s.SetNumber, &s.Weight, &s.Reps, &s.RPE,
		&rest, &completedAt, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan set: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	s.CompletedAt = parseTime(completedAt)
	s.CreatedAt = parseTime(createdAt)
	if sessionID.Valid {
		if id, err := uuid.Parse(sessionID.String); err == nil {
			s.SessionID = &id
		}
	}
	if rest.Valid {
		r := int(rest.Int64)
		s.RestSeconds = &r
	}
	if notes.Valid {
		s.Notes = &notes.String
	}

	return &s, nil
}

func (d *DB) querySets(query string, args ...any) ([]*models.Set, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.Set
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}
