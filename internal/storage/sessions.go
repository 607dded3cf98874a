// ABOUTME: Session CRUD operations for SQLite storage.
// ABOUTME: Deleting a session cascades to its sets through the foreign key.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
)

const sessionColumns = `id, program, status, started_at, ended_at, total_volume, average_rpe, notes, created_at`

// CreateSession stores a new session in the database.
func (d *DB) CreateSession(s *models.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.Exec(query,
		s.ID.String(),
		s.Program,
		string(s.Status),
		formatTime(s.StartedAt),
		nullTime(s.EndedAt),
		s.TotalVolume,
		s.AverageRPE,
		s.Notes,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix (without sets).
func (d *DB) GetSession(idOrPrefix string) (*models.Session, error) {
	id, err := d.resolveID("sessions", idOrPrefix)
	if err != nil {
		return nil, err
	}

	row := d.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return s, err
}

// GetSessionWithSets retrieves a session with all its sets in logging order.
func (d *DB) GetSessionWithSets(idOrPrefix string) (*models.Session, error) {
	s, err := d.GetSession(idOrPrefix)
	if err != nil {
		return nil, err
	}

	sets, err := d.querySets(`SELECT `+setColumns+` FROM sets WHERE session_id = ?
		ORDER BY completed_at ASC, set_number ASC, id ASC`, s.ID.String())
	if err != nil {
		return nil, fmt.Errorf("list session sets: %w", err)
	}
	for _, set := range sets {
		s.Sets = append(s.Sets, *set)
	}

	return s, nil
}

// ListSessions retrieves sessions with optional filtering by status.
// Results are sorted by StartedAt descending (most recent first).
func (d *DB) ListSessions(status *models.SessionStatus, limit int) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	var args []interface{}

	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY started_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateSession overwrites the mutable fields of an existing session.
func (d *DB) UpdateSession(s *models.Session) error {
	result, err := d.db.Exec(`
		UPDATE sessions
		SET program = ?, status = ?, started_at = ?, ended_at = ?, total_volume = ?, average_rpe = ?, notes = ?
		WHERE id = ?`,
		s.Program,
		string(s.Status),
		formatTime(s.StartedAt),
		nullTime(s.EndedAt),
		s.TotalVolume,
		s.AverageRPE,
		s.Notes,
		s.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update session: %w: %s", ErrNotFound, s.ID)
	}
	return nil
}

// DeleteSession removes a session and all its sets (cascade delete).
func (d *DB) DeleteSession(idOrPrefix string) error {
	id, err := d.resolveID("sessions", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	// CASCADE is enabled, so deleting the session deletes its sets
	result, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete session: %w: %s", ErrNotFound, idOrPrefix)
	}

	return nil
}

// scanSession scans a single row into a Session struct.
func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var idStr, status, startedAt, createdAt string
	var endedAt, notes sql.NullString
	var avgRPE sql.NullInt64

	err := row.Scan(&idStr, &s.Program, &status, &startedAt, &endedAt, &s.TotalVolume, &avgRPE, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	s.Status = models.SessionStatus(status)
	s.StartedAt = parseTime(startedAt)
	s.CreatedAt = parseTime(createdAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		s.EndedAt = &t
	}
	if avgRPE.Valid {
		a := int(avgRPE.Int64)
		s.AverageRPE = &a
	}
	if notes.Valid {
		s.Notes = &notes.String
	}

	return &s, nil
}
