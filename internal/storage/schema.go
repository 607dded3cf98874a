// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for sessions and sets with exercise history indexes.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		program TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		started_at TEXT NOT NULL,
		ended_at TEXT,
		total_volume REAL NOT NULL DEFAULT 0,
		average_rpe INTEGER,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sets (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		exercise TEXT NOT NULL,
		set_number INTEGER NOT NULL DEFAULT 0,
		weight REAL NOT NULL,
		reps INTEGER NOT NULL,
		rpe INTEGER NOT NULL,
		rest_seconds INTEGER,
		completed_at TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
	CREATE INDEX IF NOT EXISTS idx_sets_exercise_completed ON sets(exercise, completed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sets_completed ON sets(completed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sets_session ON sets(session_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
