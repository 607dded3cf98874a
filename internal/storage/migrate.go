// ABOUTME: Data migration between lift storage backends.
// ABOUTME: Copies sessions and their sets from source to destination.

package storage

import (
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Sessions int
	Sets     int
}

// MigrateData copies all data from src to dst storage.
// Sessions are created first so sets can reference them. The destination
// should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	sessions, err := src.ListSessions(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source sessions: %w", err)
	}

	for _, s := range sessions {
		s.Sets = nil
		if err := dst.CreateSession(s); err != nil {
			return nil, fmt.Errorf("create session %s: %w", s.ID, err)
		}
		summary.Sessions++
	}

	sets, err := src.ListSets(SetFilter{})
	if err != nil {
		return nil, fmt.Errorf("list source sets: %w", err)
	}

	for _, s := range sets {
		if err := dst.CreateSet(s); err != nil {
			return nil, fmt.Errorf("create set %s: %w", s.ID, err)
		}
		summary.Sets++
	}

	return summary, nil
}

// HasData reports whether repo holds any sets or sessions.
func HasData(repo Repository) (bool, error) {
	sets, err := repo.ListSets(SetFilter{Limit: 1})
	if err != nil {
		return false, fmt.Errorf("check sets: %w", err)
	}
	if len(sets) > 0 {
		return true, nil
	}
	sessions, err := repo.ListSessions(nil, 1)
	if err != nil {
		return false, fmt.Errorf("check sessions: %w", err)
	}
	return len(sessions) > 0, nil
}
