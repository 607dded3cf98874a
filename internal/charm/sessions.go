// ABOUTME: Session CRUD operations for Charm KV storage.
// ABOUTME: Handles cascade deletes manually since KV has no foreign keys.
package charm

import (
	"fmt"
	"sort"

	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

// CreateSession stores a new session in the KV store.
func (c *Client) CreateSession(s *models.Session) error {
	key := SessionPrefix + s.ID.String()

	exists, err := c.has(key)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if exists {
		return fmt.Errorf("create session: duplicate id %s", s.ID)
	}
	return c.putSession(key, s)
}

// GetSession retrieves a session by ID or ID prefix (without sets).
func (c *Client) GetSession(idOrPrefix string) (*models.Session, error) {
	_, data, err := c.resolveKey(SessionPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	s, err := unmarshalJSON[models.Session](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return s, nil
}

// GetSessionWithSets retrieves a session with all its sets in logging order.
func (c *Client) GetSessionWithSets(idOrPrefix string) (*models.Session, error) {
	s, err := c.GetSession(idOrPrefix)
	if err != nil {
		return nil, err
	}

	sets, err := c.ListSets(storage.SetFilter{SessionID: &s.ID})
	if err != nil {
		return nil, fmt.Errorf("list session sets: %w", err)
	}
	for i := len(sets) - 1; i >= 0; i-- {
		s.Sets = append(s.Sets, *sets[i])
	}
	return s, nil
}

// ListSessions retrieves sessions with optional filtering by status.
// Results are sorted by StartedAt descending (most recent first).
func (c *Client) ListSessions(status *models.SessionStatus, limit int) ([]*models.Session, error) {
	all, err := scanAll[models.Session](c, SessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []*models.Session
	for _, s := range all {
		if status != nil && s.Status != *status {
			continue
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.After(sessions[j].StartedAt)
		}
		return sessions[i].ID.String() > sessions[j].ID.String()
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// UpdateSession overwrites an existing session.
func (c *Client) UpdateSession(s *models.Session) error {
	key := SessionPrefix + s.ID.String()

	exists, err := c.has(key)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !exists {
		return fmt.Errorf("update session: %w: %s", storage.ErrNotFound, s.ID)
	}
	return c.putSession(key, s)
}

// DeleteSession removes a session and all its sets (cascade delete).
func (c *Client) DeleteSession(idOrPrefix string) error {
	s, err := c.GetSession(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	sets, err := c.ListSets(storage.SetFilter{SessionID: &s.ID})
	if err != nil {
		return fmt.Errorf("delete session sets: %w", err)
	}

	keys := make([]string, 0, len(sets)+1)
	for _, set := range sets {
		keys = append(keys, SetPrefix+set.ID.String())
	}
	keys = append(keys, SessionPrefix+s.ID.String())

	if err := c.remove(keys...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// putSession stores s without its embedded sets, which live under their own keys.
func (c *Client) putSession(key string, s *models.Session) error {
	stored := *s
	stored.Sets = nil
	if err := c.put(key, &stored); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
