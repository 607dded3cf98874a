// ABOUTME: Set CRUD and exercise history for Charm KV storage.
// ABOUTME: Filters and orders sets client-side after a prefix scan.
package charm

import (
	"fmt"
	"sort"

	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

// CreateSet stores a new set in the KV store.
func (c *Client) CreateSet(s *models.Set) error {
	stored := *s
	stored.Exercise = models.NormalizeExercise(s.Exercise)
	key := SetPrefix + s.ID.String()

	exists, err := c.has(key)
	if err != nil {
		return fmt.Errorf("create set: %w", err)
	}
	if exists {
		return fmt.Errorf("create set: duplicate id %s", s.ID)
	}
	if err := c.put(key, &stored); err != nil {
		return fmt.Errorf("create set: %w", err)
	}
	return nil
}

// GetSet retrieves a set by ID or ID prefix.
func (c *Client) GetSet(idOrPrefix string) (*models.Set, error) {
	_, data, err := c.resolveKey(SetPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get set: %w", err)
	}

	s, err := unmarshalJSON[models.Set](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal set: %w", err)
	}
	return s, nil
}

// ListSets retrieves sets matching the filter.
// Results are sorted by CompletedAt descending (most recent first), then by
// set number and ID so the order matches the SQLite backend.
func (c *Client) ListSets(filter storage.SetFilter) ([]*models.Set, error) {
	all, err := scanAll[models.Set](c, SetPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	var sets []*models.Set
	for _, s := range all {
		if filter.Matches(s) {
			sets = append(sets, s)
		}
	}

	sort.Slice(sets, func(i, j int) bool {
		if !sets[i].CompletedAt.Equal(sets[j].CompletedAt) {
			return sets[i].CompletedAt.After(sets[j].CompletedAt)
		}
		if sets[i].SetNumber != sets[j].SetNumber {
			return sets[i].SetNumber > sets[j].SetNumber
		}
		return sets[i].ID.String() > sets[j].ID.String()
	})

	if filter.Limit > 0 && len(sets) > filter.Limit {
		sets = sets[:filter.Limit]
	}
	return sets, nil
}

// DeleteSet removes a set by ID or prefix.
func (c *Client) DeleteSet(idOrPrefix string) error {
	key, _, err := c.resolveKey(SetPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	if err := c.remove(key); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}

// ListExercises returns every exercise with at least one logged set, alphabetically.
func (c *Client) ListExercises() ([]string, error) {
	all, err := scanAll[models.Set](c, SetPrefix)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	seen := make(map[string]bool)
	var exercises []string
	for _, s := range all {
		if !seen[s.Exercise] {
			seen[s.Exercise] = true
			exercises = append(exercises, s.Exercise)
		}
	}
	sort.Strings(exercises)
	return exercises, nil
}

// ExerciseHistory returns the most recent sets of one exercise, newest first.
func (c *Client) ExerciseHistory(exercise string, limit int) ([]*models.Set, error) {
	sets, err := c.ListSets(storage.SetFilter{Exercise: exercise, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("exercise history: %w", err)
	}
	return sets, nil
}

// has reports whether key exists.
func (c *Client) has(key string) (bool, error) {
	entries, err := c.scan(key)
	if err != nil {
		return false, err
	}
	_, ok := entries[key]
	return ok, nil
}
