// ABOUTME: Sentinel errors shared by every storage backend.
// ABOUTME: Callers match them with errors.Is regardless of the backend in use.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no record matches an ID or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousPrefix is returned when an ID prefix matches more than one record.
	ErrAmbiguousPrefix = errors.New("ambiguous prefix")
)

// IsFullID reports whether s looks like a complete canonical UUID.
func IsFullID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

// MatchPrefix picks the single candidate ID starting with prefix.
func MatchPrefix(candidates []string, prefix string) (string, error) {
	var match string
	n := 0
	for _, id := range candidates {
		if strings.HasPrefix(id, prefix) {
			match = id
			n++
		}
	}
	switch n {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return match, nil
	default:
		return "", fmt.Errorf("%w %s: matches %d records", ErrAmbiguousPrefix, prefix, n)
	}
}
