// ABOUTME: Charm KV client wrapper for training log storage.
// ABOUTME: Reads go through badger transactions; writes sync to Charm Cloud.
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/lift/internal/storage"
)

const (
	// DefaultDBName is the Charm KV database name.
	DefaultDBName = "lift"
	// DefaultHost is the Charm server used when CHARM_HOST is unset.
	DefaultHost = "charm.2389.dev"

	SetPrefix     = "set:"
	SessionPrefix = "session:"
)

// ErrReadOnly is returned for writes while another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// store is the subset of *kv.KV the client relies on.
type store interface {
	Set(key, value []byte) error
	Delete(key []byte) error
	View(fn func(txn *badger.Txn) error) error
	Sync() error
	IsReadOnly() bool
	Reset() error
	Close() error
}

// Client is a storage.Repository backed by Charm KV.
type Client struct {
	kv       store
	autoSync bool
	mu       sync.RWMutex
}

// Compile-time check that Client implements Repository.
var _ storage.Repository = (*Client)(nil)

// Open opens the named Charm KV database, falling back to read-only mode
// when another process holds the lock. host overrides the Charm server.
func Open(dbName, host string) (*Client, error) {
	if dbName == "" {
		dbName = DefaultDBName
	}
	if os.Getenv("CHARM_HOST") == "" {
		if host == "" {
			host = DefaultHost
		}
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			return nil, fmt.Errorf("set charm host: %w", err)
		}
	}

	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := newClient(db)

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

func newClient(s store) *Client {
	return &Client{kv: s, autoSync: true}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// syncIfEnabled calls Sync if autoSync is enabled. Caller holds the lock.
func (c *Client) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// put marshals v and stores it under key.
func (c *Client) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// remove deletes every key in keys, syncing once at the end.
func (c *Client) remove(keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	for _, key := range keys {
		if err := c.kv.Delete([]byte(key)); err != nil {
			return err
		}
	}
	c.syncIfEnabled()
	return nil
}

// scan returns key/value pairs whose key starts with prefix, using a badger iterator.
func (c *Client) scan(prefix string) (map[string][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results := make(map[string][]byte)
	err := c.kv.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			results[string(item.KeyCopy(nil))] = val
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// resolveKey finds the full key for an ID or ID prefix of the given type.
func (c *Client) resolveKey(typePrefix, idOrPrefix string) (string, []byte, error) {
	if idOrPrefix == "" {
		return "", nil, fmt.Errorf("%w: empty id", storage.ErrNotFound)
	}

	entries, err := c.scan(typePrefix + idOrPrefix)
	if err != nil {
		return "", nil, err
	}

	ids := make([]string, 0, len(entries))
	for key := range entries {
		ids = append(ids, extractID(key, typePrefix))
	}
	id, err := storage.MatchPrefix(ids, idOrPrefix)
	if err != nil {
		return "", nil, err
	}
	key := typePrefix + id
	return key, entries[key], nil
}

// scanAll decodes every value under prefix, skipping entries that fail to decode.
func scanAll[T any](c *Client, prefix string) ([]*T, error) {
	entries, err := c.scan(prefix)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(entries))
	for _, data := range entries {
		v, err := unmarshalJSON[T](data)
		if err != nil {
			continue // Skip invalid entries
		}
		out = append(out, v)
	}
	return out, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// extractID extracts the ID portion from a prefixed key.
func extractID(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
