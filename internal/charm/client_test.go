// ABOUTME: Tests for the Charm KV backend against an in-memory badger database.
// ABOUTME: Covers prefix lookup, filtering, cascade deletes and read-only mode.
package charm

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

// memStore satisfies store with a plain in-memory badger database.
type memStore struct {
	db       *badger.DB
	readOnly bool
	syncs    int
}

func (m *memStore) Set(key, value []byte) error {
	return m.db.Update(func(txn *badger.Txn) error { return txn.Set(key, value) })
}

func (m *memStore) Delete(key []byte) error {
	return m.db.Update(func(txn *badger.Txn) error { return txn.Delete(key) })
}

func (m *memStore) View(fn func(txn *badger.Txn) error) error { return m.db.View(fn) }
func (m *memStore) Sync() error                               { m.syncs++; return nil }
func (m *memStore) IsReadOnly() bool                          { return m.readOnly }
func (m *memStore) Reset() error                              { return m.db.DropAll() }
func (m *memStore) Close() error                              { return m.db.Close() }

func newTestClient(t *testing.T) (*Client, *memStore) {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	m := &memStore{db: db}
	c := newClient(m)
	t.Cleanup(func() { _ = c.Close() })
	return c, m
}

func TestKeyPrefixes(t *testing.T) {
	s := models.NewSet("squat", 100, 5, 8)
	assert.Equal(t, "set:"+s.ID.String(), SetPrefix+s.ID.String())
	assert.Equal(t, "session:", SessionPrefix)
	assert.Equal(t, s.ID.String(), extractID(SetPrefix+s.ID.String(), SetPrefix))
}

func TestCreateAndGetSet(t *testing.T) {
	c, m := newTestClient(t)

	s := models.NewSet("Front Squat", 90, 5, 8).WithRest(180).WithCompletedAt(baseTime)
	require.NoError(t, c.CreateSet(s))
	assert.Equal(t, 1, m.syncs, "writes sync when autoSync is on")

	got, err := c.GetSet(s.ID.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "front squat", got.Exercise)
	require.NotNil(t, got.RestSeconds)
	assert.Equal(t, 180, *got.RestSeconds)

	assert.Error(t, c.CreateSet(s), "duplicate id")
}

func TestGetSetErrors(t *testing.T) {
	c, _ := newTestClient(t)

	for _, id := range []string{
		"bbbbbbbb-0000-0000-0000-000000000001",
		"bbbbbbbb-0000-0000-0000-000000000002",
	} {
		s := models.NewSet("row", 60, 10, 7)
		s.ID = uuid.MustParse(id)
		require.NoError(t, c.CreateSet(s))
	}

	_, err := c.GetSet("bbbb")
	assert.True(t, errors.Is(err, storage.ErrAmbiguousPrefix))

	_, err = c.GetSet("cccc")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = c.GetSet("")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestListSetsAndHistory(t *testing.T) {
	c, _ := newTestClient(t)

	for i, rpe := range []int{7, 8, 9} {
		s := models.NewSet("bench press", 80+float64(i)*5, 5, rpe).
			WithCompletedAt(baseTime.AddDate(0, 0, -i))
		require.NoError(t, c.CreateSet(s))
	}
	require.NoError(t, c.CreateSet(models.NewSet("squat", 120, 5, 8).WithCompletedAt(baseTime)))

	history, err := c.ExerciseHistory("Bench Press", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 80.0, history[0].Weight, "newest first")
	assert.Equal(t, 85.0, history[1].Weight)

	since := baseTime.AddDate(0, 0, -1)
	recent, err := c.ListSets(storage.SetFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	exercises, err := c.ListExercises()
	require.NoError(t, err)
	assert.Equal(t, []string{"bench press", "squat"}, exercises)
}

func TestListSetsTiesOrderedByID(t *testing.T) {
	c, _ := newTestClient(t)

	ids := []string{
		"00000000-0000-0000-0000-000000000002",
		"00000000-0000-0000-0000-000000000003",
		"00000000-0000-0000-0000-000000000001",
	}
	for _, id := range ids {
		s := models.NewSet("squat", 100, 5, 8).WithCompletedAt(baseTime)
		s.ID = uuid.MustParse(id)
		require.NoError(t, c.CreateSet(s))
	}

	for i := 0; i < 5; i++ {
		sets, err := c.ExerciseHistory("squat", 0)
		require.NoError(t, err)
		require.Len(t, sets, 3)
		assert.Equal(t, "00000000-0000-0000-0000-000000000003", sets[0].ID.String())
		assert.Equal(t, "00000000-0000-0000-0000-000000000002", sets[1].ID.String())
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", sets[2].ID.String())
	}

	sessions := []string{
		"00000000-0000-0000-0000-00000000000a",
		"00000000-0000-0000-0000-00000000000b",
	}
	for _, id := range sessions {
		session := models.NewSession("upper-a").WithStartedAt(baseTime)
		session.ID = uuid.MustParse(id)
		require.NoError(t, c.CreateSession(session))
	}
	listed, err := c.ListSessions(nil, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, sessions[1], listed[0].ID.String())
}

func TestSessionCascadeDelete(t *testing.T) {
	c, _ := newTestClient(t)

	session := models.NewSession("pull").WithStartedAt(baseTime)
	require.NoError(t, c.CreateSession(session))

	first := models.NewSet("row", 70, 8, 7).WithSession(session.ID).WithSetNumber(1).WithCompletedAt(baseTime)
	second := models.NewSet("row", 70, 8, 8).WithSession(session.ID).WithSetNumber(2).WithCompletedAt(baseTime.Add(3 * time.Minute))
	loose := models.NewSet("row", 60, 10, 7).WithCompletedAt(baseTime.AddDate(0, 0, -1))
	for _, s := range []*models.Set{first, second, loose} {
		require.NoError(t, c.CreateSet(s))
	}

	full, err := c.GetSessionWithSets(session.ID.String()[:8])
	require.NoError(t, err)
	require.Len(t, full.Sets, 2)
	assert.Equal(t, first.ID, full.Sets[0].ID, "logging order")

	require.NoError(t, c.DeleteSession(session.ID.String()))

	_, err = c.GetSession(session.ID.String())
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = c.GetSet(first.ID.String())
	assert.True(t, errors.Is(err, storage.ErrNotFound))
	_, err = c.GetSet(loose.ID.String())
	assert.NoError(t, err)
}

func TestUpdateSession(t *testing.T) {
	c, _ := newTestClient(t)

	session := models.NewSession("legs")
	require.NoError(t, c.CreateSession(session))

	session.Complete(time.Now(), []models.Set{*models.NewSet("squat", 100, 5, 8)})
	require.NoError(t, c.UpdateSession(session))

	completed := models.SessionCompleted
	list, err := c.ListSessions(&completed, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 500.0, list[0].TotalVolume)

	err = c.UpdateSession(models.NewSession("ghost"))
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	c, m := newTestClient(t)
	m.readOnly = true

	err := c.CreateSet(models.NewSet("squat", 100, 5, 8))
	assert.True(t, errors.Is(err, ErrReadOnly))
	assert.NoError(t, c.Sync(), "sync is a no-op while read-only")
}

func TestMigrateIntoCharm(t *testing.T) {
	c, m := newTestClient(t)
	src, _ := newTestClient(t)

	session := models.NewSession("upper").WithStartedAt(baseTime)
	require.NoError(t, src.CreateSession(session))
	require.NoError(t, src.CreateSet(models.NewSet("press", 50, 5, 8).WithSession(session.ID)))

	summary, err := storage.MigrateData(src, c)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sessions)
	assert.Equal(t, 1, summary.Sets)

	before := m.syncs
	data, err := c.GetAllData()
	require.NoError(t, err)
	assert.Equal(t, "lift", data.Tool)
	assert.Len(t, data.Sets, 1)

	dst, dm := newTestClient(t)
	require.NoError(t, dst.ImportData(data))
	assert.Equal(t, 1, dm.syncs, "import syncs once")
	assert.Equal(t, before, m.syncs)

	has, err := storage.HasData(dst)
	require.NoError(t, err)
	assert.True(t, has)
}
