package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SelectionStore {
	t.Helper()

	store, err := NewSelectionStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordSelectionCounts(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSelection(':', "happy"))
	require.NoError(t, store.RecordSelection(':', "happy"))
	require.NoError(t, store.RecordSelection(':', "heart"))

	entries, err := store.RecentSelections(':', "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most used first.
	assert.Equal(t, "happy", entries[0].Value)
	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, "heart", entries[1].Value)
	assert.Equal(t, 1, entries[1].Count)
}

func TestRecentSelectionsScopedByTrigger(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSelection(':', "happy"))
	require.NoError(t, store.RecordSelection('@', "alice"))

	entries, err := store.RecentSelections('@', "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Value)
}

func TestRecentSelectionsPrefixFilter(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSelection(':', "happy"))
	require.NoError(t, store.RecordSelection(':', "heart"))
	require.NoError(t, store.RecordSelection(':', "fire"))

	entries, err := store.RecentSelections(':', "h", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = store.RecentSelections(':', "fi", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fire", entries[0].Value)
}

func TestRecentSelectionsLimit(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSelection(':', "a"))
	require.NoError(t, store.RecordSelection(':', "b"))
	require.NoError(t, store.RecordSelection(':', "c"))

	entries, err := store.RecentSelections(':', "", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHistorySourceFetch(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordSelection('#', "golang"))
	require.NoError(t, store.RecordSelection('#', "golang"))
	require.NoError(t, store.RecordSelection('#', "tui"))

	source := NewHistorySource(store, '#', 10)
	candidates, err := source.Fetch(context.Background(), "go")
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "golang", candidates[0].Value)
	assert.Contains(t, candidates[0].Description, "used 2 times")
}
