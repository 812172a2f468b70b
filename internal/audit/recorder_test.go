// AngelaMos | 2026
// recorder_test.go

package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_AssignsServerFields(t *testing.T) {
	store := NewMemoryStore()
	recorder := NewRecorder(store, nil)

	before := time.Now().UTC()
	recorder.Record(context.Background(), Entry{
		IdentityID:         "u1",
		Action:             "create_announcement",
		ResourceCollection: "announcements",
		Result:             ResultSuccess,
		// Caller-supplied timestamps are ignored.
		CreatedAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	entries := store.Entries()
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.Before(before))
}

func TestRecord_SwallowsStoreFailure(t *testing.T) {
	store := NewMemoryStore()
	store.FailInserts = errors.New("disk full")
	recorder := NewRecorder(store, nil)

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), Entry{
			IdentityID: "u1",
			Action:     "login",
			Result:     ResultSuccess,
		})
	})

	assert.Empty(t, store.Entries())
}

func TestSweepOlderThan(t *testing.T) {
	store := NewMemoryStore()
	recorder := NewRecorder(store, nil)
	ctx := context.Background()

	old := Entry{
		ID:         "old",
		IdentityID: "u1",
		Action:     "login",
		Result:     ResultSuccess,
		CreatedAt:  time.Now().UTC().AddDate(-2, 0, 0),
	}
	require.NoError(t, store.Insert(ctx, &old))

	recorder.Record(ctx, Entry{
		IdentityID: "u2",
		Action:     "login",
		Result:     ResultSuccess,
	})

	deleted, err := recorder.SweepOlderThan(ctx, 365)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "u2", entries[0].IdentityID)
}

func TestMemoryStoreListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seed := []Entry{
		{ID: "1", IdentityID: "u1", Action: "login", Result: ResultSuccess},
		{ID: "2", IdentityID: "u1", Action: "login", Result: ResultDenied},
		{ID: "3", IdentityID: "u2", Action: "create_event", Result: ResultSuccess},
	}
	for i := range seed {
		require.NoError(t, store.Insert(ctx, &seed[i]))
	}

	entries, total, err := store.List(ctx, ListParams{IdentityID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, entries, 2)

	entries, total, err = store.List(ctx, ListParams{Result: ResultDenied})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].ID)
}
