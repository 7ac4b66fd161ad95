package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formedit/pkg/persist"
	"github.com/goliatone/go-formedit/pkg/testsupport"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	clock := testsupport.FixedClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Minute)
	store, err := Open(filepath.Join(t.TempDir(), "formedit.db"), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, ok, err := store.Get(ctx, "dntel-form-a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, "dntel-form-a", []byte(`{"v":1}`)))
	require.NoError(t, store.Put(ctx, "dntel-form-a", []byte(`{"v":2}`)))

	blob, ok, err := store.Get(ctx, "dntel-form-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"v":2}`, string(blob))

	require.NoError(t, store.Delete(ctx, "dntel-form-a"))
	require.NoError(t, store.Delete(ctx, "dntel-form-a"))
	_, ok, err = store.Get(ctx, "dntel-form-a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Put(ctx, "dntel-form-a", []byte(`{}`)))
	require.NoError(t, store.Put(ctx, "form-legacy", []byte(`{}`)))
	require.NoError(t, store.Put(ctx, "dntel-form-b", []byte(`{}`)))

	entries, err := store.List(ctx, "dntel-form-")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "dntel-form-b", entries[0].Key)
	require.Equal(t, "dntel-form-a", entries[1].Key)
	require.True(t, entries[0].UpdatedAt.After(entries[1].UpdatedAt))
}

func TestStore_BackingBridge(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	bridge, err := persist.NewBridge(store)
	require.NoError(t, err)

	ts := time.UnixMilli(1709251200000)
	state := persist.FormEditState{
		Changes:          map[string]any{"name": "Ada"},
		ExpandedSections: []string{"info"},
		LastChanged:      &ts,
		EditMode:         true,
	}
	require.NoError(t, bridge.Save(ctx, "claim-1", state))

	got, ok, err := bridge.Load(ctx, "claim-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(state), "got %s want %s", got, state)
}
