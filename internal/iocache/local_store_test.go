package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, store.Dir())

	_, err = store.Get(contract.TasksKey)
	assert.ErrorIs(t, err, contract.ErrKeyNotFound)

	require.NoError(t, store.Set(contract.TasksKey, []byte(`[]`)))
	got, err := store.Get(contract.TasksKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, store.Set(contract.TasksKey, []byte(`[{"id":"a"}]`)))
	got, err = store.Get(contract.TasksKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a"}]`), got)

	require.NoError(t, store.Delete(contract.TasksKey))
	require.NoError(t, store.Delete(contract.TasksKey), "deleting twice is fine")
	_, err = store.Get(contract.TasksKey)
	assert.ErrorIs(t, err, contract.ErrKeyNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files may be left behind")
}

func TestLocalStoreRejectsBadKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "UPPER", "a/b", "-lead"} {
		assert.Error(t, store.Set(key, []byte("x")), "key %q", key)
		_, err := store.Get(key)
		assert.Error(t, err, "key %q", key)
	}

	_, err = NewLocalStore("")
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

	empty, err := LoadSnapshot(store, now)
	require.NoError(t, err)
	assert.Empty(t, empty.Tasks)
	assert.Equal(t, core.DefaultSettings(), empty.Config)

	completedAt := now.UnixMilli()
	settings := core.DefaultSettings()
	settings.Weights = schema.Weights{M: 1.1, A: 0.9}
	snap := schema.Snapshot{
		Tasks: []schema.Task{
			{ID: "a", Title: "Open", M: 5, A: 4, D: 1.5, E: 3, Score: 9.6, CreatedAt: now.UnixMilli()},
			{ID: "b", Title: "Done", M: 7, A: 2, D: 1, E: 1, Score: 9.5, Completed: true, CreatedAt: now.UnixMilli(), CompletedAt: &completedAt},
		},
		Config: settings,
	}
	require.NoError(t, SaveSnapshot(store, snap))

	loaded, err := LoadSnapshot(store, now)
	require.NoError(t, err)
	if diff := cmp.Diff(snap, loaded); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSnapshotRecoversFromCorruption(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(contract.TasksKey, []byte(`{"not": "a list"}`)))
	require.NoError(t, store.Set(contract.ConfigKey, []byte(`garbage`)))

	snap, err := LoadSnapshot(store, time.Now())
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, core.DefaultSettings(), snap.Config)
}

func TestRecoveryCodeAndLastDeleted(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	now := time.Now()

	code, err := LoadRecoveryCode(store)
	require.NoError(t, err)
	assert.Empty(t, code)

	require.NoError(t, SaveRecoveryCode(store, "ABCD2345"))
	code, err = LoadRecoveryCode(store)
	require.NoError(t, err)
	assert.Equal(t, "ABCD2345", code)

	deleted, err := LoadLastDeleted(store, now)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	task := schema.Task{ID: "gone", Title: "Removed", M: 5, A: 4, D: 1.5, E: 3, CreatedAt: 42}
	require.NoError(t, SaveLastDeleted(store, &task))
	deleted, err = LoadLastDeleted(store, now)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, task, *deleted)

	require.NoError(t, SaveLastDeleted(store, nil))
	deleted, err = LoadLastDeleted(store, now)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestLoadSnapshotPropagatesStoreErrors(t *testing.T) {
	store := new(MockSnapshotStore)
	store.On("Get", contract.TasksKey).Return(nil, os.ErrPermission)

	_, err := LoadSnapshot(store, time.Now())
	assert.ErrorIs(t, err, os.ErrPermission)
	store.AssertExpectations(t)
}
