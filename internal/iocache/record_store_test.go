package iocache

import (
	"bytes"
	"context"
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

func newSQLiteRecordStore(t *testing.T) (*RecordStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "remote.db")
	store, err := NewRecordStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, dbPath
}

func sampleSnapshot(title string) schema.Snapshot {
	return schema.Snapshot{
		Tasks: []schema.Task{
			{ID: "t1", Title: title, M: 5, A: 4, D: 1.5, E: 3, Score: 10.2, CreatedAt: 1_760_000_000_000},
		},
		Config: core.DefaultSettings(),
	}
}

func TestRecordStoreSQLite(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteRecordStore(t)

	_, err := store.Fetch(ctx, "ABCD2345")
	assert.ErrorIs(t, err, contract.ErrRecordNotFound)

	first := sampleSnapshot("first")
	require.NoError(t, store.Insert(ctx, "ABCD2345", first))
	assert.Error(t, store.Insert(ctx, "ABCD2345", first), "insert must not overwrite")

	got, err := store.Fetch(ctx, "ABCD2345")
	require.NoError(t, err)
	if diff := cmp.Diff(first, got); diff != "" {
		t.Errorf("fetch mismatch (-want +got):\n%s", diff)
	}

	second := sampleSnapshot("second")
	second.Config.Weights = schema.Weights{M: 2, A: 2}
	require.NoError(t, store.Upsert(ctx, "ABCD2345", second))
	require.NoError(t, store.Upsert(ctx, "WXYZ6789", first))

	got, err = store.Fetch(ctx, "ABCD2345")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Tasks[0].Title)
	assert.Equal(t, schema.Weights{M: 2, A: 2}, got.Config.Weights)

	require.NoError(t, store.Delete(ctx, "WXYZ6789"))
	_, err = store.Fetch(ctx, "WXYZ6789")
	assert.ErrorIs(t, err, contract.ErrRecordNotFound)
}

func TestRecordStoreStatus(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteRecordStore(t)
	fixed := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRecords)

	require.NoError(t, store.Upsert(ctx, "ABCD2345", sampleSnapshot("x")))
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRecords)
	assert.True(t, status.LastUpdateTime.Equal(fixed))
	assert.Positive(t, status.TableSizeBytes)

	var buf bytes.Buffer
	PrintRemoteStatus(&buf, status)
	assert.Contains(t, buf.String(), "Total Records: 1")

	require.NoError(t, store.Clear(ctx))
	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRecords)
}

func TestRecordStoreToleratesMalformedRows(t *testing.T) {
	ctx := context.Background()
	store, _ := newSQLiteRecordStore(t)

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO mades_sync (recovery_code, tasks, config, updated_at) VALUES (?, ?, ?, ?)`,
		"BAD22222", `{"oops": true}`, `[]`, 1)
	require.NoError(t, err)

	snap, err := store.Fetch(ctx, "BAD22222")
	require.NoError(t, err)
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, core.DefaultSettings(), snap.Config)
}

func TestMigrateRemoteSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	result, err := MigrateRemote(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, uint(2), result.ToVersion)

	result, err = MigrateRemote(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Contains(t, result.String(), "No migration needed")

	result, err = MigrateRemote(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(2), result.FromVersion)
	assert.Equal(t, uint(1), result.ToVersion)

	result, err = MigrateRemote(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), result.ToVersion)

	_, err = MigrateRemote(schema.NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestClearRemoteSQLite(t *testing.T) {
	store, dbPath := newSQLiteRecordStore(t)
	require.NoError(t, store.Close())
	assert.FileExists(t, dbPath)

	require.NoError(t, ClearRemote(schema.SQLiteBackend, dbPath))
	assert.NoFileExists(t, dbPath)
	require.NoError(t, ClearRemote(schema.SQLiteBackend, dbPath), "clearing twice is fine")

	assert.Error(t, ClearRemote(schema.SQLiteBackend, ""))
	assert.NoError(t, ClearRemote(schema.NoneBackend, ""))
}
