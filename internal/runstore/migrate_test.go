package runstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/seisread/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRuns_NoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	var out bytes.Buffer

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "to version 2")

	out.Reset()
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "No migration needed")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1, &out))
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0, &out))
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1, &out))

	// A migrated database is usable by the store directly.
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, err = store.BeginRun(context.Background(), sampleStart("2024-03-01.dat"))
	assert.NoError(t, err)
}

func TestNewRunStore_AppliesAllMigrations(t *testing.T) {
	for _, connStr := range []string{":memory:", filepath.Join(t.TempDir(), "runs.db")} {
		t.Run(filepath.Base(connStr), func(t *testing.T) {
			store, err := NewRunStore(schema.SQLiteBackend, connStr)
			require.NoError(t, err)
			defer func() { _ = store.Close() }()
			db := store.(*SQLStore).db

			var index string
			err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`,
				"idx_seisread_runs_anchor_date").Scan(&index)
			require.NoError(t, err)
			assert.Equal(t, "idx_seisread_runs_anchor_date", index)

			var version int
			require.NoError(t, db.QueryRow(`SELECT version FROM schema_migrations`).Scan(&version))
			assert.Equal(t, 2, version)
		})
	}
}

func TestNewRunStore_ReopenIsNoChange(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	var out bytes.Buffer
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "No migration needed")
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir("migrations/" + string(backend))
		require.NoError(t, err, backend)
		assert.Len(t, entries, 4, backend)
	}
}

func TestClearRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""), "missing file is fine")
	assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	assert.Error(t, ClearRuns(schema.DatabaseBackend("redis"), "", ""))
}

func TestStoreManager(t *testing.T) {
	mgr := &StoreManager{}
	assert.Nil(t, mgr.GetRunStore())
}
