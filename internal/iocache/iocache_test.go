package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateTableName tests identifier validation against injection.
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{name: "simple", table: "result_cache", wantErr: false},
		{name: "leading underscore", table: "_cache", wantErr: false},
		{name: "digits", table: "cache2", wantErr: false},
		{name: "empty", table: "", wantErr: true},
		{name: "leading digit", table: "2cache", wantErr: true},
		{name: "injection", table: "x; DROP TABLE users", wantErr: true},
		{name: "quotes", table: `cache"`, wantErr: true},
		{name: "spaces", table: "my cache", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestQuoteTableName tests backend-specific identifier quoting.
func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`cache`", quoteTableName("cache", schema.MySQLBackend))
	assert.Equal(t, `"cache"`, quoteTableName("cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"cache"`, quoteTableName("cache", schema.SQLiteBackend))
}

// TestSQLiteCacheRoundtrip tests Set/Get/upsert against a real SQLite file.
func TestSQLiteCacheRoundtrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore("result_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	now := time.Now().Unix()
	require.NoError(t, store.Set("k1", []byte(`{"v":1}`), "oee", 1, now))

	value, version, ts, err := store.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, now, ts)

	// Upsert replaces the existing entry
	require.NoError(t, store.Set("k1", []byte(`{"v":2}`), "oee", 2, now+10))
	value, version, ts, err = store.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, now+10, ts)

	_, _, _, err = store.Get("absent")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

// TestSQLiteCacheStatus tests entry counting and timestamps in status output.
func TestSQLiteCacheStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore("result_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalEntries)

	oldTs := time.Now().Add(-time.Hour).Unix()
	newTs := time.Now().Unix()
	require.NoError(t, store.Set("old", []byte("a"), "oee", 1, oldTs))
	require.NoError(t, store.Set("new", []byte("b"), "pareto", 1, newTs))
	require.NoError(t, store.Set("new2", []byte("c"), "pareto", 1, newTs))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.TotalEntries)
	assert.Equal(t, map[string]int64{"oee": 1, "pareto": 2}, status.EntriesByKind)
	assert.Equal(t, time.Unix(oldTs, 0), status.OldestEntryTime)
	assert.Equal(t, time.Unix(newTs, 0), status.LastEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

// TestNoneBackendStore tests the disabled cache no-op behavior.
func TestNoneBackendStore(t *testing.T) {
	store, err := NewCacheStore("result_cache", schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.NoError(t, store.Set("k", []byte("v"), "oee", 1, time.Now().Unix()))

	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows, "none backend never hits")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, status.Backend)
	assert.False(t, status.Connected)
}

// TestNewCacheStoreRejections tests invalid table names and backends.
func TestNewCacheStoreRejections(t *testing.T) {
	_, err := NewCacheStore("bad name", schema.SQLiteBackend, filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)

	_, err = NewCacheStore("cache", "redis", "")
	assert.Error(t, err)
}

// TestClearCacheSQLite tests that clearing removes the database file.
func TestClearCacheSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore("result_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v"), "oee", 1, time.Now().Unix()))
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.NoFileExists(t, dbPath)

	// Clearing an already absent file is not an error
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))

	// Missing path is
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
}

// TestGetUpsertQuery tests backend-specific upsert generation.
func TestGetUpsertQuery(t *testing.T) {
	mysqlStore := &CacheStoreImpl{tableName: "c", backend: schema.MySQLBackend}
	assert.Contains(t, mysqlStore.getUpsertQuery(), "ON DUPLICATE KEY UPDATE")

	pgStore := &CacheStoreImpl{tableName: "c", backend: schema.PostgreSQLBackend}
	assert.Contains(t, pgStore.getUpsertQuery(), "ON CONFLICT")
	assert.Equal(t, "$1", pgStore.getPlaceholder())

	liteStore := &CacheStoreImpl{tableName: "c", backend: schema.SQLiteBackend}
	assert.Contains(t, liteStore.getUpsertQuery(), "INSERT OR REPLACE")
	assert.Equal(t, "?", liteStore.getPlaceholder())
}
