package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestMigrator(t *testing.T) (*Migrator, string) {
	path := filepath.Join(t.TempDir(), "companies.db")
	m, err := New("sqlite3://"+path, zaptest.NewLogger(t))
	require.NoError(t, err, "failed to create migrator")
	t.Cleanup(func() { _ = m.Close() })
	return m, path
}

func tableExists(t *testing.T, path string) bool {
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'company'`).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestUpCreatesTable(t *testing.T) {
	m, path := newTestMigrator(t)

	require.NoError(t, m.Up())
	assert.True(t, tableExists(t, path), "company table should exist after Up")

	version, dirty, ok, err := m.Version()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestUpIsIdempotent(t *testing.T) {
	m, path := newTestMigrator(t)

	require.NoError(t, m.Up())
	assert.NoError(t, m.Up(), "second Up should be a no-op")
	assert.True(t, tableExists(t, path))
}

func TestDownDropsTable(t *testing.T) {
	m, path := newTestMigrator(t)

	require.NoError(t, m.Up())
	require.NoError(t, m.Down())
	assert.False(t, tableExists(t, path), "company table should be gone after Down")

	_, _, ok, err := m.Version()
	require.NoError(t, err)
	assert.False(t, ok, "no version should be recorded after Down")
}

func TestDownIsIdempotent(t *testing.T) {
	m, _ := newTestMigrator(t)

	assert.NoError(t, m.Down(), "Down on a fresh database should be a no-op")
	require.NoError(t, m.Up())
	require.NoError(t, m.Down())
	assert.NoError(t, m.Down(), "second Down should be a no-op")
}

func TestSchemaConstraints(t *testing.T) {
	m, path := newTestMigrator(t)
	require.NoError(t, m.Up())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO company (id, name, description, created_at, updated_at) VALUES ('c1', 'Acme', 'maker', 1, 1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO company (id, name, description, created_at, updated_at) VALUES ('c2', 'Acme', 'other', 1, 1)`)
	assert.Error(t, err, "duplicate name must violate the unique constraint")

	_, err = db.Exec(`INSERT INTO company (id, name, description, created_at, updated_at) VALUES ('c1', 'Other', 'other', 1, 1)`)
	assert.Error(t, err, "duplicate id must violate the primary key")

	_, err = db.Exec(`INSERT INTO company (id, name, created_at, updated_at) VALUES ('c3', 'NoDesc', 1, 1)`)
	assert.Error(t, err, "description is required")
}
