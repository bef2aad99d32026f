package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadMigrations_OrdersAndIgnoresNoise(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V2__add_index.sql", "CREATE INDEX x ON t(a);")
	writeFile(t, dir, "V1__init.sql", "CREATE TABLE t(a int);")
	writeFile(t, dir, "README.md", "not a migration")

	migs, err := loadMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.NotEmpty(t, migs[0].Checksum)
}

func TestLoadMigrations_RejectsDuplicatesAndEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__a.sql", "SELECT 1;")
	writeFile(t, dir, "V1__b.sql", "SELECT 2;")
	_, err := loadMigrations(dir)
	assert.Error(t, err)

	dir = t.TempDir()
	writeFile(t, dir, "V1__empty.sql", "   \n")
	_, err = loadMigrations(dir)
	assert.Error(t, err)
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	migs, err := loadMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migs)
}

func TestPendingMigrations(t *testing.T) {
	migs := []Migration{
		{Version: 1, Name: "init", Checksum: "aaa"},
		{Version: 2, Name: "next", Checksum: "bbb"},
	}

	pending, err := pendingMigrations(migs, map[int64]appliedMigration{1: {Version: 1, Checksum: "aaa"}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].Version)

	_, err = pendingMigrations(migs, map[int64]appliedMigration{1: {Version: 1, Checksum: "zzz"}})
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
