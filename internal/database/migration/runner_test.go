package migration

import (
	"testing"
	"testing/fstest"

	"roleready/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"V2__add_snapshots.sql": {Data: []byte("CREATE TABLE b (id INT);")},
		"V1__init.sql":          {Data: []byte("CREATE TABLE a (id INT);")},
		"README.md":             {Data: []byte("ignored")},
		"V3_bad_name.sql":       {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.NotEmpty(t, migs[0].Checksum)
	assert.NotEqual(t, migs[0].Checksum, migs[1].Checksum)
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	}

	_, err := loadMigrations(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestLoadMigrations_EmptyFile(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__empty.sql": {Data: []byte("   \n")},
	}

	_, err := loadMigrations(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty migration file")
}

func TestRunner_LoadsEmbeddedSchema(t *testing.T) {
	migs, err := Runner{FS: migrations.FS}.load()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Contains(t, migs[0].SQL, "readiness_snapshots")
}

func TestRunner_RequiresSource(t *testing.T) {
	_, err := Runner{}.load()
	assert.Error(t, err)
}
