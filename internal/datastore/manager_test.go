package datastore

import (
	"path/filepath"
	"testing"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteManager_InitializeAndForeignKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "reefkb.db")

	m, err := NewSQLiteManager(path, Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Initialize())
	// Running migrations twice must be harmless.
	require.NoError(t, m.Initialize())

	assert.Equal(t, path, m.Path())
	assert.Equal(t, conf.DatabaseSQLite, m.Dialect())

	var fk int
	require.NoError(t, m.DB().Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk, "foreign keys must be enforced for cascades")

	for _, model := range entities.All() {
		assert.True(t, m.DB().Migrator().HasTable(model), "missing table for %T", model)
	}
	for _, join := range []string{"campaign_users", "dive_users", "assay_users"} {
		assert.True(t, m.DB().Migrator().HasTable(join), "missing join table %s", join)
	}
}

func TestSQLiteManager_CascadeConstraintDeclared(t *testing.T) {
	t.Parallel()
	m, err := NewSQLiteManager(filepath.Join(t.TempDir(), "reefkb.db"), Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.Initialize())

	var ddl string
	require.NoError(t, m.DB().Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'colonies'").
		Scan(&ddl).Error)
	assert.Contains(t, ddl, "ON DELETE CASCADE")
	assert.Contains(t, ddl, "REFERENCES `assays`")
}

func TestNewManager_SelectsBackend(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Database.Type = conf.DatabaseSQLite
	settings.Database.SQLite.Path = filepath.Join(t.TempDir(), "reefkb.db")

	m, err := NewManager(settings)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	assert.IsType(t, &SQLiteManager{}, m)

	settings.Database.Type = "oracle"
	_, err = NewManager(settings)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestOpen_Migrates(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Database.SQLite.Path = filepath.Join(t.TempDir(), "reefkb.db")

	m, err := Open(settings)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	assert.True(t, m.DB().Migrator().HasTable(&entities.ImportRun{}))
}
