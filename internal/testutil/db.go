// Package testutil provides shared test utilities for reefkb packages.
package testutil

import (
	"testing"
	"time"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultTestTimeout is the standard timeout for context-bound test operations.
const DefaultTestTimeout = 5 * time.Second

// NewTestDB opens a private in-memory SQLite database with foreign keys
// enabled and the full catalogue schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection would see its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entities.All()...))
	return db
}

// Fixture holds the rows every submission depends on.
type Fixture struct {
	Lead     entities.User
	Diver    entities.User
	Campaign entities.Campaign
}

// SeedFixture inserts two users and a campaign led by the first.
func SeedFixture(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{
		Lead: entities.User{
			Role: entities.UserRoleAdmin, Email: "christian.voolstra@example.org",
			FirstName: "Christian", LastName: "Voolstra", Username: "cvoolstra",
		},
		Diver: entities.User{
			Role: entities.UserRoleUser, Email: "maren.ziegler@example.org",
			FirstName: "Maren", LastName: "Ziegler", Username: "mziegler",
		},
	}
	require.NoError(t, db.Create(&f.Lead).Error)
	require.NoError(t, db.Create(&f.Diver).Error)

	f.Campaign = entities.Campaign{
		LeadUserID:              f.Lead.ID,
		Name:                    "Red Sea CBASS 2018",
		StartDate:               time.Date(2018, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2018, 8, 31, 0, 0, 0, 0, time.UTC),
		NCBIBioProjectAccession: "PRJNA1",
	}
	require.NoError(t, db.Omit("LeadUser", "Participants").Create(&f.Campaign).Error)
	return f
}
