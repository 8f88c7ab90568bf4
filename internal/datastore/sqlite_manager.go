package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteManager handles a file backed SQLite catalogue.
type SQLiteManager struct {
	db     *gorm.DB
	dbPath string
}

// NewSQLiteManager opens (and creates if missing) the SQLite database at
// path. Foreign keys are switched on for every connection.
func NewSQLiteManager(path string, cfg Config) (*SQLiteManager, error) {
	if path == "" {
		path = "reefkb.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(err).
				Component("datastore").
				Category(errors.CategoryFileIO).
				Context("path", dir).
				Build()
		}
	}

	// Build DSN with recommended SQLite pragmas
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(cfg))
	if err != nil {
		return nil, dbError(err, "open_sqlite", errors.PriorityHigh, "path", path)
	}

	GetLogger().Info("opened sqlite database", logger.String("path", path))
	return &SQLiteManager{db: db, dbPath: path}, nil
}

// Initialize creates or updates the schema.
func (m *SQLiteManager) Initialize() error {
	return migrate(m.db, conf.DatabaseSQLite)
}

// DB returns the underlying GORM database.
func (m *SQLiteManager) DB() *gorm.DB {
	return m.db
}

// Path returns the database file path.
func (m *SQLiteManager) Path() string {
	return m.dbPath
}

// Dialect returns conf.DatabaseSQLite.
func (m *SQLiteManager) Dialect() string {
	return conf.DatabaseSQLite
}

// Close closes the database connection.
func (m *SQLiteManager) Close() error {
	return closeDB(m.db)
}
