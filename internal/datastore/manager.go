// Package datastore opens, migrates and closes the relational store that
// holds the catalogue. SQLite, MySQL and PostgreSQL are supported through
// GORM; all of them enforce ON DELETE CASCADE on every foreign key.
package datastore

import (
	"fmt"
	"time"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"gorm.io/gorm"
)

// Manager defines the interface for database lifecycle operations.
type Manager interface {
	// Initialize creates or updates the schema.
	Initialize() error
	// DB returns the underlying GORM database.
	DB() *gorm.DB
	// Path returns the database location (file path for SQLite, host/database otherwise).
	Path() string
	// Dialect returns the backend name, one of the conf.Database* constants.
	Dialect() string
	// Close closes the database connection.
	Close() error
}

// Config holds the options shared by all managers.
type Config struct {
	// Debug logs every SQL statement at trace level.
	Debug bool
	// SlowQueryThreshold marks queries logged at warn. Zero uses the default.
	SlowQueryThreshold time.Duration
}

const defaultSlowQueryThreshold = 200 * time.Millisecond

// NewManager opens the backend selected in settings.
func NewManager(settings *conf.Settings) (Manager, error) {
	cfg := Config{
		Debug:              settings.Debug,
		SlowQueryThreshold: settings.Database.SlowQueryThreshold,
	}

	switch settings.Database.Type {
	case conf.DatabaseSQLite, "":
		return NewSQLiteManager(settings.Database.SQLite.Path, cfg)
	case conf.DatabaseMySQL:
		return NewMySQLManager(&settings.Database.MySQL, cfg)
	case conf.DatabasePostgres:
		return NewPostgresManager(&settings.Database.Postgres, cfg)
	default:
		return nil, errors.Newf("unsupported database type %q", settings.Database.Type).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("database_type", settings.Database.Type).
			Build()
	}
}

// Open opens the backend selected in settings and brings its schema up to
// date. The caller closes the returned manager.
func Open(settings *conf.Settings) (Manager, error) {
	manager, err := NewManager(settings)
	if err != nil {
		return nil, err
	}
	if err := manager.Initialize(); err != nil {
		_ = manager.Close()
		return nil, err
	}
	return manager, nil
}

// gormConfig returns the GORM configuration used by every manager. SQL goes
// through the central logger instead of GORM's default stdout logger.
func gormConfig(cfg Config) *gorm.Config {
	threshold := cfg.SlowQueryThreshold
	if threshold <= 0 {
		threshold = defaultSlowQueryThreshold
	}
	return &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(GetLogger(), threshold),
		NowFunc: func() time.Time {
			return time.Now().Round(time.Microsecond)
		},
	}
}

// migrate runs AutoMigrate over the full catalogue model.
func migrate(db *gorm.DB, dialect string) error {
	start := time.Now()
	if err := db.AutoMigrate(entities.All()...); err != nil {
		return dbError(err, "auto_migrate", errors.PriorityCritical, "dialect", dialect)
	}
	GetLogger().Info("schema migrated",
		logger.String("dialect", dialect),
		logger.Int("models", len(entities.All())),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// closeDB closes the pool behind db.
func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// dbError creates a properly categorized database error with context.
func dbError(err error, operation, priority string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	if priority != "" {
		builder = builder.Priority(priority)
	}

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}
