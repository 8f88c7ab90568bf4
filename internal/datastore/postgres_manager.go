package datastore

import (
	"fmt"
	"time"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/privacy"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresManager handles a PostgreSQL catalogue.
type PostgresManager struct {
	db       *gorm.DB
	location string
}

// NewPostgresManager connects to PostgreSQL through pgx.
func NewPostgresManager(cfg *conf.PostgresSettings, opts Config) (*PostgresManager, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, sslMode)
	location := fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig(opts))
	if err != nil {
		// pgx errors can echo the connection string.
		return nil, dbError(privacy.WrapError(err), "open_postgres", errors.PriorityHigh, "location", location)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	GetLogger().Info("connected to postgres", logger.String("location", location))
	return &PostgresManager{db: db, location: location}, nil
}

// Initialize creates or updates the schema.
func (m *PostgresManager) Initialize() error {
	return migrate(m.db, conf.DatabasePostgres)
}

// DB returns the underlying GORM database.
func (m *PostgresManager) DB() *gorm.DB {
	return m.db
}

// Path returns host:port/database.
func (m *PostgresManager) Path() string {
	return m.location
}

// Dialect returns conf.DatabasePostgres.
func (m *PostgresManager) Dialect() string {
	return conf.DatabasePostgres
}

// Close closes the database connection.
func (m *PostgresManager) Close() error {
	return closeDB(m.db)
}
