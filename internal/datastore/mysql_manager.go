package datastore

import (
	"fmt"
	"time"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQLManager handles a MySQL catalogue.
type MySQLManager struct {
	db       *gorm.DB
	location string // host:port/database for display
}

// NewMySQLManager connects to MySQL and configures the connection pool.
func NewMySQLManager(cfg *conf.MySQLSettings, opts Config) (*MySQLManager, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	location := fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig(opts))
	if err != nil {
		return nil, dbError(err, "open_mysql", errors.PriorityHigh,
			"location", location, "dsn", logger.RedactSensitiveData(dsn))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	GetLogger().Info("connected to mysql", logger.String("location", location))
	return &MySQLManager{db: db, location: location}, nil
}

// Initialize creates or updates the schema.
func (m *MySQLManager) Initialize() error {
	return migrate(m.db, conf.DatabaseMySQL)
}

// DB returns the underlying GORM database.
func (m *MySQLManager) DB() *gorm.DB {
	return m.db
}

// Path returns host:port/database.
func (m *MySQLManager) Path() string {
	return m.location
}

// Dialect returns conf.DatabaseMySQL.
func (m *MySQLManager) Dialect() string {
	return conf.DatabaseMySQL
}

// Close closes the database connection.
func (m *MySQLManager) Close() error {
	return closeDB(m.db)
}
