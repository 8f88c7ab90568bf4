// env.go - environment variable bindings and validation
package conf

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for an environment variable binding
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "REEFKB_DEBUG", validateEnvBool},

		{"database.type", "REEFKB_DATABASE_TYPE", validateEnvOneOf(DatabaseSQLite, DatabaseMySQL, DatabasePostgres)},
		{"database.sqlite.path", "REEFKB_SQLITE_PATH", nil},
		{"database.mysql.host", "REEFKB_MYSQL_HOST", nil},
		{"database.mysql.port", "REEFKB_MYSQL_PORT", validateEnvPort},
		{"database.mysql.username", "REEFKB_MYSQL_USERNAME", nil},
		{"database.mysql.password", "REEFKB_MYSQL_PASSWORD", nil},
		{"database.mysql.database", "REEFKB_MYSQL_DATABASE", nil},
		{"database.postgres.host", "REEFKB_POSTGRES_HOST", nil},
		{"database.postgres.port", "REEFKB_POSTGRES_PORT", validateEnvPort},
		{"database.postgres.username", "REEFKB_POSTGRES_USERNAME", nil},
		{"database.postgres.password", "REEFKB_POSTGRES_PASSWORD", nil},
		{"database.postgres.database", "REEFKB_POSTGRES_DATABASE", nil},

		{"photos.store", "REEFKB_PHOTO_STORE", validateEnvOneOf(PhotoStoreDir, PhotoStoreS3)},
		{"photos.directory", "REEFKB_PHOTO_DIR", nil},
		{"photos.baseurl", "REEFKB_PHOTO_BASE_URL", nil},
		{"photos.s3.bucket", "REEFKB_S3_BUCKET", nil},
		{"photos.s3.region", "REEFKB_S3_REGION", nil},
		{"photos.s3.endpoint", "REEFKB_S3_ENDPOINT", nil},

		{"cache.type", "REEFKB_CACHE_TYPE", validateEnvOneOf(CacheNone, CacheMemory, CacheRedis)},
		{"cache.redis.addr", "REEFKB_REDIS_ADDR", validateEnvHostPort},
		{"cache.redis.password", "REEFKB_REDIS_PASSWORD", nil},

		{"sentry.enabled", "REEFKB_SENTRY_ENABLED", validateEnvBool},
		{"sentry.dsn", "REEFKB_SENTRY_DSN", nil},
	}
}

// bindEnvVars binds every variable and validates values that are set
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to bind %s: %v", binding.EnvVar, err))
			continue
		}
		if binding.Validate == nil {
			continue
		}
		if value := os.Getenv(binding.EnvVar); value != "" {
			if err := binding.Validate(value); err != nil {
				warnings = append(warnings, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, value, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got '%s'", value)
	}
	return nil
}

func validateEnvHostPort(value string) error {
	_, port, err := net.SplitHostPort(value)
	if err != nil {
		return fmt.Errorf("expected host:port: %w", err)
	}
	return validateEnvPort(port)
}

func validateEnvOneOf(allowed ...string) func(string) error {
	return func(value string) error {
		if !slices.Contains(allowed, strings.ToLower(strings.TrimSpace(value))) {
			return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}
