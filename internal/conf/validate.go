// conf/validate.go

package conf

import (
	"fmt"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct and normalizes
// enumerated values to lower case.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	for _, validate := range []func(*Settings) []string{
		validateDatabaseSettings,
		validatePhotoSettings,
		validateCacheSettings,
		validateSentrySettings,
	} {
		ve.Errors = append(ve.Errors, validate(settings)...)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateDatabaseSettings(s *Settings) []string {
	var errs []string
	db := &s.Database
	db.Type = strings.ToLower(strings.TrimSpace(db.Type))

	switch db.Type {
	case DatabaseSQLite:
		if db.SQLite.Path == "" {
			errs = append(errs, "database.sqlite.path must be set")
		}
	case DatabaseMySQL:
		if db.MySQL.Host == "" || db.MySQL.Database == "" || db.MySQL.Username == "" {
			errs = append(errs, "database.mysql requires host, database and username")
		}
	case DatabasePostgres:
		if db.Postgres.Host == "" || db.Postgres.Database == "" || db.Postgres.Username == "" {
			errs = append(errs, "database.postgres requires host, database and username")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.type %q is not one of sqlite, mysql, postgres", db.Type))
	}

	if db.SlowQueryThreshold < 0 {
		errs = append(errs, "database.slowquerythreshold must not be negative")
	}
	return errs
}

func validatePhotoSettings(s *Settings) []string {
	var errs []string
	p := &s.Photos
	p.Store = strings.ToLower(strings.TrimSpace(p.Store))

	switch p.Store {
	case PhotoStoreDir:
		if p.Directory == "" {
			errs = append(errs, "photos.directory must be set for the dir store")
		}
	case PhotoStoreS3:
		if p.S3.Bucket == "" {
			errs = append(errs, "photos.s3.bucket must be set for the s3 store")
		}
		if p.S3.Region == "" {
			errs = append(errs, "photos.s3.region must be set for the s3 store")
		}
	default:
		errs = append(errs, fmt.Sprintf("photos.store %q is not one of dir, s3", p.Store))
	}
	return errs
}

func validateCacheSettings(s *Settings) []string {
	var errs []string
	c := &s.Cache
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))

	switch c.Type {
	case "", CacheNone:
		c.Type = CacheNone
	case CacheMemory:
	case CacheRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "cache.redis.addr must be set for the redis cache")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.type %q is not one of none, memory, redis", c.Type))
	}
	if c.TTL < 0 {
		errs = append(errs, "cache.ttl must not be negative")
	}
	return errs
}

func validateSentrySettings(s *Settings) []string {
	if s.Sentry.Enabled && s.Sentry.DSN == "" {
		return []string{"sentry.dsn must be set when sentry is enabled"}
	}
	return nil
}
