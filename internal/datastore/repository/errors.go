package repository

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/reefgenomics/reefkb/internal/errors"
	"gorm.io/gorm"
)

// Generic failure modes. Entity specific sentinels below wrap ErrNotFound.
var (
	// ErrNotFound indicates that a natural-key lookup matched no rows.
	ErrNotFound = errors.NewStd("not found")

	// ErrAmbiguous indicates that a lookup expecting one row matched several.
	ErrAmbiguous = errors.NewStd("ambiguous match")

	// ErrDuplicateKey indicates a unique constraint violation.
	ErrDuplicateKey = errors.NewStd("duplicate key")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.NewStd("invalid input")

	// ErrWrongVariant indicates a polymorphic row exists but is of another subtype.
	ErrWrongVariant = errors.NewStd("wrong variant")

	// ErrAssayMismatch rejects an assay fragment whose heat stress profile
	// belongs to another assay than the fragment's colony.
	ErrAssayMismatch = errors.NewStd("heat stress profile belongs to another assay")
)

var (
	ErrUserNotFound              = fmt.Errorf("user %w", ErrNotFound)
	ErrCampaignNotFound          = fmt.Errorf("campaign %w", ErrNotFound)
	ErrRegionNotFound            = fmt.Errorf("region %w", ErrNotFound)
	ErrSiteNotFound              = fmt.Errorf("site %w", ErrNotFound)
	ErrEnvironmentRecordNotFound = fmt.Errorf("environment record %w", ErrNotFound)
	ErrDiveNotFound              = fmt.Errorf("dive %w", ErrNotFound)
	ErrCoralSpeciesNotFound      = fmt.Errorf("coral species %w", ErrNotFound)
	ErrColonyNotFound            = fmt.Errorf("colony %w", ErrNotFound)
	ErrAssayNotFound             = fmt.Errorf("assay %w", ErrNotFound)
	ErrCBASSAssayNotFound        = fmt.Errorf("cbass assay %w", ErrNotFound)
	ErrHeatStressProfileNotFound = fmt.Errorf("heat stress profile %w", ErrNotFound)
	ErrFragmentNotFound          = fmt.Errorf("fragment %w", ErrNotFound)
	ErrFragmentPhotoNotFound     = fmt.Errorf("fragment photo %w", ErrNotFound)
	ErrImportRunNotFound         = fmt.Errorf("import run %w", ErrNotFound)
)

// LookupError reports a failed natural-key lookup.
type LookupError struct {
	Entity string // e.g. "dive"
	Key    string // the natural key searched for
	Count  int    // rows matched, 0 or 2 (capped)
	Err    error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, ErrAmbiguous) {
		return fmt.Sprintf("%s %q: %v", e.Entity, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// DuplicateKeyError is a unique constraint violation translated from the
// driver. Constraint names the violated index or column where the driver
// reports it.
type DuplicateKeyError struct {
	Constraint string
	Detail     string
	Err        error
}

func (e *DuplicateKeyError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("duplicate key: %s", e.Detail)
	}
	return fmt.Sprintf("duplicate key on %s: %s", e.Constraint, e.Detail)
}

// Unwrap exposes both ErrDuplicateKey and the driver error.
func (e *DuplicateKeyError) Unwrap() []error {
	return []error{ErrDuplicateKey, e.Err}
}

// Involves reports whether the violated constraint is the unique index of
// kind. SQLite names it "<table>.<column>", MySQL and PostgreSQL report the
// index name, "idx_<table>_<column>" for indexes created by gorm.
func (e *DuplicateKeyError) Involves(kind NaturalKey) bool {
	col, ok := naturalKeyColumns[kind]
	if !ok || e.Constraint == "" {
		return false
	}
	return e.Constraint == col.table+"."+col.column ||
		strings.HasSuffix(e.Constraint, "idx_"+col.table+"_"+col.column)
}

// translateDuplicate returns a *DuplicateKeyError when err is a unique
// constraint violation of any supported driver, and nil otherwise.
func translateDuplicate(err error) *DuplicateKeyError {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
			sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
			return nil
		}
		msg := sqliteErr.Error()
		constraint := ""
		if _, after, ok := strings.Cut(msg, "constraint failed: "); ok {
			constraint = after
		}
		return &DuplicateKeyError{Constraint: constraint, Detail: msg, Err: err}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.Number != 1062 {
			return nil
		}
		constraint := ""
		if _, after, ok := strings.Cut(mysqlErr.Message, "for key '"); ok {
			constraint = strings.TrimSuffix(after, "'")
		}
		return &DuplicateKeyError{Constraint: constraint, Detail: mysqlErr.Message, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return nil
		}
		return &DuplicateKeyError{Constraint: pgErr.ConstraintName, Detail: pgErr.Detail, Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateKeyError{Detail: err.Error(), Err: err}
	}
	return nil
}

// writeError classifies a failed write. Duplicates come back as
// *DuplicateKeyError, everything else as a database EnhancedError.
func writeError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if dup := translateDuplicate(err); dup != nil {
		return dup
	}
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}

// readError wraps a failed query.
func readError(err error, operation string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Build()
}
