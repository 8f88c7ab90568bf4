// Package repository provides natural-key lookups and write operations over
// the catalogue entities.
//
// Every Find method follows an exactly-one-or-error contract: zero rows
// return a *LookupError wrapping ErrNotFound (and the entity specific
// sentinel), more than one row returns a *LookupError wrapping ErrAmbiguous.
// Lookups fetch at most two rows and count them instead of relying on
// First(), which would silently truncate ambiguous matches.
//
// Unique constraint violations raised by SQLite, MySQL or PostgreSQL are
// translated into *DuplicateKeyError so callers can report the colliding key.
//
// Repositories are cheap value wrappers around a *gorm.DB. Store bundles all
// of them and can rebind the whole set to a transaction.
package repository
