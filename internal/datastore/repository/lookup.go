package repository

import (
	"context"

	"gorm.io/gorm"
)

// findOne runs query against the model table of T and returns the single
// matching row. It never uses First(): two rows are fetched so that an
// ambiguous key is reported instead of silently picking one.
func findOne[T any](ctx context.Context, db *gorm.DB, entity, key string, notFound error, query any, args ...any) (*T, error) {
	var rows []T
	if err := db.WithContext(ctx).Where(query, args...).Limit(2).Find(&rows).Error; err != nil {
		return nil, readError(err, "find_"+entity)
	}

	switch len(rows) {
	case 0:
		return nil, &LookupError{Entity: entity, Key: key, Err: notFound}
	case 1:
		return &rows[0], nil
	default:
		return nil, &LookupError{Entity: entity, Key: key, Count: len(rows), Err: ErrAmbiguous}
	}
}
