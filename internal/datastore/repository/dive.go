package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// DiveRepository provides access to dives and dive table photos.
type DiveRepository interface {
	// Create inserts a dive. Divers must be persisted users; only the
	// dive_users join rows are written for them.
	Create(ctx context.Context, dive *entities.Dive) error

	// FindByLabel returns the dive with the given label, its site and divers loaded.
	FindByLabel(ctx context.Context, label string) (*entities.Dive, error)

	// AddPhoto inserts a dive table photo.
	AddPhoto(ctx context.Context, photo *entities.DiveTablePhoto) error

	// ListPhotos returns the dive table photos of a dive.
	ListPhotos(ctx context.Context, diveID uint) ([]entities.DiveTablePhoto, error)
}
