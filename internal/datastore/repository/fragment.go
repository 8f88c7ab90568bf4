package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// FragmentRepository provides polymorphic access to fragments and their shared photos.
type FragmentRepository interface {
	// Create inserts the base row and then the variant row of fragment.
	Create(ctx context.Context, fragment entities.Fragment) error

	// FindByLabel returns the fragment with the given label as its concrete variant.
	FindByLabel(ctx context.Context, label string) (entities.Fragment, error)

	// ListByColony returns the fragments of a colony in insertion order.
	ListByColony(ctx context.Context, colonyID uint) ([]entities.Fragment, error)

	// CreatePhoto inserts a fragment photo.
	CreatePhoto(ctx context.Context, photo *entities.CBASSFragmentPhoto) error

	// FindPhotoByName returns the fragment photo with the given file name.
	FindPhotoByName(ctx context.Context, name string) (*entities.CBASSFragmentPhoto, error)
}
