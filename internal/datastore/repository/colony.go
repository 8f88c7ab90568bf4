package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// ColonyRepository provides access to coral species, colonies and colony photos.
type ColonyRepository interface {
	// CreateSpecies inserts a coral species.
	CreateSpecies(ctx context.Context, species *entities.CoralSpecies) error

	// FindSpeciesByBinomial returns the species with the given binomial name.
	FindSpeciesByBinomial(ctx context.Context, binomial string) (*entities.CoralSpecies, error)

	// Create inserts a colony.
	Create(ctx context.Context, colony *entities.Colony) error

	// FindByLabel returns the colony with the given label.
	FindByLabel(ctx context.Context, label string) (*entities.Colony, error)

	// AddPhoto inserts the photo of a colony. A colony has at most one photo.
	AddPhoto(ctx context.Context, photo *entities.ColonyPhoto) error

	// FindPhoto returns the photo of a colony.
	FindPhoto(ctx context.Context, colonyID uint) (*entities.ColonyPhoto, error)
}
