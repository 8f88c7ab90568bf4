package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// SequencingRepository provides access to biosamples and polymorphic sequencing efforts.
type SequencingRepository interface {
	// CreateBioSample inserts a biosample.
	CreateBioSample(ctx context.Context, sample *entities.NCBIBioSample) error

	// Create inserts the base row and then the variant row of effort.
	Create(ctx context.Context, effort entities.SequencingEffort) error

	// ListByFragment returns the sequencing efforts of a fragment, as concrete
	// variants, in insertion order.
	ListByFragment(ctx context.Context, fragmentID uint) ([]entities.SequencingEffort, error)
}
