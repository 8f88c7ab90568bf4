package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// AssayRepository provides polymorphic access to assays and heat stress profiles.
type AssayRepository interface {
	// Create inserts the base row and then the variant row of assay.
	// Scientists on the base must be persisted users; only join rows are written.
	Create(ctx context.Context, assay entities.Assay) error

	// Get returns the assay with the given ID as its concrete variant.
	Get(ctx context.Context, id uint) (entities.Assay, error)
	// FindByLabel returns the assay with the given label as its concrete variant.
	FindByLabel(ctx context.Context, label string) (entities.Assay, error)

	// FindCBASSByLabel returns the CBASS assay with the given label. An assay
	// of another variant yields ErrWrongVariant.
	FindCBASSByLabel(ctx context.Context, label string) (*entities.CBASSAssay, error)

	// FindHeatStressProfile returns the profile of a CBASS assay at the given
	// relative challenge temperature.
	FindHeatStressProfile(ctx context.Context, cbassAssayID uint, temperature float64) (*entities.HeatStressProfile, error)

	// GetOrCreateHeatStressProfile returns the existing profile or creates it.
	// created reports whether a new row was inserted.
	GetOrCreateHeatStressProfile(ctx context.Context, cbassAssayID uint, temperature float64) (profile *entities.HeatStressProfile, created bool, err error)
}
