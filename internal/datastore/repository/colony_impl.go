package repository

import (
	"context"
	"fmt"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// colonyRepository implements ColonyRepository.
type colonyRepository struct {
	db *gorm.DB
}

// NewColonyRepository creates a new ColonyRepository.
func NewColonyRepository(db *gorm.DB) ColonyRepository {
	return &colonyRepository{db: db}
}

func (r *colonyRepository) CreateSpecies(ctx context.Context, species *entities.CoralSpecies) error {
	if species == nil || species.SpeciesBinomial == "" || species.NCBITaxID <= 0 {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Create(species).Error, "create_coral_species")
}

func (r *colonyRepository) FindSpeciesByBinomial(ctx context.Context, binomial string) (*entities.CoralSpecies, error) {
	return findOne[entities.CoralSpecies](ctx, r.db, "coral species", binomial, ErrCoralSpeciesNotFound,
		"species_binomial = ?", binomial)
}

func (r *colonyRepository) Create(ctx context.Context, colony *entities.Colony) error {
	if colony == nil || colony.DiveID == 0 || colony.AssayID == 0 || colony.CoralSpeciesID == 0 {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Omit(clause.Associations).Create(colony).Error, "create_colony")
}

func (r *colonyRepository) FindByLabel(ctx context.Context, label string) (*entities.Colony, error) {
	return findOne[entities.Colony](ctx, r.db, "colony", label, ErrColonyNotFound, "label = ?", label)
}

func (r *colonyRepository) AddPhoto(ctx context.Context, photo *entities.ColonyPhoto) error {
	if photo == nil || photo.ColonyID == 0 {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Omit("Colony").Create(photo).Error, "create_colony_photo")
}

func (r *colonyRepository) FindPhoto(ctx context.Context, colonyID uint) (*entities.ColonyPhoto, error) {
	return findOne[entities.ColonyPhoto](ctx, r.db, "colony photo", fmt.Sprint(colonyID), ErrNotFound,
		"colony_id = ?", colonyID)
}
