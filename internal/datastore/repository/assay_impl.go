package repository

import (
	"context"
	"fmt"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/errors"
	"gorm.io/gorm"
)

// assayRepository implements AssayRepository.
type assayRepository struct {
	db *gorm.DB
}

// NewAssayRepository creates a new AssayRepository.
func NewAssayRepository(db *gorm.DB) AssayRepository {
	return &assayRepository{db: db}
}

func (r *assayRepository) Create(ctx context.Context, assay entities.Assay) error {
	if assay == nil || assay.Common() == nil {
		return ErrInvalidInput
	}
	base := assay.Common()
	base.Type = assay.AssayType()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("EnvironmentRecord", "Campaign", "Site", "Scientists.*").Create(base).Error
		if err != nil {
			return writeError(err, "create_assay")
		}

		switch v := assay.(type) {
		case *entities.CBASSAssay:
			v.AssayID = base.ID
		case *entities.CalcificationAssay:
			v.AssayID = base.ID
		}
		return writeError(tx.Omit("Assay").Create(assay).Error, "create_"+string(base.Type))
	})
}

func (r *assayRepository) Get(ctx context.Context, id uint) (entities.Assay, error) {
	base, err := findOne[entities.AssayBase](ctx, r.db, "assay", fmt.Sprint(id),
		ErrAssayNotFound, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return r.loadVariant(ctx, base)
}

func (r *assayRepository) FindByLabel(ctx context.Context, label string) (entities.Assay, error) {
	base, err := findOne[entities.AssayBase](ctx, r.db.Preload("Scientists"), "assay", label,
		ErrAssayNotFound, "label = ?", label)
	if err != nil {
		return nil, err
	}
	return r.loadVariant(ctx, base)
}

func (r *assayRepository) FindCBASSByLabel(ctx context.Context, label string) (*entities.CBASSAssay, error) {
	assay, err := r.FindByLabel(ctx, label)
	if err != nil {
		var lookupErr *LookupError
		if errors.As(err, &lookupErr) && errors.Is(err, ErrNotFound) {
			lookupErr.Entity = "cbass assay"
			lookupErr.Err = ErrCBASSAssayNotFound
		}
		return nil, err
	}
	cbass, ok := assay.(*entities.CBASSAssay)
	if !ok {
		return nil, &LookupError{
			Entity: "cbass assay",
			Key:    label,
			Err:    errors.Join(ErrCBASSAssayNotFound, ErrWrongVariant),
		}
	}
	return cbass, nil
}

// loadVariant fetches the variant row selected by the base discriminator.
func (r *assayRepository) loadVariant(ctx context.Context, base *entities.AssayBase) (entities.Assay, error) {
	db := r.db.WithContext(ctx)
	switch base.Type {
	case entities.AssayTypeCBASS:
		var v entities.CBASSAssay
		if err := db.Where("assay_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_cbass_assay")
		}
		v.Assay = base
		return &v, nil
	case entities.AssayTypeCalcification:
		var v entities.CalcificationAssay
		if err := db.Where("assay_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_calcification_assay")
		}
		v.Assay = base
		return &v, nil
	default:
		return nil, fmt.Errorf("assay %d: unknown type %q: %w", base.ID, base.Type, ErrWrongVariant)
	}
}

func (r *assayRepository) FindHeatStressProfile(ctx context.Context, cbassAssayID uint, temperature float64) (*entities.HeatStressProfile, error) {
	return findOne[entities.HeatStressProfile](ctx, r.db, "heat stress profile",
		fmt.Sprintf("%d@%g", cbassAssayID, temperature), ErrHeatStressProfileNotFound,
		"cbass_assay_id = ? AND relative_challenge_temperature = ?", cbassAssayID, temperature)
}

func (r *assayRepository) GetOrCreateHeatStressProfile(ctx context.Context, cbassAssayID uint, temperature float64) (*entities.HeatStressProfile, bool, error) {
	profile, err := r.FindHeatStressProfile(ctx, cbassAssayID, temperature)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	profile = &entities.HeatStressProfile{
		CBASSAssayID:                 cbassAssayID,
		RelativeChallengeTemperature: temperature,
	}
	if err := r.db.WithContext(ctx).Omit("CBASSAssay").Create(profile).Error; err != nil {
		return nil, false, writeError(err, "create_heat_stress_profile")
	}
	return profile, true, nil
}
