package repository

import (
	"context"
	"fmt"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/errors"
	"gorm.io/gorm"
)

// fragmentRepository implements FragmentRepository.
type fragmentRepository struct {
	db *gorm.DB
}

// NewFragmentRepository creates a new FragmentRepository.
func NewFragmentRepository(db *gorm.DB) FragmentRepository {
	return &fragmentRepository{db: db}
}

func (r *fragmentRepository) Create(ctx context.Context, fragment entities.Fragment) error {
	if fragment == nil || fragment.Common() == nil {
		return ErrInvalidInput
	}
	base := fragment.Common()
	if base.ColonyID == 0 || base.Label == "" {
		return ErrInvalidInput
	}
	base.Type = fragment.FragmentType()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Colony").Create(base).Error; err != nil {
			return writeError(err, "create_fragment")
		}

		switch v := fragment.(type) {
		case *entities.CBASSNucleicAcidFragment:
			v.FragmentID = base.ID
		case *entities.CBASSAssayFragment:
			if v.HeatStressProfileID == 0 {
				return ErrInvalidInput
			}
			if err := checkProfileAssay(tx, base.ColonyID, v.HeatStressProfileID); err != nil {
				return err
			}
			v.FragmentID = base.ID
		}
		err := tx.Omit("Fragment", "HeatStressProfile", "Photo").Create(fragment).Error
		return writeError(err, "create_"+string(base.Type))
	})
}

func (r *fragmentRepository) FindByLabel(ctx context.Context, label string) (entities.Fragment, error) {
	base, err := findOne[entities.FragmentBase](ctx, r.db, "fragment", label, ErrFragmentNotFound, "label = ?", label)
	if err != nil {
		return nil, err
	}
	return r.loadVariant(ctx, base)
}

func (r *fragmentRepository) ListByColony(ctx context.Context, colonyID uint) ([]entities.Fragment, error) {
	var bases []entities.FragmentBase
	if err := r.db.WithContext(ctx).Where("colony_id = ?", colonyID).Order("id").Find(&bases).Error; err != nil {
		return nil, readError(err, "list_fragments")
	}

	fragments := make([]entities.Fragment, 0, len(bases))
	for i := range bases {
		f, err := r.loadVariant(ctx, &bases[i])
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

// loadVariant fetches the variant row selected by the base discriminator.
func (r *fragmentRepository) loadVariant(ctx context.Context, base *entities.FragmentBase) (entities.Fragment, error) {
	db := r.db.WithContext(ctx)
	switch base.Type {
	case entities.FragmentTypeNucleicAcid:
		var v entities.CBASSNucleicAcidFragment
		if err := db.Where("fragment_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_nucleic_acid_fragment")
		}
		v.Fragment = base
		return &v, nil
	case entities.FragmentTypeAssay:
		var v entities.CBASSAssayFragment
		if err := db.Preload("HeatStressProfile").Preload("Photo").
			Where("fragment_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_assay_fragment")
		}
		v.Fragment = base
		return &v, nil
	default:
		return nil, fmt.Errorf("fragment %d: unknown type %q: %w", base.ID, base.Type, ErrWrongVariant)
	}
}

func (r *fragmentRepository) CreatePhoto(ctx context.Context, photo *entities.CBASSFragmentPhoto) error {
	if photo == nil || photo.Name == "" {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Create(photo).Error, "create_cbass_fragment_photo")
}

func (r *fragmentRepository) FindPhotoByName(ctx context.Context, name string) (*entities.CBASSFragmentPhoto, error) {
	return findOne[entities.CBASSFragmentPhoto](ctx, r.db, "fragment photo", name, ErrFragmentPhotoNotFound,
		"name = ?", name)
}

// checkProfileAssay enforces that a heat stress profile and the colony a
// fragment is cut from belong to the same CBASS assay.
func checkProfileAssay(tx *gorm.DB, colonyID, profileID uint) error {
	var colony entities.Colony
	if err := tx.Select("id", "assay_id").Take(&colony, colonyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColonyNotFound
		}
		return readError(err, "check_profile_assay")
	}
	var profile entities.HeatStressProfile
	if err := tx.Select("id", "cbass_assay_id").Take(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHeatStressProfileNotFound
		}
		return readError(err, "check_profile_assay")
	}
	if profile.CBASSAssayID != colony.AssayID {
		return fmt.Errorf("profile %d of assay %d, colony of assay %d: %w",
			profileID, profile.CBASSAssayID, colony.AssayID, ErrAssayMismatch)
	}
	return nil
}
