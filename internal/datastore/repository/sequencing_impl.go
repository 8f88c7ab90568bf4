package repository

import (
	"context"
	"fmt"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/gorm"
)

// sequencingRepository implements SequencingRepository.
type sequencingRepository struct {
	db *gorm.DB
}

// NewSequencingRepository creates a new SequencingRepository.
func NewSequencingRepository(db *gorm.DB) SequencingRepository {
	return &sequencingRepository{db: db}
}

func (r *sequencingRepository) CreateBioSample(ctx context.Context, sample *entities.NCBIBioSample) error {
	if sample == nil {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Create(sample).Error, "create_ncbi_biosample")
}

func (r *sequencingRepository) Create(ctx context.Context, effort entities.SequencingEffort) error {
	if effort == nil || effort.Common() == nil {
		return ErrInvalidInput
	}
	base := effort.Common()
	if base.FragmentID == 0 {
		return ErrInvalidInput
	}
	base.Type = effort.SequencingType()

	if b, ok := effort.(*entities.SequencingEffortBarcode); ok && !b.Barcode.Valid() {
		return fmt.Errorf("barcode %q: %w", b.Barcode, ErrInvalidInput)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Fragment", "NCBIBioSample").Create(base).Error; err != nil {
			return writeError(err, "create_sequencing_effort")
		}

		switch v := effort.(type) {
		case *entities.SequencingEffortBarcode:
			v.SequencingEffortID = base.ID
		case *entities.SequencingEffortMetagenomic:
			v.SequencingEffortID = base.ID
		case *entities.SequencingEffortRNASeq:
			v.SequencingEffortID = base.ID
		}
		return writeError(tx.Omit("Effort").Create(effort).Error, "create_"+string(base.Type))
	})
}

func (r *sequencingRepository) ListByFragment(ctx context.Context, fragmentID uint) ([]entities.SequencingEffort, error) {
	var bases []entities.SequencingEffortBase
	if err := r.db.WithContext(ctx).Where("fragment_id = ?", fragmentID).Order("id").Find(&bases).Error; err != nil {
		return nil, readError(err, "list_sequencing_efforts")
	}

	efforts := make([]entities.SequencingEffort, 0, len(bases))
	for i := range bases {
		e, err := r.loadVariant(ctx, &bases[i])
		if err != nil {
			return nil, err
		}
		efforts = append(efforts, e)
	}
	return efforts, nil
}

func (r *sequencingRepository) loadVariant(ctx context.Context, base *entities.SequencingEffortBase) (entities.SequencingEffort, error) {
	db := r.db.WithContext(ctx)
	switch base.Type {
	case entities.SequencingTypeBarcode:
		var v entities.SequencingEffortBarcode
		if err := db.Where("sequencing_effort_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_barcode_effort")
		}
		v.Effort = base
		return &v, nil
	case entities.SequencingTypeMetagenomic:
		var v entities.SequencingEffortMetagenomic
		if err := db.Where("sequencing_effort_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_metagenomic_effort")
		}
		v.Effort = base
		return &v, nil
	case entities.SequencingTypeRNASeq:
		var v entities.SequencingEffortRNASeq
		if err := db.Where("sequencing_effort_id = ?", base.ID).Take(&v).Error; err != nil {
			return nil, readError(err, "load_rnaseq_effort")
		}
		v.Effort = base
		return &v, nil
	default:
		return nil, fmt.Errorf("sequencing effort %d: unknown type %q: %w", base.ID, base.Type, ErrWrongVariant)
	}
}
