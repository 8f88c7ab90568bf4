package repository

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"
)

// NaturalKey identifies a unique business key column.
type NaturalKey string

const (
	NaturalKeySiteAbbreviation       NaturalKey = "site abbreviation"
	NaturalKeySiteName               NaturalKey = "site name"
	NaturalKeyEnvironmentRecordLabel NaturalKey = "environment record label"
	NaturalKeyAssayLabel             NaturalKey = "assay label"
	NaturalKeyDiveLabel              NaturalKey = "dive label"
	NaturalKeyColonyLabel            NaturalKey = "colony label"
	NaturalKeyFragmentLabel          NaturalKey = "fragment label"
	NaturalKeyCoralSpecies           NaturalKey = "coral species"
	NaturalKeyDiveTablePhotoName     NaturalKey = "dive table photo"
	NaturalKeyColonyPhotoName        NaturalKey = "colony photo"
	NaturalKeyFragmentPhotoName      NaturalKey = "CBASS photo"
)

type keyColumn struct {
	table  string
	column string
}

var naturalKeyColumns = map[NaturalKey]keyColumn{
	NaturalKeySiteAbbreviation:       {"sites", "name_abbreviation"},
	NaturalKeySiteName:               {"sites", "name"},
	NaturalKeyEnvironmentRecordLabel: {"environment_records", "label"},
	NaturalKeyAssayLabel:             {"assays", "label"},
	NaturalKeyDiveLabel:              {"dives", "label"},
	NaturalKeyColonyLabel:            {"colonies", "label"},
	NaturalKeyFragmentLabel:          {"fragments", "label"},
	NaturalKeyCoralSpecies:           {"coral_species", "species_binomial"},
	NaturalKeyDiveTablePhotoName:     {"dive_table_photos", "name"},
	NaturalKeyColonyPhotoName:        {"colony_photos", "name"},
	NaturalKeyFragmentPhotoName:      {"cbass_fragment_photos", "name"},
}

// keyBatchSize stays below SQLite's default bound-parameter limit.
const keyBatchSize = 500

// NaturalKeyRepository answers which natural keys already exist.
type NaturalKeyRepository interface {
	// Existing returns the subset of keys already stored for kind, sorted.
	Existing(ctx context.Context, kind NaturalKey, keys []string) ([]string, error)
}

// naturalKeyRepository implements NaturalKeyRepository.
type naturalKeyRepository struct {
	db *gorm.DB
}

// NewNaturalKeyRepository creates a new NaturalKeyRepository.
func NewNaturalKeyRepository(db *gorm.DB) NaturalKeyRepository {
	return &naturalKeyRepository{db: db}
}

func (r *naturalKeyRepository) Existing(ctx context.Context, kind NaturalKey, keys []string) ([]string, error) {
	col, ok := naturalKeyColumns[kind]
	if !ok {
		return nil, fmt.Errorf("natural key %q: %w", kind, ErrInvalidInput)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var found []string
	for batch := range slices.Chunk(keys, keyBatchSize) {
		var existing []string
		err := r.db.WithContext(ctx).Table(col.table).
			Where(col.column+" IN ?", batch).
			Pluck(col.column, &existing).Error
		if err != nil {
			return nil, readError(err, "existing_natural_keys")
		}
		found = append(found, existing...)
	}
	slices.Sort(found)
	return slices.Compact(found), nil
}
