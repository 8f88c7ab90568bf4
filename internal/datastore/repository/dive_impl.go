package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/gorm"
)

// diveRepository implements DiveRepository.
type diveRepository struct {
	db *gorm.DB
}

// NewDiveRepository creates a new DiveRepository.
func NewDiveRepository(db *gorm.DB) DiveRepository {
	return &diveRepository{db: db}
}

func (r *diveRepository) Create(ctx context.Context, dive *entities.Dive) error {
	if dive == nil || dive.SiteID == 0 {
		return ErrInvalidInput
	}
	if dive.TimeOut.Before(dive.TimeIn) {
		return ErrInvalidInput
	}
	err := r.db.WithContext(ctx).Omit("Site", "Divers.*").Create(dive).Error
	return writeError(err, "create_dive")
}

func (r *diveRepository) FindByLabel(ctx context.Context, label string) (*entities.Dive, error) {
	return findOne[entities.Dive](ctx, r.db.Preload("Site").Preload("Divers"), "dive", label, ErrDiveNotFound, "label = ?", label)
}

func (r *diveRepository) AddPhoto(ctx context.Context, photo *entities.DiveTablePhoto) error {
	if photo == nil || photo.DiveID == 0 {
		return ErrInvalidInput
	}
	err := r.db.WithContext(ctx).Omit("Dive").Create(photo).Error
	return writeError(err, "create_dive_table_photo")
}

func (r *diveRepository) ListPhotos(ctx context.Context, diveID uint) ([]entities.DiveTablePhoto, error) {
	var photos []entities.DiveTablePhoto
	if err := r.db.WithContext(ctx).Where("dive_id = ?", diveID).Order("id").Find(&photos).Error; err != nil {
		return nil, readError(err, "list_dive_table_photos")
	}
	return photos, nil
}
