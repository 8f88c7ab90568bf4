package repository

import (
	"context"
	"fmt"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// siteRepository implements SiteRepository.
type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository creates a new SiteRepository.
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) CreateRegion(ctx context.Context, region *entities.Region) error {
	if region == nil || region.Name == "" {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Create(region).Error, "create_region")
}

func (r *siteRepository) FindRegionByName(ctx context.Context, name string) (*entities.Region, error) {
	return findOne[entities.Region](ctx, r.db, "region", name, ErrRegionNotFound, "name = ?", name)
}

func (r *siteRepository) Create(ctx context.Context, site *entities.Site) error {
	if site == nil || site.NameAbbreviation == "" {
		return ErrInvalidInput
	}
	return writeError(r.db.WithContext(ctx).Omit(clause.Associations).Create(site).Error, "create_site")
}

func (r *siteRepository) Get(ctx context.Context, id uint) (*entities.Site, error) {
	return findOne[entities.Site](ctx, r.db, "site", fmt.Sprint(id), ErrSiteNotFound, "id = ?", id)
}

func (r *siteRepository) FindByAbbreviation(ctx context.Context, abbreviation string) (*entities.Site, error) {
	return findOne[entities.Site](ctx, r.db, "site", abbreviation, ErrSiteNotFound,
		"name_abbreviation = ?", abbreviation)
}

func (r *siteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Site{}, id)
	if result.Error != nil {
		return writeError(result.Error, "delete_site")
	}
	if result.RowsAffected == 0 {
		return &LookupError{Entity: "site", Key: fmt.Sprint(id), Err: ErrSiteNotFound}
	}
	return nil
}

func (r *siteRepository) CreateEnvironmentRecord(ctx context.Context, record *entities.EnvironmentRecord) error {
	if record == nil || record.SiteID == 0 {
		return ErrInvalidInput
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
	return writeError(err, "create_environment_record")
}

func (r *siteRepository) FindEnvironmentRecordByLabel(ctx context.Context, label string) (*entities.EnvironmentRecord, error) {
	return findOne[entities.EnvironmentRecord](ctx, r.db, "environment record", label,
		ErrEnvironmentRecordNotFound, "label = ?", label)
}
