package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// SiteRepository provides access to regions, sites and their environment records.
type SiteRepository interface {
	// CreateRegion inserts a region.
	CreateRegion(ctx context.Context, region *entities.Region) error

	// FindRegionByName returns the region with the given unique name.
	FindRegionByName(ctx context.Context, name string) (*entities.Region, error)

	// Create inserts a site.
	Create(ctx context.Context, site *entities.Site) error

	// Get returns the site with the given ID.
	Get(ctx context.Context, id uint) (*entities.Site, error)
	// FindByAbbreviation returns the site with the given name abbreviation.
	FindByAbbreviation(ctx context.Context, abbreviation string) (*entities.Site, error)

	// Delete removes a site. The database cascades the delete to its
	// environment records, dives, colonies, assays and everything below them.
	Delete(ctx context.Context, id uint) error

	// CreateEnvironmentRecord inserts an environment record.
	CreateEnvironmentRecord(ctx context.Context, record *entities.EnvironmentRecord) error

	// FindEnvironmentRecordByLabel returns the record with the given label.
	FindEnvironmentRecordByLabel(ctx context.Context, label string) (*entities.EnvironmentRecord, error)
}
