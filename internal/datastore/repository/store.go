package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles every repository over one database handle.
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Campaigns   CampaignRepository
	Sites       SiteRepository
	Dives       DiveRepository
	Colonies    ColonyRepository
	Assays      AssayRepository
	Fragments   FragmentRepository
	Sequencing  SequencingRepository
	ImportRuns  ImportRunRepository
	NaturalKeys NaturalKeyRepository
}

// NewStore creates a Store whose repositories all share db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Campaigns:   NewCampaignRepository(db),
		Sites:       NewSiteRepository(db),
		Dives:       NewDiveRepository(db),
		Colonies:    NewColonyRepository(db),
		Assays:      NewAssayRepository(db),
		Fragments:   NewFragmentRepository(db),
		Sequencing:  NewSequencingRepository(db),
		ImportRuns:  NewImportRunRepository(db),
		NaturalKeys: NewNaturalKeyRepository(db),
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a new transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
