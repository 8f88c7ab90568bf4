package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
)

// UserRepository provides access to researchers.
type UserRepository interface {
	// Create inserts a new user. Email and username must be unique.
	Create(ctx context.Context, user *entities.User) error

	// FindByName returns the one user with the given first and last name.
	FindByName(ctx context.Context, firstName, lastName string) (*entities.User, error)

	// FindByUsername returns the user with the given username.
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}

// CampaignRepository provides access to research campaigns.
type CampaignRepository interface {
	// Create inserts a campaign. LeadUserID must be set; Participants, when
	// present, must be persisted users and only their join rows are written.
	Create(ctx context.Context, campaign *entities.Campaign) error

	// AddParticipant links an existing user to an existing campaign.
	AddParticipant(ctx context.Context, campaignID, userID uint) error

	// FindByName returns the campaign with the given unique name, with its
	// lead user and participants loaded.
	FindByName(ctx context.Context, name string) (*entities.Campaign, error)

	// List returns all campaigns ordered by start date.
	List(ctx context.Context) ([]entities.Campaign, error)
}
