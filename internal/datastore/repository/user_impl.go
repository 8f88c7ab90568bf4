package repository

import (
	"context"
	"strings"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/gorm"
)

// userRepository implements UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	if user == nil || user.Email == "" || user.Username == "" {
		return ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = entities.UserRoleUser
	}
	return writeError(r.db.WithContext(ctx).Create(user).Error, "create_user")
}

func (r *userRepository) FindByName(ctx context.Context, firstName, lastName string) (*entities.User, error) {
	return findOne[entities.User](ctx, r.db, "user", strings.TrimSpace(firstName+" "+lastName), ErrUserNotFound,
		"first_name = ? AND last_name = ?", firstName, lastName)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return findOne[entities.User](ctx, r.db, "user", username, ErrUserNotFound, "username = ?", username)
}

// campaignRepository implements CampaignRepository.
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *entities.Campaign) error {
	if campaign == nil || campaign.LeadUserID == 0 {
		return ErrInvalidInput
	}
	if campaign.EndDate.Before(campaign.StartDate) {
		return ErrInvalidInput
	}
	// Participants are existing users: write join rows only.
	err := r.db.WithContext(ctx).Omit("LeadUser", "Participants.*").Create(campaign).Error
	return writeError(err, "create_campaign")
}

func (r *campaignRepository) AddParticipant(ctx context.Context, campaignID, userID uint) error {
	campaign := entities.Campaign{ID: campaignID}
	user := entities.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&campaign).Omit("Participants.*").
		Association("Participants").Append(&user)
	return writeError(err, "add_campaign_participant")
}

func (r *campaignRepository) FindByName(ctx context.Context, name string) (*entities.Campaign, error) {
	return findOne[entities.Campaign](ctx, r.db.Preload("LeadUser").Preload("Participants"),
		"campaign", name, ErrCampaignNotFound, "name = ?", name)
}

func (r *campaignRepository) List(ctx context.Context) ([]entities.Campaign, error) {
	var campaigns []entities.Campaign
	if err := r.db.WithContext(ctx).Preload("LeadUser").Order("start_date").Find(&campaigns).Error; err != nil {
		return nil, readError(err, "list_campaigns")
	}
	return campaigns, nil
}
