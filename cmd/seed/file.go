package seed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/errors"
)

// File is the YAML document read by the seed command.
type File struct {
	Users     []User     `yaml:"users"`
	Regions   []Region   `yaml:"regions"`
	Campaigns []Campaign `yaml:"campaigns"`
}

// User is one researcher entry.
type User struct {
	Username  string `yaml:"username"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Role      string `yaml:"role"` // admin, power_user or user (default)
}

// Region is one region entry.
type Region struct {
	Name         string `yaml:"name"`
	Abbreviation string `yaml:"abbreviation"`
}

// Campaign is one campaign entry. Lead and Participants are usernames.
type Campaign struct {
	Name                    string   `yaml:"name"`
	Lead                    string   `yaml:"lead"`
	Participants            []string `yaml:"participants"`
	StartDate               string   `yaml:"start_date"` // YYYY-MM-DD
	EndDate                 string   `yaml:"end_date"`
	NCBIBioProjectAccession string   `yaml:"ncbi_bioproject_accession"`
}

// Result counts what Apply created and what already existed.
type Result struct {
	Created map[string]int
	Skipped map[string]int
}

func newResult() *Result {
	return &Result{Created: make(map[string]int), Skipped: make(map[string]int)}
}

// Load decodes a seed file. Unknown keys are rejected so typos do not go
// unnoticed.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, seedError(err, "decode")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, u := range f.Users {
		if u.Username == "" || u.FirstName == "" || u.LastName == "" || u.Email == "" {
			return invalid("users[%d]: username, first_name, last_name and email are required", i)
		}
		switch entities.UserRole(u.Role) {
		case "", entities.UserRoleAdmin, entities.UserRolePowerUser, entities.UserRoleUser:
		default:
			return invalid("users[%d]: unknown role %q", i, u.Role)
		}
	}
	for i, r := range f.Regions {
		if r.Name == "" || r.Abbreviation == "" {
			return invalid("regions[%d]: name and abbreviation are required", i)
		}
		if len(r.Abbreviation) > 3 {
			return invalid("regions[%d]: abbreviation %q is longer than 3 characters", i, r.Abbreviation)
		}
	}
	for i, c := range f.Campaigns {
		if c.Name == "" || c.Lead == "" || c.NCBIBioProjectAccession == "" {
			return invalid("campaigns[%d]: name, lead and ncbi_bioproject_accession are required", i)
		}
		start, err := parseDate(c.StartDate)
		if err != nil {
			return invalid("campaigns[%d]: start_date: %v", i, err)
		}
		end, err := parseDate(c.EndDate)
		if err != nil {
			return invalid("campaigns[%d]: end_date: %v", i, err)
		}
		if end.Before(start) {
			return invalid("campaigns[%d]: end_date is before start_date", i)
		}
	}
	return nil
}

// Apply writes the file in one transaction. Users, regions and campaigns
// that already exist by username or name are left untouched.
func Apply(ctx context.Context, store *repository.Store, f *File) (*Result, error) {
	result := newResult()
	err := store.Transaction(ctx, func(tx *repository.Store) error {
		for _, u := range f.Users {
			if err := applyUser(ctx, tx, u, result); err != nil {
				return err
			}
		}
		for _, r := range f.Regions {
			if err := applyRegion(ctx, tx, r, result); err != nil {
				return err
			}
		}
		for _, c := range f.Campaigns {
			if err := applyCampaign(ctx, tx, c, result); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyUser(ctx context.Context, tx *repository.Store, u User, result *Result) error {
	_, err := tx.Users.FindByUsername(ctx, u.Username)
	switch {
	case err == nil:
		result.Skipped["users"]++
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	role := entities.UserRole(u.Role)
	if role == "" {
		role = entities.UserRoleUser
	}
	user := &entities.User{
		Role:      role,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
	if err := tx.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("user %s: %w", u.Username, err)
	}
	result.Created["users"]++
	return nil
}

func applyRegion(ctx context.Context, tx *repository.Store, r Region, result *Result) error {
	_, err := tx.Sites.FindRegionByName(ctx, r.Name)
	switch {
	case err == nil:
		result.Skipped["regions"]++
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	region := &entities.Region{Name: r.Name, Abbreviation: strings.ToUpper(r.Abbreviation)}
	if err := tx.Sites.CreateRegion(ctx, region); err != nil {
		return fmt.Errorf("region %s: %w", r.Name, err)
	}
	result.Created["regions"]++
	return nil
}

func applyCampaign(ctx context.Context, tx *repository.Store, c Campaign, result *Result) error {
	_, err := tx.Campaigns.FindByName(ctx, c.Name)
	switch {
	case err == nil:
		result.Skipped["campaigns"]++
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	lead, err := tx.Users.FindByUsername(ctx, c.Lead)
	if err != nil {
		return fmt.Errorf("campaign %s lead: %w", c.Name, err)
	}
	participants := make([]entities.User, 0, len(c.Participants))
	for _, username := range c.Participants {
		user, err := tx.Users.FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("campaign %s participant: %w", c.Name, err)
		}
		participants = append(participants, *user)
	}

	// Dates were checked by validate.
	start, _ := parseDate(c.StartDate)
	end, _ := parseDate(c.EndDate)
	campaign := &entities.Campaign{
		LeadUserID:              lead.ID,
		Name:                    c.Name,
		StartDate:               start,
		EndDate:                 end,
		NCBIBioProjectAccession: c.NCBIBioProjectAccession,
		Participants:            participants,
	}
	if err := tx.Campaigns.Create(ctx, campaign); err != nil {
		return fmt.Errorf("campaign %s: %w", c.Name, err)
	}
	result.Created["campaigns"]++
	return nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}

func invalid(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("seed").
		Category(errors.CategoryValidation).
		Build()
}

func seedError(err error, operation string) error {
	return errors.New(err).
		Component("seed").
		Category(errors.CategoryFileParsing).
		Context("operation", operation).
		Build()
}
