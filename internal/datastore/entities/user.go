package entities

import "time"

// UserRole is the access role of a catalogue user.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRolePowerUser UserRole = "power_user"
	UserRoleUser      UserRole = "user"
)

// User is a researcher. Submissions reference users by first and last name.
type User struct {
	ID               uint      `gorm:"primaryKey"`
	Role             UserRole  `gorm:"size:20;not null;default:user"`
	Email            string    `gorm:"size:200;not null;uniqueIndex"`
	FirstName        string    `gorm:"size:100;not null;index:idx_user_name"`
	LastName         string    `gorm:"size:100;not null;index:idx_user_name"`
	Username         string    `gorm:"size:100;not null;uniqueIndex"`
	RegistrationDate time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Campaign is a named research project with one lead and many participants.
type Campaign struct {
	ID                      uint      `gorm:"primaryKey"`
	LeadUserID              uint      `gorm:"not null;index"`
	Name                    string    `gorm:"size:200;not null;uniqueIndex"`
	StartDate               time.Time `gorm:"not null"`
	EndDate                 time.Time `gorm:"not null"`
	NCBIBioProjectAccession string    `gorm:"column:ncbi_bio_project_accession;size:10;not null;uniqueIndex"`

	LeadUser     *User  `gorm:"foreignKey:LeadUserID;constraint:OnDelete:CASCADE"`
	Participants []User `gorm:"many2many:campaign_users;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Campaign) TableName() string {
	return "campaigns"
}
