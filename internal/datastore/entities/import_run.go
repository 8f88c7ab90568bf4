package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ImportRunStatus is the outcome of a submission import.
type ImportRunStatus string

const (
	ImportRunRunning   ImportRunStatus = "running"
	ImportRunCommitted ImportRunStatus = "committed"
	ImportRunDryRun    ImportRunStatus = "dry_run"
)

// ImportRun is the audit row written for every committed submission.
// Summary holds the per-kind entity counts as JSON.
type ImportRun struct {
	ID               string          `gorm:"primaryKey;size:36"`
	CampaignID       uint            `gorm:"not null;index"`
	WorkbookName     string          `gorm:"size:500;not null"`
	WorkbookChecksum string          `gorm:"size:64;not null;index"`
	Status           ImportRunStatus `gorm:"size:20;not null;index"`
	StartedAt        time.Time       `gorm:"not null"`
	FinishedAt       *time.Time
	Summary          datatypes.JSON
	Error            *string `gorm:"size:2000"`

	Campaign *Campaign `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (ImportRun) TableName() string {
	return "import_runs"
}
