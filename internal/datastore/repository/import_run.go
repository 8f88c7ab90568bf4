package repository

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/datatypes"
)

// ImportRunRepository records the audit trail of submission imports.
type ImportRunRepository interface {
	// Begin inserts run with status running. A missing ID is generated.
	Begin(ctx context.Context, run *entities.ImportRun) error

	// Finish sets the final status, summary and error message of a run.
	Finish(ctx context.Context, id string, status entities.ImportRunStatus, summary datatypes.JSON, errMsg *string) error

	// FindCommittedByChecksum returns the most recent committed run of the
	// workbook with the given SHA-256 checksum.
	FindCommittedByChecksum(ctx context.Context, checksum string) (*entities.ImportRun, error)

	// List returns the most recent runs first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]entities.ImportRun, error)
}
