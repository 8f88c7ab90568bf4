package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// importRunRepository implements ImportRunRepository.
type importRunRepository struct {
	db *gorm.DB
}

// NewImportRunRepository creates a new ImportRunRepository.
func NewImportRunRepository(db *gorm.DB) ImportRunRepository {
	return &importRunRepository{db: db}
}

func (r *importRunRepository) Begin(ctx context.Context, run *entities.ImportRun) error {
	if run == nil || run.CampaignID == 0 {
		return ErrInvalidInput
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Status = entities.ImportRunRunning
	return writeError(r.db.WithContext(ctx).Omit("Campaign").Create(run).Error, "begin_import_run")
}

func (r *importRunRepository) Finish(ctx context.Context, id string, status entities.ImportRunStatus, summary datatypes.JSON, errMsg *string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entities.ImportRun{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"finished_at": now,
			"summary":     summary,
			"error":       errMsg,
		})
	if result.Error != nil {
		return writeError(result.Error, "finish_import_run")
	}
	if result.RowsAffected == 0 {
		return &LookupError{Entity: "import run", Key: id, Err: ErrImportRunNotFound}
	}
	return nil
}

func (r *importRunRepository) FindCommittedByChecksum(ctx context.Context, checksum string) (*entities.ImportRun, error) {
	var runs []entities.ImportRun
	err := r.db.WithContext(ctx).
		Where("workbook_checksum = ? AND status = ?", checksum, entities.ImportRunCommitted).
		Order("started_at DESC").
		Limit(1).
		Find(&runs).Error
	if err != nil {
		return nil, readError(err, "find_import_run")
	}
	if len(runs) == 0 {
		return nil, &LookupError{Entity: "import run", Key: checksum, Err: ErrImportRunNotFound}
	}
	return &runs[0], nil
}

func (r *importRunRepository) List(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	var runs []entities.ImportRun
	q := r.db.WithContext(ctx).Preload("Campaign").Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, readError(err, "list_import_runs")
	}
	return runs, nil
}
