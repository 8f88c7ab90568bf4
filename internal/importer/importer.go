// Package importer loads a submission workbook into the catalogue. The five
// sheets are processed in dependency order inside one transaction; any
// error rolls the whole submission back.
package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/observability/metrics"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// errDryRun rolls back the transaction of a dry run.
var errDryRun = errors.NewStd("dry run")

// Recorder receives import metrics. *metrics.ImporterMetrics implements it.
type Recorder interface {
	RecordRun(outcome string, d time.Duration)
	RecordRows(sheet string, rows int)
	RecordEntities(kind string, count int)
	RecordError(errorType string)
}

var _ Recorder = (*metrics.ImporterMetrics)(nil)

type noopRecorder struct{}

func (noopRecorder) RecordRun(string, time.Duration) {}
func (noopRecorder) RecordRows(string, int)          {}
func (noopRecorder) RecordEntities(string, int)      {}
func (noopRecorder) RecordError(string)              {}

// Options control one import.
type Options struct {
	Campaign string // name of an existing campaign
	DryRun   bool   // process everything, then roll back
}

// Option configures an Importer.
type Option func(*Importer)

// WithTaxonomy sets the registry used to create unknown coral species.
func WithTaxonomy(t *Taxonomy) Option {
	return func(imp *Importer) {
		imp.taxonomy = t
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(imp *Importer) {
		imp.metrics = r
	}
}

// Importer imports submissions into a store. Imports must not run
// concurrently against the same database.
type Importer struct {
	store    *repository.Store
	photos   photostore.Store
	taxonomy *Taxonomy
	metrics  Recorder
	log      logger.Logger
}

// New creates an Importer. photos may be nil when no submission references
// a photo.
func New(store *repository.Store, photos photostore.Store, opts ...Option) *Importer {
	imp := &Importer{
		store:    store,
		photos:   photos,
		taxonomy: NewTaxonomy(),
		metrics:  noopRecorder{},
		log:      GetLogger(),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import reads every sheet of src and stores the submission. On failure
// nothing is written and the returned error wraps a *FormatError,
// *ReferenceError, *ResourceError or *DuplicateSubmissionError when the
// submission itself is at fault.
func (imp *Importer) Import(ctx context.Context, src sheet.Source, opts Options) (*Summary, error) {
	start := time.Now()
	summary := newSummary()
	summary.RunID = uuid.NewString()
	summary.Campaign = opts.Campaign
	summary.DryRun = opts.DryRun
	if id, ok := src.(sheet.Identified); ok {
		identity := id.Identity()
		summary.Workbook, summary.Checksum = identity.Name, identity.Checksum
	}

	ctx = logger.WithTraceID(ctx, summary.RunID)
	log := imp.log.WithContext(ctx).With(logger.String("run_id", summary.RunID))
	log.Info("import started",
		logger.String("workbook", summary.Workbook),
		logger.String("campaign", opts.Campaign),
		logger.Bool("dry_run", opts.DryRun))

	err := imp.importRows(ctx, src, opts, summary, log)
	summary.Duration = time.Since(start)
	if err != nil {
		class := errorClass(err)
		imp.metrics.RecordError(class)
		imp.metrics.RecordRun(metrics.OutcomeFailed, summary.Duration)
		log.Error("import failed", logger.String("error_type", class), logger.Error(err))
		return nil, classify(err)
	}

	outcome := metrics.OutcomeCommitted
	if opts.DryRun {
		outcome = metrics.OutcomeDryRun
	}
	for name, n := range summary.Rows {
		imp.metrics.RecordRows(name, n)
	}
	if !opts.DryRun {
		for kind, n := range summary.Created {
			imp.metrics.RecordEntities(kind, n)
		}
	}
	imp.metrics.RecordRun(outcome, summary.Duration)
	log.Info("import finished",
		logger.String("outcome", outcome),
		logger.Duration("duration", summary.Duration),
		logger.Any("created", summary.Created))
	return summary, nil
}

func (imp *Importer) importRows(ctx context.Context, src sheet.Source, opts Options, summary *Summary, log logger.Logger) error {
	rows, err := loadSheets(ctx, src)
	if err != nil {
		return err
	}

	err = imp.store.Transaction(ctx, func(tx *repository.Store) error {
		campaign, err := findCampaign(ctx, tx, opts.Campaign)
		if err != nil {
			return err
		}
		if err := preflight(ctx, tx, rows, summary.Checksum); err != nil {
			return err
		}

		audit := &entities.ImportRun{
			ID:               summary.RunID,
			CampaignID:       campaign.ID,
			WorkbookName:     summary.Workbook,
			WorkbookChecksum: summary.Checksum,
			StartedAt:        time.Now(),
		}
		if err := tx.ImportRuns.Begin(ctx, audit); err != nil {
			return err
		}

		r := newRun(tx, campaign, imp.photos, imp.taxonomy, summary, log)
		if err := r.process(ctx, rows); err != nil {
			return err
		}

		status := entities.ImportRunCommitted
		if opts.DryRun {
			status = entities.ImportRunDryRun
		}
		payload, err := summary.JSON()
		if err != nil {
			return err
		}
		if err := tx.ImportRuns.Finish(ctx, audit.ID, status, payload, nil); err != nil {
			return err
		}
		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		return nil
	}
	return err
}

// loadSheets reads all sheets in parallel. Processing needs every sheet, so
// the first failure cancels the rest.
func loadSheets(ctx context.Context, src sheet.Source) (map[sheet.Name][]sheet.Row, error) {
	names := sheet.Names()
	loaded := make([][]sheet.Row, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			rows, err := src.Rows(gctx, name)
			if err != nil {
				return err
			}
			loaded[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make(map[sheet.Name][]sheet.Row, len(names))
	for i, name := range names {
		rows[name] = loaded[i]
	}
	return rows, nil
}

func findCampaign(ctx context.Context, tx *repository.Store, name string) (*entities.Campaign, error) {
	if name == "" {
		return nil, &ReferenceError{Reference: "campaign", Key: name, Err: ErrUnknownCampaign}
	}
	campaign, err := tx.Campaigns.FindByName(ctx, name)
	if err != nil {
		return nil, lookupFailure("", 0, "campaign", name, err)
	}
	return campaign, nil
}

// process runs the sheet processors in dependency order.
func (r *run) process(ctx context.Context, rows map[sheet.Name][]sheet.Row) error {
	steps := []struct {
		name sheet.Name
		fn   func(context.Context, sheet.Row) error
	}{
		{sheet.Site, r.importSite},
		{sheet.Experiment, r.importExperiment},
		{sheet.Dive, r.importDive},
		{sheet.Colony, r.importColony},
		{sheet.Sample, r.importSample},
	}
	for _, step := range steps {
		for _, row := range rows[step.name] {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := step.fn(ctx, row); err != nil {
				return err
			}
		}
		r.summary.addRows(step.name, len(rows[step.name]))
		r.log.Debug("sheet imported", logger.String("sheet", string(step.name)), logger.Int("rows", len(rows[step.name])))
	}
	return nil
}
