// Package submission provides the import command that stores a submission
// workbook in the catalogue
package submission

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/datastore"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/importer"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/observability"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
	"github.com/reefgenomics/reefkb/internal/sheet/cache"
)

// flags holds the command line overrides of the importer settings.
type flags struct {
	campaign string
	photos   string
	dryRun   bool
	csv      bool
}

// Command creates and returns the import command
func Command(settings *conf.Settings) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "import <workbook>",
		Short: "Import a submission workbook",
		Long: `Import reads the SITE, EXPERIMENT, DIVE, COLONY and SAMPLE sheets of a
submission workbook and stores every row in one transaction. Any error
leaves the database unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cmd.OutOrStdout(), resolve(settings, f), args[0], f.csv)
		},
	}

	// Set up flags specific to the 'import' command
	cmd.Flags().StringVar(&f.campaign, "campaign", "", "Campaign the submission belongs to (default importer.campaign)")
	cmd.Flags().StringVar(&f.photos, "photos", "", "Photo directory, overrides the configured photo store")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Validate and roll back without storing anything")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "Read <workbook> as a directory of <SHEET>.csv files")

	return cmd
}

// resolve applies the flags on top of a copy of settings.
func resolve(settings *conf.Settings, f flags) *conf.Settings {
	s := *settings
	if f.campaign != "" {
		s.Importer.Campaign = f.campaign
	}
	if f.photos != "" {
		s.Photos.Store = conf.PhotoStoreDir
		s.Photos.Directory = f.photos
	}
	if f.dryRun {
		s.Importer.DryRun = true
	}
	return &s
}

func runImport(ctx context.Context, out io.Writer, settings *conf.Settings, path string, csv bool) error {
	log := logger.Global().Module("import")
	fs := afero.NewOsFs()

	manager, err := datastore.Open(settings)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer manager.Close()

	photos, err := photostore.New(ctx, &settings.Photos)
	if err != nil {
		return fmt.Errorf("failed to open photo store: %w", err)
	}

	taxonomy, err := importer.LoadTaxonomy(fs, settings.Importer.TaxonomyFile)
	if err != nil {
		return err
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return err
	}
	defer func() {
		if err := m.WriteTextfile(settings.Metrics.TextfilePath); err != nil {
			log.Warn("failed to write metrics", logger.Error(err))
		}
	}()

	src, closeSrc, err := openSource(fs, path, csv)
	if err != nil {
		return err
	}
	defer closeSrc()

	sheetCache, err := cache.New(&settings.Cache)
	if err != nil {
		// The cache only saves parsing time.
		log.Warn("sheet cache disabled", logger.Error(err))
	}
	if sheetCache != nil {
		defer sheetCache.Close()
		src = sheet.NewCachedSource(src, sheetCache,
			sheet.WithLayouts(sheet.DefaultLayouts),
			sheet.WithObserver(m.Importer))
	}

	imp := importer.New(repository.NewStore(manager.DB()), photos,
		importer.WithTaxonomy(taxonomy),
		importer.WithMetrics(m.Importer))

	summary, err := imp.Import(ctx, src, importer.Options{
		Campaign: settings.Importer.Campaign,
		DryRun:   settings.Importer.DryRun,
	})
	if err != nil {
		return fmt.Errorf("import of %s failed: %w", path, err)
	}

	printSummary(out, summary)
	return nil
}

// openSource opens an Excel workbook or, with csv set, a directory of
// per-sheet CSV files.
func openSource(fs afero.Fs, path string, csv bool) (sheet.Source, func(), error) {
	if csv {
		return sheet.NewCSVDirSource(fs, path, sheet.DefaultLayouts), func() {}, nil
	}
	src, err := sheet.OpenXLSX(fs, path, sheet.DefaultLayouts)
	if err != nil {
		return nil, nil, err
	}
	return src, func() { _ = src.Close() }, nil
}

func printSummary(out io.Writer, s *importer.Summary) {
	status := "committed"
	if s.DryRun {
		status = "dry run, rolled back"
	}
	fmt.Fprintf(out, "Run %s (%s) for campaign %q in %s\n", s.RunID, status, s.Campaign, s.Duration.Round(time.Millisecond))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range sheet.Names() {
		fmt.Fprintf(w, "  %s rows\t%d\n", name, s.Rows[string(name)])
	}
	for _, kind := range s.Kinds() {
		fmt.Fprintf(w, "  %s\t%d\n", kind, s.Count(kind))
	}
	_ = w.Flush()
}
