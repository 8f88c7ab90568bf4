package importer

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// keyColumn is a set of workbook columns whose values become a natural key.
type keyColumn struct {
	sheet   sheet.Name
	columns []string
	kind    repository.NaturalKey
	// shared columns may repeat: several SITE rows record the same site.
	shared bool
	// pairedWith must hold the same value whenever a shared key repeats.
	pairedWith string
	// stored maps a cell to the value the database keeps, if they differ.
	stored func(string) string
}

var keyColumns = []keyColumn{
	{sheet: sheet.Site, columns: []string{colSiteAbbreviation}, kind: repository.NaturalKeySiteAbbreviation, shared: true},
	{sheet: sheet.Site, columns: []string{colSiteName}, kind: repository.NaturalKeySiteName, shared: true, pairedWith: colSiteAbbreviation},
	{sheet: sheet.Site, columns: []string{colRecordLabel}, kind: repository.NaturalKeyEnvironmentRecordLabel},
	{sheet: sheet.Experiment, columns: []string{colExperimentLabel}, kind: repository.NaturalKeyAssayLabel},
	{sheet: sheet.Dive, columns: []string{colDiveLabel}, kind: repository.NaturalKeyDiveLabel},
	{sheet: sheet.Dive, columns: diveTablePhotoColumnNames(), kind: repository.NaturalKeyDiveTablePhotoName, stored: photostore.StoredName},
	{sheet: sheet.Colony, columns: []string{colColonyLabel}, kind: repository.NaturalKeyColonyLabel},
	{sheet: sheet.Colony, columns: []string{colColonyPhotoLabel}, kind: repository.NaturalKeyColonyPhotoName, stored: photostore.StoredName},
	{sheet: sheet.Sample, columns: []string{colSampleLabel}, kind: repository.NaturalKeyFragmentLabel},
}

// preflight rejects a workbook before anything is written when it was
// already imported, repeats one of its own labels, or would create a natural
// key that is already stored. Absent key cells are left to the row
// processors.
func preflight(ctx context.Context, tx *repository.Store, rows map[sheet.Name][]sheet.Row, checksum string) error {
	if checksum != "" {
		prev, err := tx.ImportRuns.FindCommittedByChecksum(ctx, checksum)
		switch {
		case err == nil:
			return &DuplicateSubmissionError{Kind: "workbook", Key: checksum, Keys: []string{checksum}, RunID: prev.ID}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}

	for _, kc := range keyColumns {
		keys, err := collectKeys(kc, rows[kc.sheet])
		if err != nil {
			return err
		}
		existing, err := tx.NaturalKeys.Existing(ctx, kc.kind, keys)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &DuplicateSubmissionError{Kind: string(kc.kind), Key: existing[0], Keys: existing}
		}
	}
	return nil
}

// collectKeys returns the distinct stored values of a key column in row
// order.
func collectKeys(kc keyColumn, rows []sheet.Row) ([]string, error) {
	seen := make(map[string]string, len(rows))
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, column := range kc.columns {
			v := normalizeCell(row.Get(column))
			if isAbsent(v) {
				continue
			}
			if kc.stored != nil {
				v = kc.stored(v)
			}
			pair := ""
			if kc.pairedWith != "" {
				pair = normalizeCell(row.Get(kc.pairedWith))
			}
			if first, ok := seen[v]; ok {
				if kc.shared && first == pair {
					continue
				}
				return nil, &FormatError{Sheet: kc.sheet, Row: row.Number, Field: column, Value: v, Err: ErrRepeatedKey}
			}
			seen[v] = pair
			keys = append(keys, v)
		}
	}
	return keys, nil
}
