package importer

import (
	"context"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// SAMPLE headers.
const (
	colSampleColony       = "colony"
	colSampleType         = "sample type"
	colSampleLabel        = "sample label"
	colSampleTokenLabel   = "sample token label"
	colTreatmentTemp      = "treatment temperature"
	colSamplingTimePoint  = "sampling time point"
	colFvFmOne            = "Fv/Fm 1"
	colFvFmOneTimePoint   = "Fv/Fm 1 time point"
	colFvFmTwo            = "Fv/Fm 2"
	colFvFmTwoTimePoint   = "Fv/Fm 2 time point"
	colStorageChemical    = "storage chemical"
	colStorageTemperature = "storage temperature"
	colStorageContainer   = "storage container"
	colRelativeZooxLoss   = "relative zoox loss"
	colZooxLossMethod     = "zoox loss method"
	colSampleComments     = "comments"
	colCBASSPhotoLabel    = "CBASS photo label"
	col16SBarcode         = "16S barcode sequencing"
	col18SBarcode         = "18S barcode sequencing"
	colITS2Barcode        = "ITS2 barcode sequencing"
	colMetagenomic        = "metagenomic sequencing"
	colRNASeq             = "RNA-seq"
)

// Folded "sample type" values.
const (
	sampleSequencingOnly = "sequencing only"
	sampleAssay          = "assay and optional sequencing"
)

// marker is one sequencing column and the effort it orders.
type marker struct {
	column string
	effort func(base *entities.SequencingEffortBase) entities.SequencingEffort
}

func barcodeEffort(b entities.Barcode) func(*entities.SequencingEffortBase) entities.SequencingEffort {
	return func(base *entities.SequencingEffortBase) entities.SequencingEffort {
		return &entities.SequencingEffortBarcode{Barcode: b, Effort: base}
	}
}

var markers = []marker{
	{col16SBarcode, barcodeEffort(entities.Barcode16S)},
	{col18SBarcode, barcodeEffort(entities.Barcode18S)},
	{colITS2Barcode, barcodeEffort(entities.BarcodeITS2)},
	{colMetagenomic, func(base *entities.SequencingEffortBase) entities.SequencingEffort {
		return &entities.SequencingEffortMetagenomic{Effort: base}
	}},
	{colRNASeq, func(base *entities.SequencingEffortBase) entities.SequencingEffort {
		return &entities.SequencingEffortRNASeq{Effort: base}
	}},
}

// importSample creates one fragment and the sequencing efforts its marker
// columns order. Assay-only columns are ignored for sequencing-only
// fragments.
func (r *run) importSample(ctx context.Context, row sheet.Row) error {
	rr := newRowReader(sheet.Sample, row)
	colonyLabel := rr.String(colSampleColony)
	sampleType := rr.String(colSampleType)
	base := &entities.FragmentBase{
		Label:              rr.String(colSampleLabel),
		TokenLabel:         rr.String(colSampleTokenLabel),
		StorageChemical:    rr.OptString(colStorageChemical),
		StorageTemperature: rr.OptString(colStorageTemperature),
		StorageContainer:   rr.OptString(colStorageContainer),
		Comments:           rr.OptString(colSampleComments),
	}
	if err := rr.Err(); err != nil {
		return err
	}

	colony, err := r.colony(ctx, sheet.Sample, row.Number, colonyLabel)
	if err != nil {
		return err
	}
	base.ColonyID = colony.ID

	var fragment entities.Fragment
	switch fold(sampleType) {
	case sampleSequencingOnly:
		fragment = &entities.CBASSNucleicAcidFragment{Fragment: base}
	case sampleAssay:
		f, err := r.assayFragment(ctx, rr, colony, base)
		if err != nil {
			return err
		}
		fragment = f
	default:
		return &FormatError{Sheet: sheet.Sample, Row: row.Number, Field: colSampleType, Value: sampleType, Err: ErrBadChoice}
	}

	key := naturalKey{repository.NaturalKeyFragmentLabel, colSampleLabel, base.Label}
	if err := r.tx.Fragments.Create(ctx, fragment); err != nil {
		if errors.Is(err, ErrAssayMismatch) {
			return &ReferenceError{Sheet: sheet.Sample, Row: row.Number, Reference: "heat stress profile", Key: base.Label, Err: err}
		}
		return r.storeError(err, sheet.Sample, row.Number, key)
	}
	r.stored(key)
	r.summary.created(KindFragments)

	return r.sequencingEfforts(ctx, rr, base.ID)
}

// assayFragment reads the assay columns of a row. The heat stress profile
// and the shared photo are resolved before the fragment exists.
func (r *run) assayFragment(ctx context.Context, rr *rowReader, colony *entities.Colony, base *entities.FragmentBase) (*entities.CBASSAssayFragment, error) {
	temperature := rr.Float(colTreatmentTemp)
	f := &entities.CBASSAssayFragment{
		FvFmOneValue:         rr.OptFloat(colFvFmOne),
		FvFmOneTimePoint:     rr.OptInt(colFvFmOneTimePoint),
		FvFmTwoValue:         rr.OptFloat(colFvFmTwo),
		FvFmTwoTimePoint:     rr.OptInt(colFvFmTwoTimePoint),
		RelativeSamplingTime: rr.Int(colSamplingTimePoint),
		RelativeZooxLoss:     rr.OptFloat(colRelativeZooxLoss),
		ZooxLossMethod:       rr.OptString(colZooxLossMethod),
		Fragment:             base,
	}
	photoLabel := rr.OptString(colCBASSPhotoLabel)
	if err := rr.Err(); err != nil {
		return nil, err
	}
	if f.RelativeZooxLoss != nil {
		loss, ok := normalizeRelativeLoss(*f.RelativeZooxLoss)
		if !ok {
			return nil, &FormatError{Sheet: sheet.Sample, Row: rr.row.Number, Field: colRelativeZooxLoss, Value: rr.row.Get(colRelativeZooxLoss), Err: ErrOutOfRange}
		}
		f.RelativeZooxLoss = &loss
	}
	if f.ZooxLossMethod != nil && fold(*f.ZooxLossMethod) == notConducted {
		f.ZooxLossMethod = nil
	}

	profile, err := r.heatStressProfile(ctx, sheet.Sample, rr.row.Number, colony, temperature)
	if err != nil {
		return nil, err
	}
	f.HeatStressProfileID = profile.ID

	if photoLabel != nil {
		photo, err := r.fragmentPhoto(ctx, sheet.Sample, rr.row.Number, *photoLabel)
		if err != nil {
			return nil, err
		}
		f.CBASSFragmentPhotoID = &photo.ID
	}
	return f, nil
}

// sequencingEfforts creates one effort per affirmative marker. The row's
// efforts share one biosample, created with the first of them.
func (r *run) sequencingEfforts(ctx context.Context, rr *rowReader, fragmentID uint) error {
	var sample *entities.NCBIBioSample
	for _, m := range markers {
		if !rr.Flag(m.column) {
			continue
		}
		if sample == nil {
			sample = &entities.NCBIBioSample{}
			if err := r.tx.Sequencing.CreateBioSample(ctx, sample); err != nil {
				return err
			}
			r.summary.created(KindBioSamples)
		}
		effort := m.effort(&entities.SequencingEffortBase{FragmentID: fragmentID, NCBIBioSampleID: &sample.ID})
		if err := r.tx.Sequencing.Create(ctx, effort); err != nil {
			return err
		}
		r.summary.created(KindSequencingEfforts)
	}
	return nil
}
