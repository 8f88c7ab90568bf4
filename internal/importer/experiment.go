package importer

import (
	"context"
	"strings"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// EXPERIMENT headers.
const (
	colSiteRecord      = "site record"
	colExperimentType  = "experiment type"
	colExperimentLabel = "experiment label"
	colStartTimestamp  = "experiment start timestamp"
	colStopTimestamp   = "experiment stop timestamp"
	colBaselineTemp    = "baseline temp"
	colLightLevel      = "light level"
	colFlowRate        = "flow rate"
	colTankVolume      = "tank volume"
	colSeawaterSource  = "seawater source"
	colScientist1      = "scientist 1"
	colScientist2      = "scientist 2"
)

// experimentType maps the folded "experiment type" cell to a variant. An
// absent cell means CBASS, the only type the template offered at first.
func experimentType(v string) (entities.AssayType, bool) {
	switch fold(v) {
	case "", "cbass":
		return entities.AssayTypeCBASS, true
	case "calcification":
		return entities.AssayTypeCalcification, true
	}
	return "", false
}

// siteOfRecord returns the site abbreviation encoded as the last "_"
// segment of an environment record label.
func siteOfRecord(label string) string {
	return label[strings.LastIndex(label, "_")+1:]
}

// importExperiment creates one assay. Start, stop and baseline temperature
// are required for CBASS assays only.
func (r *run) importExperiment(ctx context.Context, row sheet.Row) error {
	rr := newRowReader(sheet.Experiment, row)
	recordLabel := rr.String(colSiteRecord)
	label := rr.String(colExperimentLabel)
	typeCell, _ := rr.value(colExperimentType)
	if err := rr.Err(); err != nil {
		return err
	}
	assayType, ok := experimentType(typeCell)
	if !ok {
		return &FormatError{Sheet: sheet.Experiment, Row: row.Number, Field: colExperimentType, Value: typeCell, Err: ErrBadChoice}
	}

	record, err := r.environmentRecord(ctx, sheet.Experiment, row.Number, recordLabel)
	if err != nil {
		return err
	}
	site, err := r.siteByAbbreviation(ctx, sheet.Experiment, row.Number, siteOfRecord(recordLabel))
	if err != nil {
		return err
	}
	if record.SiteID != site.ID {
		return &ReferenceError{Sheet: sheet.Experiment, Row: row.Number, Reference: colSiteRecord, Key: recordLabel, Err: ErrSiteMismatch}
	}
	loc, err := r.zoneFor(sheet.Experiment, row.Number, recordLabel, site)
	if err != nil {
		return err
	}

	scientists, err := r.people(ctx, rr, colScientist1, colScientist2)
	if err != nil {
		return err
	}
	base := &entities.AssayBase{
		EnvironmentRecordID: record.ID,
		CampaignID:          r.campaign.ID,
		SiteID:              site.ID,
		Label:               label,
		Scientists:          scientists,
	}

	var assay entities.Assay
	switch assayType {
	case entities.AssayTypeCalcification:
		assay = &entities.CalcificationAssay{Assay: base}
	default:
		cbass := &entities.CBASSAssay{
			StartTime:      rr.Timestamp(colStartTimestamp, loc),
			StopTime:       rr.Timestamp(colStopTimestamp, loc),
			BaselineTemp:   rr.Float(colBaselineTemp),
			LightLevel:     rr.OptFloat(colLightLevel),
			FlowRate:       rr.OptFloat(colFlowRate),
			TankVolume:     rr.OptInt(colTankVolume),
			SeawaterSource: rr.OptString(colSeawaterSource),
			Assay:          base,
		}
		if err := rr.Err(); err != nil {
			return err
		}
		if cbass.StopTime.Before(cbass.StartTime) {
			return &FormatError{Sheet: sheet.Experiment, Row: row.Number, Field: colStopTimestamp, Value: row.Get(colStopTimestamp), Err: ErrTimeOrder}
		}
		assay = cbass
	}

	key := naturalKey{repository.NaturalKeyAssayLabel, colExperimentLabel, assay.Common().Label}
	if err := r.tx.Assays.Create(ctx, assay); err != nil {
		return r.storeError(err, sheet.Experiment, row.Number, key)
	}
	r.stored(key)
	r.rememberAssay(assay)
	r.summary.created(KindAssays)
	return nil
}
