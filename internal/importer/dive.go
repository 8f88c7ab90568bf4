package importer

import (
	"context"
	"fmt"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// DIVE headers.
const (
	colDiveSite           = "site"
	colDiveStart          = "dive start timestamp"
	colDiveEnd            = "dive end timestamp"
	colDiveLabel          = "dive label"
	colMaxDepth           = "max depth"
	colDiveWaterTemp      = "water temperature"
	colPurpose            = "purpose"
	colDiveComments       = "comments"
	colDiver1             = "diver 1"
	colDiver2             = "diver 2"
	colDiveTablePhotoBase = "dive table photo label %d"
)

// diveTablePhotoColumns is the number of "dive table photo label N" columns.
const diveTablePhotoColumns = 3

func diveTablePhotoColumnNames() []string {
	names := make([]string, diveTablePhotoColumns)
	for i := range names {
		names[i] = fmt.Sprintf(colDiveTablePhotoBase, i+1)
	}
	return names
}

// importDive creates one dive, links its divers and attaches its dive
// table photos.
func (r *run) importDive(ctx context.Context, row sheet.Row) error {
	rr := newRowReader(sheet.Dive, row)
	abbreviation := rr.String(colDiveSite)
	label := rr.String(colDiveLabel)
	if err := rr.Err(); err != nil {
		return err
	}

	site, err := r.siteByAbbreviation(ctx, sheet.Dive, row.Number, abbreviation)
	if err != nil {
		return err
	}
	loc, err := r.zoneFor(sheet.Dive, row.Number, abbreviation, site)
	if err != nil {
		return err
	}

	dive := &entities.Dive{
		SiteID:           site.ID,
		TimeIn:           rr.Timestamp(colDiveStart, loc),
		TimeOut:          rr.Timestamp(colDiveEnd, loc),
		MaxDepth:         rr.OptFloat(colMaxDepth),
		WaterTemperature: rr.OptFloat(colDiveWaterTemp),
		Purpose:          rr.OptString(colPurpose),
		Comments:         rr.OptString(colDiveComments),
		Label:            label,
	}
	photoLabels := make(map[string]string, diveTablePhotoColumns)
	photoColumns := diveTablePhotoColumnNames()
	for _, column := range photoColumns {
		if p := rr.OptString(column); p != nil {
			photoLabels[column] = *p
		}
	}
	if err := rr.Err(); err != nil {
		return err
	}
	if dive.TimeOut.Before(dive.TimeIn) {
		return &FormatError{Sheet: sheet.Dive, Row: row.Number, Field: colDiveEnd, Value: row.Get(colDiveEnd), Err: ErrTimeOrder}
	}

	divers, err := r.people(ctx, rr, colDiver1, colDiver2)
	if err != nil {
		return err
	}
	dive.Divers = divers

	key := naturalKey{repository.NaturalKeyDiveLabel, colDiveLabel, label}
	if err := r.tx.Dives.Create(ctx, dive); err != nil {
		return r.storeError(err, sheet.Dive, row.Number, key)
	}
	r.stored(key)
	dive.Site = site
	r.dives[label] = dive
	r.summary.created(KindDives)

	for _, column := range photoColumns {
		photoLabel, ok := photoLabels[column]
		if !ok {
			continue
		}
		file, err := r.photoFile(ctx, sheet.Dive, row.Number, photoLabel)
		if err != nil {
			return err
		}
		photo := &entities.DiveTablePhoto{DiveID: dive.ID, Name: photostore.StoredName(file), URL: r.photoURL(file)}
		photoKey := naturalKey{repository.NaturalKeyDiveTablePhotoName, column, photo.Name}
		if err := r.tx.Dives.AddPhoto(ctx, photo); err != nil {
			return r.storeError(err, sheet.Dive, row.Number, photoKey)
		}
		r.stored(photoKey)
		r.summary.created(KindDiveTablePhotos)
	}
	return nil
}
