package importer

import (
	"context"
	"time"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// COLONY headers.
const (
	colCoralSpecies     = "coral species"
	colSpeciesAbbrev    = "coral species abbreviation"
	colColonyDive       = "dive"
	colColonyExperiment = "experiment"
	colTimeCollected    = "time collected"
	colDepthCollected   = "depth collected"
	colColonyLabel      = "colony label"
	colColonyPhotoLabel = "colony photo label"
)

// importColony creates one colony. Its site is its assay's site, and it was
// collected on the calendar day its dive started, at the row's time of day
// in its site's time zone.
func (r *run) importColony(ctx context.Context, row sheet.Row) error {
	rr := newRowReader(sheet.Colony, row)
	binomial := rr.String(colCoralSpecies)
	speciesAbbrev := rr.OptString(colSpeciesAbbrev)
	diveLabel := rr.String(colColonyDive)
	assayLabel := rr.String(colColonyExperiment)
	h, m, s := rr.TimeOfDay(colTimeCollected)
	depth := rr.Float(colDepthCollected)
	label := rr.String(colColonyLabel)
	photoLabel := rr.OptString(colColonyPhotoLabel)
	if err := rr.Err(); err != nil {
		return err
	}
	if depth < 0 {
		return &FormatError{Sheet: sheet.Colony, Row: row.Number, Field: colDepthCollected, Value: row.Get(colDepthCollected), Err: ErrOutOfRange}
	}

	abbrev := ""
	if speciesAbbrev != nil {
		abbrev = *speciesAbbrev
	}
	species, err := r.coralSpecies(ctx, sheet.Colony, row.Number, binomial, abbrev)
	if err != nil {
		return err
	}
	dive, err := r.dive(ctx, sheet.Colony, row.Number, diveLabel)
	if err != nil {
		return err
	}
	assay, err := r.assayByLabel(ctx, sheet.Colony, row.Number, assayLabel)
	if err != nil {
		return err
	}
	site, err := r.siteByID(ctx, sheet.Colony, row.Number, assay.Common().SiteID)
	if err != nil {
		return err
	}
	siteLoc, err := r.zoneFor(sheet.Colony, row.Number, site.NameAbbreviation, site)
	if err != nil {
		return err
	}
	diveDay, err := r.diveLocalStart(ctx, row.Number, dive)
	if err != nil {
		return err
	}

	colony := &entities.Colony{
		CoralSpeciesID: species.ID,
		DiveID:         dive.ID,
		SiteID:         site.ID,
		AssayID:        assay.Common().ID,
		TimeCollected:  onDate(diveDay, h, m, s, siteLoc),
		DepthCollected: depth,
		Label:          label,
	}
	key := naturalKey{repository.NaturalKeyColonyLabel, colColonyLabel, label}
	if err := r.tx.Colonies.Create(ctx, colony); err != nil {
		return r.storeError(err, sheet.Colony, row.Number, key)
	}
	r.stored(key)
	r.colonies[label] = colony
	r.summary.created(KindColonies)

	if photoLabel == nil {
		return nil
	}
	file, err := r.photoFile(ctx, sheet.Colony, row.Number, *photoLabel)
	if err != nil {
		return err
	}
	photo := &entities.ColonyPhoto{ColonyID: colony.ID, Name: photostore.StoredName(file), URL: r.photoURL(file)}
	photoKey := naturalKey{repository.NaturalKeyColonyPhotoName, colColonyPhotoLabel, photo.Name}
	if err := r.tx.Colonies.AddPhoto(ctx, photo); err != nil {
		return r.storeError(err, sheet.Colony, row.Number, photoKey)
	}
	r.stored(photoKey)
	r.summary.created(KindColonyPhotos)
	return nil
}

// diveLocalStart returns the dive's start in its site's time zone. Dives of
// earlier submissions come back from the database in another zone.
func (r *run) diveLocalStart(ctx context.Context, row int, dive *entities.Dive) (time.Time, error) {
	site := dive.Site
	if site == nil {
		var err error
		if site, err = r.siteByID(ctx, sheet.Colony, row, dive.SiteID); err != nil {
			return time.Time{}, err
		}
	}
	loc, err := r.zoneFor(sheet.Colony, row, site.NameAbbreviation, site)
	if err != nil {
		return time.Time{}, err
	}
	return dive.TimeIn.In(loc), nil
}
