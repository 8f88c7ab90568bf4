package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// run is the mutable state of one import. Everything it writes goes through
// tx; the maps remember what this run created so later rows resolve it
// without a query, and fall back to the database for earlier submissions.
type run struct {
	tx       *repository.Store
	photos   photostore.Store
	taxonomy *Taxonomy
	campaign *entities.Campaign
	summary  *Summary
	log      logger.Logger

	// zones maps site abbreviations and environment record labels to the
	// site's UTC offset.
	zones map[string]*time.Location

	sites          map[string]*entities.Site
	sitesByID      map[uint]*entities.Site
	records        map[string]*entities.EnvironmentRecord
	users          map[string]*entities.User
	participants   map[uint]bool
	assays         map[string]entities.Assay
	assaysByID     map[uint]entities.Assay
	dives          map[string]*entities.Dive
	species        map[string]*entities.CoralSpecies
	colonies       map[string]*entities.Colony
	fragmentPhotos map[string]*entities.CBASSFragmentPhoto
	created        map[naturalKey]bool

	photoFiles []string
	listed     bool
}

func newRun(tx *repository.Store, campaign *entities.Campaign, photos photostore.Store, taxonomy *Taxonomy, summary *Summary, log logger.Logger) *run {
	r := &run{
		tx:             tx,
		photos:         photos,
		taxonomy:       taxonomy,
		campaign:       campaign,
		summary:        summary,
		log:            log,
		zones:          make(map[string]*time.Location),
		sites:          make(map[string]*entities.Site),
		sitesByID:      make(map[uint]*entities.Site),
		records:        make(map[string]*entities.EnvironmentRecord),
		users:          make(map[string]*entities.User),
		participants:   make(map[uint]bool),
		assays:         make(map[string]entities.Assay),
		assaysByID:     make(map[uint]entities.Assay),
		dives:          make(map[string]*entities.Dive),
		species:        make(map[string]*entities.CoralSpecies),
		colonies:       make(map[string]*entities.Colony),
		fragmentPhotos: make(map[string]*entities.CBASSFragmentPhoto),
		created:        make(map[naturalKey]bool),
	}
	for _, p := range campaign.Participants {
		r.participants[p.ID] = true
	}
	return r
}

// lookupFailure turns a failed repository lookup into a ReferenceError.
// Database failures pass through unchanged.
func lookupFailure(name sheet.Name, row int, reference, key string, err error) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrAmbiguous) {
		return &ReferenceError{Sheet: name, Row: row, Reference: reference, Key: key, Err: err}
	}
	return err
}

// registerZone records the offset of a site under key.
func (r *run) registerZone(key string, loc *time.Location) {
	r.zones[key] = loc
}

// zoneFor returns the offset registered under key, or the offset of site
// when key belongs to an earlier submission.
func (r *run) zoneFor(name sheet.Name, row int, key string, site *entities.Site) (*time.Location, error) {
	if loc, ok := r.zones[key]; ok {
		return loc, nil
	}
	if site == nil {
		return nil, &ReferenceError{Sheet: name, Row: row, Reference: "time zone", Key: key, Err: ErrNoTimeZone}
	}
	loc, err := parseOffset(site.TimeZone)
	if err != nil {
		return nil, &ReferenceError{Sheet: name, Row: row, Reference: "time zone", Key: site.TimeZone, Err: err}
	}
	r.zones[key] = loc
	return loc, nil
}

func (r *run) rememberSite(site *entities.Site) {
	r.sites[site.NameAbbreviation] = site
	r.sitesByID[site.ID] = site
}

func (r *run) siteByAbbreviation(ctx context.Context, name sheet.Name, row int, abbreviation string) (*entities.Site, error) {
	if site, ok := r.sites[abbreviation]; ok {
		return site, nil
	}
	site, err := r.tx.Sites.FindByAbbreviation(ctx, abbreviation)
	if err != nil {
		return nil, lookupFailure(name, row, "site", abbreviation, err)
	}
	r.rememberSite(site)
	return site, nil
}

func (r *run) siteByID(ctx context.Context, name sheet.Name, row int, id uint) (*entities.Site, error) {
	if site, ok := r.sitesByID[id]; ok {
		return site, nil
	}
	site, err := r.tx.Sites.Get(ctx, id)
	if err != nil {
		return nil, lookupFailure(name, row, "site", fmt.Sprint(id), err)
	}
	r.rememberSite(site)
	return site, nil
}

func (r *run) environmentRecord(ctx context.Context, name sheet.Name, row int, label string) (*entities.EnvironmentRecord, error) {
	if rec, ok := r.records[label]; ok {
		return rec, nil
	}
	rec, err := r.tx.Sites.FindEnvironmentRecordByLabel(ctx, label)
	if err != nil {
		return nil, lookupFailure(name, row, "site record", label, err)
	}
	r.records[label] = rec
	return rec, nil
}

// user resolves a researcher by first and last name and makes sure they
// participate in the run's campaign.
func (r *run) user(ctx context.Context, name sheet.Name, row int, first, last string) (*entities.User, error) {
	key := first + " " + last
	if u, ok := r.users[key]; ok {
		return u, nil
	}
	u, err := r.tx.Users.FindByName(ctx, first, last)
	if err != nil {
		return nil, lookupFailure(name, row, "user", key, err)
	}
	if u.ID != r.campaign.LeadUserID && !r.participants[u.ID] {
		if err := r.tx.Campaigns.AddParticipant(ctx, r.campaign.ID, u.ID); err != nil {
			return nil, err
		}
		r.participants[u.ID] = true
		r.log.Debug("added campaign participant", logger.String("user", key))
	}
	r.users[key] = u
	return u, nil
}

// people resolves the optional name columns of a row, skipping absent ones.
func (r *run) people(ctx context.Context, rr *rowReader, fields ...string) ([]entities.User, error) {
	var users []entities.User
	seen := make(map[uint]bool)
	for _, field := range fields {
		first, last, ok := rr.Person(field)
		if err := rr.Err(); err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		u, err := r.user(ctx, rr.sheet, rr.row.Number, first, last)
		if err != nil {
			return nil, err
		}
		if !seen[u.ID] {
			seen[u.ID] = true
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *run) rememberAssay(assay entities.Assay) {
	base := assay.Common()
	r.assays[base.Label] = assay
	r.assaysByID[base.ID] = assay
}

func (r *run) assayByLabel(ctx context.Context, name sheet.Name, row int, label string) (entities.Assay, error) {
	if a, ok := r.assays[label]; ok {
		return a, nil
	}
	a, err := r.tx.Assays.FindByLabel(ctx, label)
	if err != nil {
		return nil, lookupFailure(name, row, "experiment", label, err)
	}
	r.rememberAssay(a)
	return a, nil
}

func (r *run) assayByID(ctx context.Context, name sheet.Name, row int, id uint) (entities.Assay, error) {
	if a, ok := r.assaysByID[id]; ok {
		return a, nil
	}
	a, err := r.tx.Assays.Get(ctx, id)
	if err != nil {
		return nil, lookupFailure(name, row, "experiment", fmt.Sprint(id), err)
	}
	r.rememberAssay(a)
	return a, nil
}

func (r *run) dive(ctx context.Context, name sheet.Name, row int, label string) (*entities.Dive, error) {
	if d, ok := r.dives[label]; ok {
		return d, nil
	}
	d, err := r.tx.Dives.FindByLabel(ctx, label)
	if err != nil {
		return nil, lookupFailure(name, row, "dive", label, err)
	}
	r.dives[label] = d
	return d, nil
}

func (r *run) colony(ctx context.Context, name sheet.Name, row int, label string) (*entities.Colony, error) {
	if c, ok := r.colonies[label]; ok {
		return c, nil
	}
	c, err := r.tx.Colonies.FindByLabel(ctx, label)
	if err != nil {
		return nil, lookupFailure(name, row, "colony", label, err)
	}
	r.colonies[label] = c
	return c, nil
}

// coralSpecies returns the stored species or creates it from the taxonomy
// registry.
func (r *run) coralSpecies(ctx context.Context, name sheet.Name, row int, binomial, abbreviation string) (*entities.CoralSpecies, error) {
	binomial = canonicalBinomial(binomial)
	if s, ok := r.species[binomial]; ok {
		return s, nil
	}
	s, err := r.tx.Colonies.FindSpeciesByBinomial(ctx, binomial)
	switch {
	case err == nil:
		r.species[binomial] = s
		return s, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, lookupFailure(name, row, "coral species", binomial, err)
	}

	taxon, ok := r.taxonomy.Lookup(binomial)
	if !ok {
		return nil, &ReferenceError{Sheet: name, Row: row, Reference: "coral species", Key: binomial, Err: ErrUnknownSpecies}
	}
	s = taxon.Species(abbreviation)
	key := naturalKey{repository.NaturalKeyCoralSpecies, colCoralSpecies, binomial}
	if err := r.tx.Colonies.CreateSpecies(ctx, s); err != nil {
		return nil, r.storeError(err, name, row, key)
	}
	r.stored(key)
	r.species[binomial] = s
	r.summary.created(KindCoralSpecies)
	r.log.Info("created coral species", logger.String("binomial", binomial), logger.Int("ncbi_tax_id", s.NCBITaxID))
	return s, nil
}

// heatStressProfile returns the profile of the colony's CBASS assay at
// temperature, creating it on first use. The fragment repository rejects a
// profile of another assay than the fragment's colony.
func (r *run) heatStressProfile(ctx context.Context, name sheet.Name, row int, colony *entities.Colony, temperature float64) (*entities.HeatStressProfile, error) {
	assay, err := r.assayByID(ctx, name, row, colony.AssayID)
	if err != nil {
		return nil, err
	}
	cbass, ok := assay.(*entities.CBASSAssay)
	if !ok {
		return nil, &ReferenceError{Sheet: name, Row: row, Reference: "experiment", Key: assay.Common().Label, Err: ErrNotCBASS}
	}
	profile, created, err := r.tx.Assays.GetOrCreateHeatStressProfile(ctx, cbass.AssayID, temperature)
	if err != nil {
		return nil, err
	}
	if created {
		r.summary.created(KindHeatStressProfiles)
	}
	return profile, nil
}

// listPhotos lists the photo store once per run.
func (r *run) listPhotos(ctx context.Context) ([]string, error) {
	if r.listed {
		return r.photoFiles, nil
	}
	if r.photos == nil {
		r.listed = true
		return nil, nil
	}
	files, err := r.photos.List(ctx)
	if err != nil {
		return nil, err
	}
	r.photoFiles, r.listed = files, true
	return files, nil
}

// photoFile finds the one stored file whose base name is label.
func (r *run) photoFile(ctx context.Context, name sheet.Name, row int, label string) (string, error) {
	files, err := r.listPhotos(ctx)
	if err != nil {
		return "", err
	}
	matches := photostore.Match(files, label)
	if len(matches) != 1 {
		return "", &ResourceError{Sheet: name, Row: row, Label: label, Matches: matches}
	}
	return matches[0], nil
}

func (r *run) photoURL(file string) string {
	if r.photos == nil {
		return file
	}
	return r.photos.URL(file)
}

// fragmentPhoto returns the shared photo named after label, creating it on
// first use. Photos staged earlier in the run and photos of earlier
// submissions are reused before the store is searched.
func (r *run) fragmentPhoto(ctx context.Context, name sheet.Name, row int, label string) (*entities.CBASSFragmentPhoto, error) {
	stored := photostore.StoredName(label)
	if p, ok := r.fragmentPhotos[stored]; ok {
		return p, nil
	}
	p, err := r.tx.Fragments.FindPhotoByName(ctx, stored)
	switch {
	case err == nil:
		r.fragmentPhotos[stored] = p
		return p, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, lookupFailure(name, row, "CBASS photo", stored, err)
	}

	file, err := r.photoFile(ctx, name, row, label)
	if err != nil {
		return nil, err
	}
	p = &entities.CBASSFragmentPhoto{Name: photostore.StoredName(file), URL: r.photoURL(file)}
	key := naturalKey{repository.NaturalKeyFragmentPhotoName, colCBASSPhotoLabel, p.Name}
	if err := r.tx.Fragments.CreatePhoto(ctx, p); err != nil {
		return nil, r.storeError(err, name, row, key)
	}
	r.stored(key)
	r.fragmentPhotos[stored] = p
	r.summary.created(KindFragmentPhotos)
	return p, nil
}
