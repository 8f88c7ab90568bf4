package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reefgenomics/reefkb/internal/datastore/entities"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var plus3 = time.FixedZone("+03:00", 3*60*60)

// graph is a minimal persisted hierarchy down to one colony.
type graph struct {
	fixture *testutil.Fixture
	site    *entities.Site
	record  *entities.EnvironmentRecord
	assay   *entities.CBASSAssay
	dive    *entities.Dive
	species *entities.CoralSpecies
	colony  *entities.Colony
}

func seedGraph(t *testing.T, store *Store) *graph {
	t.Helper()
	ctx := context.Background()
	db := store.DB()
	g := &graph{fixture: testutil.SeedFixture(t, db)}

	g.site = &entities.Site{
		Latitude: 22.3, Longitude: 39.0, Name: "Al Fahal", NameAbbreviation: "AF",
		TimeZone: "+03:00", Country: "Saudi Arabia",
	}
	require.NoError(t, store.Sites.Create(ctx, g.site))

	g.record = &entities.EnvironmentRecord{
		SiteID: g.site.ID, RecordTimestamp: time.Date(2018, 8, 7, 9, 0, 0, 0, plus3),
		EnvBroadScale: "marine biome", EnvLocalScale: "coral reef", EnvMedium: "sea water",
		Label: "ER_AF",
	}
	require.NoError(t, store.Sites.CreateEnvironmentRecord(ctx, g.record))

	g.assay = &entities.CBASSAssay{
		StartTime:    time.Date(2018, 8, 7, 12, 0, 0, 0, plus3),
		StopTime:     time.Date(2018, 8, 8, 6, 0, 0, 0, plus3),
		BaselineTemp: 30.5,
		Assay: &entities.AssayBase{
			EnvironmentRecordID: g.record.ID,
			CampaignID:          g.fixture.Campaign.ID,
			SiteID:              g.site.ID,
			Label:               "CBASS_AF_1",
			Scientists:          []entities.User{g.fixture.Lead},
		},
	}
	require.NoError(t, store.Assays.Create(ctx, g.assay))

	g.dive = &entities.Dive{
		SiteID:  g.site.ID,
		TimeIn:  time.Date(2018, 8, 7, 8, 0, 0, 0, plus3),
		TimeOut: time.Date(2018, 8, 7, 9, 0, 0, 0, plus3),
		Label:   "DIVE_AF_1",
		Divers:  []entities.User{g.fixture.Diver},
	}
	require.NoError(t, store.Dives.Create(ctx, g.dive))

	g.species = &entities.CoralSpecies{
		Phylum: "Cnidaria", Class: "Anthozoa", Order: "Scleractinia", Family: "Pocilloporidae",
		Genus: "Stylophora", SpeciesMonomial: "pistillata", SpeciesBinomial: "Stylophora pistillata",
		NCBITaxID: 50429, Abbreviation: "SPIS",
	}
	require.NoError(t, store.Colonies.CreateSpecies(ctx, g.species))

	g.colony = &entities.Colony{
		CoralSpeciesID: g.species.ID, DiveID: g.dive.ID, SiteID: g.site.ID, AssayID: g.assay.AssayID,
		TimeCollected: time.Date(2018, 8, 7, 8, 30, 0, 0, plus3), DepthCollected: 5.5,
		Label: "AF_SPIS_1",
	}
	require.NoError(t, store.Colonies.Create(ctx, g.colony))
	return g
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewTestDB(t))
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestFindOne_NotFound(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.Sites.FindByAbbreviation(context.Background(), "XX")
	require.Error(t, err)

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "site", lookupErr.Entity)
	assert.Equal(t, "XX", lookupErr.Key)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrSiteNotFound)
	assert.NotErrorIs(t, err, ErrAmbiguous)
	assert.Equal(t, `site "XX" not found`, err.Error())
}

func TestFindOne_Ambiguous(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, store.Users.Create(ctx, &entities.User{
			Email: fmt.Sprintf("jane%d@example.org", i), Username: fmt.Sprintf("jane%d", i),
			FirstName: "Jane", LastName: "Doe",
		}))
	}

	_, err := store.Users.FindByName(ctx, "Jane", "Doe")
	require.ErrorIs(t, err, ErrAmbiguous)
	assert.NotErrorIs(t, err, ErrNotFound)

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, 2, lookupErr.Count, "lookups fetch at most two rows")
}

func TestUsers_FindByName(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	f := testutil.SeedFixture(t, store.DB())

	user, err := store.Users.FindByName(context.Background(), "Maren", "Ziegler")
	require.NoError(t, err)
	assert.Equal(t, f.Diver.ID, user.ID)
	assert.Equal(t, "Maren Ziegler", user.FullName())
}

func TestCampaigns_CreateWithParticipants(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	f := testutil.SeedFixture(t, store.DB())

	campaign := &entities.Campaign{
		LeadUserID: f.Lead.ID, Name: "Gulf of Aqaba 2019",
		StartDate:               time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2019, 5, 20, 0, 0, 0, 0, time.UTC),
		NCBIBioProjectAccession: "PRJNA2",
		Participants:            []entities.User{f.Diver},
	}
	require.NoError(t, store.Campaigns.Create(ctx, campaign))
	require.NoError(t, store.Campaigns.AddParticipant(ctx, campaign.ID, f.Lead.ID))

	loaded, err := store.Campaigns.FindByName(ctx, "Gulf of Aqaba 2019")
	require.NoError(t, err)
	require.NotNil(t, loaded.LeadUser)
	assert.Equal(t, "cvoolstra", loaded.LeadUser.Username)
	assert.Len(t, loaded.Participants, 2)

	// Users must not be duplicated by association saving.
	assert.Equal(t, int64(2), count(t, store.DB(), &entities.User{}))
}

func TestCampaigns_CreateRejectsInvertedDates(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	f := testutil.SeedFixture(t, store.DB())

	err := store.Campaigns.Create(context.Background(), &entities.Campaign{
		LeadUserID: f.Lead.ID, Name: "backwards",
		StartDate: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAssays_PolymorphicReload(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGraph(t, store)

	calc := &entities.CalcificationAssay{Assay: &entities.AssayBase{
		EnvironmentRecordID: g.record.ID, CampaignID: g.fixture.Campaign.ID,
		SiteID: g.site.ID, Label: "CALC_AF_1",
	}}
	require.NoError(t, store.Assays.Create(ctx, calc))
	assert.Equal(t, entities.AssayTypeCalcification, calc.Common().Type)

	loaded, err := store.Assays.FindByLabel(ctx, "CBASS_AF_1")
	require.NoError(t, err)
	cbass, ok := loaded.(*entities.CBASSAssay)
	require.True(t, ok, "expected *CBASSAssay, got %T", loaded)
	assert.InDelta(t, 30.5, cbass.BaselineTemp, 1e-9)
	assert.True(t, cbass.StartTime.Equal(g.assay.StartTime))
	require.Len(t, cbass.Common().Scientists, 1)
	assert.Equal(t, "Christian", cbass.Common().Scientists[0].FirstName)

	loaded, err = store.Assays.FindByLabel(ctx, "CALC_AF_1")
	require.NoError(t, err)
	assert.Equal(t, entities.AssayTypeCalcification, loaded.AssayType())

	_, err = store.Assays.FindCBASSByLabel(ctx, "CALC_AF_1")
	require.ErrorIs(t, err, ErrWrongVariant)
	assert.ErrorIs(t, err, ErrCBASSAssayNotFound)

	_, err = store.Assays.FindCBASSByLabel(ctx, "missing")
	assert.ErrorIs(t, err, ErrCBASSAssayNotFound)

	byID, err := store.Assays.Get(ctx, calc.Common().ID)
	require.NoError(t, err)
	assert.IsType(t, &entities.CalcificationAssay{}, byID)
}

func TestGetByID(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGraph(t, store)

	site, err := store.Sites.Get(ctx, g.site.ID)
	require.NoError(t, err)
	assert.Equal(t, "+03:00", site.TimeZone)

	_, err = store.Sites.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrSiteNotFound)

	assay, err := store.Assays.Get(ctx, g.assay.AssayID)
	require.NoError(t, err)
	assert.Equal(t, "CBASS_AF_1", assay.Common().Label)

	dive, err := store.Dives.FindByLabel(ctx, "DIVE_AF_1")
	require.NoError(t, err)
	require.NotNil(t, dive.Site)
	assert.Equal(t, "AF", dive.Site.NameAbbreviation)
}

func TestAssays_HeatStressProfileGetOrCreate(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGraph(t, store)

	first, created, err := store.Assays.GetOrCreateHeatStressProfile(ctx, g.assay.AssayID, 3)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := store.Assays.GetOrCreateHeatStressProfile(ctx, g.assay.AssayID, 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, created, err = store.Assays.GetOrCreateHeatStressProfile(ctx, g.assay.AssayID, 6)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(2), count(t, store.DB(), &entities.HeatStressProfile{}))

	_, err = store.Assays.FindHeatStressProfile(ctx, g.assay.AssayID, 9)
	assert.ErrorIs(t, err, ErrHeatStressProfileNotFound)

	// A failed insert is reported, not papered over by a second lookup.
	_, created, err = store.Assays.GetOrCreateHeatStressProfile(ctx, g.assay.AssayID+1000, 3)
	require.Error(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(2), count(t, store.DB(), &entities.HeatStressProfile{}))
}

func TestFragments_AndSequencing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGraph(t, store)

	profile, _, err := store.Assays.GetOrCreateHeatStressProfile(ctx, g.assay.AssayID, 3)
	require.NoError(t, err)

	photo := &entities.CBASSFragmentPhoto{Name: "AF_PHOTO_1.jpg", URL: "file:///photos/AF_PHOTO_1.jpg"}
	require.NoError(t, store.Fragments.CreatePhoto(ctx, photo))

	assayFragment := &entities.CBASSAssayFragment{
		HeatStressProfileID:  profile.ID,
		RelativeSamplingTime: 420,
		CBASSFragmentPhotoID: &photo.ID,
		Fragment:             &entities.FragmentBase{ColonyID: g.colony.ID, Label: "AF_SPIS_1_3", TokenLabel: "1"},
	}
	nucleic := &entities.CBASSNucleicAcidFragment{
		Fragment: &entities.FragmentBase{ColonyID: g.colony.ID, Label: "AF_SPIS_1_NA", TokenLabel: "2"},
	}
	require.NoError(t, store.Fragments.Create(ctx, assayFragment))
	require.NoError(t, store.Fragments.Create(ctx, nucleic))

	loaded, err := store.Fragments.FindByLabel(ctx, "AF_SPIS_1_3")
	require.NoError(t, err)
	af, ok := loaded.(*entities.CBASSAssayFragment)
	require.True(t, ok)
	require.NotNil(t, af.Photo)
	assert.Equal(t, "AF_PHOTO_1.jpg", af.Photo.Name)
	require.NotNil(t, af.HeatStressProfile)
	assert.InDelta(t, 3.0, af.HeatStressProfile.RelativeChallengeTemperature, 1e-9)

	all, err := store.Fragments.ListByColony(ctx, g.colony.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, entities.FragmentTypeNucleicAcid, all[1].FragmentType())

	sample := &entities.NCBIBioSample{}
	require.NoError(t, store.Sequencing.CreateBioSample(ctx, sample))
	efforts := []entities.SequencingEffort{
		&entities.SequencingEffortBarcode{Barcode: entities.BarcodeITS2},
		&entities.SequencingEffortMetagenomic{},
		&entities.SequencingEffortRNASeq{},
	}
	for _, e := range efforts {
		switch v := e.(type) {
		case *entities.SequencingEffortBarcode:
			v.Effort = &entities.SequencingEffortBase{FragmentID: af.FragmentID, NCBIBioSampleID: &sample.ID}
		case *entities.SequencingEffortMetagenomic:
			v.Effort = &entities.SequencingEffortBase{FragmentID: af.FragmentID, NCBIBioSampleID: &sample.ID}
		case *entities.SequencingEffortRNASeq:
			v.Effort = &entities.SequencingEffortBase{FragmentID: af.FragmentID, NCBIBioSampleID: &sample.ID}
		}
		require.NoError(t, store.Sequencing.Create(ctx, e))
	}

	reloaded, err := store.Sequencing.ListByFragment(ctx, af.FragmentID)
	require.NoError(t, err)
	require.Len(t, reloaded, 3)
	barcode, ok := reloaded[0].(*entities.SequencingEffortBarcode)
	require.True(t, ok)
	assert.Equal(t, entities.BarcodeITS2, barcode.Barcode)
	for _, e := range reloaded {
		require.NotNil(t, e.Common().NCBIBioSampleID)
		assert.Equal(t, sample.ID, *e.Common().NCBIBioSampleID)
	}
}

func TestFragments_ProfileOfAnotherAssay(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGraph(t, store)

	other := &entities.CBASSAssay{
		StartTime:    time.Date(2018, 8, 9, 12, 0, 0, 0, plus3),
		StopTime:     time.Date(2018, 8, 10, 6, 0, 0, 0, plus3),
		BaselineTemp: 30.5,
		Assay: &entities.AssayBase{
			EnvironmentRecordID: g.record.ID,
			CampaignID:          g.fixture.Campaign.ID,
			SiteID:              g.site.ID,
			Label:               "CBASS_AF_2",
		},
	}
	require.NoError(t, store.Assays.Create(ctx, other))
	profile, _, err := store.Assays.GetOrCreateHeatStressProfile(ctx, other.AssayID, 3)
	require.NoError(t, err)

	err = store.Fragments.Create(ctx, &entities.CBASSAssayFragment{
		HeatStressProfileID:  profile.ID,
		RelativeSamplingTime: 420,
		Fragment:             &entities.FragmentBase{ColonyID: g.colony.ID, Label: "AF_SPIS_1_3", TokenLabel: "1"},
	})
	require.ErrorIs(t, err, ErrAssayMismatch)
	assert.Zero(t, count(t, store.DB(), &entities.FragmentBase{}))
}

func TestSequencing_RejectsUnknownBarcode(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	err := store.Sequencing.Create(context.Background(), &entities.SequencingEffortBarcode{
		Barcode: "COI",
		Effort:  &entities.SequencingEffortBase{FragmentID: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDuplicateKey_SQLite(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	site := func(name string) *entities.Site {
		return &entities.Site{Name: name, NameAbbreviation: "AF", TimeZone: "+03:00", Country: "Saudi Arabia"}
	}
	require.NoError(t, store.Sites.Create(ctx, site("Al Fahal")))

	err := store.Sites.Create(ctx, site("Al Fahal North"))
	require.ErrorIs(t, err, ErrDuplicateKey)

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "sites.name_abbreviation", dup.Constraint)
}

func TestDuplicateKey_InsideTransactionRollsBack(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Sites.CreateRegion(ctx, &entities.Region{Name: "Red Sea", Abbreviation: "RS"}); err != nil {
			return err
		}
		return tx.Sites.CreateRegion(ctx, &entities.Region{Name: "Red Sea", Abbreviation: "RS"})
	})
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Zero(t, count(t, store.DB(), &entities.Region{}))
}

func TestTranslateDuplicate_Drivers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		wantConstraint string
		wantNil        bool
	}{
		{
			name:           "mysql duplicate entry",
			err:            &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'DIVE_1' for key 'dives.idx_dives_label'"},
			wantConstraint: "dives.idx_dives_label",
		},
		{
			name:    "mysql other error",
			err:     &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
			wantNil: true,
		},
		{
			name:           "postgres unique violation",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "idx_colonies_label", Detail: "Key (label)=(C1) already exists."},
			wantConstraint: "idx_colonies_label",
		},
		{
			name:    "postgres foreign key violation",
			err:     &pgconn.PgError{Code: "23503"},
			wantNil: true,
		},
		{
			name: "gorm translated",
			err:  gorm.ErrDuplicatedKey,
		},
		{
			name:    "plain error",
			err:     errors.NewStd("boom"),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("insert: %w", tt.err)
			dup := translateDuplicate(wrapped)
			if tt.wantNil {
				assert.Nil(t, dup)
				return
			}
			require.NotNil(t, dup)
			assert.Equal(t, tt.wantConstraint, dup.Constraint)
			assert.ErrorIs(t, dup, ErrDuplicateKey)
			assert.ErrorIs(t, dup, tt.err)
		})
	}
}

func TestDuplicateKeyError_Involves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		constraint string
		kind       NaturalKey
		want       bool
	}{
		{"sites.name", NaturalKeySiteName, true},
		{"sites.name_abbreviation", NaturalKeySiteName, false},
		{"sites.name_abbreviation", NaturalKeySiteAbbreviation, true},
		{"dives.idx_dives_label", NaturalKeyDiveLabel, true},
		{"idx_sites_name_abbreviation", NaturalKeySiteName, false},
		{"idx_dive_table_photos_name", NaturalKeyDiveTablePhotoName, true},
		{"dive_table_photos.url", NaturalKeyDiveTablePhotoName, false},
		{"", NaturalKeyColonyLabel, false},
	}
	for _, tt := range tests {
		dup := &DuplicateKeyError{Constraint: tt.constraint}
		assert.Equal(t, tt.want, dup.Involves(tt.kind), "%s / %s", tt.constraint, tt.kind)
	}
}

func TestWriteError_Categorised(t *testing.T) {
	t.Parallel()
	err := writeError(errors.NewStd("disk I/O error"), "create_site")

	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, string(errors.CategoryDatabase), ee.GetCategory())
	assert.Equal(t, "create_site", ee.GetContext()["operation"])
	assert.NoError(t, writeError(nil, "noop"))
}

func TestDeleteSite_Cascades(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	g := seedGraph(t, store)

	profile, _, err := store.Assays.GetOrCreateHeatStressProfile(ctx, g.assay.AssayID, 3)
	require.NoError(t, err)
	frag := &entities.CBASSAssayFragment{
		HeatStressProfileID: profile.ID, RelativeSamplingTime: 0,
		Fragment: &entities.FragmentBase{ColonyID: g.colony.ID, Label: "F1", TokenLabel: "1"},
	}
	require.NoError(t, store.Fragments.Create(ctx, frag))
	require.NoError(t, store.Sequencing.Create(ctx, &entities.SequencingEffortRNASeq{
		Effort: &entities.SequencingEffortBase{FragmentID: frag.FragmentID},
	}))
	require.NoError(t, store.Dives.AddPhoto(ctx, &entities.DiveTablePhoto{
		DiveID: g.dive.ID, Name: "DIVE_AF_1.jpg", URL: "file:///DIVE_AF_1.jpg",
	}))

	require.NoError(t, store.Sites.Delete(ctx, g.site.ID))

	db := store.DB()
	for _, model := range []any{
		&entities.Site{}, &entities.EnvironmentRecord{}, &entities.AssayBase{}, &entities.CBASSAssay{},
		&entities.HeatStressProfile{}, &entities.Dive{}, &entities.DiveTablePhoto{}, &entities.Colony{},
		&entities.FragmentBase{}, &entities.CBASSAssayFragment{}, &entities.SequencingEffortBase{},
		&entities.SequencingEffortRNASeq{},
	} {
		assert.Zero(t, count(t, db, model), "%T should be cascaded", model)
	}

	// Join rows go with their parents, users stay.
	var joins int64
	require.NoError(t, db.Table("dive_users").Count(&joins).Error)
	assert.Zero(t, joins)
	require.NoError(t, db.Table("assay_users").Count(&joins).Error)
	assert.Zero(t, joins)
	assert.Equal(t, int64(2), count(t, db, &entities.User{}))
	assert.Equal(t, int64(1), count(t, db, &entities.CoralSpecies{}))

	err = store.Sites.Delete(ctx, g.site.ID)
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func TestNaturalKeys_Existing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	seedGraph(t, store)

	found, err := store.NaturalKeys.Existing(ctx, NaturalKeyDiveLabel, []string{"DIVE_AF_2", "DIVE_AF_1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DIVE_AF_1"}, found)

	found, err = store.NaturalKeys.Existing(ctx, NaturalKeySiteAbbreviation, []string{"AF", "AF", "ZZ"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AF"}, found)

	found, err = store.NaturalKeys.Existing(ctx, NaturalKeyColonyLabel, nil)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = store.NaturalKeys.Existing(ctx, NaturalKey("bogus"), []string{"x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportRuns_Lifecycle(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()
	f := testutil.SeedFixture(t, store.DB())

	run := &entities.ImportRun{CampaignID: f.Campaign.ID, WorkbookName: "submission.xlsx", WorkbookChecksum: "abc123"}
	require.NoError(t, store.ImportRuns.Begin(ctx, run))
	assert.Len(t, run.ID, 36)
	assert.Equal(t, entities.ImportRunRunning, run.Status)

	_, err := store.ImportRuns.FindCommittedByChecksum(ctx, "abc123")
	require.ErrorIs(t, err, ErrImportRunNotFound, "running runs are not committed")

	summary := datatypes.JSON(`{"sites":1}`)
	require.NoError(t, store.ImportRuns.Finish(ctx, run.ID, entities.ImportRunCommitted, summary, nil))

	committed, err := store.ImportRuns.FindCommittedByChecksum(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, run.ID, committed.ID)
	assert.NotNil(t, committed.FinishedAt)
	assert.JSONEq(t, `{"sites":1}`, string(committed.Summary))

	runs, err := store.ImportRuns.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].Campaign)
	assert.Equal(t, "Red Sea CBASS 2018", runs[0].Campaign.Name)

	err = store.ImportRuns.Finish(ctx, "nope", entities.ImportRunCommitted, nil, nil)
	assert.ErrorIs(t, err, ErrImportRunNotFound)
}
