package importer

import (
	"context"
	"fmt"
	"maps"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/photostore"
	"github.com/reefgenomics/reefkb/internal/sheet"
	"github.com/reefgenomics/reefkb/internal/testutil"
)

const (
	testCampaign = "Red Sea CBASS 2018"
	photoDir     = "/photos"
	photoBaseURL = "https://photos.example.org/reef"
)

// memSource serves rows from memory.
type memSource struct {
	rows     map[sheet.Name][]sheet.Row
	identity sheet.Identity
}

func (s *memSource) Rows(ctx context.Context, name sheet.Name) ([]sheet.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.rows[name], nil
}

func (s *memSource) Identity() sheet.Identity {
	return s.identity
}

// workbook is a submission under construction. Rows are numbered as in the
// template, data starting on line 3.
type workbook map[sheet.Name][]map[string]string

func (w workbook) add(name sheet.Name, cells map[string]string) workbook {
	w[name] = append(w[name], cells)
	return w
}

func (w workbook) source(checksum string) *memSource {
	src := &memSource{
		rows:     make(map[sheet.Name][]sheet.Row),
		identity: sheet.Identity{Name: "submission.xlsx", Checksum: checksum},
	}
	for name, rows := range w {
		for i, cells := range rows {
			src.rows[name] = append(src.rows[name], sheet.Row{Number: i + 3, Cells: maps.Clone(cells)})
		}
	}
	return src
}

func with(base map[string]string, overrides map[string]string) map[string]string {
	cells := maps.Clone(base)
	maps.Copy(cells, overrides)
	return cells
}

func siteRow() map[string]string {
	return map[string]string{
		"site name":            "Al Fahal",
		"site abbreviation":    "AF",
		"timestamp":            "2018-08-06T09:00",
		"time zone":            "+03:00",
		"country":              "Saudi Arabia",
		"country abbreviation": "SA",
		"latitude":             "22.3054",
		"longitude":            "38.9599",
		"sub-region":           "Central Red Sea",
		"env_broad_scale":      "marine biome",
		"env_local_scale":      "coral reef",
		"env_medium":           "sea water",
		"record label":         "2018_AF",
		"water temperature":    "30.5",
		"turbidity":            "na",
		"salinity":             "39.8",
	}
}

func experimentRow() map[string]string {
	return map[string]string{
		"site record":                "2018_AF",
		"experiment type":            "CBASS",
		"experiment label":           "CBASS_AF_1",
		"experiment start timestamp": "2018-08-08T12:00",
		"experiment stop timestamp":  "2018-08-08T21:00",
		"baseline temp":              "30",
		"light level":                "NA",
		"flow rate":                  "0.5",
		"tank volume":                "10.0",
		"seawater source":            "filtered",
		"scientist 1":                "Christian Voolstra",
		"scientist 2":                "Maren Ziegler",
	}
}

func diveRow() map[string]string {
	return map[string]string{
		"site":                     "AF",
		"dive start timestamp":     "2018-08-07T08:00",
		"dive end timestamp":       "2018-08-07T09:30",
		"dive label":               "DIVE_AF_1",
		"max depth":                "N/A",
		"water temperature":        "31",
		"purpose":                  "collection",
		"comments":                 "",
		"diver 1":                  "Maren Ziegler",
		"diver 2":                  "Christian Voolstra",
		"dive table photo label 1": "DIVE_AF_1_table",
	}
}

func colonyRow() map[string]string {
	return map[string]string{
		"coral species":              "Stylophora pistillata",
		"coral species abbreviation": "SPIS",
		"dive":                       "DIVE_AF_1",
		"experiment":                 "CBASS_AF_1",
		"time collected":             "14:30",
		"depth collected":            "5.5",
		"colony label":               "AF_SPIS_1",
		"colony photo label":         "AF_SPIS_1",
	}
}

// assaySampleRow is an assay fragment at 30 °C without sequencing.
func assaySampleRow(label string) map[string]string {
	return map[string]string{
		"colony":                "AF_SPIS_1",
		"sample type":           "assay and optional sequencing",
		"sample label":          label,
		"sample token label":    "T-" + label,
		"treatment temperature": "30",
		"sampling time point":   "420",
		"Fv/Fm 1":               "0.61",
		"Fv/Fm 1 time point":    "360",
		"Fv/Fm 2":               "n/a",
		"storage chemical":      "RNAlater",
		"storage temperature":   "-80",
		"relative zoox loss":    "NA",
		"CBASS photo label":     "CBASS_AF_1_30",
	}
}

func sequencingSampleRow(label string) map[string]string {
	return map[string]string{
		"colony":             "AF_SPIS_1",
		"sample type":        "Sequencing only",
		"sample label":       label,
		"sample token label": "T-" + label,
	}
}

// baseWorkbook holds one row on every sheet but SAMPLE.
func baseWorkbook() workbook {
	return workbook{}.
		add(sheet.Site, siteRow()).
		add(sheet.Experiment, experimentRow()).
		add(sheet.Dive, diveRow()).
		add(sheet.Colony, colonyRow())
}

type testEnv struct {
	db       *gorm.DB
	store    *repository.Store
	fixture  *testutil.Fixture
	fs       afero.Fs
	importer *Importer
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	fixture := testutil.SeedFixture(t, db)
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(photoDir, 0o755))
	for _, name := range []string{"DIVE_AF_1_table.JPG", "AF_SPIS_1.jpg", "CBASS_AF_1_30.jpeg", "CBASS_AF_1_34.jpg"} {
		require.NoError(t, afero.WriteFile(fs, photoDir+"/"+name, []byte("jpeg"), 0o644))
	}
	store := repository.NewStore(db)
	photos := photostore.NewDirStore(fs, photoDir, photoBaseURL)
	return &testEnv{
		db:       db,
		store:    store,
		fixture:  fixture,
		fs:       fs,
		importer: New(store, photos, opts...),
	}
}

func (e *testEnv) run(t *testing.T, w workbook, checksum string) (*Summary, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), testutil.DefaultTestTimeout)
	defer cancel()
	return e.importer.Import(ctx, w.source(checksum), Options{Campaign: testCampaign})
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func labels(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s_%d", prefix, i+1)
	}
	return out
}

func writePhoto(t *testing.T, env *testEnv, name string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(env.fs, photoDir+"/"+name, []byte("jpeg"), 0o644))
}
