package sheet

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/sheet/cache"
)

func TestApplyLayout(t *testing.T) {
	t.Parallel()

	table := [][]string{
		{"  dive label ", "site", ""},
		{"label of the dive", "site abbreviation", "notes"},
		{"e.g. DIVE_1", "e.g. AF", ""},
		{"DIVE_AF_1", "AF", "ignored"},
		{"", " ", ""},
		{"DIVE_AF_2"},
	}

	rows, err := applyLayout(Dive, table, DefaultLayouts[Dive])
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 4, rows[0].Number)
	assert.Equal(t, "DIVE_AF_1", rows[0].Get("dive label"))
	assert.Equal(t, "AF", rows[0].Get("site"))
	assert.Len(t, rows[0].Cells, 2, "columns without header are dropped")

	assert.Equal(t, 6, rows[1].Number)
	assert.True(t, rows[1].Has("site"), "short rows still carry every column")
	assert.Empty(t, rows[1].Get("site"))
}

func TestApplyLayout_SampleHeaderOnSecondRow(t *testing.T) {
	t.Parallel()

	table := [][]string{
		{"SAMPLE SHEET v3"},
		{"colony", "sample label"},
		{"description", "description"},
		{"example", "example"},
		{"AF_SPIS_1", "AF_SPIS_1_3"},
	}
	rows, err := applyLayout(Sample, table, DefaultLayouts[Sample])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Number)
	assert.Equal(t, "AF_SPIS_1_3", rows[0].Get("sample label"))
}

func TestApplyLayout_Errors(t *testing.T) {
	t.Parallel()

	_, err := applyLayout(Site, nil, DefaultLayouts[Site])
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))

	_, err = applyLayout(Site, [][]string{{"site", "site"}}, Layout{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate header "site"`)
}

func TestCSVDirSource(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sub/COLONY.csv",
		[]byte("\ufeffcolony label,depth collected\ndescription,description\nAF_SPIS_1,5.5\n"), 0o644))

	src := NewCSVDirSource(fs, "/sub", nil)
	rows, err := src.Rows(context.Background(), Colony)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "5.5", rows[0].Get("depth collected"))
	assert.Equal(t, "AF_SPIS_1", rows[0].Get("colony label"), "byte order mark is stripped")

	_, err = src.Rows(context.Background(), Dive)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	id1 := src.Identity()
	require.NoError(t, afero.WriteFile(fs, "/sub/COLONY.csv", []byte("colony label\n-\nX\n"), 0o644))
	assert.NotEqual(t, id1.Checksum, src.Identity().Checksum)
	assert.Equal(t, "sub", id1.Name)
}

// writeWorkbook builds an xlsx with a DIVE sheet holding date-formatted cells.
func writeWorkbook(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	_, err := f.NewSheet("Dive")
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	require.NoError(t, f.SetSheetRow("Dive", "A1", &[]any{"dive label", "dive start timestamp", "max depth", "time"}))
	require.NoError(t, f.SetSheetRow("Dive", "A2", &[]any{"label", "local time", "m", "hh:mm"}))
	require.NoError(t, f.SetSheetRow("Dive", "A3", &[]any{"e.g.", "e.g.", "e.g.", "e.g."}))
	require.NoError(t, f.SetSheetRow("Dive", "A4", &[]any{"DIVE_AF_1", time.Date(2018, 8, 7, 8, 30, 0, 0, time.UTC), 12.25, 0.5}))

	dateTime := "yyyy-mm-dd hh:mm"
	dtStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateTime})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Dive", "B4", "B4", dtStyle))
	timeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 20})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Dive", "D4", "D4", timeStyle))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, afero.WriteFile(fs, path, buf.Bytes(), 0o644))
}

func TestXLSXSource(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	writeWorkbook(t, fs, "/in/submission.xlsx")

	src, err := OpenXLSX(fs, "/in/submission.xlsx", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	rows, err := src.Rows(context.Background(), Dive)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "DIVE_AF_1", rows[0].Get("dive label"))
	assert.Equal(t, "2018-08-07T08:30:00", rows[0].Get("dive start timestamp"))
	assert.Equal(t, "12.25", rows[0].Get("max depth"))
	assert.Equal(t, "12:00:00", rows[0].Get("time"))

	_, err = src.Rows(context.Background(), Site)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sheet SITE")

	id := src.Identity()
	assert.Equal(t, "submission.xlsx", id.Name)
	assert.Len(t, id.Checksum, 64)
}

func TestIsDateFormat(t *testing.T) {
	t.Parallel()
	str := func(s string) *string { return &s }

	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(2, nil))
	assert.True(t, isDateFormat(0, str("dd/mm/yyyy")))
	assert.False(t, isDateFormat(0, str(`0.00 "days"`)))
	assert.False(t, isDateFormat(0, str("[Red]0.0")))
	assert.True(t, hasTimeTokens(0, str("yyyy-mm-dd hh:mm")))
	assert.False(t, hasTimeTokens(14, nil))
}

// countingSource counts reads of the wrapped source.
type countingSource struct {
	Source
	reads atomic.Int32
}

func (c *countingSource) Rows(ctx context.Context, name Name) ([]Row, error) {
	c.reads.Add(1)
	return c.Source.Rows(ctx, name)
}

func (c *countingSource) Identity() Identity {
	return c.Source.(Identified).Identity()
}

type recordingObserver struct {
	hits, misses atomic.Int32
}

func (o *recordingObserver) CacheLookup(_ string, hit bool) {
	if hit {
		o.hits.Add(1)
	} else {
		o.misses.Add(1)
	}
}

func TestCachedSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/sub/SITE.csv", []byte("site abbreviation\nx\nAF\n"), 0o644))

	inner := &countingSource{Source: NewCSVDirSource(fs, "/sub", nil)}
	mem := cache.NewMemory(time.Minute)
	obs := &recordingObserver{}
	src := NewCachedSource(inner, mem, WithObserver(obs))

	first, err := src.Rows(ctx, Site)
	require.NoError(t, err)
	second, err := src.Rows(ctx, Site)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.reads.Load(), "second read is served from cache")
	assert.Equal(t, int32(1), obs.hits.Load())
	assert.Equal(t, int32(1), obs.misses.Load())

	cs, ok := src.(*CachedSource)
	require.True(t, ok)
	assert.Contains(t, cs.Key(Sample), ":SAMPLE:h1:s2,3")
}

func TestNewCachedSource_Passthrough(t *testing.T) {
	t.Parallel()
	src := NewCSVDirSource(afero.NewMemMapFs(), "/", nil)
	assert.Same(t, src, NewCachedSource(src, nil))
}
