package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefgenomics/reefkb/internal/sheet"
)

func TestIsAbsent(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "na", "NA", "Na", "n/a", "N/A"} {
		assert.True(t, isAbsent(normalizeCell(v)), "%q", v)
	}
	assert.True(t, isAbsent(normalizeCell("  N/A ")))
	for _, v := range []string{"0", "nan", "none", "n.a."} {
		assert.False(t, isAbsent(normalizeCell(v)), "%q", v)
	}
}

func TestNormalizeCell_NFC(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Ras Baridi \u00e9", normalizeCell(" Ras Baridi e\u0301 "))
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		seconds int
		wantErr bool
	}{
		{"+03:00", 3 * 3600, false},
		{"-05:30", -(5*3600 + 30*60), false},
		{"+00:00", 0, false},
		{"+14:00", 14 * 3600, false},
		{"+15:00", 0, true},
		{"+03:60", 0, true},
		{"03:00", 0, true},
		{"UTC+3", 0, true},
		{"Asia/Riyadh", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			loc, err := parseOffset(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadTimeZone)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2018, 8, 7, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.seconds, offset)
			assert.Equal(t, tt.in, loc.String())
		})
	}
}

func TestParseLocalTimestamp(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("+03:00", 3*3600)
	want := time.Date(2018, 8, 7, 8, 15, 0, 0, loc)
	for _, in := range []string{"2018-08-07T08:15", "2018-08-07T08:15:00", "2018-08-07 08:15", "2018-08-07 08:15:00"} {
		got, err := parseLocalTimestamp(in, loc)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(want), in)
	}
	for _, in := range []string{"2018-08-07T08:15+03:00", "2018-08-07T08:15:00Z", "07.08.2018 08:15", "2018-08-07"} {
		_, err := parseLocalTimestamp(in, loc)
		assert.ErrorIs(t, err, ErrBadTimestamp, in)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	h, m, s, err := parseTimeOfDay("14:30")
	require.NoError(t, err)
	assert.Equal(t, []int{14, 30, 0}, []int{h, m, s})

	h, m, s, err = parseTimeOfDay("07:05:09")
	require.NoError(t, err)
	assert.Equal(t, []int{7, 5, 9}, []int{h, m, s})

	for _, in := range []string{"2:30pm", "24:00", "14h30", ""} {
		_, _, _, err := parseTimeOfDay(in)
		assert.ErrorIs(t, err, ErrBadTimeOfDay, in)
	}
}

func TestOnDate(t *testing.T) {
	t.Parallel()

	utc := time.Date(2018, 8, 6, 22, 30, 0, 0, time.UTC)
	loc := time.FixedZone("+03:00", 3*3600)
	got := onDate(utc.In(loc), 14, 30, 0, loc)
	assert.True(t, got.Equal(time.Date(2018, 8, 7, 14, 30, 0, 0, loc)))
}

func TestNormalizeRelativeLoss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
		ok   bool
	}{
		{50, 0.5, true},
		{0.5, 0.5, true},
		{1, 1, true},
		{0, 0, true},
		{100, 1, true},
		{150, 0, false},
		{100.5, 0, false},
		{-0.1, 0, false},
	}
	for _, tt := range tests {
		got, ok := normalizeRelativeLoss(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
	}
}

func TestParseNumbers(t *testing.T) {
	t.Parallel()

	f, err := parseFloat("30.25")
	require.NoError(t, err)
	assert.InDelta(t, 30.25, f, 1e-9)
	for _, in := range []string{"abc", "NaN", "Inf", "30,25"} {
		_, err := parseFloat(in)
		assert.ErrorIs(t, err, ErrBadNumber, in)
	}

	for in, want := range map[string]int{"10": 10, "10.0": 10, "-3": -3, "420.000": 420} {
		got, err := parseInt(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"10.5", "ten", "1e12"} {
		_, err := parseInt(in)
		assert.ErrorIs(t, err, ErrBadInteger, in)
	}
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	first, last, ok := splitName("Christian  R. Voolstra")
	require.True(t, ok)
	assert.Equal(t, "Christian", first)
	assert.Equal(t, "Voolstra", last)

	_, _, ok = splitName("Voolstra")
	assert.False(t, ok)
}

func TestRowReader_FirstErrorSticks(t *testing.T) {
	t.Parallel()

	row := sheet.Row{Number: 9, Cells: map[string]string{
		"depth":  "deep",
		"volume": "1.5",
		"label":  " AF_1 ",
		"marker": "YES",
	}}
	rr := newRowReader(sheet.Colony, row)
	assert.Equal(t, "AF_1", rr.String("label"))
	assert.Zero(t, rr.Float("depth"))
	assert.Nil(t, rr.OptInt("volume"))
	assert.Nil(t, rr.OptFloat("missing"))
	assert.True(t, rr.Flag("marker"))
	assert.False(t, rr.Flag("missing"))

	var formatErr *FormatError
	require.ErrorAs(t, rr.Err(), &formatErr)
	assert.Equal(t, sheet.Colony, formatErr.Sheet)
	assert.Equal(t, 9, formatErr.Row)
	assert.Equal(t, "depth", formatErr.Field)
	assert.Equal(t, "deep", formatErr.Value)
	assert.ErrorIs(t, rr.Err(), ErrBadNumber)
	assert.Equal(t, `COLONY row 9: depth "deep": not a number`, rr.Err().Error())
}

func TestRowReader_MissingRequired(t *testing.T) {
	t.Parallel()

	rr := newRowReader(sheet.Dive, sheet.Row{Number: 4, Cells: map[string]string{"dive label": "NA"}})
	assert.Empty(t, rr.String("dive label"))
	assert.ErrorIs(t, rr.Err(), ErrMissingValue)
	assert.Equal(t, "DIVE row 4: dive label: required value missing", rr.Err().Error())
}

func TestExperimentType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{"": "cbass_assay", "CBASS": "cbass_assay", "Calcification": "calcification_assay"} {
		got, ok := experimentType(in)
		require.True(t, ok, in)
		assert.Equal(t, want, string(got))
	}
	_, ok := experimentType("bleaching")
	assert.False(t, ok)
}

func TestSiteOfRecord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AF", siteOfRecord("2018_08_AF"))
	assert.Equal(t, "AF", siteOfRecord("AF"))
}
