package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/reefgenomics/reefkb/internal/sheet"
)

// fold case-folds a token. A Caser is stateful, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// absentTokens are the folded spellings of "not available".
var absentTokens = map[string]bool{"": true, "na": true, "n/a": true}

// affirmative is the folded token that switches a sequencing marker on.
const affirmative = "yes"

// notConducted is the zoox loss method meaning no measurement was taken.
const notConducted = "not conducted"

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// normalizeCell trims and NFC-normalises a raw cell value.
func normalizeCell(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// isAbsent reports whether a normalised cell holds no value.
func isAbsent(v string) bool {
	return absentTokens[fold(v)]
}

func isAffirmative(v string) bool {
	return fold(v) == affirmative
}

// parseOffset parses a fixed UTC offset such as "+03:00".
func parseOffset(s string) (*time.Location, error) {
	m := offsetPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrBadTimeZone
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if hours > 14 || minutes > 59 {
		return nil, ErrBadTimeZone
	}
	secs := hours*3600 + minutes*60
	if m[1] == "-" {
		secs = -secs
	}
	return time.FixedZone(s, secs), nil
}

// parseLocalTimestamp reads a date and time without offset in loc.
func parseLocalTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// parseTimeOfDay returns the hour, minute and second of an "HH:MM[:SS]" value.
func parseTimeOfDay(s string) (h, m, sec int, err error) {
	for _, layout := range timeOfDayLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
	}
	return 0, 0, 0, ErrBadTimeOfDay
}

// onDate combines the calendar date of day, read in day's own location,
// with a time of day in loc.
func onDate(day time.Time, h, m, s int, loc *time.Location) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, s, 0, loc)
}

// normalizeRelativeLoss maps a percentage above 1 to a fraction. Values
// below zero or above 100 percent are out of range.
func normalizeRelativeLoss(v float64) (float64, bool) {
	switch {
	case v < 0 || v > 100:
		return 0, false
	case v > 1:
		return v / 100, true
	default:
		return v, true
	}
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrBadNumber
	}
	return v, nil
}

// parseInt accepts integers and whole-valued decimals such as "30.0", which
// spreadsheets produce for numeric cells.
func parseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, ErrBadInteger
	}
	return int(f), nil
}

// splitName splits "First [Middle] Last" into first and last name.
func splitName(full string) (first, last string, ok bool) {
	fields := strings.Fields(full)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[len(fields)-1], true
}

// rowReader reads typed cells of one row. The first failure sticks: later
// reads return zero values and Err reports the first FormatError.
type rowReader struct {
	sheet sheet.Name
	row   sheet.Row
	err   error
}

func newRowReader(name sheet.Name, row sheet.Row) *rowReader {
	return &rowReader{sheet: name, row: row}
}

// Err returns the first failure.
func (r *rowReader) Err() error {
	return r.err
}

func (r *rowReader) fail(field, value string, err error) {
	if r.err == nil {
		r.err = &FormatError{Sheet: r.sheet, Row: r.row.Number, Field: field, Value: value, Err: err}
	}
}

// value returns the normalised cell and whether it holds a value.
func (r *rowReader) value(field string) (string, bool) {
	v := normalizeCell(r.row.Get(field))
	if isAbsent(v) {
		return "", false
	}
	return v, true
}

func (r *rowReader) String(field string) string {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, "", ErrMissingValue)
	}
	return v
}

func (r *rowReader) OptString(field string) *string {
	v, ok := r.value(field)
	if !ok {
		return nil
	}
	return &v
}

func (r *rowReader) Float(field string) float64 {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, "", ErrMissingValue)
		return 0
	}
	f, err := parseFloat(v)
	if err != nil {
		r.fail(field, v, err)
	}
	return f
}

func (r *rowReader) OptFloat(field string) *float64 {
	v, ok := r.value(field)
	if !ok {
		return nil
	}
	f, err := parseFloat(v)
	if err != nil {
		r.fail(field, v, err)
		return nil
	}
	return &f
}

func (r *rowReader) Int(field string) int {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, "", ErrMissingValue)
		return 0
	}
	n, err := parseInt(v)
	if err != nil {
		r.fail(field, v, err)
	}
	return n
}

func (r *rowReader) OptInt(field string) *int {
	v, ok := r.value(field)
	if !ok {
		return nil
	}
	n, err := parseInt(v)
	if err != nil {
		r.fail(field, v, err)
		return nil
	}
	return &n
}

// Timestamp reads a local date-time and places it at loc.
func (r *rowReader) Timestamp(field string, loc *time.Location) time.Time {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, "", ErrMissingValue)
		return time.Time{}
	}
	t, err := parseLocalTimestamp(v, loc)
	if err != nil {
		r.fail(field, v, err)
	}
	return t
}

// Offset reads a "±HH:MM" UTC offset.
func (r *rowReader) Offset(field string) (string, *time.Location) {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, "", ErrMissingValue)
		return "", time.UTC
	}
	loc, err := parseOffset(v)
	if err != nil {
		r.fail(field, v, err)
		return "", time.UTC
	}
	return v, loc
}

// TimeOfDay reads an "HH:MM[:SS]" value.
func (r *rowReader) TimeOfDay(field string) (h, m, s int) {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, "", ErrMissingValue)
		return 0, 0, 0
	}
	h, m, s, err := parseTimeOfDay(v)
	if err != nil {
		r.fail(field, v, err)
	}
	return h, m, s
}

// Flag reports whether a marker cell is affirmative. Absent means no.
func (r *rowReader) Flag(field string) bool {
	v, ok := r.value(field)
	return ok && isAffirmative(v)
}

// Person reads an optional "First Last" name.
func (r *rowReader) Person(field string) (first, last string, present bool) {
	v, ok := r.value(field)
	if !ok {
		return "", "", false
	}
	first, last, ok = splitName(v)
	if !ok {
		r.fail(field, v, ErrBadName)
		return "", "", false
	}
	return first, last, true
}
