package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/reefgenomics/reefkb/internal/datastore/repository"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/sheet"
)

// FormatError reports a present cell that could not be coerced, or a
// required cell that is absent.
type FormatError struct {
	Sheet sheet.Name
	Row   int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s row %d: %s: %v", e.Sheet, e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("%s row %d: %s %q: %v", e.Sheet, e.Row, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Cell format failures wrapped by FormatError.
var (
	ErrMissingValue = errors.NewStd("required value missing")
	ErrBadNumber    = errors.NewStd("not a number")
	ErrBadInteger   = errors.NewStd("not an integer")
	ErrBadTimestamp = errors.NewStd("not a local timestamp")
	ErrBadTimeOfDay = errors.NewStd("not a time of day")
	ErrBadTimeZone  = errors.NewStd("not a UTC offset")
	ErrBadChoice    = errors.NewStd("not an allowed value")
	ErrBadName      = errors.NewStd("not a first and last name")
	ErrOutOfRange   = errors.NewStd("out of range")
	ErrTimeOrder    = errors.NewStd("ends before it starts")
	ErrConflict     = errors.NewStd("conflicts with an earlier row")
	ErrRepeatedKey  = errors.NewStd("repeats a label of an earlier row")
)

// ReferenceError reports a reference that did not resolve to exactly one
// entity. Err wraps repository.ErrNotFound or repository.ErrAmbiguous when
// the lookup itself failed.
type ReferenceError struct {
	Sheet     sheet.Name
	Row       int
	Reference string // e.g. "dive"
	Key       string // the label, name or abbreviation searched for
	Err       error
}

func (e *ReferenceError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("%s %q: %v", e.Reference, e.Key, e.Err)
	}
	return fmt.Sprintf("%s row %d: %s %q: %v", e.Sheet, e.Row, e.Reference, e.Key, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Reference failures that do not come from a repository lookup.
var (
	ErrUnknownSpecies  = errors.NewStd("species not in taxonomy registry")
	ErrNotCBASS        = errors.NewStd("assay is not a CBASS assay")
	ErrAssayMismatch   = repository.ErrAssayMismatch
	ErrSiteMismatch    = errors.NewStd("belongs to another site")
	ErrNoTimeZone      = errors.NewStd("no time zone registered")
	ErrUnknownCampaign = errors.NewStd("campaign not found")
)

// ResourceError reports a photo label that matched no stored file or more
// than one.
type ResourceError struct {
	Sheet   sheet.Name
	Row     int
	Label   string
	Matches []string
}

func (e *ResourceError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("%s row %d: no photo file matches %q", e.Sheet, e.Row, e.Label)
	}
	return fmt.Sprintf("%s row %d: photo %q is ambiguous: %s", e.Sheet, e.Row, e.Label, strings.Join(e.Matches, ", "))
}

// DuplicateSubmissionError reports data that has already been imported.
// Kind is a natural key kind such as "dive label", "workbook" for a
// workbook whose checksum matches a committed run, or the violated
// constraint when the database rejected a row.
type DuplicateSubmissionError struct {
	Kind  string
	Key   string
	Keys  []string // every colliding key of Kind, Key is the first
	RunID string   // the earlier run, for workbook duplicates
	Err   error
}

func (e *DuplicateSubmissionError) Error() string {
	switch {
	case e.RunID != "":
		return fmt.Sprintf("workbook already imported by run %s", e.RunID)
	case len(e.Keys) > 1:
		return fmt.Sprintf("already submitted: %s %q and %d more", e.Kind, e.Key, len(e.Keys)-1)
	default:
		return fmt.Sprintf("already submitted: %s %q", e.Kind, e.Key)
	}
}

func (e *DuplicateSubmissionError) Unwrap() error {
	return e.Err
}

// classify wraps err with the enhanced error builder so it carries the
// importer component and the category of its class. The typed error stays
// reachable through errors.As.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		formatErr *FormatError
		refErr    *ReferenceError
		resErr    *ResourceError
		dupErr    *DuplicateSubmissionError
	)
	b := errors.New(err).Component("importer")
	switch {
	case errors.As(err, &dupErr):
		b = b.Category(errors.CategoryConflict).Context("kind", dupErr.Kind).Context("key", dupErr.Key)
	case errors.As(err, &formatErr):
		b = b.Category(errors.CategoryValidation).
			Context("sheet", string(formatErr.Sheet)).Context("row", formatErr.Row).Context("field", formatErr.Field)
	case errors.As(err, &refErr):
		b = b.Category(errors.CategoryNotFound).
			Context("sheet", string(refErr.Sheet)).Context("row", refErr.Row).Context("reference", refErr.Reference)
	case errors.As(err, &resErr):
		b = b.Category(errors.CategoryResource).
			Context("sheet", string(resErr.Sheet)).Context("row", resErr.Row).Context("label", resErr.Label)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		b = b.Category(errors.CategoryCancellation)
	default:
		var ee *errors.EnhancedError
		if errors.As(err, &ee) {
			return err
		}
		b = b.Category(errors.CategoryProcessing)
	}
	return b.Build()
}

// errorClass names the class of err for metrics.
func errorClass(err error) string {
	var (
		formatErr *FormatError
		refErr    *ReferenceError
		resErr    *ResourceError
		dupErr    *DuplicateSubmissionError
	)
	switch {
	case errors.As(err, &dupErr):
		return "duplicate"
	case errors.As(err, &formatErr):
		return "format"
	case errors.As(err, &refErr):
		return "reference"
	case errors.As(err, &resErr):
		return "resource"
	default:
		return "other"
	}
}

// naturalKey is a business key a write creates, with the workbook column it
// came from.
type naturalKey struct {
	kind  repository.NaturalKey
	field string
	value string
}

// storeError explains a failed write of keys. A duplicate of a key this run
// created itself is a repeated workbook label. A duplicate of any other key
// was stored by another writer after the pre-flight check, and the
// DuplicateSubmissionError names it. Writes without a natural key pass the
// error through.
func (r *run) storeError(err error, name sheet.Name, row int, keys ...naturalKey) error {
	var dupKey *repository.DuplicateKeyError
	if !errors.As(err, &dupKey) || len(keys) == 0 {
		return err
	}
	key := keys[0]
	for _, k := range keys {
		if dupKey.Involves(k.kind) {
			key = k
			break
		}
	}
	if r.created[key] {
		return &FormatError{Sheet: name, Row: row, Field: key.field, Value: key.value, Err: ErrRepeatedKey}
	}
	return &DuplicateSubmissionError{Kind: string(key.kind), Key: key.value, Keys: []string{key.value}, Err: err}
}

// stored records keys written by this run.
func (r *run) stored(keys ...naturalKey) {
	for _, k := range keys {
		r.created[k] = true
	}
}
