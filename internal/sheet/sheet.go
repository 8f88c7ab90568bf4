// Package sheet exposes the logical sheets of a submission workbook as
// ordered rows keyed by exact header text.
package sheet

import (
	"context"
	"slices"
	"strings"

	"github.com/reefgenomics/reefkb/internal/errors"
)

// Name is a logical sheet of the submission template.
type Name string

const (
	Site       Name = "SITE"
	Experiment Name = "EXPERIMENT"
	Dive       Name = "DIVE"
	Colony     Name = "COLONY"
	Sample     Name = "SAMPLE"
)

// Names returns the sheets in processing order.
func Names() []Name {
	return []Name{Site, Experiment, Dive, Colony, Sample}
}

// Row is one data row. Number is the 1-based row number in the source file,
// for error messages. Cells maps header text to the raw cell value.
type Row struct {
	Number int               `json:"n"`
	Cells  map[string]string `json:"c"`
}

// Get returns the cell under header, or "" when the column is missing.
func (r Row) Get(header string) string {
	return r.Cells[header]
}

// Has reports whether the row's sheet has a column named header.
func (r Row) Has(header string) bool {
	_, ok := r.Cells[header]
	return ok
}

// Source yields the rows of each logical sheet.
type Source interface {
	Rows(ctx context.Context, name Name) ([]Row, error)
}

// Identity names a source and fingerprints its content.
type Identity struct {
	Name     string // file or directory name for display
	Checksum string // hex SHA-256 of the content
}

// Identified is implemented by sources that can fingerprint their content.
type Identified interface {
	Identity() Identity
}

// Layout locates the header row and the template's description rows.
// Indexes are 0-based positions in the raw table.
type Layout struct {
	HeaderRow int
	SkipRows  []int
}

// DefaultLayouts matches the submission template: each sheet carries one or
// two rows of field descriptions and examples below its header.
var DefaultLayouts = map[Name]Layout{
	Site:       {HeaderRow: 0, SkipRows: []int{1}},
	Experiment: {HeaderRow: 0, SkipRows: []int{1, 2}},
	Dive:       {HeaderRow: 0, SkipRows: []int{1, 2}},
	Colony:     {HeaderRow: 0, SkipRows: []int{1}},
	Sample:     {HeaderRow: 1, SkipRows: []int{2, 3}},
}

// LayoutFor returns the layout of name, falling back to a bare header row.
func LayoutFor(layouts map[Name]Layout, name Name) Layout {
	if l, ok := layouts[name]; ok {
		return l
	}
	return Layout{}
}

// applyLayout turns a raw table into rows. Header cells are trimmed; empty
// header cells drop their column. Fully blank rows are dropped.
func applyLayout(name Name, table [][]string, layout Layout) ([]Row, error) {
	if layout.HeaderRow >= len(table) {
		return nil, errors.Newf("sheet %s: header row %d missing", name, layout.HeaderRow+1).
			Component("sheet").
			Category(errors.CategoryFileParsing).
			Context("sheet", string(name)).
			Build()
	}

	header := table[layout.HeaderRow]
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		if h == "" {
			continue
		}
		if seen[h] {
			return nil, errors.Newf("sheet %s: duplicate header %q", name, h).
				Component("sheet").
				Category(errors.CategoryFileParsing).
				Context("sheet", string(name)).
				Context("header", h).
				Build()
		}
		seen[h] = true
	}

	var rows []Row
	for idx := layout.HeaderRow + 1; idx < len(table); idx++ {
		if slices.Contains(layout.SkipRows, idx) {
			continue
		}
		raw := table[idx]
		if isBlank(raw) {
			continue
		}

		cells := make(map[string]string, len(header))
		for col, h := range header {
			if h == "" {
				continue
			}
			if col < len(raw) {
				cells[h] = raw[col]
			} else {
				cells[h] = ""
			}
		}
		rows = append(rows, Row{Number: idx + 1, Cells: cells})
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
