package sheet

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/reefgenomics/reefkb/internal/errors"
)

// CSVDirSource reads sheets from a directory holding one <SHEET>.csv file
// per sheet, e.g. an export of the template to CSV.
type CSVDirSource struct {
	fs      afero.Fs
	dir     string
	layouts map[Name]Layout
}

// NewCSVDirSource creates a source over dir on fs. A nil layouts map selects
// DefaultLayouts.
func NewCSVDirSource(fs afero.Fs, dir string, layouts map[Name]Layout) *CSVDirSource {
	if layouts == nil {
		layouts = DefaultLayouts
	}
	return &CSVDirSource{fs: fs, dir: dir, layouts: layouts}
}

func (s *CSVDirSource) path(name Name) string {
	return filepath.Join(s.dir, string(name)+".csv")
}

// Rows implements Source.
func (s *CSVDirSource) Rows(ctx context.Context, name Name) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(name)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.New(err).
			Component("sheet").
			Category(errors.CategoryFileIO).
			Context("sheet", string(name)).
			Context("path", path).
			Build()
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	r.FieldsPerRecord = -1
	table, err := r.ReadAll()
	if err != nil {
		return nil, errors.New(err).
			Component("sheet").
			Category(errors.CategoryFileParsing).
			FileContext(path, int64(len(data))).
			Build()
	}
	return applyLayout(name, table, LayoutFor(s.layouts, name))
}

// Identity implements Identified. The checksum covers every sheet file
// present, in processing order.
func (s *CSVDirSource) Identity() Identity {
	h := sha256.New()
	for _, name := range Names() {
		data, err := afero.ReadFile(s.fs, s.path(name))
		if err != nil {
			continue
		}
		h.Write([]byte(name))
		h.Write(data)
	}
	return Identity{Name: filepath.Base(s.dir), Checksum: hex.EncodeToString(h.Sum(nil))}
}
