package sheet

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
)

// XLSXSource reads sheets from an Excel workbook.
type XLSXSource struct {
	mu       sync.Mutex
	file     *excelize.File
	layouts  map[Name]Layout
	identity Identity
	sheets   map[string]string // upper-cased trimmed name -> workbook sheet name
}

// OpenXLSX opens the workbook at path on fs. A nil layouts map selects
// DefaultLayouts.
func OpenXLSX(fs afero.Fs, path string, layouts map[Name]Layout) (*XLSXSource, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.New(err).
			Component("sheet").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New(err).
			Component("sheet").
			Category(errors.CategoryFileParsing).
			FileContext(path, int64(len(data))).
			Build()
	}

	if layouts == nil {
		layouts = DefaultLayouts
	}
	sum := sha256.Sum256(data)
	src := &XLSXSource{
		file:     f,
		layouts:  layouts,
		identity: Identity{Name: filepath.Base(path), Checksum: hex.EncodeToString(sum[:])},
		sheets:   make(map[string]string),
	}
	for _, s := range f.GetSheetList() {
		src.sheets[strings.ToUpper(strings.TrimSpace(s))] = s
	}

	GetLogger().Debug("opened workbook",
		logger.String("path", path),
		logger.Int("sheets", len(src.sheets)),
		logger.String("checksum", src.identity.Checksum))
	return src, nil
}

// Identity implements Identified.
func (s *XLSXSource) Identity() Identity {
	return s.identity
}

// Rows implements Source. Sheet names match case-insensitively.
func (s *XLSXSource) Rows(ctx context.Context, name Name) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheetName, ok := s.sheets[string(name)]
	if !ok {
		return nil, errors.Newf("workbook %s has no sheet %s", s.identity.Name, name).
			Component("sheet").
			Category(errors.CategoryFileParsing).
			Context("sheet", string(name)).
			Build()
	}

	table, err := s.file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.New(err).
			Component("sheet").
			Category(errors.CategoryFileParsing).
			Context("sheet", string(name)).
			Build()
	}

	for r, row := range table {
		for c, v := range row {
			if converted, ok := s.dateCell(sheetName, c+1, r+1, v); ok {
				row[c] = converted
			}
		}
	}
	return applyLayout(name, table, LayoutFor(s.layouts, name))
}

// Close releases the workbook.
func (s *XLSXSource) Close() error {
	return s.file.Close()
}

// dateCell renders a numeric cell with a date or time number format as an
// ISO-8601 local value. Serials below one day are times of day.
func (s *XLSXSource) dateCell(sheetName string, col, row int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial < 0 {
		return "", false
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	styleID, err := s.file.GetCellStyle(sheetName, cell)
	if err != nil || styleID == 0 {
		return "", false
	}
	style, err := s.file.GetStyle(styleID)
	if err != nil || !isDateFormat(style.NumFmt, style.CustomNumFmt) {
		return "", false
	}

	if serial < 1 {
		secs := int(serial*86400 + 0.5)
		return time.Date(0, 1, 1, 0, 0, secs, 0, time.UTC).Format("15:04:05"), true
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	t = t.Round(time.Second)
	if serial == float64(int64(serial)) && !hasTimeTokens(style.NumFmt, style.CustomNumFmt) {
		return t.Format("2006-01-02"), true
	}
	return t.Format("2006-01-02T15:04:05"), true
}

// isDateFormat reports whether a number format renders dates or times.
func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	return strings.ContainsAny(stripLiterals(*custom), "ydhs")
}

func hasTimeTokens(numFmt int, custom *string) bool {
	if (numFmt >= 18 && numFmt <= 22) || (numFmt >= 45 && numFmt <= 47) {
		return true
	}
	return custom != nil && strings.ContainsAny(stripLiterals(*custom), "hs")
}

// stripLiterals lower-cases a format and removes quoted text, escaped
// characters and bracketed sections such as colours and locales.
func stripLiterals(format string) string {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(format); i++ {
		ch := format[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return strings.ToLower(b.String())
}
