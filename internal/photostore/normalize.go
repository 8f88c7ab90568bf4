package photostore

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
)

// DefaultCollectionTime is appended to the leading date segment of a photo
// name that carries no time.
const DefaultCollectionTime = "T1200"

// Rename is one planned or applied file rename.
type Rename struct {
	From string
	To   string
}

// NormalizeName rewrites a camera-style photo file name to the template
// convention <dateTtime>_<site>_CBASS_<n>..._<label>.jpg:
//
//   - camera suffixes such as "_IMG_1234.JPG" or "_DSC_0042.jpeg" are dropped
//   - the leading date segment gets DefaultCollectionTime when it has no time
//   - a "_CB_" segment is spelled out as "_CBASS_"
//   - leading zeros of numeric segments are removed ("_01" becomes "_1")
func NormalizeName(name string) string {
	base := name
	if strings.Contains(name, "IMG") || strings.Contains(name, "DSC") {
		base, _, _ = strings.Cut(name, ".")
		parts := strings.Split(base, "_")
		if len(parts) > 2 {
			parts = parts[:len(parts)-2]
		}
		base = strings.Join(parts, "_") + ".jpg"
	}

	parts := strings.Split(base, "_")
	if !strings.Contains(parts[0], "T") && len(parts) > 1 {
		parts[0] += DefaultCollectionTime
	}
	for i := 1; i < len(parts); i++ {
		if parts[i] == "CB" && !strings.Contains(base, "CBASS") {
			parts[i] = "CBASS"
		}
		parts[i] = trimLeadingZeros(parts[i])
	}
	return strings.Join(parts, "_")
}

// trimLeadingZeros strips zeros from the front of a segment whose digit
// prefix is longer than one character, e.g. "01" or "007.jpg".
func trimLeadingZeros(segment string) string {
	digits := len(segment) - len(strings.TrimLeft(segment, "0123456789"))
	if digits < 2 || segment[0] != '0' {
		return segment
	}
	trimmed := strings.TrimLeft(segment[:digits], "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return trimmed + segment[digits:]
}

// Normalize renames every file in dir to its NormalizeName. The plan is
// checked first: when two files would get the same name, or a target
// already exists, nothing is renamed. With dryRun the plan is only returned.
func Normalize(fs afero.Fs, dir string, dryRun bool) ([]Rename, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.New(err).
			Component("photostore").
			Category(errors.CategoryFileIO).
			Context("directory", dir).
			Build()
	}

	existing := make(map[string]bool, len(infos))
	for _, info := range infos {
		existing[info.Name()] = true
	}

	var plan []Rename
	targets := make(map[string]string)
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		from := info.Name()
		to := NormalizeName(from)
		if to == from {
			continue
		}
		if other, dup := targets[to]; dup {
			return nil, conflictError(dir, to, "both "+other+" and "+from+" normalise to it")
		}
		if existing[to] {
			return nil, conflictError(dir, to, "target already exists")
		}
		targets[to] = from
		plan = append(plan, Rename{From: from, To: to})
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].From < plan[j].From })

	if dryRun {
		return plan, nil
	}

	log := GetLogger()
	for i, r := range plan {
		if err := fs.Rename(filepath.Join(dir, r.From), filepath.Join(dir, r.To)); err != nil {
			return plan[:i], errors.New(err).
				Component("photostore").
				Category(errors.CategoryFileIO).
				Context("from", r.From).
				Context("to", r.To).
				Build()
		}
		log.Debug("renamed photo", logger.String("from", r.From), logger.String("to", r.To))
	}
	log.Info("normalised photo names", logger.String("directory", dir), logger.Int("renamed", len(plan)))
	return plan, nil
}

func conflictError(dir, target, reason string) error {
	return errors.Newf("cannot normalise %s: %s", target, reason).
		Component("photostore").
		Category(errors.CategoryConflict).
		Context("directory", dir).
		Build()
}
