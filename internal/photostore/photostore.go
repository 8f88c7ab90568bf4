// Package photostore lists submission photos and resolves photo labels to
// stored files.
package photostore

import (
	"context"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
)

// Store is a flat collection of photo files.
type Store interface {
	// List returns the file names in the store.
	List(ctx context.Context) ([]string, error)
	// URL returns the address recorded for a stored file name.
	URL(name string) string
}

// photoExtensions are stripped, in any letter case, before labels are compared.
var photoExtensions = []string{".jpg", ".jpeg"}

// BaseName strips a .jpg or .jpeg extension in any letter case.
func BaseName(fileName string) string {
	ext := path.Ext(fileName)
	for _, e := range photoExtensions {
		if strings.EqualFold(ext, e) {
			return strings.TrimSuffix(fileName, ext)
		}
	}
	return fileName
}

// StoredName is the name recorded for a photo file: its base name with the
// extension normalised to .jpg.
func StoredName(fileName string) string {
	return BaseName(fileName) + ".jpg"
}

// Match returns every file whose base name equals label. Callers decide how
// to treat zero or several matches.
func Match(files []string, label string) []string {
	label = BaseName(strings.TrimSpace(label))
	var matches []string
	for _, f := range files {
		if BaseName(f) == label {
			matches = append(matches, f)
		}
	}
	return matches
}

// GetLogger returns the photostore module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("photostore")
}

// New opens the store selected in settings. The dir store reads the local
// filesystem.
func New(ctx context.Context, settings *conf.PhotoSettings) (Store, error) {
	switch settings.Store {
	case conf.PhotoStoreDir, "":
		return NewDirStore(afero.NewOsFs(), settings.Directory, settings.BaseURL), nil
	case conf.PhotoStoreS3:
		return NewS3Store(ctx, &settings.S3)
	default:
		return nil, errors.Newf("unsupported photo store %q", settings.Store).
			Component("photostore").
			Category(errors.CategoryConfiguration).
			Context("store", settings.Store).
			Build()
	}
}
