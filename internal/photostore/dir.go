package photostore

import (
	"context"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/reefgenomics/reefkb/internal/errors"
)

// DirStore is a photo directory on an afero filesystem.
type DirStore struct {
	fs      afero.Fs
	dir     string
	baseURL string
}

// NewDirStore creates a store over dir. URLs are baseURL joined with the
// file name, or a file:// URL of the absolute path when baseURL is empty.
func NewDirStore(fs afero.Fs, dir, baseURL string) *DirStore {
	return &DirStore{fs: fs, dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// List implements Store. Subdirectories and hidden files are skipped.
func (s *DirStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, errors.New(err).
			Component("photostore").
			Category(errors.CategoryPhotoStore).
			Context("directory", s.dir).
			Build()
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// URL implements Store.
func (s *DirStore) URL(name string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + url.PathEscape(name)
	}
	abs, err := filepath.Abs(filepath.Join(s.dir, name))
	if err != nil {
		abs = filepath.Join(s.dir, name)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
