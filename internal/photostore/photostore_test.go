package photostore

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
)

func TestBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"AF_SPIS_1.jpg", "AF_SPIS_1"},
		{"AF_SPIS_1.JPG", "AF_SPIS_1"},
		{"AF_SPIS_1.Jpeg", "AF_SPIS_1"},
		{"AF_SPIS_1.png", "AF_SPIS_1.png"},
		{"AF_SPIS_1", "AF_SPIS_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseName(tt.in), tt.in)
	}
	assert.Equal(t, "AF_SPIS_1.jpg", StoredName("AF_SPIS_1.JPEG"))
}

func TestMatch(t *testing.T) {
	t.Parallel()

	files := []string{"AF_SPIS_1.JPG", "AF_SPIS_10.jpg", "AF_SPIS_2.jpeg", "AF_SPIS_2.jpg", "notes.txt"}

	assert.Equal(t, []string{"AF_SPIS_1.JPG"}, Match(files, "AF_SPIS_1"))
	assert.Equal(t, []string{"AF_SPIS_1.JPG"}, Match(files, " AF_SPIS_1.jpg "), "label extension and spaces are ignored")
	assert.Len(t, Match(files, "AF_SPIS_2"), 2)
	assert.Empty(t, Match(files, "AF_SPIS_3"))
}

func TestDirStore(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/photos/b.jpg", []byte("b"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/photos/a.JPG", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/photos/.DS_Store", nil, 0o644))
	require.NoError(t, fs.MkdirAll("/photos/thumbs", 0o755))

	store := NewDirStore(fs, "/photos", "https://photos.example.org/reef/")
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.JPG", "b.jpg"}, names)
	assert.Equal(t, "https://photos.example.org/reef/a%20b.jpg", store.URL("a b.jpg"))

	local := NewDirStore(fs, "/photos", "")
	assert.Equal(t, "file:///photos/a.jpg", local.URL("a.jpg"))
}

func TestDirStore_MissingDirectory(t *testing.T) {
	t.Parallel()

	store := NewDirStore(afero.NewMemMapFs(), "/nowhere", "")
	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryPhotoStore))
}

// fakeLister serves pages of keys keyed by continuation token.
type fakeLister struct {
	pages  map[string][]string
	next   map[string]string
	inputs []*s3.ListObjectsV2Input
}

func (f *fakeLister) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.inputs = append(f.inputs, in)
	token := aws.ToString(in.ContinuationToken)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range f.pages[token] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if n, ok := f.next[token]; ok {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(n)
	}
	return out, nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	store, err := New(t.Context(), &conf.PhotoSettings{
		Store:     conf.PhotoStoreDir,
		Directory: t.TempDir(),
		BaseURL:   "https://photos.example.org/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.example.org/a.jpg", store.URL("a.jpg"))

	_, err = New(t.Context(), &conf.PhotoSettings{Store: "ftp"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = New(t.Context(), &conf.PhotoSettings{Store: conf.PhotoStoreS3})
	require.Error(t, err, "bucket is required")
}

func TestS3Store_List(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{
		pages: map[string][]string{
			"":     {"submissions/2018/AF_SPIS_1.jpg", "submissions/2018/"},
			"tok2": {"submissions/2018/AF_SPIS_2.JPG", "submissions/2018/nested/x.jpg"},
		},
		next: map[string]string{"": "tok2"},
	}
	store := NewS3StoreWithClient(lister, "reef-photos", "submissions/2018", "https://cdn.example.org/reef-photos/")

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AF_SPIS_1.jpg", "AF_SPIS_2.JPG"}, names)

	require.Len(t, lister.inputs, 2)
	assert.Equal(t, "reef-photos", aws.ToString(lister.inputs[0].Bucket))
	assert.Equal(t, "submissions/2018/", aws.ToString(lister.inputs[0].Prefix))
	assert.Equal(t, "tok2", aws.ToString(lister.inputs[1].ContinuationToken))

	assert.Equal(t, "https://cdn.example.org/reef-photos/submissions/2018/AF_SPIS_1.jpg", store.URL("AF_SPIS_1.jpg"))
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{"camera suffix dropped", "20180807_AF_CBASS_01_IMG_4821.JPG", "20180807T1200_AF_CBASS_1.jpg"},
		{"DSC suffix dropped", "20180807T0930_AF_CBASS_2_DSC_0042.jpeg", "20180807T0930_AF_CBASS_2.jpg"},
		{"CB spelled out", "20180807T1200_AF_CB_3.jpg", "20180807T1200_AF_CBASS_3.jpg"},
		{"leading zeros trimmed", "20180807T1200_AF_CBASS_007.jpg", "20180807T1200_AF_CBASS_7.jpg"},
		{"zero kept", "20180807T1200_AF_CBASS_0.jpg", "20180807T1200_AF_CBASS_0.jpg"},
		{"already normal", "20180807T1200_AF_CBASS_1.jpg", "20180807T1200_AF_CBASS_1.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/20180807_AF_CB_01_IMG_1.JPG", []byte("1"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/20180807T1200_AF_CBASS_2.jpg", []byte("2"), 0o644))

	plan, err := Normalize(fs, "/p", true)
	require.NoError(t, err)
	require.Equal(t, []Rename{{From: "20180807_AF_CB_01_IMG_1.JPG", To: "20180807T1200_AF_CBASS_1.jpg"}}, plan)

	exists, err := afero.Exists(fs, "/p/20180807T1200_AF_CBASS_1.jpg")
	require.NoError(t, err)
	assert.False(t, exists, "dry run must not rename")

	_, err = Normalize(fs, "/p", false)
	require.NoError(t, err)
	exists, err = afero.Exists(fs, "/p/20180807T1200_AF_CBASS_1.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNormalize_CollisionRenamesNothing(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/20180807T1200_AF_CBASS_01.jpg", []byte("1"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/20180807T1200_AF_CBASS_001.jpg", []byte("2"), 0o644))

	_, err := Normalize(fs, "/p", false)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConflict))

	names, err := NewDirStore(fs, "/p", "").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"20180807T1200_AF_CBASS_001.jpg", "20180807T1200_AF_CBASS_01.jpg"}, names)
}
