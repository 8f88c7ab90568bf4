package photos

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/20180807_AF_CB_01_IMG_1.JPG", []byte("1"), 0o644))

	var out bytes.Buffer
	require.NoError(t, normalize(&out, fs, "/p", true))
	assert.Equal(t, "20180807_AF_CB_01_IMG_1.JPG -> 20180807T1200_AF_CBASS_1.jpg\n1 files would rename in /p\n", out.String())

	out.Reset()
	require.NoError(t, normalize(&out, fs, "/p", false))
	assert.Contains(t, out.String(), "1 files renamed in /p")

	exists, err := afero.Exists(fs, "/p/20180807T1200_AF_CBASS_1.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNormalize_MissingDirectory(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.Error(t, normalize(&out, afero.NewMemMapFs(), "/missing", false))
	assert.Empty(t, out.String())
}
