package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/geo"
)

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake jpeg bytes"), 0o600))
	return path
}

func TestCheckImage(t *testing.T) {
	t.Run("readable image passes", func(t *testing.T) {
		assert.NoError(t, CheckImage(writeTempImage(t, "leaf.jpg")))
	})

	t.Run("missing file is a permission failure", func(t *testing.T) {
		err := CheckImage(filepath.Join(t.TempDir(), "absent.jpg"))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})

	t.Run("directory is rejected", func(t *testing.T) {
		err := CheckImage(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})

	t.Run("unsupported extension is rejected", func(t *testing.T) {
		err := CheckImage(writeTempImage(t, "notes.txt"))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrPermissionDenied)
	})
}

func TestCheckImages_StopsAtFirstFailure(t *testing.T) {
	good := writeTempImage(t, "leaf.jpeg")
	bad := filepath.Join(t.TempDir(), "gone.jpg")

	assert.NoError(t, CheckImages([]string{good}))
	assert.Error(t, CheckImages([]string{good, bad}))
}

func TestCheckLocation(t *testing.T) {
	err := CheckLocation(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrLocationDenied)

	assert.NoError(t, CheckLocation(geo.NewStaticLocator(14.6, 121.0)))
}
