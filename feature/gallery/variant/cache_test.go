package variant

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/models"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*Cache, string, string) {
	t.Helper()
	photosDir := t.TempDir()
	cacheDir := t.TempDir()
	settings := dirconfig.Settings{PhotosDir: photosDir, CacheDir: cacheDir}
	return NewCache(settings, zap.NewNop()), photosDir, cacheDir
}

func writeJPEG(t *testing.T, dir, name string, width, height int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	img := imaging.New(width, height, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func TestGetResizesWithinBox(t *testing.T) {
	cache, photosDir, cacheDir := newTestCache(t)
	writeJPEG(t, photosDir, "wide.jpg", 4000, 2000)
	photo := &models.Photo{UID: "uid000000a", Path: "/", Filename: "wide.jpg"}

	path, err := cache.Get(photo, Large, 1000, 85)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, "large_uid000000a.jpg"), path)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestGetNeverUpscales(t *testing.T) {
	cache, photosDir, _ := newTestCache(t)
	writeJPEG(t, photosDir, "small.jpg", 500, 300)
	photo := &models.Photo{UID: "uid000000a", Path: "/", Filename: "small.jpg"}

	path, err := cache.Get(photo, Large, 1920, 85)
	require.NoError(t, err)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestGetCacheHit(t *testing.T) {
	cache, photosDir, _ := newTestCache(t)
	writeJPEG(t, photosDir, "photo.jpg", 800, 600)
	photo := &models.Photo{UID: "uid000000a", Path: "/", Filename: "photo.jpg"}

	first, err := cache.Get(photo, Thumbnail, 400, 70)
	require.NoError(t, err)

	// A hit never touches the source again.
	require.NoError(t, os.Remove(filepath.Join(photosDir, "photo.jpg")))
	second, err := cache.Get(photo, Thumbnail, 400, 70)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetMirrorsSubdirectories(t *testing.T) {
	cache, photosDir, cacheDir := newTestCache(t)
	writeJPEG(t, filepath.Join(photosDir, "travel"), "a.jpg", 800, 600)
	photo := &models.Photo{UID: "uid000000a", Path: "/travel/", Filename: "a.jpg"}

	path, err := cache.Get(photo, Thumbnail, 400, 70)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, "travel", "thumbnail_uid000000a.jpg"), path)
}

func TestGetCorruptSource(t *testing.T) {
	cache, photosDir, _ := newTestCache(t)
	require.NoError(t, os.WriteFile(filepath.Join(photosDir, "bad.jpg"), []byte("junk"), 0o644))
	photo := &models.Photo{UID: "uid000000a", Path: "/", Filename: "bad.jpg"}

	_, err := cache.Get(photo, Thumbnail, 400, 70)
	assert.ErrorIs(t, err, models.ErrCorruptSource)
}

func TestSweep(t *testing.T) {
	cache, photosDir, cacheDir := newTestCache(t)
	writeJPEG(t, photosDir, "keep.jpg", 800, 600)
	keep := &models.Photo{UID: "uid0keep00a", Path: "/", Filename: "keep.jpg"}
	_, err := cache.Get(keep, Thumbnail, 400, 70)
	require.NoError(t, err)

	// Leftovers from photos that no longer exist.
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "thumbnail_uid0gone00a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "large_uid0gone00a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "unrelated.txt"), []byte("x"), 0o644))

	removed := cache.Sweep("/", map[string]struct{}{"uid0keep00a": {}})
	assert.ElementsMatch(t, []string{"thumbnail_uid0gone00a.jpg", "large_uid0gone00a.jpg"}, removed)

	_, err = os.Stat(filepath.Join(cacheDir, "thumbnail_uid0keep00a.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cacheDir, "unrelated.txt"))
	assert.NoError(t, err)
}
