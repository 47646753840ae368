package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "photos", cfg.Gallery.PhotosDir)
	assert.Equal(t, "cache", cfg.Gallery.CacheDir)
	assert.Equal(t, 10, cfg.Gallery.UIDLength)
	assert.Equal(t, 400, cfg.Gallery.ThumbnailMaxSize)
	assert.Equal(t, 1920, cfg.Gallery.LargeViewMaxSize)
	assert.True(t, cfg.Gallery.IndexSubdirs)
	assert.Equal(t, "filename", cfg.Gallery.SortOrder)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GALLERY_PHOTOS_DIR", "/srv/photos")
	t.Setenv("GALLERY_PASSWORD", "sesame")
	t.Setenv("GALLERY_REVERSE_SORT_ORDER", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/photos", cfg.Gallery.PhotosDir)
	assert.Equal(t, "sesame", cfg.Gallery.Password)
	assert.True(t, cfg.Gallery.ReverseSortOrder)
}
