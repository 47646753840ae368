package gallery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/models"
	"photo-gallery/feature/gallery/variant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowseValidatesPath(t *testing.T) {
	_, svc, _ := setupTestApp(t)
	ctx := context.Background()

	_, _, err := svc.Browse(ctx, "/../outside/", nil, 0, 0, "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, _, err = svc.Browse(ctx, "/does-not-exist/", nil, 0, 0, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBrowseLockedPath(t *testing.T) {
	_, svc, photosDir := setupTestApp(t)
	ctx := context.Background()

	private := filepath.Join(photosDir, "private")
	writeTestPhoto(t, private, "a.jpg", 10)
	require.NoError(t, os.WriteFile(
		filepath.Join(private, dirconfig.OverrideFilename),
		[]byte("PASSWORD = \"sesame\"\n"), 0o644))

	_, _, err := svc.Browse(ctx, "/private/", nil, 0, 0, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	photos, _, err := svc.Browse(ctx, "/private/", dirconfig.Credentials{"/private/": "sesame"}, 0, 0, "")
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}

func TestGetPhotoRecordParsesOnce(t *testing.T) {
	_, svc, photosDir := setupTestApp(t)
	ctx := context.Background()

	writeTestPhoto(t, photosDir, "a.jpg", 10)
	photos, _, err := svc.Browse(ctx, "/", nil, 0, 0, "")
	require.NoError(t, err)
	uid := photos[0].UID

	record, err := svc.GetPhotoRecord(ctx, uid)
	require.NoError(t, err)
	assert.True(t, record.MetadataParsed)
	require.NotNil(t, record.Width)
	assert.Equal(t, 32, *record.Width)

	// Deleting the source must not matter anymore: the record is parsed and
	// is returned as stored.
	require.NoError(t, os.Remove(filepath.Join(photosDir, "a.jpg")))
	again, err := svc.GetPhotoRecord(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, record.Color, again.Color)
}

func TestGetPhotoRecordCorruptStaysListed(t *testing.T) {
	_, svc, photosDir := setupTestApp(t)
	ctx := context.Background()

	writeTestPhoto(t, photosDir, "good.jpg", 10)
	_, _, err := svc.Browse(ctx, "/", nil, 0, 0, "")
	require.NoError(t, err)
	photos, _, err := svc.Browse(ctx, "/", nil, 0, 0, "")
	require.NoError(t, err)
	uid := photos[0].UID

	// Corrupt the file after cataloging. The record stays retrievable with
	// empty derived fields.
	require.NoError(t, os.WriteFile(filepath.Join(photosDir, "good.jpg"), []byte("junk"), 0o644))
	record, err := svc.GetPhotoRecord(ctx, uid)
	require.NoError(t, err)
	assert.False(t, record.MetadataParsed)
	assert.Empty(t, record.Color)
}

func TestGetVariantUnknownUID(t *testing.T) {
	_, svc, _ := setupTestApp(t)

	_, err := svc.GetVariant(context.Background(), "nosuchuid0", variant.Thumbnail)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListVisibleSubdirs(t *testing.T) {
	_, svc, photosDir := setupTestApp(t)

	writeTestPhoto(t, filepath.Join(photosDir, "beach"), "a.jpg", 10)
	writeTestPhoto(t, filepath.Join(photosDir, "arctic"), "b.jpg", 20)

	hidden := filepath.Join(photosDir, "secret")
	writeTestPhoto(t, hidden, "c.jpg", 30)
	require.NoError(t, os.WriteFile(
		filepath.Join(hidden, dirconfig.OverrideFilename),
		[]byte("HIDDEN = true\n"), 0o644))

	locked := filepath.Join(photosDir, "private")
	writeTestPhoto(t, locked, "d.jpg", 40)
	require.NoError(t, os.WriteFile(
		filepath.Join(locked, dirconfig.OverrideFilename),
		[]byte("PASSWORD = \"sesame\"\n"), 0o644))

	subdirs, err := svc.ListVisibleSubdirs("/", nil, false)
	require.NoError(t, err)
	require.Len(t, subdirs, 3)
	assert.Equal(t, []Subdir{
		{Name: "arctic", Locked: false},
		{Name: "beach", Locked: false},
		{Name: "private", Locked: true},
	}, subdirs)

	withHidden, err := svc.ListVisibleSubdirs("/", nil, true)
	require.NoError(t, err)
	assert.Len(t, withHidden, 4)

	unlocked, err := svc.ListVisibleSubdirs("/", dirconfig.Credentials{"/private/": "sesame"}, false)
	require.NoError(t, err)
	assert.Equal(t, Subdir{Name: "private", Locked: false}, unlocked[2])
}

func TestCheckCredential(t *testing.T) {
	_, svc, photosDir := setupTestApp(t)

	private := filepath.Join(photosDir, "private")
	require.NoError(t, os.MkdirAll(private, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(private, dirconfig.OverrideFilename),
		[]byte("PASSWORD = \"sesame\"\n"), 0o644))

	assert.True(t, svc.CheckCredential("/private/", "sesame"))
	assert.False(t, svc.CheckCredential("/private/", "wrong"))
	// No password at the root, any secret satisfies it.
	assert.True(t, svc.CheckCredential("/", ""))
}
