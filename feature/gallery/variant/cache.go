package variant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/models"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Kind names a resized rendition of a source photo.
type Kind string

const (
	Thumbnail Kind = "thumbnail"
	Large     Kind = "large"
)

// Filename returns the cache filename for a photo's rendition of this kind.
func (k Kind) Filename(uid string) string {
	return string(k) + "_" + uid + ".jpg"
}

// Cache holds resized photo renditions in a directory tree mirroring the
// photos directory. Entries are invalidated by reconciliation, never by age
// or size; a cached file is served as-is without checking the source again.
type Cache struct {
	photosDir string
	cacheDir  string
	group     singleflight.Group
	logger    *zap.Logger
}

func NewCache(settings dirconfig.Settings, logger *zap.Logger) *Cache {
	return &Cache{
		photosDir: settings.PhotosDir,
		cacheDir:  settings.CacheDir,
		logger:    logger,
	}
}

// Get returns the filesystem path of the cached rendition for a photo,
// generating and persisting it first when missing. Concurrent requests for
// the same rendition collapse into a single generation.
func (c *Cache) Get(photo *models.Photo, kind Kind, maxSize, quality int) (string, error) {
	dir := dirconfig.FSPath(c.cacheDir, photo.Path)
	target := filepath.Join(dir, kind.Filename(photo.UID))
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	_, err, _ := c.group.Do(string(kind)+"_"+photo.UID, func() (any, error) {
		return nil, c.generate(photo, kind, dir, target, maxSize, quality)
	})
	if err != nil {
		return "", err
	}
	return target, nil
}

func (c *Cache) generate(photo *models.Photo, kind Kind, dir, target string, maxSize, quality int) error {
	// Another request may have finished the file while we waited on the group.
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	source := filepath.Join(dirconfig.FSPath(c.photosDir, photo.Path), photo.Filename)
	img, err := imaging.Open(source)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", models.ErrCorruptSource, photo.FullName(), err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxSize || bounds.Dy() > maxSize {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %q: %w", dir, err)
	}

	// Write to a temp file and rename so readers never see a partial file.
	tmp, err := os.CreateTemp(dir, "."+string(kind)+"-*.jpg")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode %q: %w", photo.FullName(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to publish cache file %q: %w", target, err)
	}

	c.logger.Info("generated resized photo",
		zap.String("uid", photo.UID),
		zap.String("file", target))
	return nil
}

// Sweep removes, from the cache directory mirroring path, every rendition
// whose uid is not in valid. It returns the names of the removed files.
func (c *Cache) Sweep(path string, valid map[string]struct{}) []string {
	dir := dirconfig.FSPath(c.cacheDir, path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		for _, kind := range []Kind{Thumbnail, Large} {
			prefix := string(kind) + "_"
			if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".jpg") {
				continue
			}
			uid := name[len(prefix) : len(name)-len(".jpg")]
			if _, ok := valid[uid]; ok {
				continue
			}
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				c.logger.Warn("failed to remove stale cache file",
					zap.String("file", entry.Name()), zap.Error(err))
				continue
			}
			removed = append(removed, entry.Name())
		}
	}
	if len(removed) > 0 {
		c.logger.Info("removed stale resized photos",
			zap.String("path", path), zap.Strings("files", removed))
	}
	return removed
}

// SweepSubdirs removes, from the cache directory mirroring path, every
// subdirectory whose name is not in live. Stale subtrees appear when a whole
// photo directory is deleted or renamed.
func (c *Cache) SweepSubdirs(path string, live map[string]struct{}) {
	dir := dirconfig.FSPath(c.cacheDir, path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := live[entry.Name()]; ok {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			c.logger.Warn("failed to remove stale cache directory",
				zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		c.logger.Info("removed stale cache directory",
			zap.String("path", path), zap.String("dir", entry.Name()))
	}
}
