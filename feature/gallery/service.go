package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photo-gallery/core/uid"
	"photo-gallery/feature/gallery/catalog"
	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/metadata"
	"photo-gallery/feature/gallery/models"
	"photo-gallery/feature/gallery/reconcile"
	"photo-gallery/feature/gallery/variant"

	"go.uber.org/zap"
)

// dimensionBackfillLimit caps how many photos a single listing request will
// decode just to learn their dimensions.
const dimensionBackfillLimit = 100

// Subdir is one entry of a navigation listing.
type Subdir struct {
	Name   string `json:"name"`
	Locked bool   `json:"locked"`
}

// Service exposes the gallery operations to the HTTP layer.
type Service struct {
	settings dirconfig.Settings
	resolver *dirconfig.Resolver
	store    *catalog.Store
	engine   *reconcile.Engine
	parser   *metadata.Parser
	cache    *variant.Cache
	logger   *zap.Logger
}

func NewService(settings dirconfig.Settings, resolver *dirconfig.Resolver, store *catalog.Store, engine *reconcile.Engine, parser *metadata.Parser, cache *variant.Cache, logger *zap.Logger) *Service {
	return &Service{
		settings: settings,
		resolver: resolver,
		store:    store,
		engine:   engine,
		parser:   parser,
		cache:    cache,
		logger:   logger,
	}
}

// checkPath validates and normalizes a requested gallery path. Unknown paths,
// traversal attempts and dot directories all come back as models.ErrNotFound
// so the response never reveals which of them it was.
func (s *Service) checkPath(p string) (string, error) {
	if !dirconfig.ValidPath(p) {
		return "", models.ErrNotFound
	}
	p = dirconfig.Normalize(p)
	if p != "/" && !s.settings.IndexSubdirs {
		return "", models.ErrNotFound
	}
	for _, segment := range strings.Split(p, "/") {
		if strings.HasPrefix(segment, ".") {
			return "", models.ErrNotFound
		}
	}
	info, err := os.Stat(dirconfig.FSPath(s.settings.PhotosDir, p))
	if err != nil || !info.IsDir() {
		return "", models.ErrNotFound
	}
	return p, nil
}

// authorize returns models.ErrUnauthorized when the path's effective password
// is not satisfied by the presented credentials.
func (s *Service) authorize(p string, creds dirconfig.Credentials) error {
	if s.resolver.IsLocked(p, creds) {
		return fmt.Errorf("%w: a password is required to access %q", models.ErrUnauthorized, p)
	}
	return nil
}

// Browse reconciles the subtree at path and returns the photos visible there,
// in display order. The window described by start and count is applied after
// reconciliation; a count of zero means the whole listing. When onlyUID is
// set the result is narrowed to that single photo. Small result windows get
// their dimensions backfilled so the first render can reserve space.
func (s *Service) Browse(ctx context.Context, path string, creds dirconfig.Credentials, start, count int, onlyUID string) ([]models.PhotoView, int, error) {
	path, err := s.checkPath(path)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authorize(path, creds); err != nil {
		return nil, 0, err
	}

	photos, err := s.engine.Reconcile(ctx, path, creds)
	if err != nil {
		return nil, 0, err
	}
	total := len(photos)

	if start < 0 || start >= total {
		start = 0
	}
	if count <= 0 || count > total {
		count = total
	}
	if start != 0 || count != total {
		end := start + count
		if end > total {
			end = total
		}
		photos = photos[start:end]
	}

	if onlyUID != "" {
		filtered := photos[:0]
		for _, p := range photos {
			if p.UID == onlyUID {
				filtered = append(filtered, p)
			}
		}
		photos = filtered
	}

	if len(photos) <= dimensionBackfillLimit {
		s.backfillDimensions(ctx, photos)
	}
	return photos, total, nil
}

// backfillDimensions fills in missing width/height for the listed photos so
// the grid can reserve space before the thumbnails load.
func (s *Service) backfillDimensions(ctx context.Context, photos []models.PhotoView) {
	for i := range photos {
		if photos[i].Width > 0 && photos[i].Height > 0 {
			continue
		}
		record, err := s.store.GetByUID(ctx, photos[i].UID)
		if err != nil || record.MetadataParsed {
			continue
		}
		if err := s.parser.Parse(ctx, record); err != nil {
			s.logger.Warn("failed to backfill photo dimensions",
				zap.String("uid", photos[i].UID), zap.Error(err))
			continue
		}
		if record.Width != nil {
			photos[i].Width = *record.Width
		}
		if record.Height != nil {
			photos[i].Height = *record.Height
		}
		photos[i].Color = record.Color
	}
}

// GetPhotoRecord returns the photo for a uid, parsing its metadata first if
// that never happened. Hidden photos are not addressable by uid.
func (s *Service) GetPhotoRecord(ctx context.Context, id string) (*models.Photo, error) {
	// Anything the generator could not have produced is unknown by
	// construction, no need to ask the catalog.
	if !uid.Valid(id, s.settings.UIDLength) {
		return nil, models.ErrNotFound
	}
	photo, err := s.store.GetByUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo.Hidden {
		return nil, models.ErrNotFound
	}
	if !photo.MetadataParsed {
		if err := s.parser.Parse(ctx, photo); err != nil {
			// An unparseable photo is still listed, with empty fields.
			s.logger.Warn("failed to parse photo metadata",
				zap.String("uid", id), zap.Error(err))
		}
	}
	return photo, nil
}

// SourcePath returns the filesystem path of a photo's original file.
func (s *Service) SourcePath(photo *models.Photo) string {
	return filepath.Join(dirconfig.FSPath(s.settings.PhotosDir, photo.Path), photo.Filename)
}

// GetVariant returns the filesystem path of a photo's cached rendition,
// generating it on first access with the configured size and quality.
func (s *Service) GetVariant(ctx context.Context, uid string, kind variant.Kind) (string, error) {
	photo, err := s.GetPhotoRecord(ctx, uid)
	if err != nil {
		return "", err
	}
	maxSize, quality := s.settings.ThumbnailMaxSize, s.settings.ThumbnailQuality
	if kind == variant.Large {
		maxSize, quality = s.settings.LargeViewMaxSize, s.settings.LargeViewQuality
	}
	return s.cache.Get(photo, kind, maxSize, quality)
}

// DownloadName returns the attachment filename offered when a photo is
// downloaded: the configured prefix followed by the uid, never the original
// filename.
func (s *Service) DownloadName(photo *models.Photo) string {
	return s.settings.DownloadPrefix + photo.UID + ".jpg"
}

// ListVisibleSubdirs returns the navigable subdirectories of a path, sorted,
// with their locked state under the presented credentials. Hidden and
// unindexed directories are omitted unless includeHidden is set.
func (s *Service) ListVisibleSubdirs(path string, creds dirconfig.Credentials, includeHidden bool) ([]Subdir, error) {
	path, err := s.checkPath(path)
	if err != nil {
		return nil, err
	}
	if !s.settings.IndexSubdirs {
		return []Subdir{}, nil
	}

	entries, err := os.ReadDir(dirconfig.FSPath(s.settings.PhotosDir, path))
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", path, err)
	}

	subdirs := make([]Subdir, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		subPath := path + entry.Name() + "/"
		cfg := s.resolver.Resolve(subPath)
		if !cfg.Index {
			continue
		}
		if cfg.Hidden && !includeHidden {
			continue
		}
		subdirs = append(subdirs, Subdir{
			Name:   entry.Name(),
			Locked: !cfg.Unlocked(creds),
		})
	}
	sort.Slice(subdirs, func(i, j int) bool { return subdirs[i].Name < subdirs[j].Name })
	return subdirs, nil
}

// CheckCredential reports whether secret satisfies the effective password of
// path.
func (s *Service) CheckCredential(path, secret string) bool {
	return s.resolver.CheckCredential(dirconfig.Normalize(path), secret)
}

// ResolveConfig returns the effective configuration of a path.
func (s *Service) ResolveConfig(path string) dirconfig.EffectiveConfig {
	return s.resolver.Resolve(dirconfig.Normalize(path))
}
