package reconcile

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"photo-gallery/core/uid"
	"photo-gallery/feature/gallery/catalog"
	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/models"
	"photo-gallery/feature/gallery/variant"

	"go.uber.org/zap"
)

// Engine keeps the catalog in sync with the photo directory tree. Each call
// to Reconcile walks the requested subtree, diffs the filesystem against the
// catalog, commits the difference and returns the resulting ordered listing.
type Engine struct {
	settings dirconfig.Settings
	resolver *dirconfig.Resolver
	store    *catalog.Store
	cache    *variant.Cache
	logger   *zap.Logger

	// mu serializes whole reconciliation passes. Roots can overlap (a pass
	// over "/" visits every subtree), so per-root locking is not enough: two
	// passes holding different locks could both diff the same directory
	// before either commits, and both would insert the same file.
	mu sync.Mutex
}

func NewEngine(settings dirconfig.Settings, resolver *dirconfig.Resolver, store *catalog.Store, cache *variant.Cache, logger *zap.Logger) *Engine {
	return &Engine{
		settings: settings,
		resolver: resolver,
		store:    store,
		cache:    cache,
		logger:   logger,
	}
}

// EnsureDirs creates the photos and cache directories if they don't exist.
func (e *Engine) EnsureDirs() error {
	for _, dir := range []string{e.settings.PhotosDir, e.settings.CacheDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			e.logger.Info("creating empty directory", zap.String("dir", dir))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", dir, err)
			}
		}
	}
	return nil
}

// pendingInsert is a file found on disk with no catalog record yet.
type pendingInsert struct {
	path     string
	filename string
	md5      string
}

// walkState accumulates the results of one recursive pass over a subtree.
type walkState struct {
	displayed  []models.Photo
	inserts    []pendingInsert
	removals   []models.Photo
	pathsFound map[string]struct{}
}

// Reconcile syncs the subtree rooted at path with the catalog and returns the
// photos visible at that path, in display order, each with its zero-based
// index. creds carries the passwords the caller has already presented; locked
// subdirectories keep their photos out of the rollup but are still indexed.
func (e *Engine) Reconcile(ctx context.Context, path string, creds dirconfig.Credentials) ([]models.PhotoView, error) {
	path = dirconfig.Normalize(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	st := &walkState{pathsFound: make(map[string]struct{})}
	if err := e.walk(ctx, path, creds, st, true); err != nil {
		return nil, err
	}

	// Directories deleted wholesale leave records behind under paths the
	// walk never visited. Those records are removals too.
	if e.settings.IndexSubdirs {
		if err := e.collectOrphans(ctx, path, st); err != nil {
			return nil, err
		}
	}

	cs, err := e.buildChangeset(ctx, st)
	if err != nil {
		return nil, err
	}
	if !cs.Empty() {
		if err := e.store.Apply(ctx, cs); err != nil {
			return nil, err
		}
		// The catalog changed under this listing, walk again for a
		// consistent result.
		st = &walkState{pathsFound: make(map[string]struct{})}
		if err := e.walk(ctx, path, creds, st, true); err != nil {
			return nil, err
		}
	}

	views := make([]models.PhotoView, len(st.displayed))
	for i, p := range st.displayed {
		views[i] = p.View(i)
	}
	return views, nil
}

// walk processes one directory then recurses into its live subdirectories.
// Subdirectory failures are isolated: a directory that cannot be read is
// logged and skipped without aborting its siblings.
func (e *Engine) walk(ctx context.Context, path string, creds dirconfig.Credentials, st *walkState, isRoot bool) error {
	st.pathsFound[path] = struct{}{}
	cfg := e.resolver.Resolve(path)
	fsDir := dirconfig.FSPath(e.settings.PhotosDir, path)

	filenames, err := listJPEGs(fsDir)
	if err != nil {
		return fmt.Errorf("failed to list %q: %w", fsDir, err)
	}

	records, err := e.store.ListByPath(ctx, path, cfg.SortColumns(), cfg.ReverseSortOrder)
	if err != nil {
		return err
	}

	inCatalog := make(map[string]struct{}, len(records))
	validUIDs := make(map[string]struct{}, len(records))
	for _, r := range records {
		inCatalog[r.Filename] = struct{}{}
		validUIDs[r.UID] = struct{}{}
	}
	onDisk := make(map[string]struct{}, len(filenames))
	for _, f := range filenames {
		onDisk[f] = struct{}{}
	}

	for _, f := range filenames {
		if _, ok := inCatalog[f]; !ok {
			st.inserts = append(st.inserts, pendingInsert{path: path, filename: f})
		}
	}
	for _, r := range records {
		if _, ok := onDisk[r.Filename]; !ok {
			st.removals = append(st.removals, r)
		}
	}

	// Renditions of photos no longer recorded here are stale.
	e.cache.Sweep(path, validUIDs)

	// The root of the request is always displayed; a subdirectory's photos
	// roll up only when its effective configuration allows it and any
	// password on it has been satisfied.
	if isRoot || (cfg.ShowPhotosFromSubdirs && !cfg.Hidden && cfg.Unlocked(creds)) {
		for _, r := range records {
			if !r.Hidden {
				st.displayed = append(st.displayed, r)
			}
		}
	}

	if !e.settings.IndexSubdirs {
		return nil
	}

	subdirs, err := listSubdirs(fsDir)
	if err != nil {
		return fmt.Errorf("failed to list subdirectories of %q: %w", fsDir, err)
	}

	live := make(map[string]struct{}, len(subdirs))
	for _, s := range subdirs {
		live[s] = struct{}{}
	}
	e.cache.SweepSubdirs(path, live)

	for _, sub := range subdirs {
		subPath := path + sub + "/"
		if !e.resolver.Resolve(subPath).Index {
			continue
		}
		if err := e.walk(ctx, subPath, creds, st, false); err != nil {
			e.logger.Warn("skipping unreadable directory",
				zap.String("path", subPath), zap.Error(err))
		}
	}
	return nil
}

// collectOrphans appends to the removals every record whose path was known to
// the catalog under root but no longer exists on disk.
func (e *Engine) collectOrphans(ctx context.Context, root string, st *walkState) error {
	known, err := e.store.KnownPathsUnder(ctx, root)
	if err != nil {
		return err
	}
	var orphaned []string
	for _, p := range known {
		if _, ok := st.pathsFound[p]; !ok {
			orphaned = append(orphaned, p)
		}
	}
	if len(orphaned) == 0 {
		return nil
	}
	records, err := e.store.PhotosInPaths(ctx, orphaned)
	if err != nil {
		return err
	}
	st.removals = append(st.removals, records...)
	return nil
}

// buildChangeset hashes the candidate insertions and pairs them with the
// candidate removals to detect files that were moved or renamed rather than
// added and deleted. A pair shares a digest; the first match wins and each
// side is consumed at most once. Whatever remains unpaired becomes a real
// insert or delete.
func (e *Engine) buildChangeset(ctx context.Context, st *walkState) (catalog.Changeset, error) {
	var cs catalog.Changeset
	if len(st.inserts) == 0 && len(st.removals) == 0 {
		return cs, nil
	}

	inserts := make([]pendingInsert, 0, len(st.inserts))
	for _, ins := range st.inserts {
		fullPath := filepath.Join(dirconfig.FSPath(e.settings.PhotosDir, ins.path), ins.filename)
		sum, err := fileMD5(fullPath)
		if err != nil {
			// The file vanished between the listing and now. It will be
			// picked up, or not, on the next pass.
			e.logger.Warn("failed to hash new photo, skipping",
				zap.String("file", ins.path+ins.filename), zap.Error(err))
			continue
		}
		ins.md5 = sum
		inserts = append(inserts, ins)
	}

	consumed := make([]bool, len(st.removals))
	var moved []string
	unpaired := inserts[:0]
	for _, ins := range inserts {
		paired := false
		for i, rem := range st.removals {
			if consumed[i] || rem.MD5 != ins.md5 {
				continue
			}
			consumed[i] = true
			paired = true
			cs.Moves = append(cs.Moves, catalog.Move{
				UID:         rem.UID,
				NewPath:     ins.path,
				NewFilename: ins.filename,
			})
			moved = append(moved, fmt.Sprintf("%q->%q", rem.Path+rem.Filename, ins.path+ins.filename))
			break
		}
		if !paired {
			unpaired = append(unpaired, ins)
		}
	}

	if len(unpaired) > 0 {
		existing, err := e.store.AllUIDs(ctx)
		if err != nil {
			return catalog.Changeset{}, err
		}
		names := make([]string, 0, len(unpaired))
		for _, ins := range unpaired {
			newUID, err := uid.Generate(e.settings.UIDLength, existing)
			if err != nil {
				return catalog.Changeset{}, err
			}
			existing[newUID] = struct{}{}
			cs.Inserts = append(cs.Inserts, models.Photo{
				UID:      newUID,
				Path:     ins.path,
				Filename: ins.filename,
				MD5:      ins.md5,
			})
			names = append(names, ins.path+ins.filename)
		}
		e.logger.Info("inserting photos", zap.Strings("files", names))
	}

	for i, rem := range st.removals {
		if consumed[i] {
			continue
		}
		cs.Deletes = append(cs.Deletes, rem.UID)
	}
	if len(cs.Deletes) > 0 {
		e.logger.Info("removing photos", zap.Int("count", len(cs.Deletes)))
	}
	if len(moved) > 0 {
		e.logger.Info("moving photos", zap.Strings("files", moved))
	}
	return cs, nil
}

// listJPEGs returns the JPEG filenames directly inside dir, sorted. Dotfiles
// and non-regular entries are skipped.
func listJPEGs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
			filenames = append(filenames, entry.Name())
		}
	}
	sort.Strings(filenames)
	return filenames, nil
}

// listSubdirs returns the non-hidden subdirectory names of dir, sorted.
func listSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			subdirs = append(subdirs, entry.Name())
		}
	}
	sort.Strings(subdirs)
	return subdirs, nil
}

func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
