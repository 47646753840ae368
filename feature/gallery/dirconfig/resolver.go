package dirconfig

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// Resolver computes the effective configuration of a directory by merging
// per-directory override files over the gallery defaults, root to leaf.
// Resolution is side-effect free and safe for concurrent use.
type Resolver struct {
	photosDir string
	defaults  EffectiveConfig
	logger    *zap.Logger
}

// NewResolver creates a resolver rooted at the configured photo directory.
func NewResolver(settings Settings, logger *zap.Logger) *Resolver {
	return &Resolver{
		photosDir: settings.PhotosDir,
		defaults:  settings.Defaults(),
		logger:    logger,
	}
}

// Resolve returns the effective configuration for the given catalog path.
// A missing override file at any level means "no overrides at this level";
// a malformed one is logged and skipped so a single bad file cannot take a
// whole subtree offline.
func (r *Resolver) Resolve(p string) EffectiveConfig {
	cfg := r.defaults

	dir := r.photosDir
	r.mergeFile(&cfg, dir)
	if p = Normalize(p); p != "/" {
		for _, segment := range strings.Split(strings.Trim(p, "/"), "/") {
			dir = filepath.Join(dir, segment)
			r.mergeFile(&cfg, dir)
		}
	}

	return cfg
}

// CheckCredential reports whether the given secret satisfies the effective
// password of the path. Paths without a password always pass.
func (r *Resolver) CheckCredential(p, secret string) bool {
	password := r.Resolve(p).Password
	return password == "" || secret == password
}

// IsLocked reports whether the path requires a password that none of the
// provided credentials satisfies.
func (r *Resolver) IsLocked(p string, creds Credentials) bool {
	return !r.Resolve(p).Unlocked(creds)
}

// mergeFile reads the override file inside dir, if present, and merges its
// keys into cfg.
func (r *Resolver) mergeFile(cfg *EffectiveConfig, dir string) {
	name := filepath.Join(dir, OverrideFilename)

	var o overrides
	if _, err := toml.DecodeFile(name, &o); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Skipping malformed directory config",
				zap.String("file", name),
				zap.Error(err))
		}
		return
	}

	if o.Index != nil {
		cfg.Index = *o.Index
	}
	// Hidden is sticky-on: an explicit false never unhides a directory an
	// ancestor already hid.
	if o.Hidden != nil && *o.Hidden {
		cfg.Hidden = true
	}
	if o.Password != nil {
		cfg.Password = *o.Password
	}
	if o.SortOrder != nil {
		cfg.SortOrder = *o.SortOrder
	}
	if o.ReverseSortOrder != nil {
		cfg.ReverseSortOrder = *o.ReverseSortOrder
	}
	if o.ShowPhotosFromSubdirs != nil {
		cfg.ShowPhotosFromSubdirs = *o.ShowPhotosFromSubdirs
	}
}
