package dirconfig

import "strings"

// OverrideFilename is the per-directory override file read during resolution.
// It is a small TOML document living inside each photo directory; the leading
// dot keeps it out of photo listings.
const OverrideFilename = ".gallery.config"

// Settings is the gallery-wide configuration section. The cascade-relevant
// fields double as the root of every directory's effective configuration.
type Settings struct {
	// PhotosDir is the root of the photo tree.
	PhotosDir string `mapstructure:"photos_dir" default:"photos"`
	// CacheDir is the root of the derived-asset cache mirroring PhotosDir.
	CacheDir string `mapstructure:"cache_dir" default:"cache"`
	// UIDLength is the number of characters in generated photo uids.
	UIDLength int `mapstructure:"uid_length" default:"10"`
	// IndexSubdirs enables recursing into subdirectories at all.
	IndexSubdirs bool `mapstructure:"index_subdirs" default:"true"`
	// ShowPhotosFromSubdirs rolls descendant photos up into ancestor listings.
	ShowPhotosFromSubdirs bool `mapstructure:"show_photos_from_subdirs" default:"true"`
	// SortOrder is a comma separated list of photo columns to order by.
	SortOrder string `mapstructure:"sort_order" default:"filename"`
	// ReverseSortOrder flips every sort column to descending.
	ReverseSortOrder bool `mapstructure:"reverse_sort_order" default:"false"`
	// Password gates the whole gallery when non-empty.
	Password string `mapstructure:"password" default:""`

	// ThumbnailMaxSize bounds thumbnail variants, in pixels on either side.
	ThumbnailMaxSize int `mapstructure:"thumbnail_max_size" default:"400"`
	// ThumbnailQuality is the JPEG quality of thumbnail variants.
	ThumbnailQuality int `mapstructure:"thumbnail_quality" default:"70"`
	// LargeViewMaxSize bounds large-view variants, in pixels on either side.
	LargeViewMaxSize int `mapstructure:"large_view_max_size" default:"1920"`
	// LargeViewQuality is the JPEG quality of large-view variants.
	LargeViewQuality int `mapstructure:"large_view_quality" default:"85"`

	// ReadExif enables EXIF extraction during metadata parsing.
	ReadExif bool `mapstructure:"read_exif" default:"true"`
	// DownloadPrefix prefixes the filename offered for photo downloads.
	DownloadPrefix string `mapstructure:"download_prefix" default:"gallery_"`
}

// Defaults returns the effective configuration of the photo root before any
// override file is applied.
func (s Settings) Defaults() EffectiveConfig {
	return EffectiveConfig{
		Index:                 true,
		Hidden:                false,
		Password:              s.Password,
		SortOrder:             s.SortOrder,
		ReverseSortOrder:      s.ReverseSortOrder,
		ShowPhotosFromSubdirs: s.ShowPhotosFromSubdirs,
	}
}

// EffectiveConfig is the fully merged configuration of one directory after
// applying the override files of all its ancestors in root-to-leaf order.
type EffectiveConfig struct {
	// Index includes the directory when enumerating subdirectories.
	Index bool
	// Hidden suppresses the directory's photos from parent aggregation and
	// hides it from navigation. Hidden is sticky: once an ancestor sets it,
	// a descendant cannot clear it.
	Hidden bool
	// Password gates the directory when non-empty.
	Password string
	// SortOrder is a comma separated list of photo columns to order by.
	SortOrder string
	// ReverseSortOrder flips every sort column to descending.
	ReverseSortOrder bool
	// ShowPhotosFromSubdirs rolls this directory's photos up into ancestor
	// listings.
	ShowPhotosFromSubdirs bool
}

// SortColumns splits the configured sort order into individual column names.
func (c EffectiveConfig) SortColumns() []string {
	parts := strings.Split(c.SortOrder, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			columns = append(columns, p)
		}
	}
	if len(columns) == 0 {
		columns = []string{"filename"}
	}
	return columns
}

// Unlocked reports whether the directory's password, if any, is satisfied by
// one of the provided credentials. Credentials are keyed by path but a match
// on any value unlocks, since a password set on an ancestor protects the whole
// subtree under it.
func (c EffectiveConfig) Unlocked(creds Credentials) bool {
	if c.Password == "" {
		return true
	}
	for _, secret := range creds {
		if secret == c.Password {
			return true
		}
	}
	return false
}

// Credentials is the set of secrets a caller has presented, keyed by the path
// they were presented for. The transport (header, cookie, token) is the HTTP
// layer's concern; the core only ever treats this as an opaque credential set.
type Credentials map[string]string

// overrides mirrors the recognized keys of an override file. Pointer fields
// distinguish "absent" from an explicit zero value.
type overrides struct {
	Index                 *bool   `toml:"INDEX"`
	Hidden                *bool   `toml:"HIDDEN"`
	Password              *string `toml:"PASSWORD"`
	SortOrder             *string `toml:"SORT_ORDER"`
	ReverseSortOrder      *bool   `toml:"REVERSE_SORT_ORDER"`
	ShowPhotosFromSubdirs *bool   `toml:"SHOW_PHOTOS_FROM_SUBDIRS"`
}
