package dirconfig

import (
	"path"
	"path/filepath"
	"strings"
)

// Normalize returns the canonical catalog form of a directory path: cleaned,
// starting and ending with "/". The root is "/".
func Normalize(p string) string {
	p = path.Clean("/" + strings.Trim(p, "/"))
	if p == "/" {
		return "/"
	}
	return p + "/"
}

// ValidPath reports whether a normalized path is acceptable for catalog use:
// no dot-prefixed segments (hidden directories) and no traversal leftovers.
func ValidPath(p string) bool {
	if p == "/" {
		return true
	}
	for _, segment := range strings.Split(strings.Trim(p, "/"), "/") {
		if segment == "" || strings.HasPrefix(segment, ".") {
			return false
		}
	}
	return true
}

// FSPath maps a normalized catalog path to a location under root on the
// local filesystem.
func FSPath(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(strings.Trim(p, "/")))
}

// Parent returns the normalized parent of a normalized path; the parent of
// the root is the root itself.
func Parent(p string) string {
	if p == "/" {
		return "/"
	}
	return Normalize(path.Dir(strings.TrimSuffix(p, "/")))
}
