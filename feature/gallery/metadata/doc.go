// Package metadata derives photo attributes from source files: pixel
// dimensions, a coarse average-color token used as a loading placeholder,
// and a subset of EXIF fields. Parsing is idempotent and runs at most once
// per catalog record, triggered lazily on first access.
package metadata
