package models

import "errors"

// Sentinel errors shared across the gallery feature. Callers match them with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound covers unknown uids, hidden photos reached through a
	// listing, and paths outside or missing from the photo root.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means a password is required for the path and the
	// provided credential is absent or wrong.
	ErrUnauthorized = errors.New("password required")

	// ErrCorruptSource means a source image failed to decode.
	ErrCorruptSource = errors.New("corrupt source image")

	// ErrWriteConflict means a reconciliation commit raced with another
	// writer; the whole pass was rolled back and can be retried.
	ErrWriteConflict = errors.New("catalog write conflict")
)
