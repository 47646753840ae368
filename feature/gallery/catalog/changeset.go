package catalog

import "photo-gallery/feature/gallery/models"

// Move retargets an existing record to a new location, keeping its uid.
type Move struct {
	UID         string
	NewPath     string
	NewFilename string
}

// Changeset is the outcome of one reconciliation diff: the three operation
// sets are mutually exclusive, no record appears in more than one.
type Changeset struct {
	Inserts []models.Photo
	Deletes []string
	Moves   []Move
}

// Empty reports whether the changeset contains no operation at all.
func (c Changeset) Empty() bool {
	return len(c.Inserts) == 0 && len(c.Deletes) == 0 && len(c.Moves) == 0
}

// Metadata carries every derived field persisted by a metadata parse.
type Metadata struct {
	Width        int
	Height       int
	Color        string
	DateTaken    string
	CameraModel  string
	LensModel    string
	FocalLength  string
	Aperture     string
	ExposureTime string
	Sensitivity  string
}
