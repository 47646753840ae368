package models

// Photo is a catalog record, one row per file ever seen under the photo root.
// The uid is the primary key and never changes for the lifetime of the record;
// path and filename track where the file currently lives. Their composite
// unique index carries the invariant that a file is cataloged at most once;
// a write that would violate it fails instead of duplicating the record.
type Photo struct {
	UID      string `gorm:"column:uid;primaryKey;size:32"`
	Path     string `gorm:"column:path;uniqueIndex:uq_photo_location,priority:1;size:512"`
	Filename string `gorm:"column:filename;uniqueIndex:uq_photo_location,priority:2;size:255"`
	MD5      string `gorm:"column:md5"`

	// Width and Height stay NULL until first computed.
	Width  *int `gorm:"column:width"`
	Height *int `gorm:"column:height"`

	Hidden         bool `gorm:"column:hidden"`
	MetadataParsed bool `gorm:"column:metadata_parsed"`

	// Derived and EXIF fields, empty until MetadataParsed is set.
	Color        string `gorm:"column:color"`
	DateTaken    string `gorm:"column:date_taken"`
	CameraModel  string `gorm:"column:camera_model"`
	LensModel    string `gorm:"column:lens_model"`
	FocalLength  string `gorm:"column:focal_length"`
	Aperture     string `gorm:"column:aperture"`
	ExposureTime string `gorm:"column:exposure_time"`
	Sensitivity  string `gorm:"column:sensitivity"`
}

// TableName overrides the table name used by GORM.
func (Photo) TableName() string {
	return "photo"
}

// PhotoView is the read model returned to callers of the gallery service.
type PhotoView struct {
	UID          string `json:"uid"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Color        string `json:"color"`
	DateTaken    string `json:"date_taken"`
	CameraModel  string `json:"camera_model"`
	LensModel    string `json:"lens_model"`
	FocalLength  string `json:"focal_length"`
	Aperture     string `json:"aperture"`
	ExposureTime string `json:"exposure_time"`
	Sensitivity  string `json:"sensitivity"`
	DisplayIndex int    `json:"display_index"`
}

// View converts a catalog record to its read model. The display index is
// positional within a listing and must be assigned by the caller.
func (p Photo) View(index int) PhotoView {
	v := PhotoView{
		UID:          p.UID,
		Filename:     p.Filename,
		Path:         p.Path,
		Color:        p.Color,
		DateTaken:    p.DateTaken,
		CameraModel:  p.CameraModel,
		LensModel:    p.LensModel,
		FocalLength:  p.FocalLength,
		Aperture:     p.Aperture,
		ExposureTime: p.ExposureTime,
		Sensitivity:  p.Sensitivity,
		DisplayIndex: index,
	}
	if p.Width != nil {
		v.Width = *p.Width
	}
	if p.Height != nil {
		v.Height = *p.Height
	}
	return v
}

// FullName returns the catalog path joined with the filename, e.g.
// "/travel/2023/beach.jpg". Paths are normalized to start and end with "/".
func (p Photo) FullName() string {
	return p.Path + p.Filename
}
