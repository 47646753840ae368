package metadata

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"photo-gallery/feature/gallery/catalog"
	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/models"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"
)

// Parser derives photo metadata (dimensions, average color, EXIF fields) from
// source files and persists it through the catalog.
type Parser struct {
	photosDir string
	readExif  bool
	store     *catalog.Store
	logger    *zap.Logger
}

func NewParser(settings dirconfig.Settings, store *catalog.Store, logger *zap.Logger) *Parser {
	return &Parser{
		photosDir: settings.PhotosDir,
		readExif:  settings.ReadExif,
		store:     store,
		logger:    logger,
	}
}

// Parse derives and persists all metadata for a photo as a single update.
// It is meant to run at most once per record, on first access to one with
// MetadataParsed still false. A source file that cannot be decoded leaves
// the record untouched and returns models.ErrCorruptSource.
func (p *Parser) Parse(ctx context.Context, photo *models.Photo) error {
	fullPath := filepath.Join(dirconfig.FSPath(p.photosDir, photo.Path), photo.Filename)
	p.logger.Info("parsing photo metadata", zap.String("uid", photo.UID), zap.String("file", photo.FullName()))

	img, err := imaging.Open(fullPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", models.ErrCorruptSource, photo.FullName(), err)
	}

	bounds := img.Bounds()
	meta := catalog.Metadata{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Color:  averageColorToken(img),
	}
	if p.readExif {
		p.readExifInto(fullPath, &meta)
	}

	if err := p.store.SetMetadata(ctx, photo.UID, meta); err != nil {
		return err
	}

	photo.Width = &meta.Width
	photo.Height = &meta.Height
	photo.Color = meta.Color
	photo.DateTaken = meta.DateTaken
	photo.CameraModel = meta.CameraModel
	photo.LensModel = meta.LensModel
	photo.FocalLength = meta.FocalLength
	photo.Aperture = meta.Aperture
	photo.ExposureTime = meta.ExposureTime
	photo.Sensitivity = meta.Sensitivity
	photo.MetadataParsed = true
	return nil
}

// EnsureParsed parses, in place, up to limit photos of the slice that have no
// metadata yet. Parse failures are logged and skipped so one corrupt file
// does not break a whole gallery page.
func (p *Parser) EnsureParsed(ctx context.Context, photos []models.Photo, limit int) {
	parsed := 0
	for i := range photos {
		if photos[i].MetadataParsed || parsed >= limit {
			continue
		}
		if err := p.Parse(ctx, &photos[i]); err != nil {
			p.logger.Warn("failed to parse photo metadata",
				zap.String("uid", photos[i].UID),
				zap.Error(err))
			continue
		}
		parsed++
	}
}

// readExifInto fills the EXIF-derived fields of meta from the file at
// fullPath. Missing or unreadable EXIF data leaves the fields empty.
func (p *Parser) readExifInto(fullPath string, meta *catalog.Metadata) {
	f, err := os.Open(fullPath)
	if err != nil {
		return
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return
	}

	meta.DateTaken = tagString(x, exif.DateTimeOriginal)
	if meta.DateTaken == "" {
		meta.DateTaken = tagString(x, exif.DateTimeDigitized)
	}
	meta.CameraModel = tagString(x, exif.Model)
	meta.LensModel = tagString(x, exif.LensModel)
	meta.FocalLength = tagRounded(x, exif.FocalLength)
	meta.Aperture = tagRounded(x, exif.FNumber)
	meta.ExposureTime = tagRational(x, exif.ExposureTime)
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			meta.Sensitivity = strconv.Itoa(iso)
		}
	}
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// tagRational renders a rational tag in its raw num/den notation, the way
// exposure times are conventionally displayed.
func tagRational(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", num, den)
}

// tagRounded renders a rational tag as a decimal, rounded to as many places
// as the denominator has digits. A focal length of 560/10 comes out "56",
// an aperture of 28/10 comes out "2.8".
func tagRounded(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return ""
	}
	return roundedRatio(num, den)
}

func roundedRatio(num, den int64) string {
	decimals := len(strconv.FormatInt(den, 10))
	scale := math.Pow10(decimals)
	value := math.Round(float64(num)/float64(den)*scale) / scale
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// averageColorToken reduces an image to a 6-character token: each channel's
// mean is scaled down to a sixth of its range and rendered as two hex digits,
// giving a deliberately dark tone suitable as a loading placeholder.
func averageColorToken(img image.Image) string {
	nrgba := imaging.Clone(img)
	pixels := len(nrgba.Pix) / 4
	if pixels == 0 {
		return ""
	}

	var r, g, b uint64
	for i := 0; i < len(nrgba.Pix); i += 4 {
		r += uint64(nrgba.Pix[i])
		g += uint64(nrgba.Pix[i+1])
		b += uint64(nrgba.Pix[i+2])
	}
	n := uint64(pixels)
	return fmt.Sprintf("%02x%02x%02x", r/n/6, g/n/6, b/n/6)
}
