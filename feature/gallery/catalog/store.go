package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photo-gallery/core/database"
	"photo-gallery/feature/gallery/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// batchSize bounds the number of rows touched by a single SQL statement.
const batchSize = 100

// sortableColumns whitelists the photo columns accepted in a sort order.
// Order clauses are assembled from configuration text, so anything outside
// this set is dropped rather than interpolated into SQL.
var sortableColumns = map[string]struct{}{
	"uid":           {},
	"path":          {},
	"filename":      {},
	"md5":           {},
	"width":         {},
	"height":        {},
	"color":         {},
	"date_taken":    {},
	"camera_model":  {},
	"lens_model":    {},
	"focal_length":  {},
	"aperture":      {},
	"exposure_time": {},
	"sensitivity":   {},
}

// Store persists photo records. It is the ground truth for previously seen
// files; the filesystem remains the source of truth for current ones.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore wraps a database connection and ensures the photo table exists
// with the expected schema.
func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if err := db.AutoMigrate(&models.Photo{}); err != nil {
		return nil, fmt.Errorf("failed to migrate photo table: %w", err)
	}
	required := make([]string, 0, len(sortableColumns)+2)
	required = append(required, "hidden", "metadata_parsed")
	for col := range sortableColumns {
		required = append(required, col)
	}
	if err := database.VerifyColumns(db, models.Photo{}.TableName(), required); err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

// ListByPath returns the records registered at exactly the given path,
// ordered by the given columns, each ascending or all descending when
// reverse is set.
func (s *Store) ListByPath(ctx context.Context, path string, columns []string, reverse bool) ([]models.Photo, error) {
	var photos []models.Photo
	err := s.db.WithContext(ctx).
		Where("path = ?", path).
		Order(s.orderClause(columns, reverse)).
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos in %q: %w", path, err)
	}
	return photos, nil
}

// AllUIDs returns the set of every uid ever assigned, used as the collision
// domain for generating new ones.
func (s *Store) AllUIDs(ctx context.Context) (map[string]struct{}, error) {
	var uids []string
	if err := s.db.WithContext(ctx).Model(&models.Photo{}).Pluck("uid", &uids).Error; err != nil {
		return nil, fmt.Errorf("failed to load uids: %w", err)
	}
	set := make(map[string]struct{}, len(uids))
	for _, u := range uids {
		set[u] = struct{}{}
	}
	return set, nil
}

// KnownPathsUnder returns the distinct paths at or under prefix that hold at
// least one record. Used to detect directories deleted wholesale.
func (s *Store) KnownPathsUnder(ctx context.Context, prefix string) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).Model(&models.Photo{}).
		Distinct("path").
		Where("substr(path, 1, ?) = ?", len(prefix), prefix).
		Pluck("path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list known paths under %q: %w", prefix, err)
	}
	return paths, nil
}

// PhotosInPaths returns every record registered in one of the given paths.
func (s *Store) PhotosInPaths(ctx context.Context, paths []string) ([]models.Photo, error) {
	var photos []models.Photo
	for i := 0; i < len(paths); i += batchSize {
		end := i + batchSize
		if end > len(paths) {
			end = len(paths)
		}
		var batch []models.Photo
		if err := s.db.WithContext(ctx).Where("path IN ?", paths[i:end]).Find(&batch).Error; err != nil {
			return nil, fmt.Errorf("failed to load photos in paths: %w", err)
		}
		photos = append(photos, batch...)
	}
	return photos, nil
}

// GetByUID returns the record for a uid, or models.ErrNotFound.
func (s *Store) GetByUID(ctx context.Context, uid string) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load photo %q: %w", uid, err)
	}
	return &photo, nil
}

// Apply commits a reconciliation changeset as one transaction, in insert,
// delete, move order. A failure rolls the whole pass back and surfaces as
// a retryable models.ErrWriteConflict when another writer raced the commit.
func (s *Store) Apply(ctx context.Context, cs Changeset) error {
	if cs.Empty() {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(cs.Inserts) > 0 {
			if err := tx.CreateInBatches(cs.Inserts, batchSize).Error; err != nil {
				return fmt.Errorf("insert: %w", err)
			}
		}
		for i := 0; i < len(cs.Deletes); i += batchSize {
			end := i + batchSize
			if end > len(cs.Deletes) {
				end = len(cs.Deletes)
			}
			if err := tx.Where("uid IN ?", cs.Deletes[i:end]).Delete(&models.Photo{}).Error; err != nil {
				return fmt.Errorf("delete: %w", err)
			}
		}
		for _, m := range cs.Moves {
			err := tx.Model(&models.Photo{}).Where("uid = ?", m.UID).Updates(map[string]any{
				"path":     m.NewPath,
				"filename": m.NewFilename,
			}).Error
			if err != nil {
				return fmt.Errorf("move %q: %w", m.UID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", models.ErrWriteConflict, err)
		}
		return fmt.Errorf("failed to apply changeset: %w", err)
	}
	return nil
}

// SetDimensions persists the pixel dimensions of a photo.
func (s *Store) SetDimensions(ctx context.Context, uid string, width, height int) error {
	err := s.db.WithContext(ctx).Model(&models.Photo{}).Where("uid = ?", uid).Updates(map[string]any{
		"width":  width,
		"height": height,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to set dimensions for %q: %w", uid, err)
	}
	return nil
}

// SetMetadata persists all derived fields and marks the record parsed, as a
// single update so a failure leaves the record fully unparsed.
func (s *Store) SetMetadata(ctx context.Context, uid string, m Metadata) error {
	err := s.db.WithContext(ctx).Model(&models.Photo{}).Where("uid = ?", uid).Updates(map[string]any{
		"width":           m.Width,
		"height":          m.Height,
		"color":           m.Color,
		"date_taken":      m.DateTaken,
		"camera_model":    m.CameraModel,
		"lens_model":      m.LensModel,
		"focal_length":    m.FocalLength,
		"aperture":        m.Aperture,
		"exposure_time":   m.ExposureTime,
		"sensitivity":     m.Sensitivity,
		"metadata_parsed": true,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to set metadata for %q: %w", uid, err)
	}
	return nil
}

// orderClause assembles a safe ORDER BY from configured column names.
func (s *Store) orderClause(columns []string, reverse bool) string {
	direction := "ASC"
	if reverse {
		direction = "DESC"
	}

	clauses := make([]string, 0, len(columns))
	for _, col := range columns {
		col = strings.TrimSpace(col)
		if _, ok := sortableColumns[col]; !ok {
			s.logger.Warn("Ignoring unknown sort column", zap.String("column", col))
			continue
		}
		clauses = append(clauses, col+" "+direction)
	}
	if len(clauses) == 0 {
		clauses = []string{"filename " + direction}
	}
	return strings.Join(clauses, ", ")
}
