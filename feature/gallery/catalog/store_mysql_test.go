package catalog

import (
	"context"
	"testing"

	"photo-gallery/feature/gallery/models"

	"github.com/DATA-DOG/go-sqlmock"
	sqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	// No AutoMigrate against the mock, the schema is assumed in place.
	return &Store{db: gormDB, logger: zap.NewNop()}, mock
}

func TestApplyConflictOnMySQL(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `photo`").
		WillReturnError(&sqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := store.Apply(context.Background(), Changeset{Inserts: []models.Photo{
		{UID: "uid000000a", Path: "/", Filename: "a.jpg", MD5: "1"},
	}})
	assert.ErrorIs(t, err, models.ErrWriteConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPathOnMySQL(t *testing.T) {
	store, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"uid", "path", "filename", "md5"}).
		AddRow("uid000000a", "/travel/", "a.jpg", "1").
		AddRow("uid000000b", "/travel/", "b.jpg", "2")

	mock.ExpectQuery("SELECT \\* FROM `photo` WHERE path = \\?").WillReturnRows(rows)

	photos, err := store.ListByPath(context.Background(), "/travel/", []string{"filename"}, false)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "a.jpg", photos[0].Filename)
	assert.NoError(t, mock.ExpectationsWereMet())
}
