package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE photo (uid TEXT PRIMARY KEY, path TEXT, filename TEXT, md5 TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "photo")
	require.NoError(t, err)
	require.Len(t, columns, 4)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "text", colMap["uid"])
	assert.Equal(t, "text", colMap["path"])

	// PRAGMA table_info returns an empty result for a non-existent table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestVerifyColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE photo (uid TEXT PRIMARY KEY, path TEXT, filename TEXT)").Error
	require.NoError(t, err)

	assert.NoError(t, VerifyColumns(db, "photo", []string{"uid", "path", "filename"}))

	err = VerifyColumns(db, "photo", []string{"uid", "md5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "md5")
}
