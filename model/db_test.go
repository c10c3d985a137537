package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toddlerya/schoolrecords/config"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "school.db")
	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(db))
	t.Cleanup(func() { Close(db) })
	return db
}

func TestOpenInvalidPath(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "school.db")

	db, err := Open(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = "oracle"

	db, err := Open(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := setupTestDB(t)

	_, err := AddStudent(db, &Student{Name: "Ana", Age: 10, Gender: "F", Grade: "5th"})
	require.NoError(t, err)

	require.NoError(t, EnsureSchema(db))
	students, err := ListStudents(db)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestSchemaColumns(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		table   string
		columns []string
	}{
		{"students", []string{"id", "name", "age", "gender", "grade"}},
		{"scores", []string{"id", "student_id", "subject", "score"}},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var names []string
			err := db.Raw("SELECT name FROM pragma_table_info(?) ORDER BY cid", tt.table).Scan(&names).Error
			require.NoError(t, err)
			assert.Equal(t, tt.columns, names)
		})
	}
}

func TestReopenKeepsRows(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "school.db")

	db, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(db))
	_, err = AddStudent(db, &Student{Name: "Ana", Age: 10, Gender: "F", Grade: "5th"})
	require.NoError(t, err)
	Close(db)

	db, err = Open(cfg)
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, EnsureSchema(db))

	students, err := ListStudents(db)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].Name)
}
