package repositories

import (
	"path/filepath"
	"testing"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// newTestDB opens a file-backed sqlite database so concurrent access in
// tests goes through real locking rather than the in-memory shortcut.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&User{},
		&Location{},
		&PartCategory{},
		&Part{},
		&ActivityType{},
		&StandardQuestion{},
		&MaintenanceActivity{},
		&ActivityAnswer{},
		&PartUsage{},
		&ActivityPhoto{},
	))

	return db
}

func createLocation(
	t *testing.T,
	db *gorm.DB,
	repo LocationRepository,
	name, code string,
	locationType LocationType,
	parentID *uuid.UUID,
) *Location {
	t.Helper()
	location := &Location{
		Name:     name,
		Code:     code,
		Type:     locationType,
		ParentID: parentID,
		IsActive: true,
	}
	require.NoError(t, repo.Create(t.Context(), db, location))
	return location
}
