// Package storagetest opens migrated throwaway databases for tests.
package storagetest

import (
	"path/filepath"
	"testing"

	"repairshop/internal/adapters/storage"
	"repairshop/internal/adapters/storage/schema"

	"gorm.io/gorm"
)

// Open creates a migrated SQLite database in a temp dir and closes it on cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := storage.Open(storage.Options{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := schema.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
