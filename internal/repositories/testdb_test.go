package repositories_test

import (
	"path/filepath"
	"testing"

	"storefront/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway file-backed sqlite database with the full schema
// migrated. A file (rather than :memory:) keeps concurrent connections on the
// same database; the busy timeout makes writers wait instead of erroring.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
