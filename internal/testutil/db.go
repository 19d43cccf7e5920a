// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"testing"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/pkg/password"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database that lives for the test.
// Hashing drops to the minimum bcrypt cost so signups stay fast.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	password.DefaultCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with a hashed password and returns it
func CreateUser(t *testing.T, db *gorm.DB, user *models.User, plain string) *models.User {
	t.Helper()

	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user.Password = hash
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
