package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/config"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) (*repo.GormRepo, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return repo.New(db), db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price float64, ownerID uint) models.Product {
	t.Helper()
	prod := models.Product{
		Title:       title,
		Price:       price,
		Description: "test description",
		ImageURL:    "images/" + title + ".png",
		UserID:      ownerID,
	}
	if err := db.Create(&prod).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return prod
}
