package repository

import (
	"testing"

	"heritage/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database per test so cases stay isolated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Entry{}, &models.Comment{}, &models.Like{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Password: "x", IsAdmin: admin}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedEntry(t *testing.T, db *gorm.DB, userID uint, title, slug string, category models.EntryCategory) *models.Entry {
	t.Helper()
	entry := &models.Entry{
		Title:       title,
		Category:    category,
		Content:     "content for " + title,
		Location:    "Odisha, India",
		Slug:        slug,
		CreatedByID: userID,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}
