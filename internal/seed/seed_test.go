package seed

import (
	"testing"

	"heritage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Entry{}, &models.Comment{}, &models.Like{}))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedTestDB(t)

	err := Seed(db, Options{NumUsers: 8, NumEntries: 10})
	require.NoError(t, err)

	var users, entries int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Entry{}).Count(&entries)
	assert.Equal(t, int64(8), users)
	assert.Equal(t, int64(10), entries)

	var admins int64
	db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins)
	assert.GreaterOrEqual(t, admins, int64(1), "seed always includes an admin")

	// Every entry slug is unique and derived from its title
	var slugs []string
	db.Model(&models.Entry{}).Pluck("slug", &slugs)
	seen := map[string]bool{}
	for _, slug := range slugs {
		assert.False(t, seen[slug], "duplicate slug %s", slug)
		seen[slug] = true
		assert.NotEmpty(t, slug)
	}
}

func TestFactoryBuildEntry(t *testing.T) {
	db := setupSeedTestDB(t)
	f := NewFactory(db)

	user := models.User{Name: "Curator", Email: "c@example.com", Password: "x", IsAdmin: true}
	require.NoError(t, db.Create(&user).Error)

	entry := f.BuildEntry(&user, 1)
	assert.NotEmpty(t, entry.Title)
	assert.NotEmpty(t, entry.Slug)
	assert.True(t, entry.Category.Valid())
	assert.Equal(t, user.ID, entry.CreatedByID)
	assert.Len(t, entry.ImageURLs, 2)

	withOverride := f.BuildEntry(&user, 2, func(e *models.Entry) {
		e.Category = models.CategoryFestival
	})
	assert.Equal(t, models.CategoryFestival, withOverride.Category)
}
