// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"heritage/internal/models"
	"heritage/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var siteNames = []string{
	"Sun Temple", "Iron Pillar", "Stepwell", "Rock Fort", "Cave Shrine",
	"Great Stupa", "Victory Tower", "Water Palace", "Sacred Grove", "Old Granary",
	"Star Observatory", "Copper Bell Foundry", "Painted Hall", "Chariot Shrine",
	"Hanging Garden", "Royal Bathhouse", "Weaver Quarter", "Salt Road Fort",
}

var sitePlaces = []string{
	"Hampi, Karnataka", "Konark, Odisha", "Delhi", "Patan, Gujarat",
	"Madurai, Tamil Nadu", "Sanchi, Madhya Pradesh", "Chittorgarh, Rajasthan",
	"Jaipur, Rajasthan", "Aihole, Karnataka", "Rakhigarhi, Haryana",
}

// BuildEntry constructs an entry without persisting it.
func (f *Factory) BuildEntry(user *models.User, seq int, overrides ...func(*models.Entry)) *models.Entry {
	category := models.Categories[f.r.Intn(len(models.Categories))]
	title := fmt.Sprintf("%s of %s %d", siteNames[f.r.Intn(len(siteNames))], gofakeit.City(), seq)

	entry := &models.Entry{
		Title:           title,
		Category:        category,
		Content:         randomArticle(f.r),
		Location:        sitePlaces[f.r.Intn(len(sitePlaces))],
		Slug:            validation.DeriveSlug(title),
		MetaDescription: gofakeit.Sentence(12),
		Keywords:        datatypes.JSONSlice[string]{string(category), "heritage", "history"},
		ImageURLs: datatypes.JSONSlice[string]{
			fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", gofakeit.UUID()),
			fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", gofakeit.UUID()),
		},
		CreatedByID: user.ID,
		Views:       int64(f.r.Intn(5000)),
	}

	// realistic created_at spread over the last year
	daysBack := f.r.Intn(365)
	hoursBack := f.r.Intn(24)
	entry.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(entry)
	}
	return entry
}

// CreateEntries persists count entries authored by admin users when possible.
func (f *Factory) CreateEntries(users []models.User, count int) ([]models.Entry, error) {
	if len(users) == 0 {
		return nil, nil
	}

	authors := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.IsAdmin {
			authors = append(authors, u)
		}
	}
	if len(authors) == 0 {
		authors = users[:1]
	}

	entries := make([]models.Entry, 0, count)
	for i := 0; i < count; i++ {
		author := authors[f.r.Intn(len(authors))]
		entry := f.BuildEntry(&author, i+1)
		if err := f.db.Create(entry).Error; err != nil {
			return entries, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func randomUser(seq int) models.User {
	name := gofakeit.Name()
	email := strings.ToLower(fmt.Sprintf("%s%d@example.com", gofakeit.Username(), seq))
	return models.User{Name: name, Email: email}
}

func randomArticle(r *rand.Rand) string {
	paragraphs := 2 + r.Intn(4)
	var sb strings.Builder
	for i := 0; i < paragraphs; i++ {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(gofakeit.Paragraph(1, 4, 10, " "))
	}
	return sb.String()
}

func randomComment() string {
	templates := []string{
		"Visited this last year, %s.",
		"The craftsmanship here is %s.",
		"Adding this to my travel list, looks %s.",
		"Great writeup, the history section was %s.",
	}
	t := templates[rand.Intn(len(templates))] //nolint:gosec
	return fmt.Sprintf(t, gofakeit.AdjectiveDescriptive())
}
