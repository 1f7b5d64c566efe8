package seed

import (
	"fmt"
	"os"

	"heritage/internal/models"
	"heritage/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fixtures describes a deterministic seed file. Unlike the random seeder,
// fixtures give demos and integration environments a stable dataset.
type Fixtures struct {
	Users   []FixtureUser  `yaml:"users"`
	Entries []FixtureEntry `yaml:"entries"`
}

type FixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"isAdmin"`
}

type FixtureEntry struct {
	Title           string   `yaml:"title"`
	Category        string   `yaml:"category"`
	Content         string   `yaml:"content"`
	Location        string   `yaml:"location"`
	MetaDescription string   `yaml:"metaDescription"`
	Keywords        []string `yaml:"keywords"`
	ImageURLs       []string `yaml:"imageUrls"`
	AuthorEmail     string   `yaml:"authorEmail"`
	Views           int64    `yaml:"views"`
}

// LoadFixtures reads a YAML fixture file and applies it.
func LoadFixtures(db *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	return ApplyFixtures(db, fx)
}

// ApplyFixtures creates the users and entries described by fx. Users are
// matched by email so re-running a fixture file is idempotent.
func ApplyFixtures(db *gorm.DB, fx Fixtures) error {
	byEmail := make(map[string]models.User, len(fx.Users))

	for _, fu := range fx.Users {
		password := fu.Password
		if password == "" {
			password = "password123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", fu.Email, err)
		}

		user := models.User{
			Name:     fu.Name,
			Email:    fu.Email,
			Password: string(hashed),
			IsAdmin:  fu.IsAdmin,
		}
		if err := db.Where(models.User{Email: fu.Email}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("create user %s: %w", fu.Email, err)
		}
		byEmail[fu.Email] = user
	}

	for _, fe := range fx.Entries {
		category := models.EntryCategory(fe.Category)
		if !category.Valid() {
			return fmt.Errorf("entry %q: unknown category %q", fe.Title, fe.Category)
		}

		author, ok := byEmail[fe.AuthorEmail]
		if !ok {
			return fmt.Errorf("entry %q: author %q not in fixture users", fe.Title, fe.AuthorEmail)
		}

		entry := models.Entry{
			Title:           fe.Title,
			Category:        category,
			Content:         fe.Content,
			Location:        fe.Location,
			Slug:            validation.DeriveSlug(fe.Title),
			MetaDescription: fe.MetaDescription,
			Keywords:        datatypes.JSONSlice[string](fe.Keywords),
			ImageURLs:       datatypes.JSONSlice[string](fe.ImageURLs),
			CreatedByID:     author.ID,
			Views:           fe.Views,
		}
		if err := db.Where(models.Entry{Slug: entry.Slug}).FirstOrCreate(&entry).Error; err != nil {
			return fmt.Errorf("create entry %q: %w", fe.Title, err)
		}
	}

	return nil
}
