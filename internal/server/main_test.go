package server

import (
	"testing"

	"heritage/internal/config"
	"heritage/internal/models"
	"heritage/internal/repository"
	"heritage/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Entry{},
		&models.Comment{},
		&models.Like{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server against an in-memory sqlite DB with real
// repositories and services. Redis stays nil; the cache and event helpers
// are all nil-safe.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db := setupHandlerTestDB(t)
	s := &Server{
		config: &config.Config{JWTSecret: "test-secret"},
		db:     db,
	}
	s.userRepo = repository.NewUserRepository(db)
	s.entryRepo = repository.NewEntryRepository(db)
	s.commentRepo = repository.NewCommentRepository(db)
	s.entryService = service.NewEntryService(s.entryRepo, s.isAdminByUserID)
	s.commentService = service.NewCommentService(s.commentRepo, s.entryRepo, s.userRepo, s.isAdminByUserID)
	return s, db
}

// newTestApp returns a fiber app that forces every request to run as userID.
func newTestApp(userID uint) *fiber.App {
	app := fiber.New()
	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
	}
	return app
}

func seedTestUser(t *testing.T, db *gorm.DB, name string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		IsAdmin:  admin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func seedTestEntry(t *testing.T, db *gorm.DB, userID uint, title, slug string) *models.Entry {
	t.Helper()
	entry := &models.Entry{
		Title:       title,
		Category:    models.CategoryTemple,
		Content:     "Content for " + title,
		Location:    "Hampi, Karnataka",
		Slug:        slug,
		CreatedByID: userID,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create entry %s: %v", slug, err)
	}
	return entry
}
