// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"heritage/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumEntries  int
	ShouldClean bool
}

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d entries...", opts.NumUsers, opts.NumEntries)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	factory := NewFactory(db)
	entries, err := factory.CreateEntries(users, opts.NumEntries)
	if err != nil {
		return fmt.Errorf("failed to create entries: %w", err)
	}
	log.Printf("✓ %d entries created", len(entries))

	comments, err := createComments(db, users, entries)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", comments)

	likes, err := createLikes(db, users, entries)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d likes created", likes)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, entries, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include a known admin and a known member for manual testing
	fixed := []models.User{
		{Name: "Curator", Email: "curator@example.com", Password: string(hashedPassword), IsAdmin: true},
		{Name: "Visitor", Email: "visitor@example.com", Password: string(hashedPassword)},
	}
	for _, u := range fixed {
		user := u
		if err := db.Where(models.User{Email: user.Email}).FirstOrCreate(&user).Error; err == nil {
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user := randomUser(i)
		user.Password = string(hashedPassword)
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func createComments(db *gorm.DB, users []models.User, entries []models.Entry) (int, error) {
	if len(users) == 0 || len(entries) == 0 {
		return 0, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	total := 0
	for _, entry := range entries {
		for i := 0; i < r.Intn(6); i++ {
			user := users[r.Intn(len(users))]
			comment := models.Comment{
				EntryID:  entry.ID,
				UserID:   user.ID,
				UserName: user.Name,
				Text:     randomComment(),
			}
			if err := db.Create(&comment).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

func createLikes(db *gorm.DB, users []models.User, entries []models.Entry) (int, error) {
	if len(users) == 0 || len(entries) == 0 {
		return 0, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	total := 0
	for _, entry := range entries {
		// Pick a distinct set of likers; the unique index forbids duplicates.
		perm := r.Perm(len(users))
		n := r.Intn(len(users) + 1)
		for _, idx := range perm[:n] {
			like := models.Like{EntryID: entry.ID, UserID: users[idx].ID}
			if err := db.Create(&like).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
