// Command main runs the database seeder for the heritage service.
package main

import (
	"flag"
	"log"

	"heritage/internal/config"
	"heritage/internal/database"
	"heritage/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numEntries := flag.Int("entries", 120, "Number of entries to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("fixtures", "", "Apply a YAML fixture file instead of random data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *fixtures != "" {
		log.Printf("Applying fixtures from %s (ignoring other flags)\n", *fixtures)
		if err := seed.LoadFixtures(db, *fixtures); err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		if err := seed.Seed(db, seed.Options{
			NumUsers:    *numUsers,
			NumEntries:  *numEntries,
			ShouldClean: *shouldClean,
		}); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
