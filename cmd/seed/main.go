// Command seed populates the database with demo checklists.
package main

import (
	"flag"
	"log"

	"smartchecklist/internal/config"
	"smartchecklist/internal/database"
	"smartchecklist/internal/seed"
)

func main() {
	fixture := flag.String("fixture", "", "YAML fixture to load instead of random data")
	numUsers := flag.Int("users", 5, "Number of random users to create")
	numChecklists := flag.Int("checklists", 3, "Checklists per random user")
	maxDepth := flag.Int("depth", 3, "Maximum nesting of random items")
	shouldClean := flag.Bool("clean", false, "Delete all data before seeding")
	fast := flag.Bool("fast", false, "Store plain passwords (throwaway databases only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{SkipBcrypt: *fast, MaxDepth: *maxDepth})
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var sum seed.Summary
	if *fixture != "" {
		fx, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("Fixture load failed: %v", err)
		}
		sum, err = s.ApplyFixture(fx)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		sum, err = s.SeedRandom(*numUsers, *numChecklists)
		if err != nil {
			log.Fatalf("Random seeding failed: %v", err)
		}
		log.Printf("All generated users have the password: %s", seed.DefaultPassword)
	}

	log.Printf("Done: %s", sum)
}
