// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/repository"
	"agora/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numIdeas := flag.Int("ideas", 60, "Number of ideas to create")
	maxComments := flag.Int("comments", 6, "Maximum comments per idea")
	maxVotes := flag.Int("votes", 15, "Maximum votes per idea")
	maxDays := flag.Int("days", 90, "Spread created_at over this many days")
	clean := flag.Bool("clean", false, "Remove ideas, votes, comments and non-admin users first")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	categoriesOnly := flag.Bool("categories-only", false, "Only create the default categories")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if *categoriesOnly {
		_, created, err := seed.EnsureCategories(ctx, repository.NewCategoryRepository(db))
		if err != nil {
			log.Fatalf("Category seeding failed: %v", err)
		}
		log.Printf("%d categories created", created)
		return
	}

	summary, err := seed.Seed(ctx, db, seed.Options{
		NumUsers:    *numUsers,
		NumIdeas:    *numIdeas,
		MaxComments: *maxComments,
		MaxVotes:    *maxVotes,
		MaxDays:     *maxDays,
		Clean:       *clean,
		RandSeed:    *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete: %s", summary)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
