// Command seed loads demo memes and leaderboard runs into the database.
package main

import (
	"context"
	"flag"
	"log"

	"spincat/internal/config"
	"spincat/internal/database"
	"spincat/internal/seed"
)

func main() {
	memes := flag.Int("memes", 60, "Number of generated memes on top of the curated fixtures")
	players := flag.Int("players", 12, "Number of leaderboard players")
	runs := flag.Int("runs", 3, "Runs per player")
	maxDays := flag.Int("days", 45, "Spread generated rows over this many days")
	seedValue := flag.Int64("seed", 0, "Random seed (0 = time based)")
	shouldClean := flag.Bool("clean", false, "Delete all memes and scores before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d generated memes, %d players x %d runs, clean=%v\n", *memes, *players, *runs, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		Memes:         *memes,
		Players:       *players,
		RunsPerPlayer: *runs,
		MaxDays:       *maxDays,
		Seed:          *seedValue,
		ShouldClean:   *shouldClean,
	})
	res, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Done: %d fixtures, %d generated memes, %d scores", res.Fixtures, res.Memes, res.Scores)
}
