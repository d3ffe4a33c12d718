package main

import (
	"context"
	"log"

	"github.com/fitmatch/engine/internal/config"
	"github.com/fitmatch/engine/internal/db"
	"github.com/fitmatch/engine/internal/repository"
)

func main() {
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedDemoData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	users := repository.NewUserRepository(database)
	if err := users.RefreshVerificationScores(context.Background()); err != nil {
		log.Fatalf("failed to refresh verification scores: %v", err)
	}

	log.Println("Seeding completed.")
}
