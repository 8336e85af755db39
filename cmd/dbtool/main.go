package main

import (
	"commute-eta-service/internal/adapters/repositories"
	"commute-eta-service/internal/config"
	"commute-eta-service/internal/platform/db"
	"commute-eta-service/internal/platform/logger"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// dbtool creates the known_places table and seeds it from JSON.
func main() {
	foundEnv := config.LoadDotEnv()
	log := logger.New(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "text"))

	if !foundEnv {
		log.Info("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	seedPath := config.Get("PLACES_PATH", "data/places.json")
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		log.WithError(err).Fatal("init and seed failed")
	}
	log.WithField("path", seedPath).Info("Seeding complete.")
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
