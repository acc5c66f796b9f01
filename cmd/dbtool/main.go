package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"place-picker-service/internal/adapters/repositories"
	"place-picker-service/internal/config"
	"place-picker-service/internal/platform/db"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool prepares a Postgres database for the postgres storage backend.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn, repositories.Postgres); err != nil {
		return err
	}
	log.Println("Schema ready.")

	places, err := repositories.LoadPlaces(seedPath)
	if err != nil {
		return err
	}

	log.Printf("Seeding database with %d places...", len(places))
	if err := repositories.SeedPlaces(ctx, conn, repositories.Postgres, places); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
