package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"innkeep/internal/config"
	"innkeep/internal/database"

	"github.com/rs/zerolog"
)

// Seeds the hotel catalog into the database without starting the API. Useful
// for preparing a fresh database or re-applying a catalog update.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("catalog", "configs/catalog.yaml", "path to catalog.yaml")
		dbPath      = flag.String("db", "./data/innkeep.db", "path to sqlite db")
	)
	flag.Parse()

	catalog, err := config.LoadCatalog(*catalogPath)
	if err != nil {
		return err
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.SyncCatalog(ctx, catalog.Hotels, catalog.Rooms); err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}

	logger.Info().
		Int("hotels", len(catalog.Hotels)).
		Int("rooms", len(catalog.Rooms)).
		Msg("catalog seeded")
	return nil
}
