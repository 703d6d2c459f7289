package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hetfly/snake-demo/pkg/config"
	"github.com/hetfly/snake-demo/pkg/storage"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "env file with SNAKE_* settings")
		input   = flag.String("in", "leaderboard.json", "JSON export of leaderboard rows")
	)
	flag.Parse()

	settings, warnings, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading settings:", err)
		os.Exit(1)
	}
	log := config.NewLogger(settings.LogLevel, settings.LogFormat)
	for _, w := range warnings {
		log.Warn(w)
	}

	f, err := os.Open(*input)
	if os.IsNotExist(err) {
		log.Fatalf("%s not found. Export the leaderboard table as JSON and place it here.", *input)
	}
	if err != nil {
		log.WithError(err).Fatal("Failed to open export")
	}
	defer f.Close()

	ctx := context.Background()
	store, err := storage.OpenSQLite(ctx, settings.DBPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open DB")
	}
	defer store.Close()

	imported, skipped, err := importScores(ctx, store, f, log)
	if err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
	fmt.Printf("✅ Migration complete! Imported %d scores into %s (%d skipped)\n", imported, settings.DBPath, skipped)
}
