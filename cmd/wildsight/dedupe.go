package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrick/wildsight/internal/db"
	"github.com/patrick/wildsight/internal/dedup"
	"github.com/patrick/wildsight/internal/observability"
)

var dedupeCommand = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and merge duplicate sightings",
	Long: `Backfills content hashes on legacy rows, then groups sightings by
species, date, and location and merges duplicate groups. Groups whose texts
differ are flagged for review instead of merged.`,
	RunE: runDedupeCmd,
}

var (
	dedupeDatabaseURL  string
	dedupeDryRun       bool
	dedupeSkipBackfill bool
)

func init() {
	dedupeCommand.Flags().StringVar(&dedupeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	dedupeCommand.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Report what would be merged without writing")
	dedupeCommand.Flags().BoolVar(&dedupeSkipBackfill, "skip-backfill", false, "Skip the content-hash backfill sweep")

	rootCmd.AddCommand(dedupeCommand)
}

func runDedupeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	dsn := dedupeDatabaseURL
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return fmt.Errorf("database URL is required (--db-url or DATABASE_URL)")
	}

	database, err := db.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	runner := dedup.NewRunner(database, dedupeDryRun)

	if !dedupeSkipBackfill {
		fmt.Printf("Backfilling content hashes...\n")
		hashed, removed, err := runner.BackfillHashes(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("  %d rows hashed, %d duplicates removed\n", hashed, removed)
	}

	fmt.Printf("Scanning for duplicate groups...\n")
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintDedupReport(&report)
	return nil
}
