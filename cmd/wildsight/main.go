// Package main provides the entry point for the WildSight ingestion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wildsight",
	Short: "Wildlife sighting ingestion pipeline",
	Long:  "WildSight extracts, validates, and geolocates wildlife sightings from scraped Colorado outdoor-recreation posts, and persists them with idempotent deduplication.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
