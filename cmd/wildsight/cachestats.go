package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/patrick/wildsight/internal/cache"
	"github.com/patrick/wildsight/internal/observability"
)

var cacheStatsCommand = &cobra.Command{
	Use:   "cache-stats",
	Short: "Show validation cache contents",
	RunE:  runCacheStatsCmd,
}

var cacheStatsDir string

func init() {
	cacheStatsCommand.Flags().StringVar(&cacheStatsDir, "cache-dir", ".wildsight-cache", "Directory for the validation cache")

	rootCmd.AddCommand(cacheStatsCommand)
}

func runCacheStatsCmd(cmd *cobra.Command, _ []string) error {
	store, err := cache.NewFileStore(cacheStatsDir)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintCacheStats(store.Stats())
	return nil
}
