package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patrick/wildsight/internal/cache"
	"github.com/patrick/wildsight/internal/config"
	"github.com/patrick/wildsight/internal/db"
	"github.com/patrick/wildsight/internal/extract"
	"github.com/patrick/wildsight/internal/geo"
	"github.com/patrick/wildsight/internal/llm"
	"github.com/patrick/wildsight/internal/observability"
	"github.com/patrick/wildsight/internal/pipeline"
	"github.com/patrick/wildsight/internal/ratelimit"
	"github.com/patrick/wildsight/internal/types"
	"github.com/patrick/wildsight/internal/validate"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the ingestion pipeline over exported source files",
	Long: `Runs the full ingestion pass: extraction -> validation -> geolocation ->
location sanity check -> idempotent persistence.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath   string
	runItemFiles    []string
	runGMUDataPath  string
	runTrailPath    string
	runCacheDir     string
	runDatabaseURL  string
	runAPIKey       string
	runLookbackDays int
	runDryRun       bool
	runVerbose      bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringSliceVarP(&runItemFiles, "items", "i", nil, "Exported source file(s) to ingest (repeatable)")
	runCommand.Flags().StringVar(&runGMUDataPath, "gmu-data", "", "GeoJSON file with GMU polygons")
	runCommand.Flags().StringVar(&runTrailPath, "trails", "", "JSON file with known trail locations")
	runCommand.Flags().StringVar(&runCacheDir, "cache-dir", "", "Directory for the validation cache (default .wildsight-cache)")
	runCommand.Flags().IntVar(&runLookbackDays, "lookback-days", 0, "How many days back to ingest")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Process everything but persist nothing")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := mergedConfig()
	if err != nil {
		return err
	}

	if cfg.GMUDataPath == "" {
		return fmt.Errorf("GMU data path is required (--gmu-data or config)")
	}
	if len(runItemFiles) == 0 {
		return fmt.Errorf("at least one --items file is required")
	}

	fmt.Printf("Loading GMU polygons and trail index...\n")
	units, trails, err := pipeline.LoadGeoData(ctx, cfg.GMUDataPath, cfg.TrailIndexPath)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		fmt.Printf("[VERBOSE] Loaded %d units, %d trail locations\n", units.UnitCount(), trails.Len())
	}

	species, err := loadSpecies(cfg)
	if err != nil {
		return err
	}
	extractor, err := extract.NewExtractor(species)
	if err != nil {
		return err
	}

	store, cleanup, err := openStore(ctx, cfg, runDryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	validationCache, err := cache.NewFileStore(cfg.CacheDir)
	if err != nil {
		return err
	}

	validator, closeLLM, err := buildValidator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	var sources []pipeline.Source
	for _, path := range runItemFiles {
		src, err := pipeline.NewFileSource(path)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	p := pipeline.New(pipeline.Config{
		Sources:             sources,
		Extractor:           extractor,
		Validator:           validator,
		Cache:               validationCache,
		Resolver:            geo.NewResolver(units, trails),
		Locations:           geo.NewLocationValidator(),
		Store:               store,
		MaxCacheAgeDays:     cfg.MaxCacheAgeDays,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Verbose:             cfg.Verbose,
	})

	summary, err := p.Run(ctx, pipeline.RunOptions{
		LookbackDays: cfg.LookbackDays,
		DryRun:       runDryRun,
	})
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRunSummary(&summary)
	return nil
}

// mergedConfig loads the optional config file, then applies CLI flags and
// environment variables on top. Flags win over the file; the file wins over
// built-in defaults.
func mergedConfig() (config.Config, error) {
	var fileCfg config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		fileCfg = *loaded
		if runVerbose {
			fmt.Printf("Loaded config from: %s\n", runConfigPath)
		}
	}

	flagCfg := config.Config{
		GMUDataPath:    runGMUDataPath,
		TrailIndexPath: runTrailPath,
		CacheDir:       runCacheDir,
		DatabaseURL:    runDatabaseURL,
		APIKey:         runAPIKey,
		LookbackDays:   runLookbackDays,
		Verbose:        runVerbose,
	}

	cfg := flagCfg.MergeWithDefaults(fileCfg)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".wildsight-cache"
	}
	cfg.Verbose = cfg.Verbose || runVerbose

	return cfg, nil
}

// loadSpecies returns the keyword index, from the override file when
// configured.
func loadSpecies(cfg config.Config) (*config.SpeciesIndex, error) {
	if cfg.SpeciesKeywords != "" {
		return config.LoadSpeciesIndex(cfg.SpeciesKeywords)
	}
	return config.DefaultSpeciesIndex(), nil
}

// openStore connects to PostgreSQL, or returns a discarding store for dry
// runs without a database.
func openStore(ctx context.Context, cfg config.Config, dryRun bool) (pipeline.SightingStore, func(), error) {
	if cfg.DatabaseURL == "" {
		if !dryRun {
			return nil, nil, fmt.Errorf("database URL is required (--db-url, DATABASE_URL, or config); use --dry-run to process without persistence")
		}
		return discardStore{}, func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return database, database.Close, nil
}

// buildValidator wires the LLM-backed validator, degrading to heuristic
// mode when no API key is configured.
func buildValidator(ctx context.Context, cfg config.Config) (*validate.Validator, func(), error) {
	if cfg.APIKey == "" {
		fmt.Printf("Warning: No Gemini API key configured, using heuristic validation only\n")
		return validate.NewValidator(nil, nil), func() {}, nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}

	limiter := ratelimit.NewLimiter(time.Duration(cfg.MinCallIntervalSecs * float64(time.Second)))
	validator := validate.NewValidator(client, limiter,
		validate.WithTimeout(time.Duration(cfg.LLMTimeoutSecs*float64(time.Second))),
		validate.WithVerbose(cfg.Verbose),
	)
	closeLLM := func() {
		if err := client.Close(); err != nil {
			fmt.Printf("Warning: Failed to close LLM client: %v\n", err)
		}
	}
	return validator, closeLLM, nil
}

// discardStore accepts every sighting without persisting it.
type discardStore struct{}

func (discardStore) SaveSighting(ctx context.Context, s *types.Sighting) (bool, error) {
	return true, nil
}
