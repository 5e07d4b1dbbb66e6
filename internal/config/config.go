// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the pipeline configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must
// be provided via CLI flags or environment variables.
type Config struct {
	// Paths
	GMUDataPath     string `json:"gmu_data_path,omitempty"`    // GeoJSON file with GMU polygons
	TrailIndexPath  string `json:"trail_index_path,omitempty"` // JSON file with trail/peak locations
	CacheDir        string `json:"cache_dir,omitempty"`        // Directory for the validation cache
	SpeciesKeywords string `json:"species_keywords,omitempty"` // Optional species keyword override file

	// Store
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// LLM
	APIKey              string  `json:"api_key,omitempty"`                                 // Gemini API key
	MinCallIntervalSecs float64 `json:"min_call_interval_secs,omitempty" validate:"gte=0"` // Seconds between LLM calls
	LLMTimeoutSecs      float64 `json:"llm_timeout_secs,omitempty" validate:"gte=0"`       // Per-call timeout

	// Pipeline behavior
	LookbackDays        int     `json:"lookback_days,omitempty" validate:"gte=0"`
	MaxCacheAgeDays     int     `json:"max_cache_age_days,omitempty" validate:"gte=0"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty" validate:"gte=0,lte=1"`
	Verbose             bool    `json:"verbose,omitempty"`
}

// Defaults mirroring the production deployment: a 3 RPM model quota and a
// 30 day reprocessing window.
const (
	DefaultMinCallIntervalSecs = 20.5
	DefaultLLMTimeoutSecs      = 30.0
	DefaultLookbackDays        = 1
	DefaultMaxCacheAgeDays     = 30
	DefaultConfidenceThreshold = 0.7
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked later, after CLI flag and env merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.GMUDataPath != "" {
		if _, err := os.Stat(c.GMUDataPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: GMU data file not found: %s", c.GMUDataPath)
		}
	}

	if c.SpeciesKeywords != "" {
		if _, err := os.Stat(c.SpeciesKeywords); os.IsNotExist(err) {
			return fmt.Errorf("config error: species keywords file not found: %s", c.SpeciesKeywords)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags and environment variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.GMUDataPath == "" {
		result.GMUDataPath = defaults.GMUDataPath
	}
	if result.TrailIndexPath == "" {
		result.TrailIndexPath = defaults.TrailIndexPath
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.SpeciesKeywords == "" {
		result.SpeciesKeywords = defaults.SpeciesKeywords
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	if result.MinCallIntervalSecs == 0 {
		if defaults.MinCallIntervalSecs > 0 {
			result.MinCallIntervalSecs = defaults.MinCallIntervalSecs
		} else {
			result.MinCallIntervalSecs = DefaultMinCallIntervalSecs
		}
	}
	if result.LLMTimeoutSecs == 0 {
		if defaults.LLMTimeoutSecs > 0 {
			result.LLMTimeoutSecs = defaults.LLMTimeoutSecs
		} else {
			result.LLMTimeoutSecs = DefaultLLMTimeoutSecs
		}
	}
	if result.LookbackDays == 0 {
		if defaults.LookbackDays > 0 {
			result.LookbackDays = defaults.LookbackDays
		} else {
			result.LookbackDays = DefaultLookbackDays
		}
	}
	if result.MaxCacheAgeDays == 0 {
		if defaults.MaxCacheAgeDays > 0 {
			result.MaxCacheAgeDays = defaults.MaxCacheAgeDays
		} else {
			result.MaxCacheAgeDays = DefaultMaxCacheAgeDays
		}
	}
	if result.ConfidenceThreshold == 0 {
		if defaults.ConfidenceThreshold > 0 {
			result.ConfidenceThreshold = defaults.ConfidenceThreshold
		} else {
			result.ConfidenceThreshold = DefaultConfidenceThreshold
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
