package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/patrick/wildsight/internal/types"
)

// cacheFileName matches the historical on-disk layout so existing caches
// survive upgrades.
const cacheFileName = "parsed_items.json"

// FileStore is a JSON-file-backed cache. Unreadable or corrupt storage
// resets to an empty cache with a logged warning rather than aborting the
// pipeline.
type FileStore struct {
	path    string
	entries map[string]Entry
	now     func() time.Time
}

// NewFileStore loads (or initializes) a cache under dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	fs := &FileStore{
		path:    filepath.Join(dir, cacheFileName),
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	fs.load()
	return fs, nil
}

// load reads the cache file if present. Corruption is non-fatal.
func (fs *FileStore) load() {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read validation cache %s: %v (starting empty)", fs.path, err)
		}
		return
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Warning: validation cache %s is corrupt: %v (starting empty)", fs.path, err)
		fs.entries = make(map[string]Entry)
		return
	}
	fs.entries = entries
}

// save writes the full cache file. Called after every update; the cache is
// small relative to the cost of the LLM calls it avoids.
func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal validation cache: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write validation cache %s: %w", fs.path, err)
	}
	return nil
}

// ShouldProcess implements Store.
func (fs *FileStore) ShouldProcess(itemID, fingerprint string, maxAgeDays int) bool {
	entry, ok := fs.entries[itemID]
	if !ok {
		return true
	}
	return stale(entry, fingerprint, maxAgeDays, fs.now())
}

// Get implements Store.
func (fs *FileStore) Get(itemID string) []types.ValidationResult {
	if entry, ok := fs.entries[itemID]; ok {
		return entry.Results
	}
	return nil
}

// Update implements Store.
func (fs *FileStore) Update(itemID, fingerprint string, results []types.ValidationResult) error {
	fs.entries[itemID] = Entry{
		Fingerprint: fingerprint,
		Results:     results,
		WrittenAt:   fs.now(),
	}
	return fs.save()
}

// Stats implements Store.
func (fs *FileStore) Stats() Stats {
	s := Stats{TotalItems: len(fs.entries)}
	for _, e := range fs.entries {
		if len(e.Results) > 0 {
			s.ItemsWithResults++
		}
		s.TotalSightings += countSightings(e.Results)
	}
	return s
}
