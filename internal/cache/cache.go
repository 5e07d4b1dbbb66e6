// Package cache persists validation outcomes per source item so unchanged
// items never trigger repeat LLM calls.
package cache

import (
	"time"

	"github.com/patrick/wildsight/internal/types"
)

// Entry is a cached validation outcome for one source item. It is reused
// only while its fingerprint still matches the item and its age is within
// the configured maximum; otherwise it counts as a miss and is regenerated.
type Entry struct {
	Fingerprint string                   `json:"fingerprint"`
	Results     []types.ValidationResult `json:"results"`
	WrittenAt   time.Time                `json:"written_at"`
}

// Stats summarizes cache contents.
type Stats struct {
	TotalItems       int `json:"total_items"`
	ItemsWithResults int `json:"items_with_results"`
	TotalSightings   int `json:"total_sightings"`
}

// Store is the validation cache contract. Implementations are single-writer
// within one process; cross-process safety is provided by the store's
// unique content_hash constraint, not the cache.
type Store interface {
	// ShouldProcess reports whether the item needs (re)validation: no entry,
	// a changed fingerprint, or an entry older than maxAgeDays.
	ShouldProcess(itemID, fingerprint string, maxAgeDays int) bool
	// Get returns the cached results for an item, or nil.
	Get(itemID string) []types.ValidationResult
	// Update records the validation outcome for an item.
	Update(itemID, fingerprint string, results []types.ValidationResult) error
	// Stats summarizes the cache contents.
	Stats() Stats
}

// stale applies the shared freshness rule.
func stale(e Entry, fingerprint string, maxAgeDays int, now time.Time) bool {
	if e.Fingerprint != fingerprint {
		return true
	}
	return now.Sub(e.WrittenAt) > time.Duration(maxAgeDays)*24*time.Hour
}

func countSightings(results []types.ValidationResult) int {
	n := 0
	for _, r := range results {
		if r.IsSighting {
			n++
		}
	}
	return n
}
