package cache

import (
	"time"

	"github.com/patrick/wildsight/internal/types"
)

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// SetClock overrides the time source, letting tests age entries without
// sleeping.
func (ms *MemoryStore) SetClock(now func() time.Time) {
	ms.now = now
}

// ShouldProcess implements Store.
func (ms *MemoryStore) ShouldProcess(itemID, fingerprint string, maxAgeDays int) bool {
	entry, ok := ms.entries[itemID]
	if !ok {
		return true
	}
	return stale(entry, fingerprint, maxAgeDays, ms.now())
}

// Get implements Store.
func (ms *MemoryStore) Get(itemID string) []types.ValidationResult {
	if entry, ok := ms.entries[itemID]; ok {
		return entry.Results
	}
	return nil
}

// Update implements Store.
func (ms *MemoryStore) Update(itemID, fingerprint string, results []types.ValidationResult) error {
	ms.entries[itemID] = Entry{
		Fingerprint: fingerprint,
		Results:     results,
		WrittenAt:   ms.now(),
	}
	return nil
}

// Stats implements Store.
func (ms *MemoryStore) Stats() Stats {
	s := Stats{TotalItems: len(ms.entries)}
	for _, e := range ms.entries {
		if len(e.Results) > 0 {
			s.ItemsWithResults++
		}
		s.TotalSightings += countSightings(e.Results)
	}
	return s
}
