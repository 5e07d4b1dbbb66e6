package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TrailLocation is one named place with known coordinates: a trailhead,
// lake, or peak that posts commonly reference by name.
type TrailLocation struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ElevationFt float64 `json:"elevation_ft,omitempty"`
}

// TrailIndex looks up coordinates for named places. Lookups are exact
// first, then substring in either direction, on normalized names.
type TrailIndex struct {
	byName map[string]TrailLocation
}

// NewTrailIndex builds an index from a location list. Later duplicates of
// a normalized name win, letting source-provided locations override the
// base file.
func NewTrailIndex(locations []TrailLocation) *TrailIndex {
	idx := &TrailIndex{byName: make(map[string]TrailLocation, len(locations))}
	for _, loc := range locations {
		key := normalizeTrailName(loc.Name)
		if key == "" {
			continue
		}
		idx.byName[key] = loc
	}
	return idx
}

// LoadTrailIndex reads a JSON array of trail locations. A missing file is
// not an error: trail lookup simply resolves nothing.
func LoadTrailIndex(path string) (*TrailIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTrailIndex(nil), nil
		}
		return nil, fmt.Errorf("failed to read trail index %s: %w", path, err)
	}

	var locations []TrailLocation
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse trail index %s: %w", path, err)
	}
	return NewTrailIndex(locations), nil
}

// Add merges additional locations into the index, overriding existing
// entries with the same normalized name.
func (idx *TrailIndex) Add(locations []TrailLocation) {
	for _, loc := range locations {
		key := normalizeTrailName(loc.Name)
		if key == "" {
			continue
		}
		idx.byName[key] = loc
	}
}

// Lookup finds coordinates for a place name: exact normalized match first,
// then substring containment either way. Ambiguous partial matches return
// the first hit encountered; exactness is the caller's job via radius.
func (idx *TrailIndex) Lookup(name string) (TrailLocation, bool) {
	key := normalizeTrailName(name)
	if key == "" {
		return TrailLocation{}, false
	}

	if loc, ok := idx.byName[key]; ok {
		return loc, true
	}

	for indexed, loc := range idx.byName {
		if strings.Contains(indexed, key) || strings.Contains(key, indexed) {
			return loc, true
		}
	}
	return TrailLocation{}, false
}

// Len returns the number of indexed locations.
func (idx *TrailIndex) Len() int {
	return len(idx.byName)
}

// normalizeTrailName canonicalizes a place name for matching: lowercase,
// apostrophes stripped, hyphens treated as spaces, whitespace collapsed.
func normalizeTrailName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
