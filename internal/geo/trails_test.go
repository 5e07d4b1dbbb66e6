package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrails() []TrailLocation {
	return []TrailLocation{
		{Name: "Maroon Creek Trail", Lat: 39.1, Lon: -106.94, ElevationFt: 9580},
		{Name: "Devil's Causeway", Lat: 40.03, Lon: -107.09},
		{Name: "Lost Man Trailhead", Lat: 39.12, Lon: -106.62},
	}
}

func TestTrailIndexLookup(t *testing.T) {
	idx := NewTrailIndex(testTrails())

	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{"exact", "Maroon Creek Trail", "Maroon Creek Trail", true},
		{"case insensitive", "maroon creek trail", "Maroon Creek Trail", true},
		{"apostrophe stripped", "devils causeway", "Devil's Causeway", true},
		{"hyphen as space", "maroon-creek-trail", "Maroon Creek Trail", true},
		{"query contains indexed name", "Lost Man Trailhead parking lot", "Lost Man Trailhead", true},
		{"indexed name contains query", "lost man", "Lost Man Trailhead", true},
		{"unknown", "Grays Peak", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := idx.Lookup(tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, loc.Name)
			}
		})
	}
}

func TestTrailIndexAddOverrides(t *testing.T) {
	idx := NewTrailIndex(testTrails())

	idx.Add([]TrailLocation{{Name: "Maroon Creek Trail", Lat: 39.2, Lon: -106.9}})

	loc, ok := idx.Lookup("Maroon Creek Trail")
	require.True(t, ok)
	assert.InDelta(t, 39.2, loc.Lat, 0.001)
}

func TestLoadTrailIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trails.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "Maroon Creek Trail", "lat": 39.1, "lon": -106.94}
	]`), 0644))

	idx, err := LoadTrailIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestLoadTrailIndex_MissingFileIsEmpty(t *testing.T) {
	idx, err := LoadTrailIndex(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestLoadTrailIndex_BadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trails.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0644))

	_, err := LoadTrailIndex(path)
	assert.Error(t, err)
}
