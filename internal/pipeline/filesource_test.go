package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testforum.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileSource(t *testing.T) {
	recent := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	path := writeSourceFile(t, `{
		"items": [
			{"id": "post-1", "text": "Saw 6 elk", "source_url": "https://example.com/1", "source_type": "forum", "published_at": "`+recent+`"},
			{"id": "post-2", "text": "old post", "source_url": "https://example.com/2", "source_type": "forum", "published_at": "2020-01-01T00:00:00Z"},
			{"text": "no id", "source_url": "https://example.com/3", "source_type": "forum"}
		],
		"trails": [
			{"name": "Lost Man Trailhead", "lat": 39.12, "lon": -106.62}
		]
	}`)

	src, err := NewFileSource(path)
	require.NoError(t, err)

	assert.Equal(t, "testforum", src.Name())
	require.Len(t, src.TrailLocations(), 1)

	items, err := src.Scrape(context.Background(), ScrapeOptions{LookbackDays: 7})
	require.NoError(t, err)

	// The stale post is filtered; the undated one is kept with its URL as ID.
	require.Len(t, items, 2)
	assert.Equal(t, "post-1", items[0].ID)
	assert.Equal(t, "https://example.com/3", items[1].ID)
}

func TestFileSource_NoLookbackKeepsEverything(t *testing.T) {
	path := writeSourceFile(t, `{
		"items": [
			{"id": "post-2", "text": "old post", "source_url": "https://example.com/2", "source_type": "forum", "published_at": "2020-01-01T00:00:00Z"}
		]
	}`)

	src, err := NewFileSource(path)
	require.NoError(t, err)

	items, err := src.Scrape(context.Background(), ScrapeOptions{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNewFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestNewFileSource_BadJSON(t *testing.T) {
	path := writeSourceFile(t, "{nope")
	_, err := NewFileSource(path)
	assert.Error(t, err)
}
