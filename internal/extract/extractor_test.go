package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick/wildsight/internal/config"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(config.DefaultSpeciesIndex())
	require.NoError(t, err)
	return e
}

func TestExtract_NoKeywords(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
	}{
		{"empty text", ""},
		{"whitespace only", "   \n\t  "},
		{"no species mention", "Beautiful day on the trail, wildflowers everywhere."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, e.Extract(tt.text, "https://example.com", "reddit"))
		})
	}
}

func TestExtract_PositiveIndicator(t *testing.T) {
	e := newTestExtractor(t)

	candidates := e.Extract("We spotted a bear crossing the meadow at dawn.", "https://example.com/p/1", "reddit")
	require.Len(t, candidates, 1)
	assert.Equal(t, "bear", candidates[0].Species)
	assert.Equal(t, "bear", candidates[0].KeywordMatched)
	assert.Equal(t, "https://example.com/p/1", candidates[0].SourceURL)
	assert.Equal(t, "reddit", candidates[0].SourceType)
	assert.Contains(t, candidates[0].RawText, "spotted a bear")
	assert.False(t, candidates[0].ExtractedAt.IsZero())
}

func TestExtract_NumericQuantity(t *testing.T) {
	e := newTestExtractor(t)

	// "6 elk" with no indicator verb still passes via the quantity pattern.
	candidates := e.Extract("There were 6 elk in the lower basin this morning.", "", "14ers")
	require.NotEmpty(t, candidates)
	assert.Equal(t, "elk", candidates[0].Species)
}

func TestExtract_FalsePositives(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		text string
	}{
		{"place name", "Elk Mountain trailhead was crowded today"},
		{"bear lake toponym", "Parked at Bear Lake and hiked to the falls, saw nobody."},
		{"negation", "No sign of deer anywhere this weekend."},
		{"wishful", "Hope to see a bull this season."},
		{"gear talk", "My new pack weighs too much for sheep country."},
		{"default reject without indicator", "The elk herd unit map is confusing."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, e.Extract(tt.text, "", "reddit"), "window should be rejected")
		})
	}
}

func TestExtract_SightingScenario(t *testing.T) {
	e := newTestExtractor(t)

	candidates := e.Extract("Saw 6 elk near the bridge on Maroon Creek trail, GMU 12", "https://reddit.com/r/cohunting/1", "reddit")
	require.NotEmpty(t, candidates)

	var elkFound bool
	for _, c := range candidates {
		if c.Species == "elk" {
			elkFound = true
			assert.Contains(t, c.RawText, "Saw 6 elk")
		}
	}
	assert.True(t, elkFound, "should yield a candidate for species=elk")
}

func TestExtract_MultibyteWindowStaysValidUTF8(t *testing.T) {
	e := newTestExtractor(t)

	// The window boundary lands mid-rune inside the accented prefix.
	text := strings.Repeat("é", 30) + " saw 3 elk near the pass"
	candidates := e.Extract(text, "", "reddit")
	require.Len(t, candidates, 1)
	assert.True(t, utf8.ValidString(candidates[0].RawText))
	assert.Contains(t, candidates[0].RawText, "saw 3 elk")
}

func TestExtract_MultipleOccurrences(t *testing.T) {
	e := newTestExtractor(t)

	text := "Saw a deer by the road. Later we watched another deer near camp."
	candidates := e.Extract(text, "", "reddit")
	assert.Len(t, candidates, 2)
}

func TestRegexMatcher_WordBoundaries(t *testing.T) {
	m, err := NewRegexMatcher([]string{"elk", "ram"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		text    string
		keyword string
		want    int
	}{
		{"exact word", "saw an elk today", "elk", 1},
		{"case insensitive", "ELK everywhere", "elk", 1},
		{"substring rejected", "drank some milk", "elk", 0},
		{"embedded rejected", "programming", "ram", 0},
		{"unknown keyword", "saw an elk", "moose", 0},
		{"two occurrences", "elk here, elk there", "elk", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, m.Find(tt.text, tt.keyword), tt.want)
		})
	}
}

func TestRegexMatcher_MatchPositions(t *testing.T) {
	m, err := NewRegexMatcher([]string{"elk"})
	require.NoError(t, err)

	matches := m.Find("an elk stood", "elk")
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].Start)
	assert.Equal(t, 6, matches[0].End)
}
