package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentHash_Deterministic(t *testing.T) {
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	h1 := ContentHash("elk", "Maroon Creek", date, "reddit")
	h2 := ContentHash("elk", "Maroon Creek", date, "reddit")
	assert.Equal(t, h1, h2)
}

func TestContentHash_NormalizesCaseAndWhitespace(t *testing.T) {
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		species  string
		location string
		source   string
	}{
		{"uppercase species", "ELK", "maroon creek", "reddit"},
		{"mixed case location", "elk", "Maroon Creek", "reddit"},
		{"leading/trailing whitespace", "  elk  ", "maroon creek ", " reddit"},
		{"internal whitespace runs", "elk", "maroon   creek", "reddit"},
	}

	want := ContentHash("elk", "maroon creek", date, "reddit")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, ContentHash(tt.species, tt.location, date, tt.source))
		})
	}
}

func TestContentHash_DistinguishesFields(t *testing.T) {
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	base := ContentHash("elk", "maroon creek", date, "reddit")

	assert.NotEqual(t, base, ContentHash("deer", "maroon creek", date, "reddit"))
	assert.NotEqual(t, base, ContentHash("elk", "bear lake", date, "reddit"))
	assert.NotEqual(t, base, ContentHash("elk", "maroon creek", date.AddDate(0, 0, 1), "reddit"))
	assert.NotEqual(t, base, ContentHash("elk", "maroon creek", date, "14ers"))
}

func TestSighting_ComputeContentHash(t *testing.T) {
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	s := &Sighting{
		Species:      "elk",
		LocationName: "Maroon Creek",
		SightingDate: date,
		SourceType:   "reddit",
	}
	assert.Equal(t, ContentHash("elk", "Maroon Creek", date, "reddit"), s.ComputeContentHash())
}

func TestSighting_HasPoint(t *testing.T) {
	lat, lon := 39.07, -106.98
	s := &Sighting{}
	assert.False(t, s.HasPoint())

	s.Lat = &lat
	assert.False(t, s.HasPoint())

	s.Lon = &lon
	assert.True(t, s.HasPoint())
}
