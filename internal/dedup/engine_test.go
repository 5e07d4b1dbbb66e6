package dedup

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick/wildsight/internal/types"
)

func floatPtr(f float64) *float64 { return &f }

func baseSighting(created time.Time) types.Sighting {
	return types.Sighting{
		ID:              uuid.New(),
		Species:         "elk",
		SightingDate:    time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC),
		SourceType:      "forum",
		SourceURL:       "https://example.com/post/1",
		RawText:         "Saw 6 elk near the bridge",
		LocationName:    "Maroon Creek trail",
		ConfidenceScore: 0.8,
		CreatedAt:       created,
	}
}

func TestGroupSightings(t *testing.T) {
	t0 := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	a := baseSighting(t0)
	b := baseSighting(t0.Add(time.Hour))

	// Different species, same everything else.
	c := baseSighting(t0)
	c.Species = "deer"

	// Same coordinates within ~100m group together despite names.
	d := baseSighting(t0)
	d.LocationName = "by the bridge"
	d.Lat, d.Lon = floatPtr(39.10012), floatPtr(-106.94018)
	e := baseSighting(t0.Add(time.Minute))
	e.LocationName = "maroon creek"
	e.Lat, e.Lon = floatPtr(39.10049), floatPtr(-106.93961)

	groups := GroupSightings([]types.Sighting{a, b, c, d, e})

	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Members, 2)
	assert.Len(t, groups[1].Members, 2)
}

func TestGroupSightings_NameNormalization(t *testing.T) {
	t0 := time.Now().UTC()

	a := baseSighting(t0)
	a.LocationName = "Maroon  Creek Trail"
	b := baseSighting(t0)
	b.LocationName = "maroon creek trail"

	groups := GroupSightings([]types.Sighting{a, b})
	require.Len(t, groups, 1)
}

func TestDecide_MergeIdenticalText(t *testing.T) {
	t0 := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	keep := baseSighting(t0)
	dup := baseSighting(t0.Add(time.Hour))
	dup.SourceURL = "https://example.com/post/2"
	dup.Description = "a longer description of the encounter near the bridge"
	dup.ConfidenceScore = 0.9
	dup.Lat, dup.Lon = floatPtr(39.1), floatPtr(-106.94)
	dup.RadiusMiles = floatPtr(2)

	decision := Decide(Group{Members: []types.Sighting{dup, keep}})

	require.Equal(t, ActionMerge, decision.Action)
	require.NotNil(t, decision.Keep)

	// Earliest row survives, enriched from the later one.
	assert.Equal(t, keep.ID, decision.Keep.ID)
	assert.Equal(t, []uuid.UUID{dup.ID}, decision.RemoveIDs)
	assert.Equal(t, 0.9, decision.Keep.ConfidenceScore)
	assert.Equal(t, dup.Description, decision.Keep.Description)
	require.True(t, decision.Keep.HasPoint())
	assert.Equal(t, 39.1, *decision.Keep.Lat)
	assert.Equal(t, "https://example.com/post/1, https://example.com/post/2", decision.Keep.SourceURL)
	assert.Equal(t, decision.Keep.ComputeContentHash(), decision.Keep.ContentHash)
}

func TestDecide_SmallerRadiusWins(t *testing.T) {
	t0 := time.Now().UTC()

	a := baseSighting(t0)
	a.Lat, a.Lon = floatPtr(39.2), floatPtr(-106.9)
	a.RadiusMiles = floatPtr(10)

	b := baseSighting(t0.Add(time.Minute))
	b.Lat, b.Lon = floatPtr(39.2), floatPtr(-106.9)
	b.RadiusMiles = floatPtr(1)

	decision := Decide(Group{Members: []types.Sighting{a, b}})

	require.Equal(t, ActionMerge, decision.Action)
	assert.Equal(t, 1.0, *decision.Keep.RadiusMiles)
}

func TestDecide_DifferingTextFlags(t *testing.T) {
	t0 := time.Now().UTC()

	a := baseSighting(t0)
	b := baseSighting(t0.Add(time.Hour))
	b.RawText = "Herd of elk grazing below the pass"

	decision := Decide(Group{Members: []types.Sighting{a, b}})
	assert.Equal(t, ActionFlag, decision.Action)
}

func TestDecide_WhitespaceOnlyTextDifferenceStillMerges(t *testing.T) {
	t0 := time.Now().UTC()

	a := baseSighting(t0)
	b := baseSighting(t0.Add(time.Hour))
	b.RawText = "Saw 6  elk near   the bridge"

	decision := Decide(Group{Members: []types.Sighting{a, b}})
	assert.Equal(t, ActionMerge, decision.Action)
}

func TestDecide_MultiSourceSkips(t *testing.T) {
	t0 := time.Now().UTC()

	a := baseSighting(t0)
	b := baseSighting(t0.Add(time.Hour))
	b.SourceType = "trip_report"

	decision := Decide(Group{Members: []types.Sighting{a, b}})
	assert.Equal(t, ActionSkip, decision.Action)
}
