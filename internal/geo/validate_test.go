package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrick/wildsight/internal/types"
)

func TestAssess(t *testing.T) {
	lv := NewLocationValidator()

	tests := []struct {
		name       string
		sighting   types.Sighting
		confidence float64
		recommend  Recommendation
		issues     int
	}{
		{
			name: "clean colorado sighting",
			sighting: types.Sighting{
				LocationName: "Maroon Creek Trail",
				Description:  "near the bridge",
				Lat:          floatPtr(39.1),
				Lon:          floatPtr(-106.94),
			},
			confidence: 1.0,
			recommend:  RecommendKeep,
		},
		{
			name: "foreign state mention",
			sighting: types.Sighting{
				LocationName: "Bighorn Mountains, Wyoming",
			},
			confidence: 0.1,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "non-neighboring states are still detected",
			sighting: types.Sighting{
				Description: "I live in Massachusetts and the camera is in Virginia",
			},
			confidence: 0.1,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "state mention in raw text",
			sighting: types.Sighting{
				LocationName: "high basin",
				RawText:      "Great trip, though nothing like what we saw back home in Texas.",
			},
			confidence: 0.1,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "foreign state with claimed unit forces zero",
			sighting: types.Sighting{
				Description: "unit 12 trip, then on to Utah",
				UnitID:      "12",
			},
			confidence: 0,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "colorado mention keeps claimed unit from zeroing",
			sighting: types.Sighting{
				Description: "crossed from Wyoming into Colorado near unit 201",
				UnitID:      "201",
			},
			confidence: 0.1,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "coordinates outside colorado flag for review",
			sighting: types.Sighting{
				LocationName: "high basin",
				Lat:          floatPtr(44.5),
				Lon:          floatPtr(-106.75),
			},
			confidence: 0.2,
			recommend:  RecommendFlagSuspicious,
			issues:     1,
		},
		{
			name: "out of state coordinates with claimed unit forces zero",
			sighting: types.Sighting{
				LocationName: "high basin",
				UnitID:       "12",
				Lat:          floatPtr(44.5),
				Lon:          floatPtr(-106.75),
			},
			confidence: 0,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "state abbreviation matched case sensitively",
			sighting: types.Sighting{
				Description: "Headed to WY after this trip",
			},
			confidence: 0.1,
			recommend:  RecommendReject,
			issues:     1,
		},
		{
			name: "lowercase words do not trip abbreviations",
			sighting: types.Sighting{
				Description: "saw it by my truck in the morning, left it in the car",
			},
			confidence: 1.0,
			recommend:  RecommendKeep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lv.Assess(&tt.sighting)
			assert.InDelta(t, tt.confidence, got.Confidence, 0.0001)
			assert.Equal(t, tt.recommend, got.Recommendation)
			assert.Len(t, got.Issues, tt.issues)
		})
	}
}

func TestAssess_IndependentOfSightingScore(t *testing.T) {
	lv := NewLocationValidator()

	s := types.Sighting{
		LocationName:    "high basin",
		Lat:             floatPtr(44.5),
		Lon:             floatPtr(-110.0),
		ConfidenceScore: 0.9,
	}

	got := lv.Assess(&s)

	assert.InDelta(t, 0.2, got.Confidence, 0.0001, "location confidence starts at 1.0, not at the sighting's score")
	assert.Equal(t, RecommendFlagSuspicious, got.Recommendation)
}

func TestForeignStatesIn(t *testing.T) {
	states := foreignStatesIn("From Wyoming through Utah, then Wyoming again")
	assert.Equal(t, []string{"wyoming", "utah"}, states)

	assert.Empty(t, foreignStatesIn("deep in the Colorado backcountry"))
	assert.Equal(t, []string{"west virginia"}, foreignStatesIn("a cabin in West Virginia"))
}

func TestMentionsColorado(t *testing.T) {
	assert.True(t, mentionsColorado("near Buena Vista, CO"))
	assert.True(t, mentionsColorado("the colorado high country"))
	assert.False(t, mentionsColorado("company picnic"))
}

func TestRecommendationBands(t *testing.T) {
	assert.Equal(t, RecommendKeep, recommendationFor(0.8))
	assert.Equal(t, RecommendReview, recommendationFor(0.79))
	assert.Equal(t, RecommendReview, recommendationFor(0.5))
	assert.Equal(t, RecommendFlagSuspicious, recommendationFor(0.49))
	assert.Equal(t, RecommendFlagSuspicious, recommendationFor(0.2))
	assert.Equal(t, RecommendReject, recommendationFor(0.19))
}
