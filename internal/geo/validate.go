package geo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patrick/wildsight/internal/types"
)

// Recommendation is the action suggested for a sighting after its location
// has been sanity-checked.
type Recommendation string

// Recommendation levels, strictest last.
const (
	RecommendKeep           Recommendation = "keep"
	RecommendReview         Recommendation = "review"
	RecommendFlagSuspicious Recommendation = "flag_suspicious"
	RecommendReject         Recommendation = "reject"
)

// Assessment is the outcome of a location sanity check: a location
// confidence multiplier in [0,1], the action it maps to, and the reasons
// for any penalty.
type Assessment struct {
	Confidence     float64
	Recommendation Recommendation
	Issues         []string
}

// stateNameRe matches any US state name other than Colorado. Multi-word
// names come first so the longest form wins.
var stateNameRe = regexp.MustCompile(`(?i)\b(west virginia|new hampshire|new jersey|new mexico|new york|north carolina|north dakota|rhode island|south carolina|south dakota|alabama|alaska|arizona|arkansas|california|connecticut|delaware|florida|georgia|hawaii|idaho|illinois|indiana|iowa|kansas|kentucky|louisiana|maine|maryland|massachusetts|michigan|minnesota|mississippi|missouri|montana|nebraska|nevada|ohio|oklahoma|oregon|pennsylvania|tennessee|texas|utah|vermont|virginia|washington|wisconsin|wyoming)\b`)

// stateAbbrevRe matches uppercase two-letter postal codes other than CO on
// word boundaries. Case-sensitive so prose words like "in" or "id" stay
// inert.
var stateAbbrevRe = regexp.MustCompile(`\b(AL|AK|AZ|AR|CA|CT|DE|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY)\b`)

var (
	coloradoNameRe   = regexp.MustCompile(`(?i)\bcolorado\b`)
	coloradoAbbrevRe = regexp.MustCompile(`\bCO\b`)
)

// LocationValidator sanity-checks sighting locations before persistence.
type LocationValidator struct{}

// NewLocationValidator returns a validator with the standard penalty rules.
func NewLocationValidator() *LocationValidator {
	return &LocationValidator{}
}

// Assess scores how plausible a sighting's location is, independent of the
// validator's grade: location confidence starts at 1.0, penalties multiply
// it down, and the caller applies the result to the sighting's own score.
// The recommendation bands are:
//
//	>= 0.8 keep, >= 0.5 review, >= 0.2 flag_suspicious, else reject.
//
// Penalties: a non-Colorado state mentioned in the location text or raw
// text multiplies confidence by 0.1, or forces it to 0 when the sighting
// claims a GMU and Colorado itself is never mentioned (unit numbers only
// exist in Colorado). Coordinates outside the state bounding box multiply
// by 0.2, or force 0 when a GMU is also claimed.
func (lv *LocationValidator) Assess(s *types.Sighting) Assessment {
	confidence := 1.0
	var issues []string

	text := s.LocationName + " " + s.Description + " " + s.RawText
	if foreign := foreignStatesIn(text); len(foreign) > 0 {
		if s.UnitID != "" && !mentionsColorado(text) {
			confidence = 0
			issues = append(issues, fmt.Sprintf("claims GMU %s while referencing only %s", s.UnitID, strings.Join(foreign, ", ")))
		} else {
			confidence *= 0.1
			issues = append(issues, fmt.Sprintf("location references %s", strings.Join(foreign, ", ")))
		}
	}

	if s.HasPoint() && !InColorado(*s.Lat, *s.Lon) {
		if s.UnitID != "" {
			// A GMU claim with out-of-state coordinates is contradictory.
			confidence = 0
			issues = append(issues, fmt.Sprintf("claims GMU %s with coordinates (%.4f, %.4f) outside Colorado", s.UnitID, *s.Lat, *s.Lon))
		} else {
			confidence *= 0.2
			issues = append(issues, fmt.Sprintf("coordinates (%.4f, %.4f) outside Colorado", *s.Lat, *s.Lon))
		}
	}

	return Assessment{
		Confidence:     confidence,
		Recommendation: recommendationFor(confidence),
		Issues:         issues,
	}
}

func recommendationFor(confidence float64) Recommendation {
	switch {
	case confidence >= 0.8:
		return RecommendKeep
	case confidence >= 0.5:
		return RecommendReview
	case confidence >= 0.2:
		return RecommendFlagSuspicious
	default:
		return RecommendReject
	}
}

// foreignStatesIn returns the non-Colorado states referenced in the text,
// deduplicated, in order of first mention.
func foreignStatesIn(text string) []string {
	seen := make(map[string]bool)
	var states []string
	for _, m := range stateNameRe.FindAllString(text, -1) {
		name := strings.ToLower(m)
		if !seen[name] {
			seen[name] = true
			states = append(states, name)
		}
	}
	for _, m := range stateAbbrevRe.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			states = append(states, m)
		}
	}
	return states
}

func mentionsColorado(text string) bool {
	return coloradoNameRe.MatchString(text) || coloradoAbbrevRe.MatchString(text)
}
