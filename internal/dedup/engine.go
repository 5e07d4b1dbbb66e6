// Package dedup finds and merges duplicate sightings that slipped past the
// content-hash guard: same animal, same day, same place, reported with
// slightly different wording or from reposts of the same thread.
package dedup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/patrick/wildsight/internal/types"
)

// Coordinates are rounded to 3 decimal places for grouping, roughly 100
// meters. Sightings closer than that on the same day are the same event.
const coordGroupPrecision = "%.3f,%.3f"

// Action is what the engine decides to do with a duplicate group.
type Action string

const (
	// ActionMerge collapses the group into its earliest member.
	ActionMerge Action = "merge"
	// ActionFlag leaves the group for human review: the texts differ, so
	// the rows may be distinct sightings that happen to collide.
	ActionFlag Action = "flag"
	// ActionSkip leaves the group alone: members come from different
	// source types and corroborate rather than duplicate each other.
	ActionSkip Action = "skip"
)

// Group is a set of sightings sharing species, date, and location key.
type Group struct {
	Key     string
	Members []types.Sighting
}

// Decision is the engine's verdict on one group.
type Decision struct {
	Action Action
	// Keep and RemoveIDs are set for ActionMerge.
	Keep      *types.Sighting
	RemoveIDs []uuid.UUID
}

// GroupSightings buckets sightings by (species, date, location). Location
// is the rounded coordinate pair when present, otherwise the normalized
// location name. Singleton groups are omitted.
func GroupSightings(sightings []types.Sighting) []Group {
	buckets := make(map[string][]types.Sighting)
	for _, s := range sightings {
		buckets[groupKey(&s)] = append(buckets[groupKey(&s)], s)
	}

	var groups []Group
	for key, members := range buckets {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, Group{Key: key, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

func groupKey(s *types.Sighting) string {
	location := strings.Join(strings.Fields(strings.ToLower(s.LocationName)), " ")
	if s.HasPoint() {
		location = fmt.Sprintf(coordGroupPrecision, *s.Lat, *s.Lon)
	}
	return fmt.Sprintf("%s|%s|%s", strings.ToLower(s.Species), s.SightingDate.Format("2006-01-02"), location)
}

// Decide applies the merge policy to a group.
func Decide(g Group) Decision {
	if len(g.Members) < 2 {
		return Decision{Action: ActionSkip}
	}

	sourceTypes := make(map[string]bool)
	for _, m := range g.Members {
		sourceTypes[m.SourceType] = true
	}
	if len(sourceTypes) > 1 {
		return Decision{Action: ActionSkip}
	}

	first := normalizeText(g.Members[0].RawText)
	for _, m := range g.Members[1:] {
		if normalizeText(m.RawText) != first {
			return Decision{Action: ActionFlag}
		}
	}

	keep, removeIDs := merge(g.Members)
	return Decision{Action: ActionMerge, Keep: keep, RemoveIDs: removeIDs}
}

// merge collapses members into the earliest-created one, enriched with the
// best fields from the rest: coordinates where missing, tighter radius,
// longer description, higher confidence, and the union of source URLs.
func merge(members []types.Sighting) (*types.Sighting, []uuid.UUID) {
	sorted := make([]types.Sighting, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	keep := sorted[0]
	removeIDs := make([]uuid.UUID, 0, len(sorted)-1)
	urls := []string{keep.SourceURL}

	for _, m := range sorted[1:] {
		removeIDs = append(removeIDs, m.ID)

		if !keep.HasPoint() && m.HasPoint() {
			keep.Lat, keep.Lon = m.Lat, m.Lon
			keep.RadiusMiles = m.RadiusMiles
		} else if keep.HasPoint() && m.HasPoint() && smallerRadius(m.RadiusMiles, keep.RadiusMiles) {
			keep.Lat, keep.Lon = m.Lat, m.Lon
			keep.RadiusMiles = m.RadiusMiles
		}

		if len(m.Description) > len(keep.Description) {
			keep.Description = m.Description
		}
		if m.ConfidenceScore > keep.ConfidenceScore {
			keep.ConfidenceScore = m.ConfidenceScore
		}
		if keep.LocationName == "" {
			keep.LocationName = m.LocationName
		}
		if keep.UnitID == "" {
			keep.UnitID = m.UnitID
		}
		if m.SourceURL != "" && !contains(urls, m.SourceURL) {
			urls = append(urls, m.SourceURL)
		}
	}

	keep.SourceURL = strings.Join(urls, ", ")
	keep.ContentHash = keep.ComputeContentHash()
	return &keep, removeIDs
}

func smallerRadius(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
