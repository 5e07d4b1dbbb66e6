package types

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sighting is the persisted canonical record. A Sighting is created once per
// unique ContentHash; later insert attempts with the same hash are no-ops.
// It is mutated only by the deduplication engine (field enrichment on merge)
// or by later reprocessing that supplies previously missing coordinates.
type Sighting struct {
	ID           uuid.UUID `json:"id"`
	Species      string    `json:"species"`
	SightingDate time.Time `json:"sighting_date"`
	SourceType   string    `json:"source_type"`
	SourceURL    string    `json:"source_url"`
	RawText      string    `json:"raw_text"`
	LocationName string    `json:"location_name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lon          *float64  `json:"lon,omitempty"`
	UnitID       string    `json:"unit_id,omitempty"`
	// ConfidenceScore is the validator's confidence in [0,1].
	ConfidenceScore float64   `json:"confidence_score"`
	RadiusMiles     *float64  `json:"location_confidence_radius_miles,omitempty"`
	ContentHash     string    `json:"content_hash"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasPoint reports whether the sighting carries resolved coordinates.
func (s *Sighting) HasPoint() bool {
	return s.Lat != nil && s.Lon != nil
}

// ComputeContentHash returns the deduplication hash for this record's
// defining fields.
func (s *Sighting) ComputeContentHash() string {
	return ContentHash(s.Species, s.LocationName, s.SightingDate, s.SourceType)
}

// ContentHash is the deterministic fingerprint used as the idempotency key
// for storage. Identical inputs always yield the same hash regardless of
// casing or incidental whitespace.
func ContentHash(species, locationName string, date time.Time, sourceType string) string {
	content := fmt.Sprintf("%s_%s_%s_%s",
		normalizeHashField(species),
		normalizeHashField(locationName),
		date.Format("2006-01-02"),
		normalizeHashField(sourceType),
	)
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// normalizeHashField lowercases and collapses all whitespace runs so that
// logically identical inputs hash identically.
func normalizeHashField(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
