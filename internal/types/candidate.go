// Package types defines the shared data model for the sighting pipeline:
// candidates produced by extraction, validation results, resolved locations,
// and the persisted Sighting record.
package types

import "time"

// SightingCandidate is an unvalidated keyword match with surrounding context.
// Candidates are transient: they are produced per extraction pass and never
// persisted directly.
type SightingCandidate struct {
	Species        string    `json:"species"`
	KeywordMatched string    `json:"keyword_matched"`
	RawText        string    `json:"raw_text"`
	SourceURL      string    `json:"source_url"`
	SourceType     string    `json:"source_type"`
	ExtractedAt    time.Time `json:"extracted_at"`
}
