package types

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ValidationResult is the structured decision produced for a candidate,
// either by the LLM validator or the heuristic fallback. Confidence is
// always canonicalized to [0,1]; 0-100 integers are divided by 100 at the
// LLM response boundary only.
type ValidationResult struct {
	IsSighting          bool         `json:"is_sighting"`
	Confidence          float64      `json:"confidence"`
	Species             string       `json:"species,omitempty"`
	UnitNumber          *int         `json:"unit_number,omitempty"`
	LocationName        string       `json:"location_name,omitempty"`
	Coordinates         *Coordinates `json:"coordinates,omitempty"`
	ElevationFt         *float64     `json:"elevation_ft,omitempty"`
	RadiusMiles         *float64     `json:"location_confidence_radius_miles,omitempty"`
	LocationDescription string       `json:"location_description,omitempty"`
	// RawText carries the candidate's context window so sightings rebuilt
	// from cached results keep their source text.
	RawText string `json:"raw_text,omitempty"`
	// LLMValidated records whether the result came from the external model
	// or from the heuristic fallback.
	LLMValidated bool `json:"llm_validated"`
}
