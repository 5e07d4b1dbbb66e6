// Package validate grades sighting candidates, normally with an LLM and
// with a keyword heuristic as fallback when no model is available.
package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/patrick/wildsight/internal/extract"
	"github.com/patrick/wildsight/internal/geo"
	"github.com/patrick/wildsight/internal/llm"
	"github.com/patrick/wildsight/internal/prompts"
	"github.com/patrick/wildsight/internal/ratelimit"
	"github.com/patrick/wildsight/internal/schemas"
	"github.com/patrick/wildsight/internal/types"
)

// Heuristic confidence grades used when the LLM is unavailable. Candidates
// already passed the extraction policy, so the floor is above the default
// persistence threshold.
const (
	heuristicBaseConfidence   = 0.7
	heuristicStrongConfidence = 0.8
)

// Validator grades sighting candidates. With a nil client it runs in
// heuristic-only mode.
type Validator struct {
	client  llm.Client
	limiter *ratelimit.Limiter
	timeout time.Duration
	verbose bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithTimeout sets the per-call LLM timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) { v.timeout = d }
}

// WithVerbose enables per-candidate progress output.
func WithVerbose(verbose bool) Option {
	return func(v *Validator) { v.verbose = verbose }
}

// NewValidator builds a validator. client may be nil for heuristic-only
// operation; limiter is required when a client is set.
func NewValidator(client llm.Client, limiter *ratelimit.Limiter, opts ...Option) *Validator {
	v := &Validator{
		client:  client,
		limiter: limiter,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// rawResponse mirrors the JSON object the model returns. Confidence arrives
// on the model's 0-100 scale and is canonicalized here, at the boundary.
type rawResponse struct {
	IsSighting bool    `json:"is_sighting"`
	Confidence float64 `json:"confidence"`
	Species    string  `json:"species"`
	GMUUnit    *int    `json:"gmu_unit"`
	Location   string  `json:"location_name"`
	Coords     *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates"`
	ElevationFt *float64 `json:"elevation_ft"`
	RadiusMiles *float64 `json:"radius_miles"`
	Description string   `json:"location_description"`
}

// Validate grades one candidate. locationHint is optional context from the
// source (a forum's regional board, a trip report's area) passed through to
// the model. LLM failures degrade to the heuristic grade with a warning
// rather than dropping the candidate.
func (v *Validator) Validate(ctx context.Context, cand types.SightingCandidate, locationHint string) types.ValidationResult {
	if v.client == nil {
		return v.heuristic(cand)
	}

	result, err := v.validateWithLLM(ctx, cand, locationHint)
	if err != nil {
		log.Printf("Warning: LLM validation failed for %q candidate: %v (using heuristic)", cand.Species, err)
		return v.heuristic(cand)
	}
	return result
}

func (v *Validator) validateWithLLM(ctx context.Context, cand types.SightingCandidate, locationHint string) (types.ValidationResult, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return types.ValidationResult{}, &APICallError{Model: v.client.GetModel(llm.TierStandard), Cause: err}
	}

	hint := ""
	if locationHint != "" {
		hint = prompts.Format(prompts.MustGet("validation.json", "location-hint"), map[string]string{
			"Hint": locationHint,
		})
	}

	prompt := prompts.Format(prompts.MustGet("validation.json", "validate-sighting"), map[string]string{
		"Keyword":      cand.KeywordMatched,
		"Species":      cand.Species,
		"SourceType":   cand.SourceType,
		"Context":      cand.RawText,
		"LocationHint": hint,
	})

	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if v.verbose {
		fmt.Printf("  Validating %q candidate (keyword %q)...\n", cand.Species, cand.KeywordMatched)
	}

	text, err := v.client.GenerateJSON(callCtx, prompt, llm.TierStandard)
	if err != nil {
		return types.ValidationResult{}, &APICallError{Model: v.client.GetModel(llm.TierStandard), Cause: err}
	}

	return v.parseResponse(text, cand)
}

// parseResponse turns model output into a canonical ValidationResult,
// trusting nothing: comments are stripped, the shape is schema-checked, the
// confidence scale is normalized, and out-of-state coordinates are dropped.
func (v *Validator) parseResponse(text string, cand types.SightingCandidate) (types.ValidationResult, error) {
	cleaned := llm.StripLineComments(llm.CleanJSONBlock(text))

	if err := schemas.ValidateSightingResponse(cleaned); err != nil {
		return types.ValidationResult{}, &ParseError{Response: text, Cause: err}
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return types.ValidationResult{}, &ParseError{Response: text, Cause: err}
	}

	result := types.ValidationResult{
		IsSighting:          raw.IsSighting,
		Confidence:          canonicalConfidence(raw.Confidence),
		Species:             raw.Species,
		UnitNumber:          raw.GMUUnit,
		LocationName:        raw.Location,
		ElevationFt:         raw.ElevationFt,
		RadiusMiles:         raw.RadiusMiles,
		LocationDescription: raw.Description,
		RawText:             cand.RawText,
		LLMValidated:        true,
	}
	if result.Species == "" {
		result.Species = cand.Species
	}

	if raw.Coords != nil {
		if geo.InColorado(raw.Coords.Lat, raw.Coords.Lon) {
			result.Coordinates = &types.Coordinates{Lat: raw.Coords.Lat, Lon: raw.Coords.Lon}
		} else {
			log.Printf("Warning: discarding out-of-state coordinates (%.4f, %.4f) for %q candidate",
				raw.Coords.Lat, raw.Coords.Lon, cand.Species)
		}
	}

	return result, nil
}

// heuristic grades a candidate without a model. The candidate already
// passed the extraction policy; encounter verbs push it above the base
// grade. No location is extracted.
func (v *Validator) heuristic(cand types.SightingCandidate) types.ValidationResult {
	confidence := heuristicBaseConfidence
	if extract.HasSightingIndicator(cand.RawText) {
		confidence = heuristicStrongConfidence
	}
	return types.ValidationResult{
		IsSighting:   true,
		Confidence:   confidence,
		Species:      cand.Species,
		RawText:      cand.RawText,
		LLMValidated: false,
	}
}

// canonicalConfidence maps the model's 0-100 wire scale onto [0, 1]. The
// division happens exactly once, here at the response boundary; the schema
// already bounds the wire value, so the clamp only guards rounding.
func canonicalConfidence(c float64) float64 {
	c /= 100
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
