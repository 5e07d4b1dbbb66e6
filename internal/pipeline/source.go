// Package pipeline orchestrates the ingestion run: scrape, extract,
// validate, resolve, sanity-check, persist.
package pipeline

import (
	"context"
	"time"

	"github.com/patrick/wildsight/internal/geo"
)

// Item is one scraped post or report, before extraction.
type Item struct {
	// ID identifies the item across runs (a post URL or stable source ID)
	// and keys the validation cache.
	ID string
	// Text is the raw content, HTML or plain text.
	Text string
	// SourceURL is the canonical link to the item.
	SourceURL string
	// SourceType labels the kind of source: "forum", "trip_report", "14er".
	SourceType string
	// PublishedAt is when the item was posted; the sighting date. Zero
	// means unknown and falls back to the run date.
	PublishedAt time.Time
	// LocationHint is optional area context from the source (a regional
	// board name, a report's listed area), passed to the validator.
	LocationHint string
}

// ScrapeOptions bounds a scrape.
type ScrapeOptions struct {
	// LookbackDays limits how far back the source should fetch.
	LookbackDays int
}

// Source produces items to ingest. Implementations wrap one site or feed.
type Source interface {
	// Name identifies the source in logs and summaries.
	Name() string
	// Scrape fetches recent items.
	Scrape(ctx context.Context, opts ScrapeOptions) ([]Item, error)
	// TrailLocations returns named places this source knows coordinates
	// for, merged into the trail index before the run.
	TrailLocations() []geo.TrailLocation
}
