package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/patrick/wildsight/internal/cache"
	"github.com/patrick/wildsight/internal/extract"
	"github.com/patrick/wildsight/internal/geo"
	"github.com/patrick/wildsight/internal/ingestion"
	"github.com/patrick/wildsight/internal/types"
	"github.com/patrick/wildsight/internal/validate"
)

// SightingStore is the persistence surface the pipeline needs.
type SightingStore interface {
	SaveSighting(ctx context.Context, s *types.Sighting) (bool, error)
}

// Config wires the pipeline's collaborators.
type Config struct {
	Sources   []Source
	Extractor *extract.Extractor
	Validator *validate.Validator
	Cache     cache.Store
	Resolver  *geo.Resolver
	Locations *geo.LocationValidator
	Store     SightingStore

	MaxCacheAgeDays     int
	ConfidenceThreshold float64
	Verbose             bool
}

// RunOptions bounds a single run.
type RunOptions struct {
	LookbackDays int
	// DryRun processes everything but persists nothing.
	DryRun bool
}

// SourceSummary counts one source's contribution to a run.
type SourceSummary struct {
	Items      int
	FromCache  int
	Candidates int
	Saved      int
	Duplicates int
	Rejected   int
}

// Summary aggregates a whole run.
type Summary struct {
	Items      int
	FromCache  int
	Candidates int
	Saved      int
	Duplicates int
	Rejected   int
	BySource   map[string]SourceSummary
}

// Pipeline runs ingestion over all configured sources.
type Pipeline struct {
	cfg Config
}

// New builds a pipeline from wired collaborators.
func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// LoadGeoData loads GMU polygons and the trail index in parallel. A GMU
// load failure is fatal; a missing trail file just yields an empty index.
func LoadGeoData(ctx context.Context, gmuPath, trailPath string) (*geo.UnitResolver, *geo.TrailIndex, error) {
	var (
		units  *geo.UnitResolver
		trails *geo.TrailIndex
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		units, err = geo.LoadUnitResolver(gmuPath)
		return err
	})
	g.Go(func() error {
		var err error
		trails, err = geo.LoadTrailIndex(trailPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load geo data: %w", err)
	}
	return units, trails, nil
}

// Run processes every source sequentially. A failing source is logged and
// skipped; sightings from healthy sources still land.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	summary := Summary{BySource: make(map[string]SourceSummary)}

	// Sources contribute their known trailheads before any resolution.
	for _, src := range p.cfg.Sources {
		p.cfg.Resolver.Trails().Add(src.TrailLocations())
	}

	for i, src := range p.cfg.Sources {
		fmt.Printf("Source %d/%d: Scraping %s...\n", i+1, len(p.cfg.Sources), src.Name())

		items, err := src.Scrape(ctx, ScrapeOptions{LookbackDays: opts.LookbackDays})
		if err != nil {
			fmt.Printf("Warning: Failed to scrape %s: %v\n", src.Name(), err)
			fmt.Printf("Continuing with remaining sources...\n")
			continue
		}

		ss := SourceSummary{}
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			p.processItem(ctx, item, opts, &ss)
		}

		fmt.Printf("  %s: %d items, %d from cache, %d candidates, %d saved, %d duplicates, %d rejected\n",
			src.Name(), ss.Items, ss.FromCache, ss.Candidates, ss.Saved, ss.Duplicates, ss.Rejected)

		summary.BySource[src.Name()] = ss
		summary.Items += ss.Items
		summary.FromCache += ss.FromCache
		summary.Candidates += ss.Candidates
		summary.Saved += ss.Saved
		summary.Duplicates += ss.Duplicates
		summary.Rejected += ss.Rejected
	}

	return summary, nil
}

func (p *Pipeline) processItem(ctx context.Context, item Item, opts RunOptions, ss *SourceSummary) {
	ss.Items++

	fingerprint := ingestion.Fingerprint(item.Text)

	var results []types.ValidationResult
	if !p.cfg.Cache.ShouldProcess(item.ID, fingerprint, p.cfg.MaxCacheAgeDays) {
		results = p.cfg.Cache.Get(item.ID)
		ss.FromCache++
		if p.cfg.Verbose {
			fmt.Printf("[VERBOSE] Cache hit for %s (%d results)\n", item.ID, len(results))
		}
	} else {
		text := ingestion.StripHTML(item.Text)
		candidates := p.cfg.Extractor.Extract(text, item.SourceURL, item.SourceType)
		for _, cand := range candidates {
			results = append(results, p.cfg.Validator.Validate(ctx, cand, item.LocationHint))
		}
		if err := p.cfg.Cache.Update(item.ID, fingerprint, results); err != nil {
			fmt.Printf("Warning: Failed to update cache for %s: %v\n", item.ID, err)
		}
	}
	ss.Candidates += len(results)

	for _, result := range results {
		if !result.IsSighting || result.Confidence < p.cfg.ConfidenceThreshold {
			continue
		}

		sighting := p.buildSighting(item, result)
		assessment := p.cfg.Locations.Assess(sighting)
		sighting.ConfidenceScore *= assessment.Confidence

		if assessment.Recommendation == geo.RecommendReject {
			ss.Rejected++
			if p.cfg.Verbose {
				fmt.Printf("[VERBOSE] Rejected %s sighting: %v\n", sighting.Species, assessment.Issues)
			}
			continue
		}

		if opts.DryRun {
			ss.Saved++
			continue
		}

		inserted, err := p.cfg.Store.SaveSighting(ctx, sighting)
		if err != nil {
			fmt.Printf("Warning: Failed to save %s sighting: %v\n", sighting.Species, err)
			continue
		}
		if inserted {
			ss.Saved++
		} else {
			ss.Duplicates++
		}
	}
}

// buildSighting combines an item, its validation result, and the resolved
// location into a persistable record.
func (p *Pipeline) buildSighting(item Item, result types.ValidationResult) *types.Sighting {
	resolved := p.cfg.Resolver.Resolve(result)

	sightingDate := item.PublishedAt
	if sightingDate.IsZero() {
		sightingDate = time.Now().UTC()
	}
	sightingDate = sightingDate.Truncate(24 * time.Hour)

	s := &types.Sighting{
		Species:         result.Species,
		SightingDate:    sightingDate,
		SourceType:      item.SourceType,
		SourceURL:       item.SourceURL,
		RawText:         result.RawText,
		LocationName:    result.LocationName,
		Description:     result.LocationDescription,
		UnitID:          resolved.UnitID,
		ConfidenceScore: result.Confidence,
	}
	if resolved.Point != nil {
		lat, lon := resolved.Point.Lat, resolved.Point.Lon
		s.Lat, s.Lon = &lat, &lon
		radius := resolved.RadiusMiles
		s.RadiusMiles = &radius
	}
	return s
}
