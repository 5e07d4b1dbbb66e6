package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrick/wildsight/internal/geo"
)

// fileItem is the on-disk item shape for FileSource.
type fileItem struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	SourceURL    string    `json:"source_url"`
	SourceType   string    `json:"source_type"`
	PublishedAt  time.Time `json:"published_at"`
	LocationHint string    `json:"location_hint"`
}

// fileDocument is the FileSource file format: exported posts plus any
// named locations the exporter knows about.
type fileDocument struct {
	Items  []fileItem          `json:"items"`
	Trails []geo.TrailLocation `json:"trails,omitempty"`
}

// FileSource serves items from a JSON export file. Site-specific scraping
// lives outside this module; operators export posts to a file and feed it
// here.
type FileSource struct {
	name   string
	path   string
	trails []geo.TrailLocation
}

// NewFileSource builds a source over an export file. The source name is
// derived from the file name. Trail locations are read eagerly so they are
// available before the first scrape.
func NewFileSource(path string) (*FileSource, error) {
	doc, err := readFileDocument(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &FileSource{name: name, path: path, trails: doc.Trails}, nil
}

// Name implements Source.
func (f *FileSource) Name() string { return f.name }

// Scrape implements Source. The file is re-read each run so a long-lived
// process picks up fresh exports. Items older than the lookback window are
// skipped; items without a timestamp are kept.
func (f *FileSource) Scrape(ctx context.Context, opts ScrapeOptions) ([]Item, error) {
	doc, err := readFileDocument(f.path)
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if opts.LookbackDays > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -opts.LookbackDays)
	}

	items := make([]Item, 0, len(doc.Items))
	for _, fi := range doc.Items {
		if !cutoff.IsZero() && !fi.PublishedAt.IsZero() && fi.PublishedAt.Before(cutoff) {
			continue
		}
		id := fi.ID
		if id == "" {
			id = fi.SourceURL
		}
		items = append(items, Item{
			ID:           id,
			Text:         fi.Text,
			SourceURL:    fi.SourceURL,
			SourceType:   fi.SourceType,
			PublishedAt:  fi.PublishedAt,
			LocationHint: fi.LocationHint,
		})
	}
	return items, nil
}

// TrailLocations implements Source.
func (f *FileSource) TrailLocations() []geo.TrailLocation {
	return f.trails
}

func readFileDocument(path string) (*fileDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse source file %s: %w", path, err)
	}
	return &doc, nil
}
