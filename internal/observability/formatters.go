// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/patrick/wildsight/internal/cache"
	"github.com/patrick/wildsight/internal/dedup"
	"github.com/patrick/wildsight/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs a human-readable summary of an ingestion run.
func (p *Printer) PrintRunSummary(summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Items:      %d (%d from cache)\n", summary.Items, summary.FromCache))
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", summary.Candidates))
	sb.WriteString(fmt.Sprintf("Saved:      %d\n", summary.Saved))
	sb.WriteString(fmt.Sprintf("Duplicates: %d\n", summary.Duplicates))
	sb.WriteString(fmt.Sprintf("Rejected:   %d\n", summary.Rejected))

	if len(summary.BySource) > 0 {
		sb.WriteString("\nBy source:\n")
		names := make([]string, 0, len(summary.BySource))
		for name := range summary.BySource {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ss := summary.BySource[name]
			sb.WriteString(fmt.Sprintf("  %s: %d items, %d saved\n", name, ss.Items, ss.Saved))
		}
	}

	p.printBox("Ingestion Run", strings.TrimRight(sb.String(), "\n"))
}

// PrintCacheStats outputs validation cache contents.
func (p *Printer) PrintCacheStats(stats cache.Stats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Cached items:       %d\n", stats.TotalItems))
	sb.WriteString(fmt.Sprintf("Items with results: %d\n", stats.ItemsWithResults))
	sb.WriteString(fmt.Sprintf("Cached sightings:   %d", stats.TotalSightings))

	p.printBox("Validation Cache", sb.String())
}

// PrintDedupReport outputs the outcome of a deduplication sweep.
func (p *Printer) PrintDedupReport(report *dedup.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Groups examined: %d\n", report.GroupsExamined))
	sb.WriteString(fmt.Sprintf("Merged:          %d (%d rows removed)\n", report.GroupsMerged, report.SightingsRemoved))
	sb.WriteString(fmt.Sprintf("Flagged:         %d\n", report.GroupsFlagged))
	sb.WriteString(fmt.Sprintf("Skipped:         %d", report.GroupsSkipped))

	if len(report.FlaggedKeys) > 0 {
		sb.WriteString("\n\nFlagged for review:\n")
		keys := report.FlaggedKeys
		if len(keys) > maxItemsToShow {
			keys = keys[:maxItemsToShow]
		}
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("  %s\n", key))
		}
		if len(report.FlaggedKeys) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.FlaggedKeys)-maxItemsToShow))
		}
	}

	p.printBox("Deduplication", strings.TrimRight(sb.String(), "\n"))
}
