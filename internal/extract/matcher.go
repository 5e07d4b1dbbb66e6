// Package extract scans raw source text for species keyword mentions and
// turns plausible sighting mentions into candidates for validation.
package extract

import (
	"fmt"
	"regexp"
)

// Match is a keyword occurrence within the scanned text.
type Match struct {
	Start int
	End   int
}

// Matcher locates keyword occurrences in text. Implementations decide the
// matching strategy (exact word-boundary, fuzzy, ...); the extractor only
// depends on this interface.
type Matcher interface {
	Find(text, keyword string) []Match
}

// RegexMatcher matches keywords case-insensitively on word boundaries. All
// patterns are compiled once at construction, never per call.
type RegexMatcher struct {
	patterns map[string]*regexp.Regexp
}

// NewRegexMatcher compiles a word-boundary pattern for every keyword.
func NewRegexMatcher(keywords []string) (*RegexMatcher, error) {
	patterns := make(map[string]*regexp.Regexp, len(keywords))
	for _, kw := range keywords {
		if _, ok := patterns[kw]; ok {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("failed to compile keyword pattern %q: %w", kw, err)
		}
		patterns[kw] = re
	}
	return &RegexMatcher{patterns: patterns}, nil
}

// Find returns all occurrences of keyword in text. Keywords the matcher was
// not built with yield no matches.
func (m *RegexMatcher) Find(text, keyword string) []Match {
	re, ok := m.patterns[keyword]
	if !ok {
		return nil
	}

	var matches []Match
	for _, loc := range re.FindAllStringIndex(text, -1) {
		matches = append(matches, Match{Start: loc[0], End: loc[1]})
	}
	return matches
}
