package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrick/wildsight/internal/config"
	"github.com/patrick/wildsight/internal/types"
)

// contextWindow is the number of characters taken on each side of a keyword
// match, giving a roughly 100-character context window.
const contextWindow = 50

// numberPrefixChars is how far back a numeric quantity may appear before the
// keyword ("6 elk", "14  deer") and still count as a positive signal.
const numberPrefixChars = 10

// genericFalsePositives reject windows regardless of species: negations,
// wishful statements, and gear talk.
var genericFalsePositives = []string{
	"no sign of",
	"didn't see any",
	"no wildlife",
	"hope to see",
	"looking for",
	"planning",
}

// gearWords are matched on word boundaries so "backpack" does not trip the
// "pack" rule.
var gearWords = []string{"pack", "packs", "weight"}

// toponymSuffixes combine with each species keyword to form place-name
// rejections ("elk mountain", "bear lake").
var toponymSuffixes = []string{"lake", "creek", "trail", "mountain", "ridge", "canyon", "rocks"}

// positiveIndicators are verbs and phrases that mark an actual encounter.
var positiveIndicators = []string{
	"saw", "spotted", "encountered", "came across",
	"watched", "observed", "found", "ran into", "crossing",
	"grazing", "feeding", "bedded", "tracks", "scat",
	"herd of", "group of",
}

// Extractor finds candidate sighting mentions in raw text. It is
// deterministic, has no side effects, and never fails: malformed input
// yields an empty candidate list.
type Extractor struct {
	species   *config.SpeciesIndex
	matcher   Matcher
	gearRe    *regexp.Regexp
	numericRe *regexp.Regexp
}

// NewExtractor builds an extractor over the given species index using exact
// word-boundary matching.
func NewExtractor(species *config.SpeciesIndex) (*Extractor, error) {
	var keywords []string
	for _, s := range species.Species() {
		keywords = append(keywords, species.Keywords(s)...)
	}

	matcher, err := NewRegexMatcher(keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to build keyword matcher: %w", err)
	}

	return NewExtractorWithMatcher(species, matcher), nil
}

// NewExtractorWithMatcher builds an extractor with a caller-supplied
// matching strategy.
func NewExtractorWithMatcher(species *config.SpeciesIndex, matcher Matcher) *Extractor {
	return &Extractor{
		species:   species,
		matcher:   matcher,
		gearRe:    regexp.MustCompile(`(?i)\b(` + strings.Join(gearWords, "|") + `)\b`),
		numericRe: regexp.MustCompile(`\b\d+\s*$`),
	}
}

// Extract scans text for keyword occurrences of every indexed species and
// returns the windows that pass the acceptance policy. Ambiguous windows
// (no positive indicator, no numeric quantity) are discarded.
func (e *Extractor) Extract(text, sourceURL, sourceType string) []types.SightingCandidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	now := time.Now().UTC()
	var candidates []types.SightingCandidate

	for _, species := range e.species.Species() {
		for _, keyword := range e.species.Keywords(species) {
			for _, m := range e.matcher.Find(text, keyword) {
				window, offset := contextOf(text, m)
				if !e.accept(window, keyword, m.Start-offset) {
					continue
				}
				candidates = append(candidates, types.SightingCandidate{
					Species:        species,
					KeywordMatched: keyword,
					RawText:        strings.TrimSpace(window),
					SourceURL:      sourceURL,
					SourceType:     sourceType,
					ExtractedAt:    now,
				})
			}
		}
	}

	return candidates
}

// HasSightingIndicator reports whether text contains an encounter verb or
// phrase. Shared with the heuristic fallback validator, which grades
// candidates higher when one is present.
func HasSightingIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range positiveIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// contextOf returns the window around a match and the window's offset into
// the original text.
func contextOf(text string, m Match) (string, int) {
	start := m.Start - contextWindow
	if start < 0 {
		start = 0
	}
	end := m.End + contextWindow
	if end > len(text) {
		end = len(text)
	}
	// Back the bounds off to rune starts so the window never splits a
	// multibyte character.
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return text[start:end], start
}

// accept applies the acceptance policy to a context window. keywordAt is the
// keyword's position within the window.
func (e *Extractor) accept(window, keyword string, keywordAt int) bool {
	lower := strings.ToLower(window)

	for _, phrase := range genericFalsePositives {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	kwLower := strings.ToLower(keyword)
	for _, suffix := range toponymSuffixes {
		if strings.Contains(lower, kwLower+" "+suffix) {
			return false
		}
	}
	if e.gearRe.MatchString(window) {
		return false
	}

	if HasSightingIndicator(lower) {
		return true
	}
	if e.hasNumericQuantity(lower, keywordAt) {
		return true
	}

	// Default-deny: a keyword with no sighting signal is not a candidate.
	return false
}

// hasNumericQuantity reports whether a number immediately precedes the
// keyword, as in "saw 6 elk".
func (e *Extractor) hasNumericQuantity(window string, keywordAt int) bool {
	if keywordAt <= 0 || keywordAt > len(window) {
		return false
	}
	start := keywordAt - numberPrefixChars
	if start < 0 {
		start = 0
	}
	prefix := strings.TrimRight(window[start:keywordAt], " ")
	return e.numericRe.MatchString(prefix)
}
