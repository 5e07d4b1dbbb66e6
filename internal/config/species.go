package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// SpeciesIndex maps each species tag to its synonym keywords. It is built
// once at startup and treated as immutable afterwards: lookups return
// copies, never the underlying slices.
type SpeciesIndex struct {
	keywords map[string][]string
}

// DefaultSpeciesIndex returns the built-in Colorado game-species keyword
// index.
func DefaultSpeciesIndex() *SpeciesIndex {
	return NewSpeciesIndex(map[string][]string{
		"elk":           {"elk", "bull", "cow", "wapiti", "bugle", "bugling"},
		"deer":          {"deer", "buck", "doe", "muley", "mule deer", "whitetail", "white-tail"},
		"bear":          {"bear", "black bear", "griz", "grizzly", "bruin"},
		"pronghorn":     {"pronghorn", "antelope", "speed goat"},
		"bighorn_sheep": {"bighorn", "sheep", "ram", "ewe"},
		"mountain_goat": {"mountain goat", "goat", "billy", "nanny"},
	})
}

// NewSpeciesIndex builds an index from a species → keywords map. The input
// map is copied.
func NewSpeciesIndex(keywords map[string][]string) *SpeciesIndex {
	copied := make(map[string][]string, len(keywords))
	for species, kws := range keywords {
		copied[species] = append([]string(nil), kws...)
	}
	return &SpeciesIndex{keywords: copied}
}

// LoadSpeciesIndex reads a species keyword index from a JSON file mapping
// species tags to keyword lists.
func LoadSpeciesIndex(path string) (*SpeciesIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read species keywords file %s: %w", path, err)
	}

	var keywords map[string][]string
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse species keywords JSON: %w", err)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("species keywords file %s defines no species", path)
	}

	return NewSpeciesIndex(keywords), nil
}

// Species returns the species tags in sorted order.
func (si *SpeciesIndex) Species() []string {
	species := make([]string, 0, len(si.keywords))
	for s := range si.keywords {
		species = append(species, s)
	}
	sort.Strings(species)
	return species
}

// Keywords returns a copy of the keyword list for a species tag.
func (si *SpeciesIndex) Keywords(species string) []string {
	return append([]string(nil), si.keywords[species]...)
}
