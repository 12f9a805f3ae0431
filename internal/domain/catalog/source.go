package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedJSON []byte

// Source is the read-only menu loaded once at start-up.
// Callers get copies; the source itself is never mutated.
type Source struct {
	entries []Entry
	byID    map[string]int // id -> index into entries
}

// NewSource builds a source from an ordered list of entries
func NewSource(entries []Entry) (*Source, error) {
	s := &Source{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", e.Name)
		}
		if _, dup := s.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog entry id %q", e.ID)
		}
		if !ValidCategory(e.Category) {
			return nil, fmt.Errorf("catalog entry %q has unknown category %q", e.ID, e.Category)
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// LoadSeed builds the source from the embedded seed menu
func LoadSeed() (*Source, error) {
	var entries []Entry
	if err := json.Unmarshal(seedJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed menu: %w", err)
	}
	return NewSource(entries)
}

// Entries returns a copy of all entries in catalog order
func (s *Source) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with the given id
func (s *Source) Get(id string) (Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Len returns the number of entries
func (s *Source) Len() int {
	return len(s.entries)
}
