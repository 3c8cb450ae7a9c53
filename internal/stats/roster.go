package stats

import (
	"sort"
	"strings"
)

// Roster is the set of player names the analyzer can recognise. In production
// it is loaded from the player table at startup; tests construct it directly.
type Roster struct {
	names []string          // longest first for maximal matching
	index map[string]string // lower(name) -> canonical name
}

func NewRoster(names []string) *Roster {
	r := &Roster{index: make(map[string]string, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if _, exists := r.index[lower]; exists {
			continue
		}
		r.index[lower] = name
		r.names = append(r.names, lower)
	}
	sort.SliceStable(r.names, func(i, j int) bool {
		return len(r.names[i]) > len(r.names[j])
	})
	return r
}

// Find scans normalized question text for a roster name and returns the
// canonical spelling. Longer names win so "Luke Bangs-Smith" is not shadowed
// by "Luke Bangs".
func (r *Roster) Find(text string) (string, bool) {
	for _, lower := range r.names {
		idx := strings.Index(text, lower)
		if idx < 0 {
			continue
		}
		if isWordBoundary(text, idx, idx+len(lower)) {
			return r.index[lower], true
		}
	}
	return "", false
}

// Canonical maps any casing of a full name to the roster spelling.
func (r *Roster) Canonical(name string) (string, bool) {
	canonical, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

func (r *Roster) Len() int {
	return len(r.names)
}
