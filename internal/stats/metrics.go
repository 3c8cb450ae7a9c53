package stats

import (
	"fmt"
	"sort"
	"strings"
)

type Aggregation int

const (
	AggSum Aggregation = iota
	AggCount
	AggAvg
	AggDerivedRate
)

type FormatKind int

const (
	FormatInteger FormatKind = iota
	FormatDecimal
	FormatPercentage
)

type Format struct {
	Kind     FormatKind
	Decimals int
}

// MetricDefinition is the static description of one statistic. SourceFields
// are MatchDetail properties summed together (goals always includes penalties,
// that is a domain rule, not an approximation). DerivedRate metrics name the
// numerator and denominator metric keys instead of source fields.
type MetricDefinition struct {
	Key          string
	Aliases      []string
	SourceFields []string
	Aggregation  Aggregation
	Numerator    string
	Denominator  string
	Format       Format
	Verb         string
	UnitSingular string
	UnitPlural   string
	ZeroPhrase   string
}

// AliasMatch is one hit from scanning a question against the alias table.
type AliasMatch struct {
	Alias string
	Key   string
	Team  TeamKey // set for team-scoped variants like "2nd team goals"
	Pos   int
}

type aliasEntry struct {
	alias string
	key   string
	team  TeamKey
}

// Registry holds every metric definition plus the ordered alias list.
// Built once at startup and read-only afterwards.
type Registry struct {
	defs    map[string]MetricDefinition
	derived map[string]string // "num/den" -> derived metric key
	aliases []aliasEntry      // longest alias first
}

func NewRegistry(defs []MetricDefinition) *Registry {
	r := &Registry{
		defs:    make(map[string]MetricDefinition, len(defs)),
		derived: make(map[string]string),
	}

	for _, def := range defs {
		r.defs[def.Key] = def
		if def.Aggregation == AggDerivedRate {
			r.derived[def.Numerator+"/"+def.Denominator] = def.Key
		}

		// the key is its own alias so resolving an already-canonical
		// analysis is a no-op
		r.aliases = append(r.aliases, aliasEntry{alias: def.Key, key: def.Key})
		for _, alias := range def.Aliases {
			r.aliases = append(r.aliases, aliasEntry{alias: strings.ToLower(alias), key: def.Key})
		}
	}

	r.addTeamScopedAliases()

	// longest first so "fantasy points" beats a bare "points" partial match
	sort.SliceStable(r.aliases, func(i, j int) bool {
		return len(r.aliases[i].alias) > len(r.aliases[j].alias)
	})

	return r
}

// Team-scoped goal variants ("2nd team goals", "2s goals") reduce to the base
// goals metric plus a team filter. Keeping them as aliases here avoids a
// separate metric definition per squad.
func (r *Registry) addTeamScopedAliases() {
	if _, ok := r.defs[MetricGoals]; !ok {
		return
	}

	for _, key := range SquadKeys() {
		if key == TeamVets {
			r.aliases = append(r.aliases,
				aliasEntry{alias: "vets goals", key: MetricGoals, team: key},
				aliasEntry{alias: "vets team goals", key: MetricGoals, team: key},
			)
			continue
		}

		n := strings.TrimSuffix(string(key), "s")
		ord := fmt.Sprintf("%s%s", n, ordinalSuffixFor(n))
		r.aliases = append(r.aliases,
			aliasEntry{alias: fmt.Sprintf("%s team goals", ord), key: MetricGoals, team: key},
			aliasEntry{alias: fmt.Sprintf("%ss goals", n), key: MetricGoals, team: key},
		)
	}
}

func ordinalSuffixFor(digit string) string {
	switch digit {
	case "1":
		return "st"
	case "2":
		return "nd"
	case "3":
		return "rd"
	default:
		return "th"
	}
}

func (r *Registry) Definition(key string) (MetricDefinition, bool) {
	def, ok := r.defs[key]
	return def, ok
}

// Lookup resolves a single surface phrase to its canonical key,
// first-match-wins over the ordered alias list.
func (r *Registry) Lookup(surface string) (AliasMatch, bool) {
	s := strings.ToLower(strings.TrimSpace(surface))
	for _, entry := range r.aliases {
		if entry.alias == s {
			return AliasMatch{Alias: entry.alias, Key: entry.key, Team: entry.team}, true
		}
	}
	return AliasMatch{}, false
}

// Scan finds every metric phrase in the normalized question text. Longer
// aliases are tried first and matched spans are consumed, so one span of text
// never yields two metrics.
func (r *Registry) Scan(text string) []AliasMatch {
	var matches []AliasMatch
	consumed := make([]bool, len(text))

	for _, entry := range r.aliases {
		for from := 0; ; {
			idx := strings.Index(text[from:], entry.alias)
			if idx < 0 {
				break
			}
			pos := from + idx
			end := pos + len(entry.alias)
			from = end

			if !isWordBoundary(text, pos, end) || spanConsumed(consumed, pos, end) {
				continue
			}
			for i := pos; i < end; i++ {
				consumed[i] = true
			}
			matches = append(matches, AliasMatch{Alias: entry.alias, Key: entry.key, Team: entry.team, Pos: pos})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Pos < matches[j].Pos })
	return matches
}

// DerivedFor returns the derived-rate metric defined for a numerator and
// denominator pair, if one exists.
func (r *Registry) DerivedFor(numerator, denominator string) (MetricDefinition, bool) {
	key, ok := r.derived[numerator+"/"+denominator]
	if !ok {
		return MetricDefinition{}, false
	}
	return r.defs[key], true
}

func isWordBoundary(text string, start, end int) bool {
	if start > 0 && isAlnum(text[start-1]) {
		return false
	}
	if end < len(text) && isAlnum(text[end]) {
		return false
	}
	return true
}

func spanConsumed(consumed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if consumed[i] {
			return true
		}
	}
	return false
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
