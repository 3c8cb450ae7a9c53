package chatbot

import (
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/stats"
)

// Resolver canonicalizes the raw surface strings an analysis carries. Every
// step maps canonical values to themselves, so resolving an already-resolved
// analysis changes nothing.
type Resolver struct {
	tables *stats.Tables
	log    *zap.Logger
}

func NewResolver(tables *stats.Tables, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{tables: tables, log: log}
}

func (r *Resolver) Resolve(a *QuestionAnalysis, qc QuestionContext) {
	r.resolveMetrics(a)
	r.resolveTeams(a)
	r.resolvePlayer(a, qc)

	// ranking questions phrased around scoring carry no explicit metric
	if a.Type == TypeRanking && len(a.Metrics) == 0 {
		a.Metrics = []string{stats.MetricGoals}
	}

	if len(a.Metrics) == 0 && !a.RequiresClarification {
		switch a.Type {
		case TypeSingleStat, TypeTeamStat, TypeRate:
			a.RequiresClarification = true
		}
	}

	a.Resolved = true
}

func (r *Resolver) resolveMetrics(a *QuestionAnalysis) {
	var keys []string
	for _, surface := range a.Metrics {
		match, ok := r.tables.Metrics.Lookup(surface)
		if !ok {
			r.log.Debug("Unknown metric phrase dropped", zap.String("surface", surface))
			continue
		}
		keys = append(keys, match.Key)
		// team-scoped variants reduce to the base metric plus a team filter
		if match.Team != "" {
			a.Teams = append(a.Teams, string(match.Team))
		}
	}
	a.Metrics = uniqueStrings(keys)

	if a.RateNumerator != "" {
		if match, ok := r.tables.Metrics.Lookup(a.RateNumerator); ok {
			a.RateNumerator = match.Key
		}
	}
	if a.RateDenominator != "" {
		if match, ok := r.tables.Metrics.Lookup(a.RateDenominator); ok {
			a.RateDenominator = match.Key
		}
	}
}

func (r *Resolver) resolveTeams(a *QuestionAnalysis) {
	var keys []string
	for _, surface := range a.Teams {
		key, ok := stats.NormalizeTeam(surface)
		if !ok {
			// a numeral outside 1-8 is not a squad; ask rather than guess
			r.log.Debug("Unrecognized team surface", zap.String("surface", surface))
			a.Teams = nil
			a.RequiresClarification = true
			a.Complexity = ComplexityComplex
			return
		}
		if key == stats.TeamClub {
			continue
		}
		keys = append(keys, string(key))
	}
	a.Teams = uniqueStrings(keys)
}

// resolvePlayer fills first-person pronouns from the request context. An
// explicit roster name in the question always wins over the context.
func (r *Resolver) resolvePlayer(a *QuestionAnalysis, qc QuestionContext) {
	if a.Player != "" {
		if canonical, ok := r.tables.Roster.Canonical(a.Player); ok {
			a.Player = canonical
		}
		return
	}

	if !a.PlayerFromContext {
		return
	}

	if qc.UserContext == "" {
		a.RequiresClarification = true
		a.Complexity = ComplexityComplex
		return
	}

	if canonical, ok := r.tables.Roster.Canonical(qc.UserContext); ok {
		a.Player = canonical
	} else {
		a.Player = qc.UserContext
	}
}
