package chatbot

import (
	"fmt"
	"strings"

	"github.com/clubstats/backend/internal/stats"
)

// QueryBuilder turns a resolved analysis into a parameterized Cypher query
// over the (Player)-[:PLAYED_IN]->(MatchDetail)<-[:HAS_MATCH_DETAILS]-(Fixture)
// schema. All user-derived values go through bound parameters, never into the
// query text, and the text is byte-identical for the same canonical analysis.
type QueryBuilder struct {
	tables *stats.Tables
}

func NewQueryBuilder(tables *stats.Tables) *QueryBuilder {
	return &QueryBuilder{tables: tables}
}

const matchClause = "MATCH (p:Player)-[:PLAYED_IN]->(md:MatchDetail)<-[:HAS_MATCH_DETAILS]-(f:Fixture)"

func (b *QueryBuilder) Build(a QuestionAnalysis) (GraphQuery, error) {
	if a.RequiresClarification {
		return GraphQuery{}, fmt.Errorf("analysis requires clarification, no query to build")
	}

	switch a.Type {
	case TypeSingleStat, TypeTeamStat, TypeClubAggregate:
		return b.buildAggregate(a)
	case TypeRate:
		return b.buildRate(a)
	case TypeRanking:
		return b.buildRanking(a)
	case TypeComparison:
		return b.buildComparison(a)
	default:
		return GraphQuery{}, fmt.Errorf("unsupported question type %q", a.Type)
	}
}

func (b *QueryBuilder) buildAggregate(a QuestionAnalysis) (GraphQuery, error) {
	def, err := b.definition(a.Metrics[0])
	if err != nil {
		return GraphQuery{}, err
	}
	if def.Aggregation == stats.AggDerivedRate {
		return GraphQuery{}, fmt.Errorf("metric %q is a rate, not a single aggregate", def.Key)
	}

	where, params := b.filters(a)
	text := matchClause + where + "\nRETURN " + aggregateExpr(def) + " AS total"
	return GraphQuery{Text: text, Params: params}, nil
}

// buildRate returns the numerator and denominator as separate columns; the
// division happens at the answer stage so rounding stays a presentation
// concern.
func (b *QueryBuilder) buildRate(a QuestionAnalysis) (GraphQuery, error) {
	num, err := b.definition(a.RateNumerator)
	if err != nil {
		return GraphQuery{}, err
	}
	den, err := b.definition(a.RateDenominator)
	if err != nil {
		return GraphQuery{}, err
	}

	where, params := b.filters(a)
	text := matchClause + where +
		"\nRETURN " + aggregateExpr(num) + " AS numerator, " + aggregateExpr(den) + " AS denominator"
	return GraphQuery{Text: text, Params: params}, nil
}

// buildRanking groups by the fixture's team. Ties on the aggregate are broken
// by team name ascending so the top row never depends on store ordering.
func (b *QueryBuilder) buildRanking(a QuestionAnalysis) (GraphQuery, error) {
	def, err := b.definition(a.Metrics[0])
	if err != nil {
		return GraphQuery{}, err
	}

	filtered := a
	filtered.Teams = nil // ranking compares across every team
	where, params := b.filters(filtered)

	if def.Aggregation == stats.AggDerivedRate {
		return b.buildDerivedRanking(def, where, params)
	}

	text := matchClause + where +
		"\nRETURN f.team AS team, " + aggregateExpr(def) + " AS total" +
		"\nORDER BY total DESC, team ASC" +
		"\nLIMIT 10"
	return GraphQuery{Text: text, Params: params}, nil
}

// buildDerivedRanking ranks teams by a rate. The ratio is computed in the
// query because it is the sort key; teams with no denominator data are
// excluded rather than ranked.
func (b *QueryBuilder) buildDerivedRanking(def stats.MetricDefinition, where string, params map[string]any) (GraphQuery, error) {
	num, err := b.definition(def.Numerator)
	if err != nil {
		return GraphQuery{}, err
	}
	den, err := b.definition(def.Denominator)
	if err != nil {
		return GraphQuery{}, err
	}

	text := matchClause + where +
		"\nWITH f.team AS team, " + aggregateExpr(num) + " AS numerator, " + aggregateExpr(den) + " AS denominator" +
		"\nWHERE denominator > 0" +
		"\nRETURN team, numerator, denominator, toFloat(numerator) / denominator AS total" +
		"\nORDER BY total DESC, team ASC" +
		"\nLIMIT 10"
	return GraphQuery{Text: text, Params: params}, nil
}

func (b *QueryBuilder) buildComparison(a QuestionAnalysis) (GraphQuery, error) {
	if len(a.Metrics) < 2 {
		return GraphQuery{}, fmt.Errorf("comparison needs at least two metrics")
	}

	where, params := b.filters(a)

	returns := make([]string, 0, len(a.Metrics))
	for i, key := range a.Metrics {
		def, err := b.definition(key)
		if err != nil {
			return GraphQuery{}, err
		}
		if def.Aggregation == stats.AggDerivedRate {
			return GraphQuery{}, fmt.Errorf("metric %q is a rate and cannot be compared as a single aggregate", def.Key)
		}
		returns = append(returns, fmt.Sprintf("%s AS metric%d", aggregateExpr(def), i))
	}

	text := matchClause + where + "\nRETURN " + strings.Join(returns, ", ")
	return GraphQuery{Text: text, Params: params}, nil
}

// filters assembles the WHERE clause in a fixed order (player, team, season)
// so equivalent analyses produce identical query text.
func (b *QueryBuilder) filters(a QuestionAnalysis) (string, map[string]any) {
	params := make(map[string]any)
	var conditions []string

	if a.Player != "" {
		conditions = append(conditions, "p.name = $player")
		params["player"] = a.Player
	}
	if len(a.Teams) > 0 {
		conditions = append(conditions, "f.team = $team")
		params["team"] = stats.TeamKey(a.Teams[0]).Display()
	}
	if len(a.Seasons) > 0 {
		conditions = append(conditions, "f.season = $season")
		params["season"] = a.Seasons[0]
	}

	if len(conditions) == 0 {
		return "", params
	}
	return "\nWHERE " + strings.Join(conditions, " AND "), params
}

func (b *QueryBuilder) definition(key string) (stats.MetricDefinition, error) {
	def, ok := b.tables.Metrics.Definition(key)
	if !ok {
		return stats.MetricDefinition{}, fmt.Errorf("unknown metric key %q", key)
	}
	return def, nil
}

// aggregateExpr renders the aggregation for one metric. Every summed field is
// wrapped in coalesce so absent data contributes zero instead of nulling the
// whole sum.
func aggregateExpr(def stats.MetricDefinition) string {
	if def.Aggregation == stats.AggCount {
		return "count(md)"
	}

	terms := make([]string, 0, len(def.SourceFields))
	for _, field := range def.SourceFields {
		terms = append(terms, fmt.Sprintf("coalesce(md.%s, 0)", field))
	}

	expr := "sum(" + strings.Join(terms, " + ") + ")"
	if def.Aggregation == stats.AggAvg {
		expr = "avg(" + strings.Join(terms, " + ") + ")"
	}
	return expr
}
