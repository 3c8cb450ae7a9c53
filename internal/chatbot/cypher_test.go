package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/backend/internal/stats"
)

func TestBuildAggregateBindsAllFilters(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:    TypeTeamStat,
		Player:  "Luke Bangs",
		Teams:   []string{"1s"},
		Seasons: []string{"2023/24"},
		Metrics: []string{stats.MetricGoals},
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "p.name = $player")
	assert.Contains(t, q.Text, "f.team = $team")
	assert.Contains(t, q.Text, "f.season = $season")
	assert.Equal(t, "Luke Bangs", q.Params["player"])
	assert.Equal(t, "1st XI", q.Params["team"])
	assert.Equal(t, "2023/24", q.Params["season"])

	// user values only travel as parameters
	assert.NotContains(t, q.Text, "Luke Bangs")
	assert.NotContains(t, q.Text, "2023/24")
}

func TestBuildGoalsIncludesPenalties(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:    TypeSingleStat,
		Player:  "Luke Bangs",
		Metrics: []string{stats.MetricGoals},
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "sum(coalesce(md.goals, 0) + coalesce(md.penalties_scored, 0)) AS total")
}

func TestBuildAppearancesCountsMatchDetails(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:    TypeSingleStat,
		Player:  "Luke Bangs",
		Metrics: []string{stats.MetricAppearances},
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "count(md) AS total")
}

func TestBuildQueryTextIsDeterministic(t *testing.T) {
	tables := testTables()
	a := NewAnalyzer(tables, nil)
	r := NewResolver(tables, nil)
	b := NewQueryBuilder(tables)

	forms := []string{
		"How many goals have the 3s scored?",
		"How many goals have the 3rd XI scored?",
		"How many goals have the thirds scored?",
	}

	var texts []string
	for _, question := range forms {
		analysis := a.Analyze(QuestionContext{Question: question})
		r.Resolve(&analysis, QuestionContext{})
		q, err := b.Build(analysis)
		require.NoError(t, err, "question %q", question)
		assert.Equal(t, "3rd XI", q.Params["team"])
		texts = append(texts, q.Text)
	}

	assert.Equal(t, texts[0], texts[1])
	assert.Equal(t, texts[0], texts[2])
}

func TestBuildRankingOrdersDeterministically(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:    TypeRanking,
		Player:  "Luke Bangs",
		Teams:   []string{"1s"},
		Metrics: []string{stats.MetricGoals},
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "RETURN f.team AS team")
	assert.Contains(t, q.Text, "ORDER BY total DESC, team ASC")
	assert.Contains(t, q.Text, "LIMIT 10")

	// a ranking compares across every team, so the team filter is dropped
	assert.NotContains(t, q.Text, "f.team = $team")
	assert.NotContains(t, q.Params, "team")
	assert.Equal(t, "Luke Bangs", q.Params["player"])
}

func TestBuildRateReturnsBothColumns(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:            TypeRate,
		Player:          "Luke Bangs",
		RateNumerator:   stats.MetricFantasyPoints,
		RateDenominator: stats.MetricAppearances,
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "sum(coalesce(md.fantasy_points, 0)) AS numerator")
	assert.Contains(t, q.Text, "count(md) AS denominator")

	// division is a presentation concern, never part of the query
	assert.NotContains(t, q.Text, "/")
}

func TestBuildRankingOverDerivedMetric(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:    TypeRanking,
		Metrics: []string{stats.MetricGoalsPerGame},
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "WITH f.team AS team, sum(coalesce(md.goals, 0) + coalesce(md.penalties_scored, 0)) AS numerator, count(md) AS denominator")
	assert.Contains(t, q.Text, "WHERE denominator > 0")
	assert.Contains(t, q.Text, "toFloat(numerator) / denominator AS total")
	assert.Contains(t, q.Text, "ORDER BY total DESC, team ASC")
	assert.NotContains(t, q.Text, "sum()")
}

func TestBuildRejectsDerivedMetricAsPlainAggregate(t *testing.T) {
	b := NewQueryBuilder(testTables())

	_, err := b.Build(QuestionAnalysis{
		Type:    TypeSingleStat,
		Player:  "Luke Bangs",
		Metrics: []string{stats.MetricSavePercentage},
	})
	assert.Error(t, err)

	_, err = b.Build(QuestionAnalysis{
		Type:    TypeComparison,
		Player:  "Luke Bangs",
		Metrics: []string{stats.MetricGoals, stats.MetricSavePercentage},
	})
	assert.Error(t, err)
}

func TestBuildComparisonReturnsOneColumnPerMetric(t *testing.T) {
	b := NewQueryBuilder(testTables())

	q, err := b.Build(QuestionAnalysis{
		Type:    TypeComparison,
		Player:  "Luke Bangs",
		Metrics: []string{stats.MetricGoals, stats.MetricAssists},
	})
	require.NoError(t, err)

	assert.Contains(t, q.Text, "AS metric0")
	assert.Contains(t, q.Text, "sum(coalesce(md.assists, 0)) AS metric1")
}

func TestBuildRefusesClarification(t *testing.T) {
	b := NewQueryBuilder(testTables())

	_, err := b.Build(QuestionAnalysis{
		Type:                  TypeSingleStat,
		RequiresClarification: true,
	})
	assert.Error(t, err)
}

func TestBuildRefusesUnknownMetricKey(t *testing.T) {
	b := NewQueryBuilder(testTables())

	_, err := b.Build(QuestionAnalysis{
		Type:    TypeSingleStat,
		Player:  "Luke Bangs",
		Metrics: []string{"tackles"},
	})
	assert.Error(t, err)
}
