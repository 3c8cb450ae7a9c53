package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/backend/internal/stats"
)

func testTables() *stats.Tables {
	return stats.DefaultTables([]string{"Luke Bangs", "Sam Archer"})
}

func TestAnalyzePlayerTeamStat(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "How many goals has Luke Bangs scored for the 1s?"})

	assert.Equal(t, TypeTeamStat, analysis.Type)
	assert.Equal(t, "Luke Bangs", analysis.Player)
	assert.Equal(t, []string{"1s"}, analysis.Teams)
	require.Len(t, analysis.Metrics, 1)
	assert.Equal(t, "goals", analysis.Metrics[0])
	assert.Equal(t, ComplexitySimple, analysis.Complexity)
	assert.False(t, analysis.RequiresClarification)
}

func TestAnalyzeRanking(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "Which team has Luke Bangs scored the most goals for?"})

	assert.Equal(t, TypeRanking, analysis.Type)
	assert.Equal(t, "Luke Bangs", analysis.Player)
	assert.Equal(t, ComplexityComplex, analysis.Complexity)
	assert.False(t, analysis.RequiresClarification)
}

func TestAnalyzeRankingOverDerivedMetric(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "Which team has the most goals per game?"})

	assert.Equal(t, TypeRanking, analysis.Type)
	assert.Equal(t, []string{"goals per game"}, analysis.Metrics)
	assert.False(t, analysis.RequiresClarification)
}

func TestAnalyzeRateWithPer(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "How many fantasy points does Luke Bangs score per appearance?"})

	assert.Equal(t, TypeRate, analysis.Type)
	assert.Equal(t, "fantasy points", analysis.RateNumerator)
	assert.Equal(t, "appearance", analysis.RateDenominator)
	assert.Equal(t, ComplexityModerate, analysis.Complexity)
	assert.False(t, analysis.RequiresClarification)
}

func TestAnalyzeNamedDerivedMetricIsRate(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "What is Luke Bangs' save percentage?"})

	assert.Equal(t, TypeRate, analysis.Type)
	assert.Equal(t, stats.MetricSaves, analysis.RateNumerator)
	assert.Equal(t, stats.MetricShotsFaced, analysis.RateDenominator)
	assert.False(t, analysis.RequiresClarification)
}

func TestAnalyzeUnrecognizedQuestion(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "What's the weather like today?"})

	assert.True(t, analysis.RequiresClarification)
	assert.Equal(t, ComplexityComplex, analysis.Complexity)
	assert.Empty(t, analysis.Metrics)
}

func TestAnalyzeFirstPerson(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "How many goals have I scored?"})

	assert.Equal(t, TypeSingleStat, analysis.Type)
	assert.Empty(t, analysis.Player)
	assert.True(t, analysis.PlayerFromContext)
}

func TestAnalyzeTeamAndSeasonIsModerate(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "How many goals did the 2s score in 2023/24?"})

	assert.Equal(t, TypeTeamStat, analysis.Type)
	assert.Equal(t, []string{"2s"}, analysis.Teams)
	assert.Equal(t, []string{"2023/24"}, analysis.Seasons)
	assert.Equal(t, ComplexityModerate, analysis.Complexity)
}

func TestAnalyzeComparison(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	analysis := a.Analyze(QuestionContext{Question: "How many goals and assists has Luke Bangs got?"})

	assert.Equal(t, TypeComparison, analysis.Type)
	assert.Equal(t, []string{"goals", "assists"}, analysis.Metrics)
	assert.Equal(t, ComplexityComplex, analysis.Complexity)
}

func TestAnalyzeEquivalentTeamForms(t *testing.T) {
	a := NewAnalyzer(testTables(), nil)

	forms := []string{
		"How many goals have the 3s scored?",
		"How many goals have the 3rd XI scored?",
		"How many goals have the thirds scored?",
	}

	for _, q := range forms {
		analysis := a.Analyze(QuestionContext{Question: q})
		require.Len(t, analysis.Teams, 1, "question %q", q)
		assert.Equal(t, TypeTeamStat, analysis.Type)
	}
}
