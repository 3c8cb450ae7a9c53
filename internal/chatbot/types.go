package chatbot

import "github.com/clubstats/backend/internal/stats"

type QuestionType string

const (
	TypeSingleStat    QuestionType = "single_stat"
	TypeTeamStat      QuestionType = "team_stat"
	TypeRanking       QuestionType = "ranking"
	TypeRate          QuestionType = "rate"
	TypeComparison    QuestionType = "comparison"
	TypeClubAggregate QuestionType = "club_aggregate"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// QuestionContext is the immutable per-request input. UserContext, when set,
// names the player that first-person phrasing ("my goals") refers to.
type QuestionContext struct {
	Question    string
	UserContext string
}

// QuestionAnalysis is produced by the analyzer with raw surface strings and
// enriched in place by the resolver, after which Player/Teams/Metrics hold
// canonical keys. Resolving twice is a no-op.
type QuestionAnalysis struct {
	Type                  QuestionType
	Player                string
	PlayerFromContext     bool
	Teams                 []string
	Seasons               []string
	Metrics               []string
	RateNumerator         string
	RateDenominator       string
	Complexity            Complexity
	RequiresClarification bool
	Resolved              bool
}

// TeamKey returns the single resolved team filter, or the whole-club sentinel.
func (a *QuestionAnalysis) TeamKey() stats.TeamKey {
	if len(a.Teams) == 0 {
		return stats.TeamClub
	}
	return stats.TeamKey(a.Teams[0])
}

// GraphQuery is a parameterized Cypher pattern match. Text is byte-identical
// for the same canonical analysis; only Params vary.
type GraphQuery struct {
	Text   string
	Params map[string]any
}

type VizDatum struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Metric string  `json:"metric,omitempty"`
	Max    bool    `json:"max,omitempty"`
}

type Visualization struct {
	Type string     `json:"type"` // "bar" or "number"
	Data []VizDatum `json:"data"`
}

// Response is the user-facing answer. CypherQuery is populated only when the
// engine runs in debug mode.
type Response struct {
	Answer        string         `json:"answer"`
	Sources       []string       `json:"sources"`
	Visualization *Visualization `json:"visualization,omitempty"`
	Confidence    float64        `json:"confidence"`
	CypherQuery   string         `json:"cypher_query,omitempty"`
}
