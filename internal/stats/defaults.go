package stats

// Canonical metric keys. Presentation layers key icons and labels off these,
// so they are part of the API surface, not just internal identifiers.
const (
	MetricGoals         = "goals"
	MetricAppearances   = "appearances"
	MetricAssists       = "assists"
	MetricCleanSheets   = "clean_sheets"
	MetricFantasyPoints = "fantasy_points"
	MetricMOMAwards     = "mom_awards"
	MetricGoalsConceded = "goals_conceded"
	MetricSaves         = "saves"
	MetricShotsFaced    = "shots_faced"

	MetricSavePercentage      = "save_percentage"
	MetricGoalsPerGame        = "goals_per_game"
	MetricFantasyPointsPerApp = "fantasy_points_per_appearance"
)

// DefaultMetrics is the club's metric table. Loaded once at startup; the rest
// of the process treats it as read-only.
func DefaultMetrics() []MetricDefinition {
	return []MetricDefinition{
		{
			Key:     MetricGoals,
			Aliases: []string{"goal", "goals scored", "field goals"},
			// goals always include penalty strokes, never the raw field alone
			SourceFields: []string{"goals", "penalties_scored"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "scored",
			UnitSingular: "goal",
			UnitPlural:   "goals",
			ZeroPhrase:   "has not scored any goals",
		},
		{
			Key:          MetricAppearances,
			Aliases:      []string{"appearance", "apps", "games played", "games", "caps"},
			Aggregation:  AggCount,
			Format:       Format{Kind: FormatInteger},
			Verb:         "made",
			UnitSingular: "appearance",
			UnitPlural:   "appearances",
			ZeroPhrase:   "has not made any appearances",
		},
		{
			Key:          MetricAssists,
			Aliases:      []string{"assist"},
			SourceFields: []string{"assists"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "provided",
			UnitSingular: "assist",
			UnitPlural:   "assists",
			ZeroPhrase:   "has not provided any assists",
		},
		{
			Key:          MetricCleanSheets,
			Aliases:      []string{"clean sheet", "clean sheets", "shutouts", "shutout"},
			SourceFields: []string{"clean_sheets"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "kept",
			UnitSingular: "clean sheet",
			UnitPlural:   "clean sheets",
			ZeroPhrase:   "has not kept any clean sheets",
		},
		{
			Key:          MetricFantasyPoints,
			Aliases:      []string{"fantasy points", "fantasy point", "fantasy score"},
			SourceFields: []string{"fantasy_points"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "earned",
			UnitSingular: "fantasy point",
			UnitPlural:   "fantasy points",
			ZeroPhrase:   "has not earned any fantasy points",
		},
		{
			Key:          MetricMOMAwards,
			Aliases:      []string{"man of the match awards", "man of the match award", "man of the match", "mom awards", "motm", "mom"},
			SourceFields: []string{"mom"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "won",
			UnitSingular: "man of the match award",
			UnitPlural:   "man of the match awards",
			ZeroPhrase:   "has not won any man of the match awards",
		},
		{
			Key:          MetricGoalsConceded,
			Aliases:      []string{"goals conceded", "conceded"},
			SourceFields: []string{"goals_conceded"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "conceded",
			UnitSingular: "goal",
			UnitPlural:   "goals",
			ZeroPhrase:   "has not conceded any goals",
		},
		{
			Key:          MetricSaves,
			Aliases:      []string{"save"},
			SourceFields: []string{"saves"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "made",
			UnitSingular: "save",
			UnitPlural:   "saves",
			ZeroPhrase:   "has not made any saves",
		},
		{
			Key:          MetricShotsFaced,
			Aliases:      []string{"shots faced"},
			SourceFields: []string{"saves", "goals_conceded"},
			Aggregation:  AggSum,
			Format:       Format{Kind: FormatInteger},
			Verb:         "faced",
			UnitSingular: "shot",
			UnitPlural:   "shots",
			ZeroPhrase:   "has not faced any shots",
		},
		{
			Key:         MetricSavePercentage,
			Aliases:     []string{"save percentage", "save rate"},
			Aggregation: AggDerivedRate,
			Numerator:   MetricSaves,
			Denominator: MetricShotsFaced,
			Format:      Format{Kind: FormatPercentage, Decimals: 1},
		},
		{
			Key:         MetricGoalsPerGame,
			Aliases:     []string{"goals per game", "goals per appearance", "scoring rate"},
			Aggregation: AggDerivedRate,
			Numerator:   MetricGoals,
			Denominator: MetricAppearances,
			Format:      Format{Kind: FormatDecimal, Decimals: 1},
		},
		{
			Key:         MetricFantasyPointsPerApp,
			Aliases:     []string{"fantasy points per appearance", "fantasy points per game"},
			Aggregation: AggDerivedRate,
			Numerator:   MetricFantasyPoints,
			Denominator: MetricAppearances,
			Format:      Format{Kind: FormatDecimal, Decimals: 1},
		},
	}
}

// Tables bundles every static lookup the pipeline needs. Constructed once in
// main and passed by reference into each component; nothing mutates it after
// startup, so concurrent reads need no locking.
type Tables struct {
	Metrics *Registry
	Roster  *Roster
}

func DefaultTables(rosterNames []string) *Tables {
	return &Tables{
		Metrics: NewRegistry(DefaultMetrics()),
		Roster:  NewRoster(rosterNames),
	}
}
