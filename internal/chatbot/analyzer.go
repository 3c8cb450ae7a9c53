package chatbot

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/stats"
)

var (
	teamDigitRe   = regexp.MustCompile(`\b(\d{1,2})s\b`)
	teamOrdinalRe = regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)(?:\s+(?:xi|team))?\b`)
	teamSpelledRe = regexp.MustCompile(`\b(?:firsts|seconds|thirds|fourths|fifths|sixths|sevenths|eighths)\b`)
	teamVetsRe    = regexp.MustCompile(`\b(?:vets|veterans)\b`)

	seasonRe      = regexp.MustCompile(`\b(20\d{2}(?:/\d{2})?)\b`)
	firstPersonRe = regexp.MustCompile(`\b(?:i|me|my)\b`)
	rankingRe     = regexp.MustCompile(`\bmost\b|\bwhich team\b|\btop scorer\b`)
	rateRe        = regexp.MustCompile(`\bper\b|\bon average\b|\baverage\b`)
	punctRe       = regexp.MustCompile(`[?!.,;:"()]`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// Analyzer classifies a question and extracts raw entity surface strings. It
// never fails: a question it cannot place degrades to Complex with
// RequiresClarification set, so the pipeline always produces some response.
type Analyzer struct {
	tables *stats.Tables
	log    *zap.Logger
}

func NewAnalyzer(tables *stats.Tables, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{tables: tables, log: log}
}

func (a *Analyzer) Analyze(qc QuestionContext) QuestionAnalysis {
	text := normalizeQuestion(qc.Question)

	analysis := QuestionAnalysis{
		Type:       TypeClubAggregate,
		Complexity: ComplexitySimple,
	}

	a.detectPlayer(&analysis, text, qc)
	a.detectTeams(&analysis, text)
	analysis.Seasons = seasonRe.FindAllString(text, -1)

	metricMatches := a.tables.Metrics.Scan(text)
	for _, m := range metricMatches {
		analysis.Metrics = append(analysis.Metrics, m.Alias)
		if m.Team != "" {
			analysis.Teams = append(analysis.Teams, string(m.Team))
		}
	}

	hasRanking := rankingRe.MatchString(text)
	hasRate := rateRe.MatchString(text)
	// a named derived metric ("save percentage") is a rate question even
	// without "per" or "average" in the text
	for _, m := range metricMatches {
		if def, ok := a.tables.Metrics.Definition(m.Key); ok && def.Aggregation == stats.AggDerivedRate {
			hasRate = true
			break
		}
	}

	switch {
	case hasRanking:
		analysis.Type = TypeRanking
	case hasRate:
		analysis.Type = TypeRate
		a.splitRateMetrics(&analysis, text, metricMatches)
	case len(analysis.Metrics) > 1:
		analysis.Type = TypeComparison
	case len(analysis.Teams) > 0:
		analysis.Type = TypeTeamStat
	case analysis.Player != "" || analysis.PlayerFromContext:
		analysis.Type = TypeSingleStat
	default:
		analysis.Type = TypeClubAggregate
	}

	if len(analysis.Metrics) == 0 && !hasRanking {
		analysis.RequiresClarification = true
	}
	if analysis.Type == TypeRate && analysis.RateNumerator == "" {
		analysis.RequiresClarification = true
	}

	analysis.Complexity = a.assignComplexity(&analysis)

	a.log.Debug("Question analyzed",
		zap.String("question", qc.Question),
		zap.String("type", string(analysis.Type)),
		zap.String("complexity", string(analysis.Complexity)),
		zap.Strings("metrics", analysis.Metrics),
		zap.Strings("teams", analysis.Teams),
		zap.Bool("requires_clarification", analysis.RequiresClarification),
	)

	return analysis
}

func (a *Analyzer) detectPlayer(analysis *QuestionAnalysis, text string, qc QuestionContext) {
	if name, ok := a.tables.Roster.Find(text); ok {
		analysis.Player = name
		return
	}

	// prose catches name casings and partial forms the roster scan misses
	if doc, err := prose.NewDocument(qc.Question); err == nil {
		for _, ent := range doc.Entities() {
			if ent.Label != "PERSON" {
				continue
			}
			if name, ok := a.tables.Roster.Canonical(ent.Text); ok {
				analysis.Player = name
				return
			}
		}
	}

	if firstPersonRe.MatchString(text) {
		analysis.PlayerFromContext = true
	}
}

func (a *Analyzer) detectTeams(analysis *QuestionAnalysis, text string) {
	for _, re := range []*regexp.Regexp{teamDigitRe, teamOrdinalRe, teamSpelledRe, teamVetsRe} {
		for _, surface := range re.FindAllString(text, -1) {
			if seasonRe.MatchString(surface) {
				continue
			}
			analysis.Teams = append(analysis.Teams, surface)
		}
	}
}

// splitRateMetrics decides the numerator/denominator pair: metrics mentioned
// before "per" form the numerator, the metric after it the denominator,
// defaulting to appearances ("how many goals does he score per game").
func (a *Analyzer) splitRateMetrics(analysis *QuestionAnalysis, text string, matches []stats.AliasMatch) {
	perIdx := strings.Index(text, " per ")

	for _, m := range matches {
		def, ok := a.tables.Metrics.Definition(m.Key)
		if ok && def.Aggregation == stats.AggDerivedRate {
			// a named derived metric ("save percentage") carries its own pair
			analysis.RateNumerator = def.Numerator
			analysis.RateDenominator = def.Denominator
			return
		}
		if perIdx >= 0 && m.Pos > perIdx {
			if analysis.RateDenominator == "" {
				analysis.RateDenominator = m.Alias
			}
			continue
		}
		if analysis.RateNumerator == "" {
			analysis.RateNumerator = m.Alias
		}
	}

	if analysis.RateDenominator == "" {
		analysis.RateDenominator = stats.MetricAppearances
	}
}

func (a *Analyzer) assignComplexity(analysis *QuestionAnalysis) Complexity {
	if analysis.RequiresClarification {
		return ComplexityComplex
	}

	switch analysis.Type {
	case TypeRanking, TypeComparison:
		return ComplexityComplex
	case TypeRate:
		return ComplexityModerate
	}

	filters := len(analysis.Seasons)
	if len(analysis.Teams) > 0 {
		filters += len(uniqueStrings(analysis.Teams))
	}
	if filters > 1 {
		return ComplexityModerate
	}
	return ComplexitySimple
}

func normalizeQuestion(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = punctRe.ReplaceAllString(q, " ")
	q = spaceRe.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
