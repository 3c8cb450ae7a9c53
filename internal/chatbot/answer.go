package chatbot

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	graph "github.com/clubstats/backend/internal/graph/neo4j"
	"github.com/clubstats/backend/internal/stats"
)

const defaultSource = "club match records"

// AnswerSynthesizer converts raw aggregate rows into phrased natural language
// plus an optional visualization payload. Aggregates arrive already coerced to
// plain numbers; anything missing reads as zero, never as "null" in the text.
type AnswerSynthesizer struct {
	tables *stats.Tables
	log    *zap.Logger
}

func NewAnswerSynthesizer(tables *stats.Tables, log *zap.Logger) *AnswerSynthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnswerSynthesizer{tables: tables, log: log}
}

func (s *AnswerSynthesizer) Compose(a QuestionAnalysis, rows []graph.Row) Response {
	resp := Response{
		Sources:    []string{defaultSource},
		Confidence: defaultConfidence(a.Complexity),
	}

	switch a.Type {
	case TypeRanking:
		s.composeRanking(a, rows, &resp)
	case TypeRate:
		s.composeRate(a, rows, &resp)
	case TypeComparison:
		s.composeComparison(a, rows, &resp)
	default:
		s.composeAggregate(a, rows, &resp)
	}

	return resp
}

// defaultConfidence is monotone in complexity: simpler classifications are
// never less confident than harder ones.
func defaultConfidence(c Complexity) float64 {
	switch c {
	case ComplexitySimple:
		return 0.8
	case ComplexityModerate:
		return 0.6
	default:
		return 0.3
	}
}

func (s *AnswerSynthesizer) composeAggregate(a QuestionAnalysis, rows []graph.Row, resp *Response) {
	def, ok := s.tables.Metrics.Definition(a.Metrics[0])
	if !ok {
		resp.Answer = clarificationAnswer
		resp.Confidence = defaultConfidence(ComplexityComplex)
		return
	}

	var total float64
	if len(rows) > 0 {
		total = rows[0].Float("total")
	}

	resp.Answer = s.subject(a) + " " + phraseCount(def, total) + s.scopeSuffix(a) + "."
	resp.Visualization = &Visualization{
		Type: "number",
		Data: []VizDatum{{Label: def.UnitPlural, Metric: def.Key, Value: total}},
	}
}

func (s *AnswerSynthesizer) composeRanking(a QuestionAnalysis, rows []graph.Row, resp *Response) {
	def, ok := s.tables.Metrics.Definition(a.Metrics[0])
	if !ok || len(rows) == 0 {
		resp.Answer = fmt.Sprintf("I couldn't find any %s records to rank, sorry.", s.metricLabel(a))
		resp.Confidence = defaultConfidence(ComplexityComplex)
		return
	}

	top := rows[0]
	topTeam := top.String("team")
	topTotal := top.Float("total")

	subject := s.subject(a)
	switch {
	case def.Aggregation == stats.AggDerivedRate && a.Player != "":
		resp.Answer = fmt.Sprintf("%s has the best %s for the %s (%s).",
			subject, derivedLabel(def), topTeam, formatValue(def.Format, topTotal))
	case def.Aggregation == stats.AggDerivedRate:
		resp.Answer = fmt.Sprintf("The %s have the best %s (%s).",
			topTeam, derivedLabel(def), formatValue(def.Format, topTotal))
	case a.Player != "":
		resp.Answer = fmt.Sprintf("%s has %s the most %s for the %s (%s).",
			subject, def.Verb, def.UnitPlural, topTeam, formatValue(def.Format, topTotal))
	default:
		resp.Answer = fmt.Sprintf("The %s have %s the most %s (%s).",
			topTeam, def.Verb, def.UnitPlural, formatValue(def.Format, topTotal))
	}

	viz := &Visualization{Type: "bar"}
	for i, row := range rows {
		viz.Data = append(viz.Data, VizDatum{
			Label:  row.String("team"),
			Value:  row.Float("total"),
			Metric: def.Key,
			Max:    i == 0,
		})
	}
	resp.Visualization = viz
}

func (s *AnswerSynthesizer) composeRate(a QuestionAnalysis, rows []graph.Row, resp *Response) {
	num, okNum := s.tables.Metrics.Definition(a.RateNumerator)
	den, okDen := s.tables.Metrics.Definition(a.RateDenominator)
	if !okNum || !okDen {
		resp.Answer = clarificationAnswer
		resp.Confidence = defaultConfidence(ComplexityComplex)
		return
	}

	var numerator, denominator float64
	if len(rows) > 0 {
		numerator = rows[0].Float("numerator")
		denominator = rows[0].Float("denominator")
	}

	subject := s.subject(a)
	if denominator == 0 {
		resp.Answer = fmt.Sprintf("%s %s yet, so there is no %s rate to report.",
			subject, den.ZeroPhrase, num.UnitPlural)
		return
	}

	// rates render with one implied decimal unless the metric table says
	// otherwise; save percentage renders as a fixed-decimal percentage
	format := stats.Format{Kind: stats.FormatDecimal, Decimals: 1}
	if derived, ok := s.tables.Metrics.DerivedFor(num.Key, den.Key); ok {
		format = derived.Format
	}

	value := numerator / denominator
	if format.Kind == stats.FormatPercentage {
		resp.Answer = fmt.Sprintf("%s has a %s of %s.",
			subject, num.UnitSingular+" rate", formatValue(format, value))
	} else {
		// rate labels always use the singular denominator unit
		resp.Answer = fmt.Sprintf("%s averages %s %s per %s.",
			subject, formatValue(format, value), num.UnitPlural, den.UnitSingular)
	}

	resp.Visualization = &Visualization{
		Type: "number",
		Data: []VizDatum{{Label: num.UnitPlural + " per " + den.UnitSingular, Metric: num.Key, Value: value}},
	}
}

func (s *AnswerSynthesizer) composeComparison(a QuestionAnalysis, rows []graph.Row, resp *Response) {
	if len(rows) == 0 {
		resp.Answer = fmt.Sprintf("I couldn't find any records for %s, sorry.", s.subject(a))
		return
	}

	var phrases []string
	for i, key := range a.Metrics {
		def, ok := s.tables.Metrics.Definition(key)
		if !ok {
			continue
		}
		value := rows[0].Float(fmt.Sprintf("metric%d", i))
		phrases = append(phrases, phraseCount(def, value))
	}

	if len(phrases) == 0 {
		resp.Answer = clarificationAnswer
		resp.Confidence = defaultConfidence(ComplexityComplex)
		return
	}

	resp.Answer = s.subject(a) + " " + strings.Join(phrases, " and ") + s.scopeSuffix(a) + "."
}

// phraseCount renders "has scored 5 goals", with the metric's negated phrase
// when the aggregate is exactly zero. "scored 0 goals" must never appear.
func phraseCount(def stats.MetricDefinition, value float64) string {
	if value == 0 && def.ZeroPhrase != "" {
		return def.ZeroPhrase
	}

	unit := def.UnitPlural
	if value == 1 {
		unit = def.UnitSingular
	}
	return fmt.Sprintf("has %s %s %s", def.Verb, formatValue(def.Format, value), unit)
}

func formatValue(format stats.Format, value float64) string {
	switch format.Kind {
	case stats.FormatDecimal:
		return fmt.Sprintf("%.*f", format.Decimals, value)
	case stats.FormatPercentage:
		return fmt.Sprintf("%.*f%%", format.Decimals, value*100)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}

func (s *AnswerSynthesizer) subject(a QuestionAnalysis) string {
	if a.Player != "" {
		return a.Player
	}
	if a.Type == TypeTeamStat && len(a.Teams) > 0 {
		return "The " + stats.TeamKey(a.Teams[0]).Display()
	}
	return "The club"
}

// scopeSuffix appends the team and season qualifiers: " for the 1st XI in
// 2023/24". Team-only questions already carry the team in the subject.
func (s *AnswerSynthesizer) scopeSuffix(a QuestionAnalysis) string {
	var suffix string
	if a.Player != "" && len(a.Teams) > 0 {
		suffix += " for the " + stats.TeamKey(a.Teams[0]).Display()
	}
	if len(a.Seasons) > 0 {
		suffix += " in " + a.Seasons[0]
	}
	return suffix
}

func (s *AnswerSynthesizer) metricLabel(a QuestionAnalysis) string {
	if len(a.Metrics) == 0 {
		return "matching"
	}
	if def, ok := s.tables.Metrics.Definition(a.Metrics[0]); ok {
		if def.UnitPlural != "" {
			return def.UnitPlural
		}
		return derivedLabel(def)
	}
	return a.Metrics[0]
}

// derivedLabel is the human name of a rate metric, which carries no units of
// its own. The first alias is the canonical phrasing ("save percentage").
func derivedLabel(def stats.MetricDefinition) string {
	if len(def.Aliases) > 0 {
		return def.Aliases[0]
	}
	return def.Key
}
