package chatbot

import (
	"context"
	"time"

	"go.uber.org/zap"

	graph "github.com/clubstats/backend/internal/graph/neo4j"
	"github.com/clubstats/backend/internal/metrics"
	"github.com/clubstats/backend/internal/stats"
	"github.com/clubstats/backend/pkg/utils"
)

const (
	clarificationAnswer = "I'm not sure I understood that. Try asking about a player's " +
		"goals, appearances or fantasy points, for example \"How many goals has " +
		"Luke Bangs scored for the 1s?\""
	fallbackAnswer = "Sorry, I'm having trouble processing that question right now. " +
		"Please try again in a moment."
	fallbackConfidence = 0.2
)

// GraphStore executes parameterized read queries against the statistics graph.
type GraphStore interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]graph.Row, error)
}

// ResponseCache stores phrased responses keyed by question hash.
type ResponseCache interface {
	GetResponse(ctx context.Context, questionHash string, response any) (bool, error)
	SetResponse(ctx context.Context, questionHash string, response any, ttl time.Duration) error
}

// UnansweredSink receives questions the engine could not confidently answer.
type UnansweredSink interface {
	Submit(question, userContext, questionType, complexity string, confidence float64)
}

type EngineConfig struct {
	QueryTimeout    time.Duration
	CacheTTL        time.Duration
	RecordThreshold float64
	Debug           bool
}

// Engine runs the one-shot question pipeline: analyze, resolve, synthesize,
// execute, phrase. Each request is an independent unit of work over shared
// read-only tables; Ask never returns an error, only a best-effort response.
type Engine struct {
	analyzer *Analyzer
	resolver *Resolver
	builder  *QueryBuilder
	answers  *AnswerSynthesizer

	store    GraphStore
	cache    ResponseCache
	recorder UnansweredSink

	cfg EngineConfig
	log *zap.Logger
}

func NewEngine(tables *stats.Tables, store GraphStore, cache ResponseCache, recorder UnansweredSink, cfg EngineConfig, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	if cfg.RecordThreshold == 0 {
		cfg.RecordThreshold = 0.5
	}

	return &Engine{
		analyzer: NewAnalyzer(tables, log),
		resolver: NewResolver(tables, log),
		builder:  NewQueryBuilder(tables),
		answers:  NewAnswerSynthesizer(tables, log),
		store:    store,
		cache:    cache,
		recorder: recorder,
		cfg:      cfg,
		log:      log,
	}
}

func (e *Engine) Ask(ctx context.Context, qc QuestionContext) *Response {
	start := time.Now()
	cacheKey := utils.QuestionKey(qc.Question, qc.UserContext)

	if e.cache != nil {
		var cached Response
		if hit, err := e.cache.GetResponse(ctx, cacheKey, &cached); err == nil && hit {
			metrics.CacheHits.WithLabelValues("response").Inc()
			return &cached
		}
		metrics.CacheMisses.WithLabelValues("response").Inc()
	}

	analysis := e.analyzer.Analyze(qc)
	e.resolver.Resolve(&analysis, qc)

	var resp *Response
	status := "answered"

	switch {
	case analysis.RequiresClarification:
		resp = e.clarify(qc, analysis)
		status = "clarification"
	default:
		resp, status = e.answer(ctx, qc, analysis)
	}

	metrics.QuestionTotal.WithLabelValues(string(analysis.Type), status).Inc()
	metrics.QuestionDuration.WithLabelValues(string(analysis.Type)).Observe(time.Since(start).Seconds())
	metrics.ConfidenceScore.Observe(resp.Confidence)

	if e.cache != nil && status == "answered" {
		if err := e.cache.SetResponse(ctx, cacheKey, resp, e.cfg.CacheTTL); err != nil {
			e.log.Warn("Failed to cache response", zap.Error(err))
		}
	}

	e.log.Info("Question processed",
		zap.String("question", qc.Question),
		zap.String("type", string(analysis.Type)),
		zap.String("status", status),
		zap.Float64("confidence", resp.Confidence),
		zap.Duration("latency", time.Since(start)),
	)

	return resp
}

// answer runs the query-bearing path. Storage failures and timeouts degrade
// to a generic fallback answer; the caller never sees the underlying error.
func (e *Engine) answer(ctx context.Context, qc QuestionContext, analysis QuestionAnalysis) (*Response, string) {
	query, err := e.builder.Build(analysis)
	if err != nil {
		e.log.Warn("Failed to build query", zap.Error(err), zap.String("question", qc.Question))
		return e.clarify(qc, analysis), "clarification"
	}

	queryCtx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()

	queryStart := time.Now()
	rows, err := e.store.ExecuteRead(queryCtx, query.Text, query.Params)
	metrics.GraphQueryDuration.Observe(time.Since(queryStart).Seconds())

	if err != nil {
		metrics.GraphFailuresTotal.Inc()
		e.log.Error("Graph query failed", zap.Error(err), zap.String("question", qc.Question))

		resp := &Response{
			Answer:     fallbackAnswer,
			Sources:    []string{},
			Confidence: fallbackConfidence,
		}
		e.observe(qc, analysis, resp.Confidence)
		return e.withDebug(resp, query), "storage_error"
	}

	resp := e.answers.Compose(analysis, rows)
	if resp.Confidence < e.cfg.RecordThreshold {
		e.observe(qc, analysis, resp.Confidence)
	}

	return e.withDebug(&resp, query), "answered"
}

func (e *Engine) clarify(qc QuestionContext, analysis QuestionAnalysis) *Response {
	metrics.ClarificationsTotal.Inc()

	resp := &Response{
		Answer:     clarificationAnswer,
		Sources:    []string{},
		Confidence: defaultConfidence(ComplexityComplex),
	}
	e.observe(qc, analysis, resp.Confidence)
	return resp
}

// observe hands the question to the recorder. Submit is non-blocking and the
// recorder owns its own failure domain, so this adds nothing to latency.
func (e *Engine) observe(qc QuestionContext, analysis QuestionAnalysis, confidence float64) {
	if e.recorder == nil {
		return
	}
	e.recorder.Submit(qc.Question, qc.UserContext, string(analysis.Type), string(analysis.Complexity), confidence)
}

// withDebug echoes the generated query text on debug builds only.
func (e *Engine) withDebug(resp *Response, query GraphQuery) *Response {
	if e.cfg.Debug {
		resp.CypherQuery = query.Text
	}
	return resp
}
