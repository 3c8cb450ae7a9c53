package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuestionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubstats_question_duration_seconds",
			Help:    "Question processing duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"question_type"},
	)

	QuestionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubstats_question_total",
			Help: "Total number of questions processed",
		},
		[]string{"question_type", "status"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clubstats_confidence_score",
			Help:    "Response confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ClarificationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clubstats_clarifications_total",
			Help: "Questions that could not be answered without clarification",
		},
	)

	GraphQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clubstats_graph_query_duration_seconds",
			Help:    "Graph store query duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	GraphFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clubstats_graph_failures_total",
			Help: "Graph store queries that failed or timed out",
		},
	)

	UnansweredRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clubstats_unanswered_recorded_total",
			Help: "Unanswered questions handed to the recorder",
		},
	)

	RecorderDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clubstats_recorder_dropped_total",
			Help: "Recorder submissions dropped because the queue was full",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubstats_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubstats_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(QuestionDuration)
	prometheus.MustRegister(QuestionTotal)
	prometheus.MustRegister(ConfidenceScore)
	prometheus.MustRegister(ClarificationsTotal)
	prometheus.MustRegister(GraphQueryDuration)
	prometheus.MustRegister(GraphFailuresTotal)
	prometheus.MustRegister(UnansweredRecorded)
	prometheus.MustRegister(RecorderDropped)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
