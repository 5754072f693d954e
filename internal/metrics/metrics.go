package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequestsTotal *prometheus.CounterVec
	BotUpdatesTotal   *prometheus.CounterVec

	OracleRequestsTotal *prometheus.CounterVec
	OracleDuration      *prometheus.HistogramVec
	FallbacksTotal      *prometheus.CounterVec

	CritiqueScore      prometheus.Histogram
	CritiquesTotal     *prometheus.CounterVec
	ManualReviewsTotal prometheus.Counter

	WorkflowIterations prometheus.Histogram
	WorkflowsTotal     *prometheus.CounterVec
	ActiveWorkflows    prometheus.Gauge

	GenerationRequestsTotal *prometheus.CounterVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry - для тестов, чтобы не упираться в повторную регистрацию
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		BotUpdatesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_bot_updates_total",
				Help: "Total number of processed telegram updates",
			},
			[]string{"kind", "status"},
		),

		OracleRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_oracle_requests_total",
				Help: "Total number of vision oracle requests",
			},
			[]string{"operation", "status"},
		),
		OracleDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adcritic_oracle_duration_seconds",
				Help:    "Vision oracle request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		FallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_fallbacks_total",
				Help: "Total number of deterministic fallbacks",
			},
			[]string{"operation", "reason"},
		),

		CritiqueScore: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adcritic_critique_score",
				Help:    "Overall critique scores",
				Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
			},
		),
		CritiquesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_critiques_total",
				Help: "Total number of compiled critiques",
			},
			[]string{"ready"},
		),
		ManualReviewsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "adcritic_manual_reviews_total",
				Help: "Total number of critiques flagged for manual review",
			},
		),

		WorkflowIterations: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "adcritic_workflow_iterations",
				Help:    "Iterations per refinement run",
				Buckets: []float64{1, 2, 3, 4, 5, 7, 10},
			},
		),
		WorkflowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_workflows_total",
				Help: "Total number of refinement runs by outcome",
			},
			[]string{"outcome"},
		),
		ActiveWorkflows: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "adcritic_active_workflows",
				Help: "Number of refinement runs in progress",
			},
		),

		GenerationRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adcritic_generation_requests_total",
				Help: "Total number of ad generation requests",
			},
			[]string{"provider", "status"},
		),

		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "adcritic_cache_hits_total",
				Help: "Total number of critique cache hits",
			},
		),
		CacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "adcritic_cache_misses_total",
				Help: "Total number of critique cache misses",
			},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordHTTPRequest(route string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordBotUpdate(kind, status string) {
	m.BotUpdatesTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) RecordOracleRequest(operation, status string, duration time.Duration) {
	m.OracleRequestsTotal.WithLabelValues(operation, status).Inc()
	m.OracleDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordFallback(operation, reason string) {
	m.FallbacksTotal.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) RecordCritique(score float64, ready, manualReview bool) {
	m.CritiqueScore.Observe(score)
	m.CritiquesTotal.WithLabelValues(strconv.FormatBool(ready)).Inc()
	if manualReview {
		m.ManualReviewsTotal.Inc()
	}
}

func (m *Metrics) RecordWorkflow(outcome string, iterations int) {
	m.WorkflowsTotal.WithLabelValues(outcome).Inc()
	m.WorkflowIterations.Observe(float64(iterations))
}

func (m *Metrics) IncActiveWorkflows() {
	m.ActiveWorkflows.Inc()
}

func (m *Metrics) DecActiveWorkflows() {
	m.ActiveWorkflows.Dec()
}

func (m *Metrics) RecordGeneration(provider, status string) {
	m.GenerationRequestsTotal.WithLabelValues(provider, status).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}
