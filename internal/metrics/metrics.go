// Package metrics defines the Prometheus instrumentation for the course
// generation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Course generation pipeline metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	GenerationsActive  prometheus.Gauge

	// Lesson content metrics
	LessonCardsTotal     *prometheus.CounterVec
	LessonFallbacksTotal *prometheus.CounterVec

	// LLM provider metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Registry / archive metrics
	RegistrySize      prometheus.Gauge
	ArchiveSavesTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		GenerationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_generations_total",
				Help: "Total number of course generations by terminal status",
			},
			[]string{"status"}, // status: completed, failed
		),

		GenerationDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wondering_generation_duration_seconds",
				Help:    "End-to-end course generation duration in seconds",
				Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120}, // 3 eager lessons, bounded LLM timeouts
			},
		),

		GenerationsActive: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "wondering_generations_active",
				Help: "Number of course generations currently in progress",
			},
		),

		LessonCardsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_lesson_cards_total",
				Help: "Total flashcards produced by content source",
			},
			[]string{"source"}, // source: remote, fallback
		),

		LessonFallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_lesson_fallbacks_total",
				Help: "Total lessons that fell back to deterministic content, by reason",
			},
			[]string{"reason"}, // reason: not_configured, timeout, provider_error
		),

		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_llm_requests_total",
				Help: "Total LLM card generation requests by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wondering_llm_duration_seconds",
				Help:    "LLM request duration in seconds by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 15, 20, 30}, // Matches lesson request timeout
			},
			[]string{"provider"},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_http_errors_total",
				Help: "Total HTTP errors by type and route",
			},
			[]string{"error_type", "route"}, // error_type: bad_request, not_configured, rate_limit, internal
		),

		RegistrySize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "wondering_generation_registry_size",
				Help: "Number of generation records held in memory",
			},
		),

		ArchiveSavesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_archive_saves_total",
				Help: "Total completed-course archive writes by status",
			},
			[]string{"status"}, // status: success, error
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "wondering_rate_limiter_dropped_total",
				Help: "Total requests rejected by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: generate, lesson
		),
	}

	return m
}

// RecordGeneration records a finished course generation.
func (m *Metrics) RecordGeneration(status string, duration float64) {
	m.GenerationsTotal.WithLabelValues(status).Inc()
	m.GenerationDuration.Observe(duration)
}

// RecordLessonCards records produced flashcards by source.
func (m *Metrics) RecordLessonCards(source string, count int) {
	m.LessonCardsTotal.WithLabelValues(source).Add(float64(count))
}

// RecordLessonFallback records a lesson that used deterministic content.
func (m *Metrics) RecordLessonFallback(reason string) {
	m.LessonFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordLLMRequest records one LLM request outcome.
func (m *Metrics) RecordLLMRequest(provider, status string, duration float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordHTTPError records an HTTP error response.
func (m *Metrics) RecordHTTPError(errorType, route string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, route).Inc()
}

// SetRegistrySize updates the in-memory registry size gauge.
func (m *Metrics) SetRegistrySize(n int) {
	m.RegistrySize.Set(float64(n))
}

// RecordArchiveSave records an archive write outcome.
func (m *Metrics) RecordArchiveSave(status string) {
	m.ArchiveSavesTotal.WithLabelValues(status).Inc()
}

// RecordRateLimiterDrop records a request dropped by a rate limiter.
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}
