// Package api implements the HTTP surface of the course generation
// service: the asynchronous generate/status/result endpoints backed by
// the orchestrator, and the synchronous lesson-content endpoint that
// fronts the LLM provider chain directly.
package api

import (
	"time"

	"github.com/wondering-app/wondering-go/internal/genai"
	"github.com/wondering-app/wondering-go/internal/generation"
	"github.com/wondering-app/wondering-go/internal/metrics"
	"github.com/wondering-app/wondering-go/internal/ratelimit"
)

// Handler carries the dependencies of all API endpoints.
type Handler struct {
	service *generation.Service
	// generator serves the synchronous lesson-content endpoint. Unlike
	// the orchestrator's content client it has no local fallback: a nil
	// generator turns the endpoint into a 503.
	generator     genai.CardGenerator
	lessonTimeout time.Duration
	limiter       *ratelimit.KeyedLimiter // optional, per client address
	metrics       *metrics.Metrics        // optional
}

// Config configures a Handler.
type Config struct {
	Service       *generation.Service
	Generator     genai.CardGenerator
	LessonTimeout time.Duration
	Limiter       *ratelimit.KeyedLimiter
	Metrics       *metrics.Metrics
}

// NewHandler creates an API handler.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.LessonTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Handler{
		service:       cfg.Service,
		generator:     cfg.Generator,
		lessonTimeout: timeout,
		limiter:       cfg.Limiter,
		metrics:       cfg.Metrics,
	}
}

func (h *Handler) recordError(errorType, route string) {
	if h.metrics != nil {
		h.metrics.RecordHTTPError(errorType, route)
	}
}
