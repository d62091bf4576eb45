package generation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wondering-app/wondering-go/internal/course"
	"github.com/wondering-app/wondering-go/internal/ctxutil"
	"github.com/wondering-app/wondering-go/internal/genai"
	"github.com/wondering-app/wondering-go/internal/metrics"
)

// Source tells where a lesson's cards came from.
type Source string

// Card sources.
const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Fallback reasons, used as metric labels and in logs.
const (
	ReasonNotConfigured = "not_configured"
	ReasonTimeout       = "timeout"
	ReasonProviderError = "provider_error"
)

// CardResult is the outcome of one lesson content request. There is no
// error variant: a failed remote call yields fallback cards instead.
type CardResult struct {
	Cards          []course.Card
	Source         Source
	FallbackReason string // empty when Source is remote
}

// ContentClient produces flashcards for a lesson. It asks the remote
// generator chain first and degrades to the deterministic local
// generator on any failure, so callers never see an error from it.
type ContentClient struct {
	generator genai.CardGenerator // nil when no provider is configured
	timeout   time.Duration
	metrics   *metrics.Metrics // optional
}

// NewContentClient creates a content client. generator may be nil, in
// which case every lesson uses deterministic content.
func NewContentClient(generator genai.CardGenerator, timeout time.Duration, m *metrics.Metrics) *ContentClient {
	return &ContentClient{
		generator: generator,
		timeout:   timeout,
		metrics:   m,
	}
}

// Remote reports whether a remote generator is configured.
func (c *ContentClient) Remote() bool {
	return c.generator != nil
}

// LessonCards returns cards for one lesson. The remote call is bounded
// by the configured timeout; expiry and provider failures both engage
// the fallback.
func (c *ContentClient) LessonCards(ctx context.Context, p course.GenerationParams, lesson course.Lesson, verb string) CardResult {
	ctx = ctxutil.WithLessonID(ctx, lesson.LessonID)

	if c.generator == nil {
		return c.fallback(ctx, p, lesson, verb, ReasonNotConfigured, nil)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	cards, err := c.generator.GenerateCards(reqCtx, genai.CardRequest{
		Topic: p.Topic,
		Goal:  p.Goal,
		Level: p.Level,
		Lesson: genai.LessonRef{
			LessonID:     lesson.LessonID,
			LessonNumber: lesson.LessonNumber,
			Title:        lesson.Title,
			Description:  lesson.Description,
		},
		CardsCount: course.CardsPerLesson,
	})
	duration := time.Since(start)

	if err != nil {
		reason := ReasonProviderError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		if c.metrics != nil {
			c.metrics.RecordLLMRequest(c.generator.Provider().String(), "error", duration.Seconds())
		}
		return c.fallback(ctx, p, lesson, verb, reason, err)
	}

	if c.metrics != nil {
		c.metrics.RecordLLMRequest(c.generator.Provider().String(), "success", duration.Seconds())
		c.metrics.RecordLessonCards(string(SourceRemote), len(cards))
	}
	slog.InfoContext(ctx, "lesson cards generated remotely",
		"cards", len(cards),
		"duration_ms", duration.Milliseconds())
	return CardResult{Cards: cards, Source: SourceRemote}
}

func (c *ContentClient) fallback(ctx context.Context, p course.GenerationParams, lesson course.Lesson, verb, reason string, cause error) CardResult {
	cards := course.FallbackCards(p, lesson.LessonID, verb)
	if c.metrics != nil {
		c.metrics.RecordLessonFallback(reason)
		c.metrics.RecordLessonCards(string(SourceFallback), len(cards))
	}
	if cause != nil {
		slog.WarnContext(ctx, "lesson content fell back to deterministic cards",
			"reason", reason,
			"error", cause)
	} else {
		slog.DebugContext(ctx, "lesson content generated locally", "reason", reason)
	}
	return CardResult{Cards: cards, Source: SourceFallback, FallbackReason: reason}
}
