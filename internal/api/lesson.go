package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wondering-app/wondering-go/internal/course"
	"github.com/wondering-app/wondering-go/internal/genai"
)

// lessonRequest is the body of POST /api/generate-lesson.
type lessonRequest struct {
	Topic      string    `json:"topic"`
	Goal       string    `json:"goal"`
	Level      string    `json:"level"`
	Lesson     lessonRef `json:"lesson"`
	CardsCount int       `json:"cardsCount"`
}

type lessonRef struct {
	LessonID     string `json:"lessonId"`
	LessonNumber string `json:"lessonNumber"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

func (r *lessonRequest) validate() []string {
	var missing []string
	if strings.TrimSpace(r.Topic) == "" {
		missing = append(missing, "topic")
	}
	if strings.TrimSpace(r.Goal) == "" {
		missing = append(missing, "goal")
	}
	if strings.TrimSpace(r.Level) == "" {
		missing = append(missing, "level")
	}
	if strings.TrimSpace(r.Lesson.LessonID) == "" {
		missing = append(missing, "lesson.lessonId")
	}
	if strings.TrimSpace(r.Lesson.Title) == "" {
		missing = append(missing, "lesson.title")
	}
	return missing
}

// GenerateLesson handles POST /api/generate-lesson: a synchronous call
// through the LLM provider chain for one lesson's cards. It does not
// fall back to deterministic content; failures surface as 500 so the
// caller decides what to degrade to.
func (h *Handler) GenerateLesson(c *gin.Context) {
	route := c.FullPath()

	if h.generator == nil {
		h.recordError("not_configured", route)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generation service not configured"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		h.recordError("rate_limit", route)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many generation requests"})
		return
	}

	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordError("bad_request", route)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if missing := req.validate(); len(missing) > 0 {
		h.recordError("bad_request", route)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required fields",
			"details": strings.Join(missing, ", "),
		})
		return
	}

	level := course.ExperienceLevel(req.Level)
	switch level {
	case course.LevelBeginner, course.LevelIntermediate, course.LevelAdvanced:
	default:
		h.recordError("bad_request", route)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level", "details": req.Level})
		return
	}

	cardsCount := req.CardsCount
	if cardsCount <= 0 {
		cardsCount = course.CardsPerLesson
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.lessonTimeout)
	defer cancel()

	cards, err := h.generator.GenerateCards(ctx, genai.CardRequest{
		Topic: req.Topic,
		Goal:  req.Goal,
		Level: level,
		Lesson: genai.LessonRef{
			LessonID:     req.Lesson.LessonID,
			LessonNumber: req.Lesson.LessonNumber,
			Title:        req.Lesson.Title,
			Description:  req.Lesson.Description,
		},
		CardsCount: cardsCount,
	})
	if err != nil {
		h.recordError("internal", route)
		slog.ErrorContext(c.Request.Context(), "lesson generation failed",
			"lesson_id", req.Lesson.LessonID,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}
