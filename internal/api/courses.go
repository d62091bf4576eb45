package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wondering-app/wondering-go/internal/course"
	apperrors "github.com/wondering-app/wondering-go/internal/errors"
	"github.com/wondering-app/wondering-go/internal/generation"
)

// GenerateCourse handles POST /api/courses/generate. It validates the
// parameters, starts an asynchronous generation and responds immediately
// with the id to poll.
func (h *Handler) GenerateCourse(c *gin.Context) {
	route := c.FullPath()

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		h.recordError("rate_limit", route)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many generation requests"})
		return
	}

	var params course.GenerationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		h.recordError("bad_request", route)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.service.Generate(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			h.recordError("bad_request", route)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid generation parameters", "details": err.Error()})
			return
		}
		h.recordError("internal", route)
		slog.ErrorContext(c.Request.Context(), "generation start failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"courseId": id, "status": generation.StateGenerating})
}

// GenerationStatus handles GET /api/courses/:id/status. The read is
// side-effect-free; unknown ids come back as a terminal failed status.
func (h *Handler) GenerationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(c.Param("id")))
}

// GetCourse handles GET /api/courses/:id. It returns the generated
// course once completed; before completion and for unknown ids the
// status endpoint disambiguates.
func (h *Handler) GetCourse(c *gin.Context) {
	id := c.Param("id")
	if generated := h.service.Course(id); generated != nil {
		c.JSON(http.StatusOK, generated)
		return
	}
	h.recordError("not_found", c.FullPath())
	c.JSON(http.StatusNotFound, gin.H{"error": "Course not found", "status": h.service.Status(id)})
}

// GetLesson handles GET /api/courses/:id/lessons/:lessonId. It serves
// one lesson out of a completed course, cards included for generated
// lessons.
func (h *Handler) GetLesson(c *gin.Context) {
	id := c.Param("id")
	generated, err := h.service.Content(c.Request.Context(), id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.recordError("internal", c.FullPath())
		slog.ErrorContext(c.Request.Context(), "course content lookup failed", "course_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Content lookup failed"})
		return
	}
	if generated == nil {
		h.recordError("not_found", c.FullPath())
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	lesson := generated.LessonByID(c.Param("lessonId"))
	if lesson == nil {
		h.recordError("not_found", c.FullPath())
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// GetCourseContent handles GET /api/courses/:id/content. Unlike
// GetCourse it also consults the durable archive, so completed courses
// survive a restart.
func (h *Handler) GetCourseContent(c *gin.Context) {
	id := c.Param("id")
	generated, err := h.service.Content(c.Request.Context(), id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		h.recordError("internal", c.FullPath())
		slog.ErrorContext(c.Request.Context(), "course content lookup failed", "course_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Content lookup failed"})
		return
	}
	if generated == nil {
		h.recordError("not_found", c.FullPath())
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, generated)
}
