package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wondering-app/wondering-go/internal/course"
	"github.com/wondering-app/wondering-go/internal/genai"
	"github.com/wondering-app/wondering-go/internal/generation"
	"github.com/wondering-app/wondering-go/internal/ratelimit"
)

// mockGenerator is a scriptable CardGenerator for handler tests.
type mockGenerator struct {
	generateFunc func(ctx context.Context, req genai.CardRequest) ([]course.Card, error)
}

func (m *mockGenerator) GenerateCards(ctx context.Context, req genai.CardRequest) ([]course.Card, error) {
	return m.generateFunc(ctx, req)
}

func (m *mockGenerator) Provider() genai.Provider { return genai.ProviderGemini }

func (m *mockGenerator) Close() error { return nil }

// newTestRouter wires the handler onto routes the way the application
// does, including the method-not-allowed behavior.
func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	apiGroup := router.Group("/api")
	apiGroup.POST("/courses/generate", h.GenerateCourse)
	apiGroup.GET("/courses/:id", h.GetCourse)
	apiGroup.GET("/courses/:id/status", h.GenerationStatus)
	apiGroup.GET("/courses/:id/content", h.GetCourseContent)
	apiGroup.GET("/courses/:id/lessons/:lessonId", h.GetLesson)
	apiGroup.POST("/generate-lesson", h.GenerateLesson)
	return router
}

func newTestHandler(t *testing.T, generator genai.CardGenerator, limiter *ratelimit.KeyedLimiter) *Handler {
	t.Helper()
	service := generation.NewService(generation.NewRegistry(), generation.Options{
		Content:    generation.NewContentClient(nil, time.Second, nil),
		StageDelay: 0,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = service.Shutdown(ctx)
	})
	return NewHandler(Config{
		Service:       service,
		Generator:     generator,
		LessonTimeout: time.Second,
		Limiter:       limiter,
	})
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validCourseBody = `{"topic":"Spanish","goal":"Hold a conversation","level":"beginner","frequency":"daily","duration":10,"timeline":4}`

// pollUntilTerminal polls the status endpoint until the generation
// reaches a terminal state.
func pollUntilTerminal(t *testing.T, router *gin.Engine, id string) generation.Status {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		w := getPath(router, "/api/courses/"+id+"/status")
		if w.Code != http.StatusOK {
			t.Fatalf("status endpoint returned %d", w.Code)
		}
		var status generation.Status
		if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
			t.Fatalf("unmarshal status: %v", err)
		}
		if status.Terminal() {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation did not reach a terminal state")
	return generation.Status{}
}

func TestGenerateCourseLifecycle(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, nil, nil)
	router := newTestRouter(handler)

	w := postJSON(router, "/api/courses/generate", validCourseBody)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var accepted struct {
		CourseID string `json:"courseId"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(accepted.CourseID, "gen-") {
		t.Errorf("expected gen- prefixed id, got %q", accepted.CourseID)
	}
	if accepted.Status != string(generation.StateGenerating) {
		t.Errorf("expected generating status in accept body, got %q", accepted.Status)
	}

	status := pollUntilTerminal(t, router, accepted.CourseID)
	if status.Status != generation.StateCompleted {
		t.Fatalf("expected completed, got %+v", status)
	}
	if status.ProgressPercentage != 100 || status.CurrentStep != "Complete!" {
		t.Errorf("unexpected terminal status: %+v", status)
	}

	w = getPath(router, "/api/courses/"+accepted.CourseID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for completed course, got %d", w.Code)
	}
	var generated course.Course
	if err := json.Unmarshal(w.Body.Bytes(), &generated); err != nil {
		t.Fatalf("unmarshal course: %v", err)
	}
	if generated.CourseID != accepted.CourseID {
		t.Errorf("course id mismatch: %q vs %q", generated.CourseID, accepted.CourseID)
	}
	if generated.Title == "" {
		t.Error("expected a non-empty course title")
	}

	w = getPath(router, "/api/courses/"+accepted.CourseID+"/content")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from content endpoint, got %d", w.Code)
	}

	w = getPath(router, "/api/courses/"+accepted.CourseID+"/lessons/lesson-1-1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from lesson endpoint, got %d", w.Code)
	}
	var lesson course.Lesson
	if err := json.Unmarshal(w.Body.Bytes(), &lesson); err != nil {
		t.Fatalf("unmarshal lesson: %v", err)
	}
	if lesson.LessonID != "lesson-1-1" || len(lesson.Cards) != course.CardsPerLesson {
		t.Errorf("unexpected lesson payload: id=%q cards=%d", lesson.LessonID, len(lesson.Cards))
	}

	w = getPath(router, "/api/courses/"+accepted.CourseID+"/lessons/lesson-9-9")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown lesson, got %d", w.Code)
	}
}

func TestGenerateCourseInvalidJSON(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newTestHandler(t, nil, nil))

	w := postJSON(router, "/api/courses/generate", `{"topic": `)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestGenerateCourseInvalidParams(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newTestHandler(t, nil, nil))

	w := postJSON(router, "/api/courses/generate", `{"topic":"  ","goal":"g","level":"beginner","frequency":"daily","duration":10,"timeline":4}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank topic, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateCourseRateLimited(t *testing.T) {
	t.Parallel()
	limiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:       "generate",
		Burst:      1,
		RefillRate: 0.001,
	})
	t.Cleanup(limiter.Stop)
	router := newTestRouter(newTestHandler(t, nil, limiter))

	if w := postJSON(router, "/api/courses/generate", validCourseBody); w.Code != http.StatusAccepted {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	if w := postJSON(router, "/api/courses/generate", validCourseBody); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request should be limited, got %d", w.Code)
	}
}

func TestGenerationStatusUnknownID(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newTestHandler(t, nil, nil))

	w := getPath(router, "/api/courses/no-such-id/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status is always 200, got %d", w.Code)
	}
	var status generation.Status
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if status.Status != generation.StateFailed || status.ProgressPercentage != 0 {
		t.Errorf("unexpected unknown-id status: %+v", status)
	}
	if status.CurrentStep != "Course not found" || status.ErrorMessage != "Course not found" {
		t.Errorf("unexpected unknown-id labels: %+v", status)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newTestHandler(t, nil, nil))

	w := getPath(router, "/api/courses/no-such-id")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown course, got %d", w.Code)
	}
	w = getPath(router, "/api/courses/no-such-id/content")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown course content, got %d", w.Code)
	}
}

const validLessonBody = `{
	"topic": "Spanish",
	"goal": "Hold a conversation",
	"level": "beginner",
	"lesson": {
		"lessonId": "lesson-1-1",
		"lessonNumber": "1.1",
		"title": "Greetings",
		"description": "Basic greetings and introductions"
	}
}`

func TestGenerateLessonSuccess(t *testing.T) {
	t.Parallel()
	var captured genai.CardRequest
	generator := &mockGenerator{
		generateFunc: func(_ context.Context, req genai.CardRequest) ([]course.Card, error) {
			captured = req
			cards := make([]course.Card, req.CardsCount)
			for i := range cards {
				cards[i] = course.Card{
					CardID:   fmt.Sprintf("%s-c%d", req.Lesson.LessonID, i+1),
					Type:     course.CardConcept,
					Question: "q",
					Answer:   "a",
					KeyTerms: []string{},
				}
			}
			return cards, nil
		},
	}
	router := newTestRouter(newTestHandler(t, generator, nil))

	w := postJSON(router, "/api/generate-lesson", validLessonBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Cards []course.Card `json:"cards"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Cards) != course.CardsPerLesson {
		t.Errorf("expected %d cards, got %d", course.CardsPerLesson, len(resp.Cards))
	}
	if captured.Lesson.LessonID != "lesson-1-1" {
		t.Errorf("request not forwarded to generator: %+v", captured)
	}
	if captured.CardsCount != course.CardsPerLesson {
		t.Errorf("expected default cards count, got %d", captured.CardsCount)
	}
}

func TestGenerateLessonNotConfigured(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newTestHandler(t, nil, nil))

	w := postJSON(router, "/api/generate-lesson", validLessonBody)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a configured generator, got %d", w.Code)
	}
}

func TestGenerateLessonMissingFields(t *testing.T) {
	t.Parallel()
	generator := &mockGenerator{
		generateFunc: func(context.Context, genai.CardRequest) ([]course.Card, error) {
			t.Error("generator should not be called for invalid input")
			return nil, nil
		},
	}
	router := newTestRouter(newTestHandler(t, generator, nil))

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"topic"`},
		{"missing topic", `{"goal":"g","level":"beginner","lesson":{"lessonId":"lesson-1-1","title":"t"}}`},
		{"missing level", `{"topic":"Spanish","goal":"g","lesson":{"lessonId":"lesson-1-1","title":"t"}}`},
		{"missing lesson id", `{"topic":"Spanish","goal":"g","level":"beginner","lesson":{"title":"t"}}`},
		{"unknown level", `{"topic":"Spanish","goal":"g","level":"expert","lesson":{"lessonId":"lesson-1-1","title":"t"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postJSON(router, "/api/generate-lesson", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGenerateLessonGeneratorError(t *testing.T) {
	t.Parallel()
	generator := &mockGenerator{
		generateFunc: func(context.Context, genai.CardRequest) ([]course.Card, error) {
			return nil, errors.New("upstream returned malformed payload")
		},
	}
	router := newTestRouter(newTestHandler(t, generator, nil))

	w := postJSON(router, "/api/generate-lesson", validLessonBody)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error != "Generation failed" || resp.Details == "" {
		t.Errorf("unexpected error body: %+v", resp)
	}
}

func TestGenerateLessonMethodNotAllowed(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newTestHandler(t, nil, nil))

	w := getPath(router, "/api/generate-lesson")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON content type, got %q", ct)
	}
}
