package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.GenerationsTotal == nil {
		t.Error("GenerationsTotal is nil")
	}
	if m.GenerationDuration == nil {
		t.Error("GenerationDuration is nil")
	}
	if m.GenerationsActive == nil {
		t.Error("GenerationsActive is nil")
	}
	if m.LessonCardsTotal == nil {
		t.Error("LessonCardsTotal is nil")
	}
	if m.LessonFallbacksTotal == nil {
		t.Error("LessonFallbacksTotal is nil")
	}
	if m.LLMRequestsTotal == nil {
		t.Error("LLMRequestsTotal is nil")
	}
	if m.LLMDurationSeconds == nil {
		t.Error("LLMDurationSeconds is nil")
	}
	if m.HTTPErrorsTotal == nil {
		t.Error("HTTPErrorsTotal is nil")
	}
	if m.RegistrySize == nil {
		t.Error("RegistrySize is nil")
	}
	if m.ArchiveSavesTotal == nil {
		t.Error("ArchiveSavesTotal is nil")
	}
	if m.RateLimiterDropped == nil {
		t.Error("RateLimiterDropped is nil")
	}
}

func TestRecordHelpers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordGeneration("completed", 12.5)
	m.RecordGeneration("failed", 0.2)
	m.RecordLessonCards("remote", 10)
	m.RecordLessonCards("fallback", 10)
	m.RecordLessonFallback("timeout")
	m.RecordLLMRequest("gemini", "success", 3.4)
	m.RecordHTTPError("bad_request", "/api/generate-lesson")
	m.RecordArchiveSave("success")
	m.RecordRateLimiterDrop("generate")
	m.SetRegistrySize(3)

	if got := testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("completed")); got != 1 {
		t.Errorf("completed generations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LessonCardsTotal.WithLabelValues("remote")); got != 10 {
		t.Errorf("remote cards = %v, want 10", got)
	}
	if got := testutil.ToFloat64(m.RegistrySize); got != 3 {
		t.Errorf("registry size = %v, want 3", got)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if recover() == nil {
			t.Error("registering the same metrics twice should panic")
		}
	}()
	New(registry)
}
