package generation

import (
	"testing"

	"github.com/wondering-app/wondering-go/internal/course"
)

func TestRegistryInitialState(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Create("gen-1")

	got := r.Status("gen-1")
	want := Status{Status: StateGenerating, ProgressPercentage: 0, CurrentStep: StepAnalyzing}
	if got != want {
		t.Errorf("Status() = %+v, want %+v", got, want)
	}
	if r.Course("gen-1") != nil {
		t.Error("Course() should be nil before completion")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryUnknownID(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	got := r.Status("nonexistent-id")
	if got.Status != StateFailed {
		t.Errorf("Status = %s, want failed", got.Status)
	}
	if got.ProgressPercentage != 0 {
		t.Errorf("ProgressPercentage = %d, want 0", got.ProgressPercentage)
	}
	if got.CurrentStep != "Course not found" {
		t.Errorf("CurrentStep = %q, want Course not found", got.CurrentStep)
	}
	if got.ErrorMessage != "Course not found" {
		t.Errorf("ErrorMessage = %q, want Course not found", got.ErrorMessage)
	}
	if !got.Terminal() {
		t.Error("unknown-id status must be terminal")
	}
	if r.Course("nonexistent-id") != nil {
		t.Error("Course() for unknown id should be nil")
	}
}

func TestRegistryProgressMonotonic(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Create("gen-1")

	r.SetProgress("gen-1", 35, "Designing course structure...")
	r.SetProgress("gen-1", 15, StepAnalyzing) // stale update must not move backwards

	got := r.Status("gen-1")
	if got.ProgressPercentage != 35 {
		t.Errorf("ProgressPercentage = %d, want 35", got.ProgressPercentage)
	}
}

func TestRegistryComplete(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Create("gen-1")
	c := &course.Course{CourseID: "gen-1", Topic: "Spanish"}

	r.Complete("gen-1", c)

	got := r.Status("gen-1")
	if got.Status != StateCompleted || got.ProgressPercentage != 100 || got.CurrentStep != "Complete!" {
		t.Errorf("Status() = %+v", got)
	}
	if r.Course("gen-1") != c {
		t.Error("Course() should return the completed course")
	}

	// Terminal entries are frozen.
	r.SetProgress("gen-1", 99, "late update")
	r.Fail("gen-1", "too late")
	if got := r.Status("gen-1"); got.Status != StateCompleted || got.ProgressPercentage != 100 {
		t.Errorf("terminal status mutated: %+v", got)
	}
}

func TestRegistryFail(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Create("gen-1")
	r.SetProgress("gen-1", 35, "Designing course structure...")

	r.Fail("gen-1", "boom")

	got := r.Status("gen-1")
	if got.Status != StateFailed {
		t.Errorf("Status = %s, want failed", got.Status)
	}
	if got.ProgressPercentage != 35 {
		t.Errorf("ProgressPercentage = %d, want last known 35", got.ProgressPercentage)
	}
	if got.CurrentStep != "Generation failed" {
		t.Errorf("CurrentStep = %q", got.CurrentStep)
	}
	if got.ErrorMessage != "boom" {
		t.Errorf("ErrorMessage = %q", got.ErrorMessage)
	}

	// No course alongside a failure, ever.
	r.Complete("gen-1", &course.Course{CourseID: "gen-1"})
	if r.Course("gen-1") != nil {
		t.Error("failed generation must not gain a course")
	}
}
