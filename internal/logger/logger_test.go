package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/wondering-app/wondering-go/internal/ctxutil"
)

func parseLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, line)
	}
	return entry
}

func TestLoggerJSONOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithField("topic", "Spanish").Info("course generated")

	entry := parseLine(t, buf.String())
	if entry["message"] != "course generated" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["topic"] != "Spanish" {
		t.Errorf("topic = %v", entry["topic"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp key missing")
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("filtered out")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Error("info record should be filtered at warn level")
	}
	entry := parseLine(t, out)
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want warning", entry["level"])
	}
}

func TestLoggerContextValues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithGenerationID(ctx, "gen-42")
	log.InfoContext(ctx, "working")

	entry := parseLine(t, buf.String())
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["generation_id"] != "gen-42" {
		t.Errorf("generation_id = %v", entry["generation_id"])
	}
}

func TestLoggerWithHelpers(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.WithModule("generation").WithFields(map[string]any{"a": "1"}).Debugf("n=%d", 3)

	entry := parseLine(t, buf.String())
	if entry["module"] != "generation" {
		t.Errorf("module = %v", entry["module"])
	}
	if entry["a"] != "1" {
		t.Errorf("a = %v", entry["a"])
	}
	if entry["message"] != "n=3" {
		t.Errorf("message = %v", entry["message"])
	}
}
