package genai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		attempt int
		initial time.Duration
		max     time.Duration
		// Full Jitter is random, so assert the range not the value.
		maxExpected time.Duration
	}{
		{
			name:        "first attempt has no delay",
			attempt:     0,
			initial:     time.Second,
			max:         10 * time.Second,
			maxExpected: 0,
		},
		{
			name:        "second attempt",
			attempt:     1,
			initial:     time.Second,
			max:         10 * time.Second,
			maxExpected: time.Second,
		},
		{
			name:        "third attempt doubles",
			attempt:     2,
			initial:     time.Second,
			max:         10 * time.Second,
			maxExpected: 2 * time.Second,
		},
		{
			name:        "capped at max",
			attempt:     10,
			initial:     time.Second,
			max:         5 * time.Second,
			maxExpected: 5 * time.Second,
		},
		{
			name:        "negative attempt",
			attempt:     -1,
			initial:     time.Second,
			max:         10 * time.Second,
			maxExpected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for range 20 {
				got := CalculateBackoff(tt.attempt, tt.initial, tt.max)
				if got < 0 || got > tt.maxExpected {
					t.Fatalf("CalculateBackoff(%d) = %v, want in [0, %v]", tt.attempt, got, tt.maxExpected)
				}
			}
		})
	}
}

func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("zero duration returns immediately", func(t *testing.T) {
		t.Parallel()
		if err := Sleep(context.Background(), 0); err != nil {
			t.Errorf("Sleep(0) = %v", err)
		}
	})

	t.Run("completes normally", func(t *testing.T) {
		t.Parallel()
		start := time.Now()
		if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
			t.Errorf("Sleep() = %v", err)
		}
		if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
			t.Errorf("Sleep returned after %v, want >= 10ms", elapsed)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Sleep(ctx, time.Minute)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Sleep() = %v, want context.Canceled", err)
		}
	})
}
