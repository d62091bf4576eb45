package course

import (
	"fmt"

	"github.com/wondering-app/wondering-go/internal/errors"
	"github.com/wondering-app/wondering-go/internal/stringutil"
)

// validDurations are the supported minutes-per-session values.
var validDurations = map[int]bool{5: true, 10: true, 15: true, 30: true}

// validTimelines are the supported timeline values in weeks.
// 0 means self-paced.
var validTimelines = map[int]bool{0: true, 1: true, 2: true, 4: true, 12: true}

// Normalize returns a copy of p with topic and goal cleaned for
// templating (whitespace collapsed, unicode normalized).
func (p GenerationParams) Normalize() GenerationParams {
	p.Topic = stringutil.NormalizeInput(p.Topic)
	p.Goal = stringutil.NormalizeInput(p.Goal)
	return p
}

// Validate checks that all generation parameters are within the
// supported domain. Returns a *errors.ValidationError on the first
// violation found.
func (p GenerationParams) Validate() error {
	if p.Topic == "" {
		return errors.NewValidationError("topic", "must not be empty")
	}
	if p.Goal == "" {
		return errors.NewValidationError("goal", "must not be empty")
	}
	switch p.Level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		return errors.NewValidationError("level", fmt.Sprintf("unknown level %q", p.Level))
	}
	switch p.Frequency {
	case FrequencyDaily, Frequency3xWeek, FrequencyWeekly:
	default:
		return errors.NewValidationError("frequency", fmt.Sprintf("unknown frequency %q", p.Frequency))
	}
	if !validDurations[p.Duration] {
		return errors.NewValidationError("duration", fmt.Sprintf("unsupported session duration %d", p.Duration))
	}
	if !validTimelines[p.TimelineWeeks] {
		return errors.NewValidationError("timeline", fmt.Sprintf("unsupported timeline %d", p.TimelineWeeks))
	}
	return nil
}
