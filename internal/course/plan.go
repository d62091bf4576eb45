package course

import (
	"fmt"
	"math"

	"github.com/wondering-app/wondering-go/internal/stringutil"
)

// levelTemplate names one level of the generated hierarchy.
type levelTemplate struct {
	title string
	desc  string
}

// levelTemplates is the fixed level ladder. Courses with fewer than
// five levels use a prefix of this list.
var levelTemplates = []levelTemplate{
	{"Foundations", "Build your base understanding"},
	{"Core Concepts", "Master the essential ideas"},
	{"Practical Application", "Put knowledge into practice"},
	{"Advanced Topics", "Dive deeper into nuanced areas"},
	{"Mastery & Synthesis", "Bring it all together"},
}

// lessonVerbs holds the lesson title verb phrases, indexed by level then
// by lesson position modulo the row length.
var lessonVerbs = [][]string{
	{"Introduction to", "Understanding", "Exploring", "Discovering"},
	{"Deep Dive into", "Analyzing", "Breaking Down", "Examining"},
	{"Applying", "Practicing", "Building with", "Working with"},
	{"Advanced", "Optimizing", "Evaluating", "Mastering"},
	{"Synthesizing", "Creating with", "Innovating in", "Teaching"},
}

// Plan is the computed sizing of a course.
type Plan struct {
	SessionsPerWeek int
	Weeks           int
	TotalSessions   int
	TotalMinutes    int
	// EstimatedHours is TotalMinutes/60 rounded to one decimal.
	EstimatedHours  float64
	NumLevels       int
	LessonsPerLevel int
}

// SessionsPerWeek maps a study frequency to sessions per week.
func SessionsPerWeek(f Frequency) int {
	switch f {
	case FrequencyDaily:
		return 7
	case Frequency3xWeek:
		return 3
	default:
		return 1
	}
}

// Weeks resolves a timeline to its sizing value. Self-paced (0) sizes
// as four weeks; only sizing uses this, display keeps "self-paced".
func Weeks(timelineWeeks int) int {
	if timelineWeeks == 0 {
		return 4
	}
	return timelineWeeks
}

// ComputePlan derives the course sizing from generation parameters.
//
// Level and lesson counts are bounded by construction:
// NumLevels in {3,4,5}, LessonsPerLevel in {2,3,4}.
func ComputePlan(p GenerationParams) Plan {
	plan := Plan{
		SessionsPerWeek: SessionsPerWeek(p.Frequency),
		Weeks:           Weeks(p.TimelineWeeks),
	}
	plan.TotalSessions = plan.SessionsPerWeek * plan.Weeks
	plan.TotalMinutes = plan.TotalSessions * p.Duration
	plan.EstimatedHours = math.Round(float64(plan.TotalMinutes)/60*10) / 10

	switch {
	case plan.EstimatedHours <= 2:
		plan.NumLevels = 3
	case plan.EstimatedHours <= 6:
		plan.NumLevels = 4
	default:
		plan.NumLevels = 5
	}

	switch {
	case plan.EstimatedHours <= 3:
		plan.LessonsPerLevel = 2
	case plan.EstimatedHours <= 8:
		plan.LessonsPerLevel = 3
	default:
		plan.LessonsPerLevel = 4
	}

	return plan
}

// EagerRef locates one eagerly generated lesson within a skeleton and
// carries the verb phrase its fallback cards are templated with.
type EagerRef struct {
	LevelIndex  int
	LessonIndex int
	Verb        string
}

// Skeleton is the level/lesson structure of a course before any cards
// are attached.
type Skeleton struct {
	Plan   Plan
	Levels []Level
	// Eager lists the first EagerLessonCount lessons in level-then-lesson
	// traversal order; only these receive cards at generation time.
	Eager []EagerRef
}

// LessonVerb returns the verb phrase for the lesson at the given level
// and lesson index.
func LessonVerb(levelIndex, lessonIndex int) string {
	row := lessonVerbs[levelIndex%len(lessonVerbs)]
	return row[lessonIndex%len(row)]
}

// BuildSkeleton runs the structuring algorithm: it sizes the course and
// synthesizes every level and lesson with titles, descriptions and
// numbering, marking the first EagerLessonCount lessons as generated
// and the rest pending. No cards are attached.
func BuildSkeleton(p GenerationParams) Skeleton {
	plan := ComputePlan(p)

	sk := Skeleton{
		Plan:   plan,
		Levels: make([]Level, 0, plan.NumLevels),
	}

	lessonCount := 0
	for l := 0; l < plan.NumLevels; l++ {
		lessons := make([]Lesson, 0, plan.LessonsPerLevel)
		for s := 0; s < plan.LessonsPerLevel; s++ {
			lessonCount++
			verb := LessonVerb(l, s)

			lesson := Lesson{
				LessonID:     fmt.Sprintf("lesson-%d-%d", l+1, s+1),
				LessonNumber: fmt.Sprintf("%d.%d", l+1, s+1),
				Title:        fmt.Sprintf("%s %s", verb, p.Topic),
				Description: fmt.Sprintf("Learn to %s key aspects of %s in this %d-minute lesson.",
					stringutil.LowerClause(verb), p.Topic, p.Duration),
				EstimatedMinutes: p.Duration,
				CardsCount:       CardsPerLesson,
				Status:           LessonPending,
			}
			if lessonCount <= EagerLessonCount {
				lesson.Status = LessonGenerated
				sk.Eager = append(sk.Eager, EagerRef{LevelIndex: l, LessonIndex: s, Verb: verb})
			}
			lessons = append(lessons, lesson)
		}

		tpl := levelTemplates[l]
		sk.Levels = append(sk.Levels, Level{
			LevelNumber: l + 1,
			Title:       tpl.title,
			Description: fmt.Sprintf("%s of %s", tpl.desc, p.Topic),
			Lessons:     lessons,
		})
	}

	return sk
}

// FrequencyLabel renders a frequency for user-facing descriptions.
func FrequencyLabel(f Frequency) string {
	switch f {
	case FrequencyDaily:
		return "daily"
	case Frequency3xWeek:
		return "3x/week"
	default:
		return "weekly"
	}
}

// Title derives the course title from experience level and topic.
func Title(level ExperienceLevel, topic string) string {
	switch level {
	case LevelBeginner:
		return fmt.Sprintf("%s: A Beginner's Journey", topic)
	case LevelIntermediate:
		return fmt.Sprintf("Leveling Up in %s", topic)
	default:
		return fmt.Sprintf("Mastering %s", topic)
	}
}

// Description derives the course description from the plan and
// generation parameters.
func Description(p GenerationParams, estimatedHours float64) string {
	return fmt.Sprintf(
		"A personalized %v-hour course designed to help you %s. Built for %s learners with %d-minute %s sessions.",
		estimatedHours, stringutil.LowerClause(p.Goal), p.Level, p.Duration, FrequencyLabel(p.Frequency))
}
