// Package course contains the course generation domain model: generation
// parameters, the generated course structure, the sizing/structuring
// algorithm and the deterministic offline card generator.
package course

// ExperienceLevel is the learner's self-reported experience with the topic.
type ExperienceLevel string

// Supported experience levels.
const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// Frequency is the study cadence chosen by the learner.
type Frequency string

// Supported study frequencies.
const (
	FrequencyDaily  Frequency = "daily"
	Frequency3xWeek Frequency = "3x_week"
	FrequencyWeekly Frequency = "weekly"
)

// CardType classifies a flashcard.
type CardType string

// Supported card types. Every fully generated lesson carries exactly one
// review card, always in last position.
const (
	CardConcept    CardType = "concept"
	CardDefinition CardType = "definition"
	CardComparison CardType = "comparison"
	CardReview     CardType = "review"
)

// LessonStatus tracks whether a lesson's cards have been generated.
type LessonStatus string

// Lesson statuses. Only the first EagerLessonCount lessons in authoring
// order are generated eagerly; the rest stay pending.
const (
	LessonGenerated LessonStatus = "generated"
	LessonPending   LessonStatus = "pending"
)

// CardsPerLesson is the fixed card count for a fully generated lesson.
const CardsPerLesson = 10

// EagerLessonCount is how many lessons (in level-then-lesson order) get
// cards during initial course generation.
const EagerLessonCount = 3

// GenerationParams are the user-supplied inputs to course generation.
// Immutable once submitted.
type GenerationParams struct {
	Topic     string          `json:"topic"`
	Goal      string          `json:"goal"`
	Level     ExperienceLevel `json:"level"`
	Frequency Frequency       `json:"frequency"`
	// Duration is minutes per study session: 5, 10, 15 or 30.
	Duration int `json:"duration"`
	// TimelineWeeks is the course timeline: 1, 2, 4 or 12 weeks.
	// 0 means self-paced; sizing then assumes a 4-week equivalent while
	// display layers may still label the course self-paced.
	TimelineWeeks int `json:"timeline"`
}

// Card is a single flashcard.
type Card struct {
	CardID            string   `json:"cardId"`
	Type              CardType `json:"type"`
	Question          string   `json:"question"`
	Answer            string   `json:"answer"`
	Explanation       string   `json:"explanation"`
	KeyTerms          []string `json:"keyTerms"`
	VisualDescription string   `json:"visualDescription"`
}

// Lesson is one lesson inside a level. Cards is present iff Status is
// LessonGenerated.
type Lesson struct {
	LessonID string `json:"lessonId"`
	// LessonNumber is a dotted "level.index" string, 1-based (e.g. "2.3").
	LessonNumber     string       `json:"lessonNumber"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	EstimatedMinutes int          `json:"estimatedMinutes"`
	CardsCount       int          `json:"cardsCount"`
	Status           LessonStatus `json:"status"`
	Cards            []Card       `json:"cards,omitempty"`
}

// Level is an ordered group of lessons. Lesson order is authoring order
// and significant.
type Level struct {
	LevelNumber int      `json:"levelNumber"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
}

// Structure is the level hierarchy of a generated course.
type Structure struct {
	Levels []Level `json:"levels"`
}

// Course is a fully structured generated course.
type Course struct {
	CourseID       string          `json:"courseId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Topic          string          `json:"topic"`
	Goal           string          `json:"goal"`
	Level          ExperienceLevel `json:"level"`
	EstimatedHours float64         `json:"estimatedHours"`
	Structure      Structure       `json:"structure"`
}

// LessonByID returns the lesson with the given id, or nil.
func (c *Course) LessonByID(lessonID string) *Lesson {
	for li := range c.Structure.Levels {
		lessons := c.Structure.Levels[li].Lessons
		for si := range lessons {
			if lessons[si].LessonID == lessonID {
				return &lessons[si]
			}
		}
	}
	return nil
}

// TotalLessons counts lessons across all levels.
func (c *Course) TotalLessons() int {
	n := 0
	for _, lvl := range c.Structure.Levels {
		n += len(lvl.Lessons)
	}
	return n
}
