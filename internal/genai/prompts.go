// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the prompt builder for lesson flashcard generation.
package genai

import (
	"fmt"
	"strings"

	"github.com/wondering-app/wondering-go/internal/course"
)

// levelGuidance returns the per-experience-level instruction embedded in
// the prompt.
func levelGuidance(level course.ExperienceLevel) string {
	switch level {
	case course.LevelBeginner:
		return "Assume no background, explain everything"
	case course.LevelIntermediate:
		return "Can reference foundational concepts"
	default:
		return "Can use technical language, focus on nuance"
	}
}

// BuildLessonPrompt constructs the generation request for one lesson.
//
// Output contract with the model: a single JSON object {"cards": [...]}
// with no surrounding prose, carrying the fixed type mix (60% concept,
// 20% definition, 10% comparison, one review card always last), each
// card with question, 2-3 sentence answer, explanation, 2-3 key terms
// and a visual description.
func BuildLessonPrompt(req CardRequest) string {
	count := req.CardsCount
	if count <= 0 {
		count = course.CardsPerLesson
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are creating flashcard content for a Duolingo-style learning app.

COURSE CONTEXT:
- Topic: %s
- User Goal: %s
- User Level: %s
- Lesson: %s - %s
- Description: %s

TASK:
Create %d flashcards for this lesson. Each card must have topic-specific, substantive content - no generic placeholders.

FLASHCARD REQUIREMENTS:
1. Types to include (mix these):
   - Concept cards: Explain a single idea (60%%)
   - Definition cards: Define key terms (20%%)
   - Comparison cards: Show relationships (10%%)
   - Review card: Summarize lesson (10%%, always last card)

2. Each flashcard needs:
   - Clear question/prompt (front of card)
   - Concise answer (2-3 sentences max)
   - Engaging explanation or fun fact
   - 2-3 key terms (topic-specific)
   - Visual description (what diagram/image would help)

3. Content guidelines:
   - Use simple, conversational language
   - Build on previous cards in the lesson
   - Include concrete examples and analogies specific to %s
   - Add engaging context or real-world applications
   - Make it memorable (fun facts, surprising connections)
   - For %s level: %s
   - IMPORTANT: Generate real, topic-specific content. Do NOT use generic phrases like "systematic thinking" or "evidence-based reasoning" for every topic.

4. Card order:
   - Card 1: Most fundamental concept for this lesson
   - Cards 2-%d: Progressive building blocks
   - Card %d: Review card that tests comprehension

OUTPUT FORMAT (JSON only, no markdown):
{
  "cards": [
    {
      "cardId": "%s-c1",
      "type": "concept",
      "question": "Topic-specific question here",
      "answer": "Clear, concise answer with real content",
      "explanation": "Fun fact or additional context",
      "keyTerms": ["term1", "term2"],
      "visualDescription": "Specific description of helpful visual"
    }
  ]
}

Generate all %d flashcards now. Output only valid JSON.`,
		req.Topic, req.Goal, req.Level,
		req.Lesson.LessonNumber, req.Lesson.Title, req.Lesson.Description,
		count,
		req.Topic,
		req.Level, levelGuidance(req.Level),
		count-1, count,
		req.Lesson.LessonID,
		count)

	return b.String()
}
