package course

import (
	"fmt"

	"github.com/wondering-app/wondering-go/internal/stringutil"
)

// cardContent is one filled template before it becomes a Card.
type cardContent struct {
	question string
	answer   string
	explain  string
	keyTerms []string
	visual   string
}

// cardMix is the fixed per-lesson type sequence: 60% concept, 20%
// definition, 10% comparison, 10% review. The review card is always
// last.
var cardMix = [CardsPerLesson]CardType{
	CardConcept,
	CardConcept,
	CardDefinition,
	CardConcept,
	CardConcept,
	CardComparison,
	CardConcept,
	CardConcept,
	CardDefinition,
	CardReview,
}

// FallbackCards produces the full card set for one lesson without any
// network dependency, matching the shape and count of a successful
// remote generation. The function is pure: identical inputs yield
// identical output.
func FallbackCards(p GenerationParams, lessonID, verb string) []Card {
	topic := p.Topic
	goal := stringutil.LowerClause(p.Goal)
	level := p.Level
	verbLower := stringutil.LowerClause(verb)

	concepts := []cardContent{
		{
			question: fmt.Sprintf("What is %s and why does it matter?", topic),
			answer: fmt.Sprintf("%s is a rich area of study with significant real-world applications. "+
				"Understanding it helps you %s and see the world differently.", topic, goal),
			explain:  "The field has been studied extensively and continues to evolve with new discoveries.",
			keyTerms: []string{topic, "fundamentals", "applications"},
			visual:   fmt.Sprintf("A diagram showing the key areas of %s and how they connect.", topic),
		},
		{
			question: fmt.Sprintf("What are the core principles of %s %s?", verbLower, topic),
			answer: fmt.Sprintf("The core principles include systematic thinking, evidence-based reasoning, "+
				"and practical application. These form the foundation for %s learners.", level),
			explain:  "These principles form the backbone of effective learning in this area.",
			keyTerms: []string{"principles", "systematic thinking", "evidence-based"},
			visual:   "An illustrated list of the core principles with icons.",
		},
		{
			question: fmt.Sprintf("How can you apply %s concepts in everyday life?", topic),
			answer: fmt.Sprintf("You can apply these concepts by observing patterns, asking critical questions, "+
				"and testing your understanding through practice. This supports your goal: %s.", goal),
			explain:  "Real-world application accelerates learning and deepens understanding.",
			keyTerms: []string{"application", "practice", "patterns"},
			visual:   "A before/after comparison showing how knowledge changes perspective.",
		},
		{
			question: fmt.Sprintf("What makes %s different from related fields?", topic),
			answer: fmt.Sprintf("%s focuses on specific methods, frameworks, and outcomes that distinguish it "+
				"from adjacent disciplines. The key is how concepts are applied.", topic),
			explain:  "Understanding boundaries helps you know when and where to use what you learn.",
			keyTerms: []string{"distinction", "focus", "frameworks"},
			visual:   fmt.Sprintf("A Venn diagram comparing %s with related fields.", topic),
		},
		{
			question: fmt.Sprintf("What common mistakes do people make when learning %s?", topic),
			answer: fmt.Sprintf("Common mistakes include skipping fundamentals, memorizing without understanding, "+
				"and not practicing enough. %s learners often benefit from building a strong base first.", level),
			explain:  "Avoiding these pitfalls can save you time and frustration.",
			keyTerms: []string{"mistakes", "pitfalls", "fundamentals"},
			visual:   "A checklist of pitfalls to avoid, with checkmarks.",
		},
		{
			question: fmt.Sprintf("How does %s %s connect to your overall goal?", verbLower, topic),
			answer: fmt.Sprintf("This lesson builds toward your goal of %s by introducing essential concepts "+
				"you'll use later. Each card adds another building block.", goal),
			explain:  "Connecting new knowledge to your goals improves retention.",
			keyTerms: []string{"connection", "goal", "progression"},
			visual:   "A progress path from this lesson toward your goal.",
		},
	}

	definitions := []cardContent{
		{
			question: fmt.Sprintf("Define the term \"core competency\" in the context of %s.", topic),
			answer: fmt.Sprintf("In %s, core competency refers to the fundamental skills and knowledge you need "+
				"to understand and apply key concepts effectively.", topic),
			explain:  "Having a clear definition helps you recognize when you've mastered a concept.",
			keyTerms: []string{"core competency", "fundamentals", topic},
			visual:   "An illustrated definition card with key terms highlighted.",
		},
		{
			question: fmt.Sprintf("What does \"evidence-based\" mean when applied to %s?", topic),
			answer: fmt.Sprintf("Evidence-based means relying on research, data, and proven methods rather than "+
				"opinions or anecdotes. In %s, this ensures your learning is grounded in what works.", topic),
			explain:  "Evidence-based practice has roots in medicine and has spread to many disciplines.",
			keyTerms: []string{"evidence-based", "research", "data"},
			visual:   "A diagram showing data flowing into decisions.",
		},
	}

	comparison := cardContent{
		question: fmt.Sprintf("How does %s for beginners differ from %s for advanced learners?", topic, topic),
		answer: fmt.Sprintf("Beginners focus on foundations and core concepts; advanced learners tackle nuance, "+
			"edge cases, and specialized applications. Your %s level shapes what you learn next.", level),
		explain:  "The same topic unfolds differently depending on where you start.",
		keyTerms: []string{"beginner", "advanced", "progression"},
		visual:   "A comparison timeline showing beginner vs advanced paths.",
	}

	review := cardContent{
		question: fmt.Sprintf("Quick review: Summarize the key takeaways about %s from this lesson.", topic),
		answer: fmt.Sprintf("This lesson covered core principles of %s %s, how to apply them, common pitfalls, "+
			"and how they connect to your goal of %s. You now have a solid base to build on.", verbLower, topic, goal),
		explain:  "Summarizing helps consolidate what you've learned and identify any gaps.",
		keyTerms: []string{"review", "summary", topic},
		visual:   "A mind-map summarizing the lesson's key points.",
	}

	cards := make([]Card, 0, CardsPerLesson)
	conceptIdx, definitionIdx := 0, 0

	for i, typ := range cardMix {
		var content cardContent
		switch typ {
		case CardConcept:
			content = concepts[conceptIdx%len(concepts)]
			conceptIdx++
		case CardDefinition:
			content = definitions[definitionIdx%len(definitions)]
			definitionIdx++
		case CardComparison:
			content = comparison
		case CardReview:
			content = review
		}

		cards = append(cards, Card{
			CardID:            fmt.Sprintf("%s-c%d", lessonID, i+1),
			Type:              typ,
			Question:          content.question,
			Answer:            content.answer,
			Explanation:       content.explain,
			KeyTerms:          content.keyTerms,
			VisualDescription: content.visual,
		})
	}

	return cards
}
