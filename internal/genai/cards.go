// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains response parsing and card normalization shared by all
// provider implementations.
package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wondering-app/wondering-go/internal/course"
	"github.com/wondering-app/wondering-go/internal/errors"
)

// cardsEnvelope is the expected top-level shape of a model response.
type cardsEnvelope struct {
	Cards []rawCard `json:"cards"`
}

// rawCard tolerates partially filled model output; normalization fills
// the gaps.
type rawCard struct {
	CardID            string          `json:"cardId"`
	Type              string          `json:"type"`
	Question          string          `json:"question"`
	Answer            string          `json:"answer"`
	Explanation       string          `json:"explanation"`
	KeyTerms          json.RawMessage `json:"keyTerms"`
	VisualDescription string          `json:"visualDescription"`
}

// ExtractJSONObject locates the first balanced {...} span in text,
// skipping any surrounding prose or markdown fences the model may have
// added despite instructions. Returns false if no balanced object exists.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseCards extracts and validates the card array from raw model output.
// Cards are normalized with NormalizeCard before being returned.
//
// Failure modes map to sentinel errors so callers can classify:
// empty text -> ErrEmptyResponse; unparseable text, missing cards key or
// empty cards array -> ErrMalformedResponse.
func ParseCards(text, lessonID string) ([]course.Card, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ErrEmptyResponse
	}

	blob, ok := ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in output", errors.ErrMalformedResponse)
	}

	var envelope cardsEnvelope
	if err := json.Unmarshal([]byte(blob), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}
	if len(envelope.Cards) == 0 {
		return nil, fmt.Errorf("%w: expected { \"cards\": [...] }", errors.ErrMalformedResponse)
	}

	cards := make([]course.Card, 0, len(envelope.Cards))
	for i, raw := range envelope.Cards {
		cards = append(cards, NormalizeCard(raw, lessonID, i))
	}
	return cards, nil
}

// NormalizeCard fills gaps in a model-produced card: missing ids become
// {lessonID}-c{index+1}, missing types default to concept, invalid key
// term arrays coerce to empty, and absent string fields stay empty
// strings.
func NormalizeCard(raw rawCard, lessonID string, index int) course.Card {
	card := course.Card{
		CardID:            raw.CardID,
		Type:              course.CardType(raw.Type),
		Question:          raw.Question,
		Answer:            raw.Answer,
		Explanation:       raw.Explanation,
		KeyTerms:          []string{},
		VisualDescription: raw.VisualDescription,
	}
	if card.CardID == "" {
		card.CardID = fmt.Sprintf("%s-c%d", lessonID, index+1)
	}
	switch card.Type {
	case course.CardConcept, course.CardDefinition, course.CardComparison, course.CardReview:
	default:
		card.Type = course.CardConcept
	}
	if len(raw.KeyTerms) > 0 {
		var terms []string
		if err := json.Unmarshal(raw.KeyTerms, &terms); err == nil && terms != nil {
			card.KeyTerms = terms
		}
	}
	return card
}
