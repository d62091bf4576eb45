// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeInput cleans user-supplied free text (topic, goal) before it
// is templated into titles, descriptions and prompts. It applies NFC
// normalization, folds full-width characters to their narrow forms, and
// collapses internal whitespace runs to single spaces.
func NormalizeInput(s string) string {
	s = norm.NFC.String(s)
	s = width.Narrow.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// LowerClause converts a sentence fragment for embedding mid-sentence:
// lowercased, with at most one trailing period removed.
//
// Example:
//
//	LowerClause("Understand the fall of Rome.") returns "understand the fall of rome"
func LowerClause(s string) string {
	return strings.TrimSuffix(strings.ToLower(s), ".")
}

// Truncate shortens s to at most max runes, appending "..." when cut.
// Used to keep log fields and prompt context bounded.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
