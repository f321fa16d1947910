package domain

import (
	"strings"
)

// NormalizeAnswer prepares a learner's answer or an answer target for
// comparison: surrounding whitespace is trimmed and letters are lowercased.
// Inner whitespace is left untouched, so "am  eating" does not match
// "am eating".
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AnswerMatches reports whether input is an exact case-insensitive,
// whitespace-trimmed match for target.
func AnswerMatches(input, target string) bool {
	return NormalizeAnswer(input) == NormalizeAnswer(target)
}

// NormalizeText prepares free text such as a search query:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of spaces into one
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
