// Package cloze parses authored sentences carrying a {{answer::hint}} marker.
// Pure functions, no dependencies beyond the standard library.
package cloze

import (
	"regexp"
	"strings"
)

// Blank replaces the cloze marker in the display text.
const Blank = "..."

var markerRe = regexp.MustCompile(`\{\{(.+?)::(.+?)\}\}`)

// Parsed is the result of parsing one raw sentence.
type Parsed struct {
	DisplayText  string
	AnswerTarget string
	Hint         *string
}

// Parse extracts the first {{answer::hint}} marker from raw.
//
// With a marker, the display text is raw with that marker replaced by Blank,
// and answer and hint are trimmed. Without one, raw is both the display text
// and the answer and there is no hint. Parse never fails.
func Parse(raw string) Parsed {
	m := markerRe.FindStringSubmatch(raw)
	if m == nil {
		return Parsed{
			DisplayText:  raw,
			AnswerTarget: raw,
		}
	}

	hint := strings.TrimSpace(m[2])
	return Parsed{
		DisplayText:  strings.Replace(raw, m[0], Blank, 1),
		AnswerTarget: strings.TrimSpace(m[1]),
		Hint:         &hint,
	}
}

// HasMarker reports whether raw contains a cloze marker.
func HasMarker(raw string) bool {
	return markerRe.MatchString(raw)
}
