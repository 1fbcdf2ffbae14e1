// Package symptom canonicalizes free-text symptom tokens and keeps
// ordered, deduplicated collections of them.
package symptom

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the canonical form of a symptom used for every equality
// and membership test: lowercased, trimmed, with internal whitespace runs
// collapsed to a single space. It never fails; empty input yields "".
func Normalize(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	// A Caser holds state, so one is created per call.
	return cases.Lower(language.Und).String(strings.Join(fields, " "))
}
