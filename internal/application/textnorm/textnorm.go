// Package textnorm provides the comparison key used for every text match in
// the registry: lowercase, canonical decomposition, combining marks stripped.
// Both sides of any comparison must go through Normalize so that matching is
// accent- and case-insensitive.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the diacritic-insensitive, case-insensitive key for s.
// Empty input yields the empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// The chain cannot fail on valid UTF-8; fall back to the lowercased input.
		return strings.ToLower(s)
	}
	return out
}

// NewCollator returns a Spanish collator with base sensitivity: diacritics and
// case are ignored when ordering display names.
func NewCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.Loose)
}
