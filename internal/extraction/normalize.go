// Package extraction implements the layered pattern-matching core that turns
// noisy registry text into structured records. Pattern rules for each field
// are kept in ordered fallback chains: the first rule that matches wins and
// later rules are never tried.
package extraction

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize prepares raw text for pattern evaluation: non-breaking spaces are
// replaced and whitespace runs collapse to a single space. Every pattern in
// this package assumes single-space-normalized input, so this must run exactly
// once per text, before any extraction.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// collapseSpace squashes whitespace inside an already-matched span. Matches
// can still carry internal runs when the source pattern crossed what used to
// be a line break.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// stripSpaces removes every space from a matched digit group, e.g. an OGRN
// rendered with gaps between digit clusters.
func stripSpaces(s string) string {
	return strings.ReplaceAll(whitespaceRun.ReplaceAllString(s, ""), " ", "")
}

// containsDigit reports whether s has at least one ASCII digit. Name fields
// reject such candidates: a digit means the pattern pulled in an adjacent
// date or registry number instead of a name.
func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
