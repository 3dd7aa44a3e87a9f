package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldText strips diacritics and case so "Estadio Núñez" matches "nunez".
// Transformers carry state, so a fresh chain is built per call.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// matchesText reports whether the folded query is contained in any of the
// folded fields. An empty query matches everything.
func matchesText(query string, fields ...string) bool {
	q := foldText(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(foldText(f), q) {
			return true
		}
	}
	return false
}
