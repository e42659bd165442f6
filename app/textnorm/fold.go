// Package textnorm folds Romanian text into a comparable form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks, so "știri" becomes "stiri".
// Both comma-below (ș, ț) and cedilla (ş, ţ) forms fold to the bare letter.
func StripDiacritics(s string) string {
	// transformers are stateful, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases and strips diacritics.
func Fold(s string) string {
	return StripDiacritics(strings.ToLower(s))
}

// RemovePunctuation drops every rune that is neither a letter, a digit nor whitespace.
func RemovePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
