package story

import (
	"strings"
	"unicode/utf8"

	"github.com/roblanc/ClarStiri/app/textnorm"
)

// DefaultThreshold is the minimum title similarity for two articles to be grouped.
const DefaultThreshold = 0.4

var stopWords = map[string]bool{}

func init() {
	for _, w := range []string{"de", "la", "în", "și", "a", "pe", "cu", "din", "pentru", "un", "o", "că", "care", "să"} {
		stopWords[textnorm.Fold(w)] = true
	}
}

// Tokens normalizes a title into its set of significant words.
func Tokens(title string) map[string]struct{} {
	normalized := textnorm.RemovePunctuation(textnorm.Fold(title))

	tokens := map[string]struct{}{}
	for _, word := range strings.Fields(normalized) {
		if utf8.RuneCountInString(word) <= 2 || stopWords[word] {
			continue
		}
		tokens[word] = struct{}{}
	}
	return tokens
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func Similarity(titleA, titleB string) float64 {
	return Jaccard(Tokens(titleA), Tokens(titleB))
}
