package bias

import (
	"regexp"
	"strings"

	"github.com/roblanc/ClarStiri/app/textnorm"
)

var (
	quickLeftKeywords  = []string{"USR", "REPER", "progresist", "anticorupție", "transparență", "pro-european", "reforme"}
	quickRightKeywords = []string{"AUR", "SOS", "Georgescu", "tradițional", "suveranist", "patriot", "anti-UE", "ortodox"}
	quickEntities      = []string{"USR", "PSD", "PNL", "AUR", "SOS", "REPER", "Simion", "Ciolacu", "Ciucă", "Georgescu"}
)

const (
	quickKeywordStep   = 20
	quickMaxIndicators = 3
)

type quickTerm struct {
	label  string
	folded string
}

type quickEntity struct {
	name    string
	pattern *regexp.Regexp
}

// QuickAnalyzer counts party mentions and shifts the keyword score a fixed
// step per left or right keyword found. It never produces an entity score.
type QuickAnalyzer struct {
	entities []quickEntity
	left     []quickTerm
	right    []quickTerm
}

func NewQuickAnalyzer() *QuickAnalyzer {
	a := &QuickAnalyzer{}
	for _, e := range quickEntities {
		a.entities = append(a.entities, quickEntity{name: e, pattern: wordPattern(e)})
	}
	for _, k := range quickLeftKeywords {
		a.left = append(a.left, quickTerm{label: k, folded: textnorm.Fold(k)})
	}
	for _, k := range quickRightKeywords {
		a.right = append(a.right, quickTerm{label: k, folded: textnorm.Fold(k)})
	}
	return a
}

func (a *QuickAnalyzer) Analyze(text string) *Analysis {
	folded := textnorm.Fold(text)

	result := &Analysis{
		DetectedEntities: []EntityMention{},
		Indicators:       []string{},
	}

	mentions := 0
	for _, e := range a.entities {
		if n := len(e.pattern.FindAllStringIndex(folded, -1)); n > 0 {
			result.DetectedEntities = append(result.DetectedEntities, EntityMention{Entity: e.name, Count: n})
			mentions += n
		}
	}

	var indicators []string
	score := 0
	for _, k := range a.left {
		if strings.Contains(folded, k.folded) {
			score -= quickKeywordStep
			indicators = append(indicators, "left: "+k.label)
		}
	}
	for _, k := range a.right {
		if strings.Contains(folded, k.folded) {
			score += quickKeywordStep
			indicators = append(indicators, "right: "+k.label)
		}
	}

	result.KeywordScore = clamp(float64(score), -100, 100)
	result.OverallBias = result.KeywordScore
	result.Confidence = clamp(float64(mentions+len(indicators))/5, 0, 1)
	if len(indicators) > quickMaxIndicators {
		indicators = indicators[:quickMaxIndicators]
	}
	result.Indicators = append(result.Indicators, indicators...)

	return result
}
