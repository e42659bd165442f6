package bias

import (
	"fmt"
	"math"
	"regexp"

	"github.com/roblanc/ClarStiri/app/textnorm"
)

// MinConfidence is the confidence an analysis must exceed to be attached to an article.
const MinConfidence = 0.1

type EntityMention struct {
	Entity    string  `json:"entity"`
	Count     int     `json:"count"`
	Sentiment float64 `json:"sentiment,omitempty"`
}

// Analysis is a text-derived bias estimate. Scores run from -100 (left) to 100 (right).
type Analysis struct {
	DetectedEntities []EntityMention `json:"detectedEntities"`
	KeywordScore     float64         `json:"keywordScore"`
	EntityScore      float64         `json:"entityScore"`
	OverallBias      float64         `json:"overallBias"`
	Confidence       float64         `json:"confidence"`
	Indicators       []string        `json:"indicators"`
}

type Analyzer interface {
	Analyze(text string) *Analysis
}

func NewAnalyzer(name string) (Analyzer, error) {
	switch name {
	case "", "quick":
		return NewQuickAnalyzer(), nil
	case "detailed":
		return NewDetailedAnalyzer(), nil
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown content analyzer: %s", name)
	}
}

// Confident reports whether a is worth attaching.
func Confident(a *Analysis) bool {
	return a != nil && a.Confidence > MinConfidence
}

func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(textnorm.Fold(term)) + `\b`)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
