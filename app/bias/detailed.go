package bias

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/roblanc/ClarStiri/app/textnorm"
)

type Entity struct {
	Name    string
	Aliases []string
	Leaning float64
}

type Keyword struct {
	Word    string
	Leaning float64
	Weight  float64
}

var PoliticalEntities = []Entity{
	{Name: "USR", Aliases: []string{"USR", "Uniunea Salvați România", "Salvați România", "useriști", "user"}, Leaning: -40},
	{Name: "REPER", Aliases: []string{"REPER", "Forța Dreptei", "PLUS", "Dacian Cioloș", "Cioloș"}, Leaning: -35},
	{Name: "PSD", Aliases: []string{"PSD", "Partidul Social Democrat", "pesediști", "Marcel Ciolacu", "Ciolacu"}, Leaning: -15},
	{Name: "PNL", Aliases: []string{"PNL", "Partidul Național Liberal", "liberali", "Nicolae Ciucă", "Ciucă"}, Leaning: 15},
	{Name: "AUR", Aliases: []string{"AUR", "Alianța pentru Unirea Românilor", "George Simion", "Simion", "auristi"}, Leaning: 70},
	{Name: "SOS România", Aliases: []string{"SOS", "SOS România", "Diana Șoșoacă", "Șoșoacă"}, Leaning: 80},
	{Name: "POT", Aliases: []string{"POT", "Partidul Oamenilor Tineri", "Călin Georgescu", "Georgescu"}, Leaning: 75},
	{Name: "DNA", Aliases: []string{"DNA", "Direcția Națională Anticorupție"}, Leaning: 0},
	{Name: "CCR", Aliases: []string{"CCR", "Curtea Constituțională"}, Leaning: 0},
	{Name: "Klaus Iohannis", Aliases: []string{"Iohannis", "Klaus Iohannis", "președintele"}, Leaning: 10},
}

var BiasKeywords = []Keyword{
	{Word: "progresist", Leaning: -60, Weight: 2},
	{Word: "social", Leaning: -30, Weight: 1},
	{Word: "justiție socială", Leaning: -70, Weight: 3},
	{Word: "anticorupție", Leaning: -40, Weight: 2},
	{Word: "transparență", Leaning: -30, Weight: 2},
	{Word: "pro-european", Leaning: -40, Weight: 2},
	{Word: "reforme", Leaning: -35, Weight: 1},
	{Word: "modernizan", Leaning: -30, Weight: 1},
	{Word: "drepturi", Leaning: -40, Weight: 1},
	{Word: "inclusiv", Leaning: -50, Weight: 1},

	{Word: "tradițional", Leaning: 60, Weight: 2},
	{Word: "suveranist", Leaning: 75, Weight: 3},
	{Word: "patriot", Leaning: 65, Weight: 2},
	{Word: "național", Leaning: 50, Weight: 1},
	{Word: "conservator", Leaning: 55, Weight: 2},
	{Word: "ortodox", Leaning: 60, Weight: 2},
	{Word: "anti-globalist", Leaning: 80, Weight: 3},
	{Word: "anti-UE", Leaning: 75, Weight: 3},
	{Word: "suveranitate", Leaning: 70, Weight: 2},
	{Word: "valorile românești", Leaning: 65, Weight: 2},
	{Word: "familiei tradiționale", Leaning: 70, Weight: 2},

	{Word: "echilibru", Leaning: 0, Weight: 1},
	{Word: "moderat", Leaning: 0, Weight: 1},
	{Word: "pragmatic", Leaning: 0, Weight: 1},
}

var (
	positiveWords = []string{
		"salvează", "curajos", "necesar", "important", "reușit", "eficient",
		"bun", "excelent", "pozitiv", "reușită", "progres", "îmbunătățire",
		"laudabil", "remarcabil", "performant", "competent", "profesionist",
	}
	negativeWords = []string{
		"controversat", "critica", "protest", "eșec", "incompetent", "corupție",
		"scandal", "problemă", "atenție", "îngrijorare", "fraudă",
		"nereguli", "abuz", "ilegal", "suspect", "dubios", "contestat",
	}
)

const (
	sentimentWindow = 50
	sentimentStep   = 0.3
	keywordShare    = 0.4
	entityShare     = 0.6
	evidenceForFull = 5
	maxListed       = 3
)

type alias struct {
	folded  string
	pattern *regexp.Regexp
}

type compiledEntity struct {
	Entity
	aliases []alias
}

type compiledKeyword struct {
	Keyword
	folded string
}

// DetailedAnalyzer scores text against the political entity list, with
// sentiment around each mention, and a weighted keyword list.
type DetailedAnalyzer struct {
	entities []compiledEntity
	keywords []compiledKeyword
	positive []string
	negative []string
}

func NewDetailedAnalyzer() *DetailedAnalyzer {
	return NewDetailedAnalyzerWith(PoliticalEntities, BiasKeywords)
}

func NewDetailedAnalyzerWith(entities []Entity, keywords []Keyword) *DetailedAnalyzer {
	a := &DetailedAnalyzer{}

	for _, e := range entities {
		ce := compiledEntity{Entity: e}
		for _, name := range e.Aliases {
			ce.aliases = append(ce.aliases, alias{folded: textnorm.Fold(name), pattern: wordPattern(name)})
		}
		a.entities = append(a.entities, ce)
	}

	for _, k := range keywords {
		a.keywords = append(a.keywords, compiledKeyword{Keyword: k, folded: textnorm.Fold(k.Word)})
	}

	for _, w := range positiveWords {
		a.positive = append(a.positive, textnorm.Fold(w))
	}
	for _, w := range negativeWords {
		a.negative = append(a.negative, textnorm.Fold(w))
	}

	return a
}

func (a *DetailedAnalyzer) Analyze(text string) *Analysis {
	folded := textnorm.Fold(text)

	mentions := a.detectEntities(folded)
	entityScore := a.entityScore(mentions)
	keywordScore, found := a.keywordScore(folded)

	evidence := len(found)
	for _, m := range mentions {
		evidence += m.Count
	}

	indicators := []string{}
	if len(found) > 0 {
		indicators = append(indicators, "Keywords detected: "+strings.Join(firstN(found, maxListed), ", "))
	}
	if len(mentions) > 0 {
		names := make([]string, 0, len(mentions))
		for _, m := range mentions {
			names = append(names, m.Entity)
		}
		indicators = append(indicators, "Entities: "+strings.Join(firstN(names, maxListed), ", "))
	}

	return &Analysis{
		DetectedEntities: mentions,
		KeywordScore:     keywordScore,
		EntityScore:      entityScore,
		OverallBias:      keywordScore*keywordShare + entityScore*entityShare,
		Confidence:       clamp(float64(evidence)/evidenceForFull, 0, 1),
		Indicators:       indicators,
	}
}

func (a *DetailedAnalyzer) detectEntities(folded string) []EntityMention {
	mentions := []EntityMention{}
	index := map[string]int{}

	for _, e := range a.entities {
		for _, al := range e.aliases {
			n := len(al.pattern.FindAllStringIndex(folded, -1))
			if n == 0 {
				continue
			}
			if i, ok := index[e.Name]; ok {
				mentions[i].Count += n
				continue
			}
			index[e.Name] = len(mentions)
			mentions = append(mentions, EntityMention{
				Entity:    e.Name,
				Count:     n,
				Sentiment: a.sentimentAround(folded, al.folded),
			})
		}
	}

	return mentions
}

// sentimentAround looks at the runes surrounding the first occurrence of term.
func (a *DetailedAnalyzer) sentimentAround(folded, term string) float64 {
	pos := strings.Index(folded, term)
	if pos < 0 {
		return 0
	}

	runes := []rune(folded)
	start := utf8.RuneCountInString(folded[:pos])
	end := start + utf8.RuneCountInString(term) + sentimentWindow
	start = max(0, start-sentimentWindow)
	end = min(len(runes), end)
	window := string(runes[start:end])

	sentiment := 0.0
	for _, w := range a.positive {
		if strings.Contains(window, w) {
			sentiment += sentimentStep
		}
	}
	for _, w := range a.negative {
		if strings.Contains(window, w) {
			sentiment -= sentimentStep
		}
	}

	return clamp(sentiment, -1, 1)
}

func (a *DetailedAnalyzer) entityScore(mentions []EntityMention) float64 {
	leaning := make(map[string]float64, len(a.entities))
	for _, e := range a.entities {
		leaning[e.Name] = e.Leaning
	}

	total, count := 0.0, 0
	for _, m := range mentions {
		l, ok := leaning[m.Entity]
		if !ok {
			continue
		}
		total += l * float64(m.Count) * (1 + m.Sentiment*0.5)
		count += m.Count
	}

	if count == 0 {
		return 0
	}
	return clamp(total/float64(count), -100, 100)
}

func (a *DetailedAnalyzer) keywordScore(folded string) (float64, []string) {
	var found []string
	total, weight := 0.0, 0.0

	for _, k := range a.keywords {
		if strings.Contains(folded, k.folded) {
			total += k.Leaning * k.Weight
			weight += k.Weight
			found = append(found, k.Word)
		}
	}

	if weight == 0 {
		return 0, found
	}
	return total / weight, found
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
