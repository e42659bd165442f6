// Package category maps feed categories and article text onto the fixed
// set of sections the front end filters by.
package category

import (
	"regexp"
	"strings"

	"github.com/roblanc/ClarStiri/app/textnorm"
)

type Category struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Keywords      []string `json:"-"`
	RSSCategories []string `json:"-"`

	patterns []*regexp.Regexp
	feedTags []string
}

var categories = []*Category{
	{
		Slug: "politica",
		Name: "Politică",
		Keywords: []string{
			"guvern", "parlament", "ministru", "premier", "președinte", "alegeri",
			"psd", "pnl", "usr", "aur", "udmr", "partid", "coaliție", "opoziție",
			"lege", "vot", "deputat", "senator", "politică", "politic",
			"iohannis", "ciolacu", "ciucă", "lasconi", "simion", "șoșoacă",
		},
		RSSCategories: []string{"politica", "politics", "politic", "politică", "alegeri"},
	},
	{
		Slug: "economie",
		Name: "Economie",
		Keywords: []string{
			"economie", "banca", "bnr", "inflație", "curs", "euro", "leu", "dolar",
			"buget", "taxe", "impozit", "investiții", "afaceri", "business", "profit",
			"pib", "creștere economică", "salariu", "pensie", "prețuri", "scumpire",
			"bursa", "acțiuni", "fintech", "bursă",
		},
		RSSCategories: []string{"economie", "economy", "business", "finanțe", "finance", "bani"},
	},
	{
		Slug: "sanatate",
		Name: "Sănătate",
		Keywords: []string{
			"sănătate", "spital", "medic", "doctor", "pacient", "medicament",
			"vaccin", "covid", "coronavirus", "virus", "boală", "tratament",
			"urgență", "ambulanță", "operație", "chirurgie", "cancer", "diabet",
			"oms", "ministerul sănătății", "asigurări de sănătate", "cnas",
		},
		RSSCategories: []string{"sanatate", "health", "sănătate", "medical", "medicina"},
	},
	{
		Slug: "tehnologie",
		Name: "Tehnologie",
		Keywords: []string{
			"tehnologie", "tech", "software", "hardware", "computer",
			"smartphone", "iphone", "android", "samsung", "apple", "google", "microsoft",
			"inteligență artificială", "robot", "internet", "cybersecurity",
			"hack", "startup", "aplicație", "digital", "online",
		},
		RSSCategories: []string{"tehnologie", "technology", "tech", "gadget", "digital"},
	},
	{
		Slug: "mediu",
		Name: "Mediu",
		Keywords: []string{
			"mediu", "climă", "climat", "poluare", "ecologie", "sustenabil",
			"reciclare", "deșeuri", "emisii", "carbon", "energie verde", "solar",
			"eolian", "biodiversitate", "natură", "parc natural", "inundații",
			"secetă", "încălzire globală", "anpm", "garda de mediu",
		},
		RSSCategories: []string{"mediu", "environment", "ecologie", "natura", "climate"},
	},
	{
		Slug: "sport",
		Name: "Sport",
		Keywords: []string{
			"sport", "fotbal", "tenis", "handbal", "baschet", "volei", "atletism",
			"olimpiadă", "campionat", "liga", "meci", "echipa", "antrenor", "jucător",
			"fcsb", "dinamo", "cfr", "simona halep", "hagi",
			"uefa", "fifa", "federație", "sportiv", "medalie", "campion",
		},
		RSSCategories: []string{"sport", "sports", "fotbal", "football", "tenis"},
	},
	{
		Slug: "cultura",
		Name: "Cultură",
		Keywords: []string{
			"cultură", "film", "muzică", "concert", "teatru", "festival", "artă",
			"carte", "scriitor", "artist", "expoziție", "muzeu", "operă", "balet",
			"cinema", "premieră", "tiff", "enescu", "untold", "neversea",
			"premiu nobel", "literatură", "poezie", "patrimoniu",
		},
		RSSCategories: []string{"cultura", "culture", "entertainment", "art", "artă", "muzica"},
	},
	{
		Slug: "international",
		Name: "Internațional",
		Keywords: []string{
			"internațional", "mondial", "global", "extern", "ue", "uniunea europeană",
			"nato", "sua", "america", "china", "rusia", "ucraina", "război",
			"conflict", "diplomație", "ambasador", "summit", "g7", "g20",
			"onu", "trump", "biden", "putin", "zelensky", "von der leyen",
		},
		RSSCategories: []string{"international", "world", "extern", "lume", "global", "foreign"},
	},
}

func init() {
	for _, c := range categories {
		for _, kw := range c.Keywords {
			// anchored at the word start only, so inflected forms still match
			c.patterns = append(c.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(textnorm.Fold(kw))))
		}
		for _, tag := range c.RSSCategories {
			c.feedTags = append(c.feedTags, textnorm.Fold(tag))
		}
	}
}

func All() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, *c)
	}
	return out
}

func BySlug(slug string) (Category, bool) {
	slug = textnorm.Fold(strings.TrimSpace(slug))
	for _, c := range categories {
		if c.Slug == slug {
			return *c, true
		}
	}
	return Category{}, false
}

// FromFeed matches the category label a feed put on an entry.
func FromFeed(label string) (Category, bool) {
	folded := textnorm.Fold(strings.TrimSpace(label))
	if folded == "" {
		return Category{}, false
	}

	for _, c := range categories {
		for _, tag := range c.feedTags {
			if strings.Contains(folded, tag) {
				return *c, true
			}
		}
	}
	return Category{}, false
}

// FromContent picks the category with the most distinct keyword hits.
// Earlier categories win ties.
func FromContent(title, summary string) (Category, bool) {
	content := textnorm.Fold(title + " " + summary)

	var best *Category
	bestScore := 0
	for _, c := range categories {
		score := 0
		for _, p := range c.patterns {
			if p.MatchString(content) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if best == nil {
		return Category{}, false
	}
	return *best, true
}

func Detect(feedLabel, title, summary string) (Category, bool) {
	if c, ok := FromFeed(feedLabel); ok {
		return c, true
	}
	return FromContent(title, summary)
}
