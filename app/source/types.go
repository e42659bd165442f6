package source

import "slices"

type Bias string

const (
	BiasLeft        Bias = "left"
	BiasCenterLeft  Bias = "center-left"
	BiasCenter      Bias = "center"
	BiasCenterRight Bias = "center-right"
	BiasRight       Bias = "right"
)

var Biases = []Bias{BiasLeft, BiasCenterLeft, BiasCenter, BiasCenterRight, BiasRight}

func (b Bias) Valid() bool {
	return slices.Contains(Biases, b)
}

type Factuality string

const (
	FactualityHigh  Factuality = "high"
	FactualityMixed Factuality = "mixed"
	FactualityLow   Factuality = "low"
)

func (f Factuality) Valid() bool {
	return f == FactualityHigh || f == FactualityMixed || f == FactualityLow
}

type Kind string

const (
	KindMainstream  Kind = "mainstream"
	KindIndependent Kind = "independent"
	KindTabloid     Kind = "tabloid"
	KindPublic      Kind = "public"
)

func (k Kind) Valid() bool {
	return k == "" || k == KindMainstream || k == KindIndependent || k == KindTabloid || k == KindPublic
}

// Parser names accepted in the catalog. An empty value means ParserScan.
const (
	ParserScan   = "scan"
	ParserGofeed = "gofeed"
)

type Source struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	HomepageURL string     `yaml:"url" json:"url"`
	FeedURL     string     `yaml:"rss_url" json:"rssUrl"`
	Bias        Bias       `yaml:"bias" json:"bias"`
	Factuality  Factuality `yaml:"factuality" json:"factuality"`
	Kind        Kind       `yaml:"category" json:"category,omitempty"`
	Parser      string     `yaml:"parser,omitempty" json:"-"`
}

// Catalog is the on-disk layout of a sources file.
type Catalog struct {
	Priority []string `yaml:"priority"`
	Sources  []Source `yaml:"sources"`
}
