package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/roblanc/ClarStiri/app/bias"
	"github.com/roblanc/ClarStiri/app/source"
)

// SummaryLimit caps the summary length in runes.
const SummaryLimit = 500

// Article is one feed entry. Published keeps the raw timestamp from the feed.
type Article struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Summary     string         `json:"description"`
	Link        string         `json:"link"`
	Published   string         `json:"pubDate"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Category    string         `json:"category,omitempty"`
	Author      string         `json:"author,omitempty"`
	Source      source.Source  `json:"source"`
	ContentBias *bias.Analysis `json:"biasAnalysis,omitempty"`
}

// PublishedAt parses Published. Unparseable or missing dates yield the zero time.
func (a Article) PublishedAt() time.Time {
	return ParseTime(a.Published)
}

func ParseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (a Article) Valid() bool {
	return a.Title != "" && a.Link != ""
}

// Parser turns a raw feed body into articles for src.
type Parser interface {
	Parse(data []byte, src source.Source, fetchedAt time.Time) []Article
}
