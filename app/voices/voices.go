package voices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/roblanc/ClarStiri/app/feed"
	"github.com/roblanc/ClarStiri/app/source"
)

// MaxArticles is how many search results are handed to the extractor.
const MaxArticles = 10

var ErrNoExtractor = errors.New("statement extractor not configured")

// Statement is a recent quote or action attributed to a public figure.
type Statement struct {
	Text      string `json:"text"`
	Topic     string `json:"topic"`
	Date      string `json:"date"`
	SourceURL string `json:"sourceUrl"`
	Impact    string `json:"impact"`
	Bias      string `json:"bias"`
}

type Extractor interface {
	ExtractStatements(ctx context.Context, name string, articles []feed.Article) ([]Statement, error)
}

type FeedFetcher interface {
	Fetch(ctx context.Context, src source.Source) ([]byte, error)
	ParserFor(src source.Source) feed.Parser
}

type Service struct {
	fetcher   FeedFetcher
	extractor Extractor
	now       func() time.Time
}

// NewService wires the news search to an extractor. A nil extractor makes
// Statements fail once there is something to extract from.
func NewService(fetcher FeedFetcher, extractor Extractor) *Service {
	return &Service{fetcher: fetcher, extractor: extractor, now: time.Now}
}

// SearchSource describes the Google News search feed for name over the last week.
func SearchSource(name string) source.Source {
	return source.Source{
		ID:          "google-news",
		Name:        "Google News",
		HomepageURL: "https://news.google.com",
		FeedURL:     "https://news.google.com/rss/search?q=" + url.QueryEscape(name) + "+when:7d&hl=ro&gl=RO&ceid=RO:ro",
		Bias:        source.BiasCenter,
		Parser:      source.ParserGofeed,
	}
}

func (s *Service) Statements(ctx context.Context, name string) ([]Statement, error) {
	src := SearchSource(name)

	data, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to search news for %s: %w", name, err)
	}

	articles := s.fetcher.ParserFor(src).Parse(data, src, s.now())
	if len(articles) > MaxArticles {
		articles = articles[:MaxArticles]
	}
	if len(articles) == 0 {
		slog.Debug("No recent articles for public figure", "name", name)
		return []Statement{}, nil
	}

	if s.extractor == nil {
		return nil, ErrNoExtractor
	}

	statements, err := s.extractor.ExtractStatements(ctx, name, articles)
	if err != nil {
		return nil, fmt.Errorf("failed to extract statements for %s: %w", name, err)
	}
	if statements == nil {
		statements = []Statement{}
	}

	slog.Info("Statements extracted", "name", name, "articles", len(articles), "statements", len(statements))

	return statements, nil
}
