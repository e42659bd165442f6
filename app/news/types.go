package news

import (
	"context"
	"errors"

	"github.com/roblanc/ClarStiri/app/feed"
	"github.com/roblanc/ClarStiri/app/source"
	"github.com/roblanc/ClarStiri/app/story"
)

// CacheKey is where the aggregated story list is stored.
const CacheKey = "aggregated_news"

// WarmingUpMessage is returned when a cold start produced nothing to show.
const WarmingUpMessage = "Știrile se actualizează. Reîncearcă în câteva momente."

var ErrNoArticles = errors.New("no articles fetched from any source")

type Fetcher interface {
	FetchAll(ctx context.Context, sources []source.Source) []feed.Article
}

type Aggregator interface {
	Aggregate(articles []feed.Article) []story.Story
}

type Sources interface {
	Priority() []source.Source
	Others() []source.Source
}

// Query narrows the stories returned by Get. A non-positive Limit returns
// every story and an empty Category disables filtering.
type Query struct {
	Limit    int
	Category string
}

type Result struct {
	Stories   []story.Story
	FromCache bool
	IsPartial bool
	Message   string
}

type RefreshStats struct {
	NewsItems         int    `json:"newsItems"`
	AggregatedStories int    `json:"aggregatedStories"`
	DurationMs        int64  `json:"durationMs"`
	Timestamp         string `json:"timestamp"`
}

type Stats struct {
	CacheHits       int64         `json:"cacheHits"`
	CacheMisses     int64         `json:"cacheMisses"`
	PartialBuilds   int64         `json:"partialBuilds"`
	EmptyColdStarts int64         `json:"emptyColdStarts"`
	Refreshes       int64         `json:"refreshes"`
	RefreshFailures int64         `json:"refreshFailures"`
	LastRefresh     *RefreshStats `json:"lastRefresh,omitempty"`
	LastError       string        `json:"lastError,omitempty"`
}
