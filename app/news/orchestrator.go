package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/roblanc/ClarStiri/app/cache"
	"github.com/roblanc/ClarStiri/app/story"
)

const (
	DefaultPartialTTL = 120 * time.Second
	DefaultFullTTL    = 600 * time.Second
)

// Orchestrator serves the aggregated story list from the cache and rebuilds
// it from the feeds. The cached value is always replaced whole.
type Orchestrator struct {
	sources    Sources
	fetcher    Fetcher
	aggregator Aggregator
	store      cache.Store
	partialTTL time.Duration
	fullTTL    time.Duration
	now        func() time.Time

	coldStart singleflight.Group

	mu    sync.RWMutex
	stats Stats
}

func NewOrchestrator(sources Sources, fetcher Fetcher, aggregator Aggregator, store cache.Store, partialTTL, fullTTL time.Duration) *Orchestrator {
	if partialTTL <= 0 {
		partialTTL = DefaultPartialTTL
	}
	if fullTTL <= 0 {
		fullTTL = DefaultFullTTL
	}

	return &Orchestrator{
		sources:    sources,
		fetcher:    fetcher,
		aggregator: aggregator,
		store:      store,
		partialTTL: partialTTL,
		fullTTL:    fullTTL,
		now:        time.Now,
	}
}

func (o *Orchestrator) GetOrRefresh(ctx context.Context, limit int) (Result, error) {
	return o.Get(ctx, Query{Limit: limit})
}

// Get returns the cached story list when present. On a miss it builds a
// partial list from the priority sources only and caches it briefly.
func (o *Orchestrator) Get(ctx context.Context, q Query) (Result, error) {
	if stories, ok := o.cached(ctx); ok {
		o.count(func(s *Stats) { s.CacheHits++ })
		return Result{Stories: q.apply(stories), FromCache: true}, nil
	}
	o.count(func(s *Stats) { s.CacheMisses++ })

	v, err, shared := o.coldStart.Do(CacheKey, func() (any, error) {
		return o.buildPartial(context.WithoutCancel(ctx))
	})
	if err != nil {
		return Result{}, err
	}
	if shared {
		slog.Debug("Joined in-flight partial build")
	}

	stories := v.([]story.Story)
	if len(stories) == 0 {
		return Result{Stories: []story.Story{}, Message: WarmingUpMessage}, nil
	}

	return Result{Stories: q.apply(stories), IsPartial: true}, nil
}

func (o *Orchestrator) buildPartial(ctx context.Context) ([]story.Story, error) {
	start := o.now()
	priority := o.sources.Priority()

	articles := o.fetcher.FetchAll(ctx, priority)
	if len(articles) == 0 {
		slog.Warn("Priority sources returned no articles", "sources", len(priority))
		o.count(func(s *Stats) { s.EmptyColdStarts++ })
		return nil, nil
	}

	stories := o.aggregator.Aggregate(articles)

	data, err := json.Marshal(stories)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stories: %w", err)
	}
	if err := o.store.Set(ctx, CacheKey, data, o.partialTTL); err != nil {
		slog.Warn("Failed to cache partial stories", "error", err)
	}

	o.count(func(s *Stats) { s.PartialBuilds++ })
	slog.Info("Partial stories built", "sources", len(priority), "articles", len(articles), "stories", len(stories), "duration", o.now().Sub(start).String())

	return stories, nil
}

// Refresh rebuilds the full story list, priority sources first, and
// overwrites the cache. The cache is left alone when no feed returned anything.
func (o *Orchestrator) Refresh(ctx context.Context) (RefreshStats, error) {
	stats, err := o.refresh(ctx)
	if err != nil {
		o.count(func(s *Stats) {
			s.RefreshFailures++
			s.LastError = err.Error()
		})
		return RefreshStats{}, err
	}

	o.count(func(s *Stats) {
		s.Refreshes++
		s.LastRefresh = &stats
		s.LastError = ""
	})
	return stats, nil
}

func (o *Orchestrator) refresh(ctx context.Context) (RefreshStats, error) {
	start := o.now()

	articles := o.fetcher.FetchAll(ctx, o.sources.Priority())
	prioritySize := len(articles)
	articles = append(articles, o.fetcher.FetchAll(ctx, o.sources.Others())...)

	if len(articles) == 0 {
		return RefreshStats{}, ErrNoArticles
	}

	stories := o.aggregator.Aggregate(articles)

	data, err := json.Marshal(stories)
	if err != nil {
		return RefreshStats{}, fmt.Errorf("failed to encode stories: %w", err)
	}
	if err := o.store.Set(ctx, CacheKey, data, o.fullTTL); err != nil {
		return RefreshStats{}, fmt.Errorf("failed to store stories: %w", err)
	}

	end := o.now()
	stats := RefreshStats{
		NewsItems:         len(articles),
		AggregatedStories: len(stories),
		DurationMs:        end.Sub(start).Milliseconds(),
		Timestamp:         end.UTC().Format(time.RFC3339),
	}

	slog.Info("News refreshed", "articles", stats.NewsItems, "priority_articles", prioritySize, "stories", stats.AggregatedStories, "duration_ms", stats.DurationMs)

	return stats, nil
}

func (o *Orchestrator) cached(ctx context.Context) ([]story.Story, bool) {
	data, err := o.store.Get(ctx, CacheKey)
	if err != nil {
		slog.Warn("Failed to read cached stories", "error", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var stories []story.Story
	if err := json.Unmarshal(data, &stories); err != nil {
		slog.Warn("Discarding undecodable cached stories", "error", err)
		return nil, false
	}
	return stories, true
}

func (o *Orchestrator) Stats() Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := o.stats
	if s.LastRefresh != nil {
		last := *s.LastRefresh
		s.LastRefresh = &last
	}
	return s
}

func (o *Orchestrator) count(update func(*Stats)) {
	o.mu.Lock()
	update(&o.stats)
	o.mu.Unlock()
}

func (q Query) apply(stories []story.Story) []story.Story {
	return story.Limit(story.FilterCategory(stories, q.Category), q.Limit)
}
