package story

import (
	"cmp"
	"slices"
	"time"

	"github.com/roblanc/ClarStiri/app/bias"
	"github.com/roblanc/ClarStiri/app/category"
	"github.com/roblanc/ClarStiri/app/feed"
	"github.com/roblanc/ClarStiri/app/source"
)

type Aggregator struct {
	threshold float64
	weights   bias.WeightTable
	analyzer  bias.Analyzer
	now       func() time.Time
}

type Option func(*Aggregator)

func WithThreshold(threshold float64) Option {
	return func(a *Aggregator) { a.threshold = threshold }
}

func WithWeights(weights bias.WeightTable) Option {
	return func(a *Aggregator) { a.weights = weights }
}

// WithAnalyzer enables per-article content bias. A nil analyzer disables it.
func WithAnalyzer(analyzer bias.Analyzer) Option {
	return func(a *Aggregator) { a.analyzer = analyzer }
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		threshold: DefaultThreshold,
		weights:   bias.DefaultWeights,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type candidate struct {
	article feed.Article
	tokens  map[string]struct{}
}

// Aggregate groups the pool into stories. Grouping is a single greedy pass in
// pool order: each unclaimed article opens a group and claims every later
// unclaimed article from another source whose title is similar enough.
// Members are only compared with the article that opened the group.
func (a *Aggregator) Aggregate(articles []feed.Article) []Story {
	pool := a.prepare(articles)
	if len(pool) == 0 {
		return []Story{}
	}

	now := a.now()
	processed := make([]bool, len(pool))
	stories := make([]Story, 0, len(pool))

	for i := range pool {
		if processed[i] {
			continue
		}
		processed[i] = true
		group := []feed.Article{pool[i].article}

		for j := i + 1; j < len(pool); j++ {
			if processed[j] || pool[j].article.Source.ID == pool[i].article.Source.ID {
				continue
			}
			if Jaccard(pool[i].tokens, pool[j].tokens) >= a.threshold {
				group = append(group, pool[j].article)
				processed[j] = true
			}
		}

		stories = append(stories, a.build(group, now))
	}

	SortStories(stories)
	return stories
}

// prepare drops repeated links and attaches content bias.
func (a *Aggregator) prepare(articles []feed.Article) []candidate {
	seen := make(map[string]bool, len(articles))
	pool := make([]candidate, 0, len(articles))

	for _, article := range articles {
		if seen[article.Link] {
			continue
		}
		seen[article.Link] = true

		if a.analyzer != nil && article.ContentBias == nil {
			if analysis := a.analyzer.Analyze(article.Title + " " + article.Summary); bias.Confident(analysis) {
				article.ContentBias = analysis
			}
		}

		pool = append(pool, candidate{article: article, tokens: Tokens(article.Title)})
	}

	return pool
}

func (a *Aggregator) build(members []feed.Article, now time.Time) Story {
	rep := Representative(members)

	image := rep.ImageURL
	for _, m := range members {
		if m.ImageURL != "" {
			image = m.ImageURL
			break
		}
	}

	labels := make([]source.Bias, len(members))
	analyses := make([]*bias.Analysis, len(members))
	for i, m := range members {
		labels[i] = m.Source.Bias
		analyses[i] = m.ContentBias
	}
	distribution := a.weights.Distribute(labels)

	s := Story{
		ID:           "story-" + members[0].ID,
		Title:        rep.Title,
		Summary:      rep.Summary,
		Image:        image,
		Sources:      members,
		SourcesCount: len(members),
		Bias:         distribution,
		ContentBias:  bias.Merge(analyses),
		MainCategory: cmp.Or(rep.Category, DefaultCategory),
		Blindspot:    Blindspot(distribution, len(members)),
		PublishedAt:  rep.Published,
		TimeAgo:      RelativeAge(rep.PublishedAt(), now),
	}

	if c, ok := category.Detect(rep.Category, rep.Title, rep.Summary); ok {
		s.CategorySlug = c.Slug
	}

	return s
}

// Representative returns the most recently published member. Only a strictly
// later date replaces the current pick, so the earliest listed wins ties.
func Representative(members []feed.Article) feed.Article {
	best := members[0]
	bestTime := best.PublishedAt()
	for _, m := range members[1:] {
		if t := m.PublishedAt(); t.After(bestTime) {
			best, bestTime = m, t
		}
	}
	return best
}

// SortStories orders by member count, then by publish date, newest first.
func SortStories(stories []Story) {
	slices.SortStableFunc(stories, func(x, y Story) int {
		if c := cmp.Compare(y.SourcesCount, x.SourcesCount); c != 0 {
			return c
		}
		return y.PublishedTime().Compare(x.PublishedTime())
	})
}
