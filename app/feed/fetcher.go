package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/roblanc/ClarStiri/app/source"
	"golang.org/x/sync/errgroup"
)

const maxFeedSize = 5 << 20

type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	timeout     time.Duration
	concurrency int
	scan        Parser
	strict      Parser
}

// NewFetcher builds a fetcher that gives every request its own timeout.
// A concurrency of zero or less leaves the fan-out unbounded.
func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration, concurrency int) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Fetcher{
		httpClient:  httpClient,
		userAgent:   userAgent,
		timeout:     timeout,
		concurrency: concurrency,
		scan:        NewScanParser(),
		strict:      NewGofeedParser(),
	}
}

func (f *Fetcher) ParserFor(src source.Source) Parser {
	if src.Parser == source.ParserGofeed {
		return f.strict
	}
	return f.scan
}

// Fetch downloads the raw feed body of src.
func (f *Fetcher) Fetch(ctx context.Context, src source.Source) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", src.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// FetchArticles never fails: an unreachable or slow source yields no articles.
func (f *Fetcher) FetchArticles(ctx context.Context, src source.Source, fetchedAt time.Time) []Article {
	started := time.Now()

	data, err := f.Fetch(ctx, src)
	if err != nil {
		slog.Warn("Failed to fetch source", "source", src.ID, "url", src.FeedURL, "duration", time.Since(started), "error", err)
		return nil
	}

	articles := f.ParserFor(src).Parse(data, src, fetchedAt)
	slog.Debug("Fetched source", "source", src.ID, "articles", len(articles), "duration", time.Since(started))

	return articles
}

// FetchAll fetches every source concurrently and waits for all of them.
// Results are concatenated in the order of sources regardless of completion order.
func (f *Fetcher) FetchAll(ctx context.Context, sources []source.Source) []Article {
	fetchedAt := time.Now()
	results := make([][]Article, len(sources))

	var g errgroup.Group
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}

	for i, src := range sources {
		g.Go(func() error {
			results[i] = f.FetchArticles(ctx, src, fetchedAt)
			return nil
		})
	}
	_ = g.Wait()

	var articles []Article
	failed := 0
	for _, r := range results {
		if len(r) == 0 {
			failed++
		}
		articles = append(articles, r...)
	}

	slog.Debug("Fetched sources", "sources", len(sources), "empty", failed, "articles", len(articles), "duration", time.Since(fetchedAt))

	return articles
}
