package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/roblanc/ClarStiri/app/news"
	"github.com/roblanc/ClarStiri/app/source"
	"github.com/roblanc/ClarStiri/app/story"
	"github.com/roblanc/ClarStiri/app/voices"
)

type MockNews struct {
	result     news.Result
	err        error
	refresh    news.RefreshStats
	refreshErr error
	lastQuery  news.Query
	refreshes  int
}

func (m *MockNews) Get(_ context.Context, q news.Query) (news.Result, error) {
	m.lastQuery = q
	return m.result, m.err
}

func (m *MockNews) Refresh(context.Context) (news.RefreshStats, error) {
	m.refreshes++
	return m.refresh, m.refreshErr
}

func (m *MockNews) Stats() news.Stats {
	return news.Stats{CacheHits: 4}
}

type MockVoices struct {
	statements []voices.Statement
	err        error
	lastName   string
}

func (m *MockVoices) Statements(_ context.Context, name string) ([]voices.Statement, error) {
	m.lastName = name
	return m.statements, m.err
}

type MockCatalog struct{}

func (MockCatalog) All() []source.Source {
	return []source.Source{
		{ID: "digi24", Name: "Digi24", Bias: source.BiasCenter},
		{ID: "antena3", Name: "Antena 3", Bias: source.BiasRight},
	}
}

func (MockCatalog) IsPriority(id string) bool { return id == "digi24" }

func newTestServer(n *MockNews, v *MockVoices, opts ServerOptions) http.Handler {
	return NewServer(NewHandler(n, v, MockCatalog{}, "test"), opts)
}

func do(t *testing.T, h http.Handler, method, target string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, body
}

func TestGetNewsFromCache(t *testing.T) {
	n := &MockNews{result: news.Result{Stories: []story.Story{{ID: "story-1"}, {ID: "story-2"}}, FromCache: true}}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	w, body := do(t, h, "GET", "/api/news?limit=2&category=sport", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if n.lastQuery.Limit != 2 || n.lastQuery.Category != "sport" {
		t.Errorf("Expected limit 2 and category sport, got: %+v", n.lastQuery)
	}
	if body["success"] != true || body["fromCache"] != true {
		t.Errorf("Unexpected body: %v", body)
	}
	if data := body["data"].([]any); len(data) != 2 {
		t.Errorf("Expected 2 stories, got: %d", len(data))
	}
	if _, ok := body["cachedAt"]; !ok {
		t.Error("Expected cachedAt on cached response")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header, got: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestGetNewsLimitFallback(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3"} {
		n := &MockNews{result: news.Result{Stories: []story.Story{}}}
		h := newTestServer(n, &MockVoices{}, ServerOptions{})

		do(t, h, "GET", "/api/news?limit="+raw, nil)
		if n.lastQuery.Limit != DefaultLimit {
			t.Errorf("limit=%q: expected %d, got: %d", raw, DefaultLimit, n.lastQuery.Limit)
		}
	}
}

func TestGetNewsWarmingUp(t *testing.T) {
	n := &MockNews{result: news.Result{Stories: []story.Story{}, Message: news.WarmingUpMessage}}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	w, body := do(t, h, "GET", "/api/news", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 0 {
		t.Errorf("Expected empty data array, got: %v", body["data"])
	}
	if body["message"] != news.WarmingUpMessage {
		t.Errorf("Expected warming-up message, got: %v", body["message"])
	}
}

func TestGetNewsPartial(t *testing.T) {
	n := &MockNews{result: news.Result{Stories: []story.Story{{ID: "story-1"}}, IsPartial: true}}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	_, body := do(t, h, "GET", "/api/news", nil)

	if body["isPartial"] != true || body["fromCache"] != false {
		t.Errorf("Expected partial uncached response, got: %v", body)
	}
	if body["totalStories"] != float64(1) {
		t.Errorf("Expected totalStories 1, got: %v", body["totalStories"])
	}
}

func TestGetNewsError(t *testing.T) {
	n := &MockNews{err: errors.New("encode failed")}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	w, body := do(t, h, "GET", "/api/news", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if body["success"] != false || body["error"] != "Failed to fetch news" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestOptionsPreflight(t *testing.T) {
	h := newTestServer(&MockNews{}, &MockVoices{}, ServerOptions{})

	for _, path := range []string{"/api/news", "/api/cron/refresh-news", "/api/analyze-voice"} {
		w, _ := do(t, h, "OPTIONS", path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
			t.Errorf("%s: expected 'GET, OPTIONS', got: %q", path, got)
		}
	}
}

func TestRefreshNews(t *testing.T) {
	n := &MockNews{refresh: news.RefreshStats{NewsItems: 120, AggregatedStories: 80, DurationMs: 2500, Timestamp: "2025-01-15T12:00:00Z"}}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	w, body := do(t, h, "GET", "/api/cron/refresh-news", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	stats := body["stats"].(map[string]any)
	if stats["newsItems"] != float64(120) || stats["aggregatedStories"] != float64(80) || stats["durationMs"] != float64(2500) {
		t.Errorf("Unexpected stats: %v", stats)
	}
	if stats["timestamp"] != "2025-01-15T12:00:00Z" {
		t.Errorf("Unexpected timestamp: %v", stats["timestamp"])
	}
}

func TestRefreshNewsFailure(t *testing.T) {
	n := &MockNews{refreshErr: news.ErrNoArticles}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	w, body := do(t, h, "GET", "/api/cron/refresh-news", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if body["success"] != false || body["error"] != news.ErrNoArticles.Error() {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestRefreshNewsAuthorization(t *testing.T) {
	n := &MockNews{}
	h := newTestServer(n, &MockVoices{}, ServerOptions{CronSecret: "s3cret", RequireCronSecret: true})

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
		{"s3cret", http.StatusUnauthorized},
		{"Bearer s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		header := http.Header{}
		if tt.header != "" {
			header.Set("Authorization", tt.header)
		}

		w, body := do(t, h, "GET", "/api/cron/refresh-news", header)
		if w.Code != tt.want {
			t.Errorf("Authorization %q: expected status %d, got %d", tt.header, tt.want, w.Code)
		}
		if tt.want == http.StatusUnauthorized && body["error"] != "Unauthorized" {
			t.Errorf("Expected Unauthorized error, got: %v", body)
		}
	}

	if n.refreshes != 1 {
		t.Errorf("Expected only the authorized request to refresh, got %d", n.refreshes)
	}
}

func TestRefreshNewsOpenWithoutRequirement(t *testing.T) {
	n := &MockNews{}
	h := newTestServer(n, &MockVoices{}, ServerOptions{CronSecret: "s3cret"})

	if w, _ := do(t, h, "GET", "/api/cron/refresh-news", nil); w.Code != http.StatusOK {
		t.Errorf("Expected open endpoint outside production, got %d", w.Code)
	}
}

func TestAnalyzeVoice(t *testing.T) {
	v := &MockVoices{statements: []voices.Statement{{Text: "Declarație", SourceURL: "https://news.example.com/1", Impact: "high", Bias: "center"}}}
	h := newTestServer(&MockNews{}, v, ServerOptions{})

	w, body := do(t, h, "GET", "/api/analyze-voice?name=Ion%20Popescu", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if v.lastName != "Ion Popescu" {
		t.Errorf("Expected name 'Ion Popescu', got: %q", v.lastName)
	}
	statements := body["statements"].([]any)
	if len(statements) != 1 || statements[0].(map[string]any)["sourceUrl"] != "https://news.example.com/1" {
		t.Errorf("Unexpected statements: %v", statements)
	}
}

func TestAnalyzeVoiceErrors(t *testing.T) {
	h := newTestServer(&MockNews{}, &MockVoices{}, ServerOptions{})
	if w, body := do(t, h, "GET", "/api/analyze-voice", nil); w.Code != http.StatusBadRequest || body["error"] != "Missing name parameter" {
		t.Errorf("Expected 400 for missing name, got %d %v", w.Code, body)
	}

	h = newTestServer(&MockNews{}, &MockVoices{err: voices.ErrNoExtractor}, ServerOptions{})
	if w, body := do(t, h, "GET", "/api/analyze-voice?name=X", nil); w.Code != http.StatusInternalServerError || body["error"] != "Server configuration error" {
		t.Errorf("Expected 500 configuration error, got %d %v", w.Code, body)
	}

	h = newTestServer(&MockNews{}, &MockVoices{err: errors.New("quota")}, ServerOptions{})
	if w, body := do(t, h, "GET", "/api/analyze-voice?name=X", nil); w.Code != http.StatusInternalServerError || body["error"] != "Failed to analyze voice" {
		t.Errorf("Expected 500 extraction error, got %d %v", w.Code, body)
	}
}

func TestListSources(t *testing.T) {
	h := newTestServer(&MockNews{}, &MockVoices{}, ServerOptions{})

	_, body := do(t, h, "GET", "/api/sources", nil)

	if body["total"] != float64(2) {
		t.Fatalf("Expected 2 sources, got: %v", body["total"])
	}
	first := body["sources"].([]any)[0].(map[string]any)
	if first["id"] != "digi24" || first["priority"] != true || first["bias"] != "center" {
		t.Errorf("Unexpected first source: %v", first)
	}
}

func TestServiceEndpoints(t *testing.T) {
	h := newTestServer(&MockNews{}, &MockVoices{}, ServerOptions{})

	if w, body := do(t, h, "GET", "/health", nil); w.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("Unexpected health response: %d %v", w.Code, body)
	}

	w, body := do(t, h, "GET", "/stats", nil)
	if w.Code != http.StatusOK || body["news"].(map[string]any)["cacheHits"] != float64(4) {
		t.Errorf("Unexpected stats response: %d %v", w.Code, body)
	}

	if w, body := do(t, h, "GET", "/", nil); w.Code != http.StatusOK || body["service"] != "ClarStiri" {
		t.Errorf("Unexpected index response: %d %v", w.Code, body)
	}

	if w, _ := do(t, h, "GET", "/favicon.ico", nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for favicon, got %d", w.Code)
	}
}

func TestGetNewsRSS(t *testing.T) {
	n := &MockNews{result: news.Result{Stories: []story.Story{{ID: "story-1", Title: "Guvernul adoptă bugetul", SourcesCount: 1}}, FromCache: true}}
	h := newTestServer(n, &MockVoices{}, ServerOptions{})

	req := httptest.NewRequest("GET", "/api/news.rss?limit=5", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Expected RSS content type, got: %s", ct)
	}
	if w.Header().Get("X-Feed-Items") != "1" {
		t.Errorf("Expected X-Feed-Items 1, got: %s", w.Header().Get("X-Feed-Items"))
	}
	if n.lastQuery.Limit != 5 {
		t.Errorf("Expected limit 5, got: %d", n.lastQuery.Limit)
	}

	body := w.Body.String()
	if !strings.Contains(body, "<title>Guvernul adoptă bugetul</title>") {
		t.Errorf("Expected story title in feed, got: %s", body)
	}
	if !strings.Contains(body, `href="http://example.com/api/news.rss?limit=5"`) {
		t.Errorf("Expected self link from request, got: %s", body)
	}
}
