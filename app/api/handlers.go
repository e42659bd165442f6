package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roblanc/ClarStiri/app/news"
	"github.com/roblanc/ClarStiri/app/story"
	"github.com/roblanc/ClarStiri/app/voices"
)

var startedAt = time.Now()

func NewHandler(newsService NewsService, statements StatementsService, sources SourceCatalog, version string) *Handler {
	return &Handler{
		news:      newsService,
		voices:    statements,
		sources:   sources,
		generator: story.NewGenerator(),
		version:   version,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	q := news.Query{
		Limit:    parseLimit(c.Query("limit")),
		Category: c.Query("category"),
	}

	result, err := h.news.Get(c.Request.Context(), q)
	if err != nil {
		slog.Error("Failed to get news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch news",
			"message": err.Error(),
		})
		return
	}

	resp := NewsResponse{
		Success:   true,
		Data:      result.Stories,
		FromCache: result.FromCache,
		IsPartial: result.IsPartial,
		Message:   result.Message,
	}

	now := timestamp()
	if result.FromCache {
		resp.CachedAt = now
	} else {
		resp.FetchedAt = now
		resp.TotalStories = len(result.Stories)
	}

	c.JSON(http.StatusOK, resp)
}

// GetNewsRSS serves the same stories as GetNews as an RSS 2.0 feed.
func (h *Handler) GetNewsRSS(c *gin.Context) {
	q := news.Query{
		Limit:    parseLimit(c.Query("limit")),
		Category: c.Query("category"),
	}

	result, err := h.news.Get(c.Request.Context(), q)
	if err != nil {
		slog.Error("Failed to get news", "format", "rss", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	base := requestBaseURL(c.Request)
	channel := story.Channel{
		Title:       "ClarStiri",
		Link:        base + "/",
		SelfLink:    base + c.Request.URL.RequestURI(),
		Description: "Știri din presa românească, grupate pe subiecte, cu distribuția orientării surselor",
		Language:    "ro",
		Generator:   "ClarStiri/" + h.version,
	}

	rss, err := h.generator.Run(channel, result.Stories, time.Now().In(time.Local))
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(result.Stories)))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) RefreshNews(c *gin.Context) {
	stats, err := h.news.Refresh(c.Request.Context())
	if err != nil {
		slog.Error("News refresh failed", "error", err)
		c.JSON(http.StatusInternalServerError, RefreshResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Success: true,
		Message: "Cache refreshed successfully",
		Stats:   &stats,
	})
}

func (h *Handler) AnalyzeVoice(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name parameter"})
		return
	}

	statements, err := h.voices.Statements(c.Request.Context(), name)
	if errors.Is(err, voices.ErrNoExtractor) {
		slog.Error("Statement extraction requested without an extractor", "name", name)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	}
	if err != nil {
		slog.Error("Failed to analyze voice", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to analyze voice",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"statements": statements})
}

func (h *Handler) ListSources(c *gin.Context) {
	all := h.sources.All()

	sources := make([]SourceInfo, 0, len(all))
	for _, s := range all {
		sources = append(sources, SourceInfo{Source: s, Priority: h.sources.IsPriority(s.ID)})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   len(h.sources.All()),
		"version":   h.version,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"news":           h.news.Stats(),
		"uptime_seconds": int64(time.Since(startedAt).Seconds()),
	})
}

// parseLimit falls back to DefaultLimit for anything but a positive integer.
func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	return n
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
