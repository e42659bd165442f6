package api

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type ServerOptions struct {
	// CronSecret guards the refresh endpoint when RequireCronSecret is set.
	CronSecret        string
	RequireCronSecret bool
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, opts ServerOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	setupRoutes(r, handler, opts)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, opts ServerOptions) {
	api := r.Group("/api")
	{
		api.GET("/news", handler.GetNews)
		api.GET("/news.rss", handler.GetNewsRSS)
		api.GET("/analyze-voice", handler.AnalyzeVoice)
		api.GET("/sources", handler.ListSources)
	}

	cron := api.Group("/cron")
	if opts.RequireCronSecret {
		cron.Use(authMiddleware(opts.CronSecret))
		slog.Info("Refresh endpoint requires bearer authorization")
	}
	cron.GET("/refresh-news", handler.RefreshNews)

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "ClarStiri",
			"version":     handler.version,
			"description": "Romanian news aggregation with per-story bias distribution",
			"endpoints": map[string]string{
				"news":          "/api/news?limit=<n>&category=<slug>",
				"news_rss":      "/api/news.rss?limit=<n>&category=<slug>",
				"refresh":       "/api/cron/refresh-news",
				"analyze_voice": "/api/analyze-voice?name=<name>",
				"sources":       "/api/sources",
				"health":        "/health",
				"stats":         "/stats",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// authMiddleware accepts only "Authorization: Bearer <secret>".
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
