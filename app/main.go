package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/roblanc/ClarStiri/app/api"
	"github.com/roblanc/ClarStiri/app/bias"
	"github.com/roblanc/ClarStiri/app/cache"
	"github.com/roblanc/ClarStiri/app/cfg"
	"github.com/roblanc/ClarStiri/app/feed"
	"github.com/roblanc/ClarStiri/app/gemini"
	"github.com/roblanc/ClarStiri/app/news"
	"github.com/roblanc/ClarStiri/app/source"
	"github.com/roblanc/ClarStiri/app/story"
	"github.com/roblanc/ClarStiri/app/tasks"
	"github.com/roblanc/ClarStiri/app/voices"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: failed to load .env file: %v\n", err)
	}

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting ClarStiri", "version", appCfg.Version, "environment", appCfg.Environment)

	registry, err := loadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "total", registry.Len(), "priority", len(registry.Priority()))

	store, closeStore, err := openStore(appCfg)
	if err != nil {
		slog.Error("Failed to open cache", "backend", appCfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore.Close()

	weights, err := bias.TableByName(appCfg.BiasWeights)
	if err != nil {
		slog.Error("Invalid bias weights", "error", err)
		os.Exit(1)
	}
	analyzer, err := bias.NewAnalyzer(appCfg.ContentAnalyzer)
	if err != nil {
		slog.Error("Invalid content analyzer", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent, appCfg.FetchTimeout, appCfg.FetchConcurrency)
	aggregator := story.NewAggregator(story.WithWeights(weights), story.WithAnalyzer(analyzer))
	orchestrator := news.NewOrchestrator(registry, fetcher, aggregator, store, appCfg.PartialTTL, appCfg.FullTTL)

	var extractor voices.Extractor
	if appCfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		defer geminiClient.Close()
		extractor = geminiClient
	} else {
		slog.Info("Statement extraction disabled (GEMINI_API_KEY not set)")
	}
	statements := voices.NewService(fetcher, extractor)

	scheduler := tasks.NewScheduler(orchestrator, appCfg.RefreshInterval, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(orchestrator, statements, registry, appCfg.Version)
	server := api.NewServer(handler, api.ServerOptions{
		CronSecret:        appCfg.CronSecret,
		RequireCronSecret: appCfg.RequireCronSecret(),
	})

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}

func loadSources(path string) (*source.Registry, error) {
	if path == "" {
		return source.Default()
	}
	return source.LoadFile(path)
}

func openStore(c *cfg.Cfg) (cache.Store, io.Closer, error) {
	switch c.CacheBackend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r, err := cache.NewRedis(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case "sqlite":
		s, err := cache.NewSQLite(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		m := cache.NewMemory()
		m.StartCleanup(context.Background(), time.Minute)
		return m, m, nil
	}
}
