package cfg

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

var cacheBackends = []string{"memory", "redis", "sqlite"}

type rawCfg struct {
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" description:"YAML source catalog (defaults to the built-in Romanian catalog)"`

	CacheBackend  string `long:"cache-backend" env:"CACHE_BACKEND" default:"memory" choice:"memory" choice:"redis" choice:"sqlite" description:"Where the aggregated stories are cached"`
	RedisAddr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
	RedisPassword string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
	RedisDB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`
	SQLitePath    string `long:"sqlite-path" env:"SQLITE_PATH" default:"./clarstiri.db" description:"SQLite cache file"`
	PartialTTL    int    `long:"partial-ttl" env:"PARTIAL_CACHE_TTL" default:"120" description:"Cache TTL in seconds for cold-start partial results"`
	FullTTL       int    `long:"full-ttl" env:"FULL_CACHE_TTL" default:"600" description:"Cache TTL in seconds for full refresh results"`

	FetchTimeout     int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"3000" description:"Per-feed fetch timeout in milliseconds"`
	FetchConcurrency int    `long:"fetch-concurrency" env:"FETCH_CONCURRENCY" default:"0" description:"Maximum concurrent feed fetches (0 for unbounded)"`
	BiasWeights      string `long:"bias-weights" env:"BIAS_WEIGHTS" default:"default" choice:"default" choice:"blended" description:"Source bias weight table"`
	ContentAnalyzer  string `long:"content-analyzer" env:"CONTENT_ANALYZER" default:"off" choice:"off" choice:"quick" choice:"detailed" description:"Article text bias analyzer"`

	RefreshInterval int `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"120" description:"Background refresh interval in seconds (0 disables)"`
	WorkerCount     int `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of background workers"`

	CronSecret  string `long:"cron-secret" env:"CRON_SECRET" description:"Bearer token required by the refresh endpoint in production"`
	Environment string `long:"environment" env:"APP_ENV" default:"development" description:"Deployment environment (production enables refresh authorization)"`

	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for statement extraction (optional)"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.0-flash-001" description:"Gemini model name"`

	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; ClarStiri/1.0)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Europe/Bucharest" description:"Timezone for timestamps"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	cfg, err := Parse(nil)
	if err != nil || cfg == nil {
		return cfg, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

// Parse reads options from args, or from the process arguments when args
// is nil. It returns (nil, nil) when help was requested.
func Parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:             raw.Port,
		SourcesFile:      raw.SourcesFile,
		CacheBackend:     raw.CacheBackend,
		RedisAddr:        raw.RedisAddr,
		RedisPassword:    raw.RedisPassword,
		RedisDB:          raw.RedisDB,
		SQLitePath:       raw.SQLitePath,
		PartialTTL:       time.Duration(raw.PartialTTL) * time.Second,
		FullTTL:          time.Duration(raw.FullTTL) * time.Second,
		FetchTimeout:     time.Duration(raw.FetchTimeout) * time.Millisecond,
		FetchConcurrency: raw.FetchConcurrency,
		BiasWeights:      raw.BiasWeights,
		ContentAnalyzer:  raw.ContentAnalyzer,
		RefreshInterval:  time.Duration(raw.RefreshInterval) * time.Second,
		WorkerCount:      raw.WorkerCount,
		CronSecret:       raw.CronSecret,
		Environment:      raw.Environment,
		GeminiAPIKey:     raw.GeminiAPIKey,
		GeminiModel:      raw.GeminiModel,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if !slices.Contains(cacheBackends, cfg.CacheBackend) {
		return fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if cfg.PartialTTL <= 0 || cfg.FullTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	return nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
