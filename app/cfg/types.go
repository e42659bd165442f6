package cfg

import "time"

type Cfg struct {
	// HTTP server
	Port string

	// Sources
	SourcesFile string

	// Cache
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
	PartialTTL    time.Duration
	FullTTL       time.Duration

	// Fetching and aggregation
	FetchTimeout     time.Duration
	FetchConcurrency int
	BiasWeights      string
	ContentAnalyzer  string

	// Background refresh
	RefreshInterval time.Duration
	WorkerCount     int

	// Access control
	CronSecret  string
	Environment string

	// Statements
	GeminiAPIKey string
	GeminiModel  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// RequireCronSecret reports whether the refresh endpoint must check the bearer token.
func (c *Cfg) RequireCronSecret() bool {
	return c.CronSecret != "" && c.Environment == "production"
}
