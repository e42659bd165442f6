package api

import (
	"context"
	"time"

	"github.com/roblanc/ClarStiri/app/news"
	"github.com/roblanc/ClarStiri/app/source"
	"github.com/roblanc/ClarStiri/app/story"
	"github.com/roblanc/ClarStiri/app/voices"
)

const DefaultLimit = 50

type NewsService interface {
	Get(ctx context.Context, q news.Query) (news.Result, error)
	Refresh(ctx context.Context) (news.RefreshStats, error)
	Stats() news.Stats
}

type StatementsService interface {
	Statements(ctx context.Context, name string) ([]voices.Statement, error)
}

type SourceCatalog interface {
	All() []source.Source
	IsPriority(id string) bool
}

var (
	_ NewsService       = (*news.Orchestrator)(nil)
	_ StatementsService = (*voices.Service)(nil)
	_ SourceCatalog     = (*source.Registry)(nil)
)

type GeneratorInterface interface {
	Run(channel story.Channel, stories []story.Story, now time.Time) (string, error)
}

var _ GeneratorInterface = (*story.Generator)(nil)

type Handler struct {
	news      NewsService
	voices    StatementsService
	sources   SourceCatalog
	generator GeneratorInterface
	version   string
}

type NewsResponse struct {
	Success      bool          `json:"success"`
	Data         []story.Story `json:"data"`
	FromCache    bool          `json:"fromCache"`
	IsPartial    bool          `json:"isPartial,omitempty"`
	Message      string        `json:"message,omitempty"`
	CachedAt     string        `json:"cachedAt,omitempty"`
	FetchedAt    string        `json:"fetchedAt,omitempty"`
	TotalStories int           `json:"totalStories,omitempty"`
}

type RefreshResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Stats   *news.RefreshStats `json:"stats,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type SourceInfo struct {
	source.Source
	Priority bool `json:"priority"`
}
