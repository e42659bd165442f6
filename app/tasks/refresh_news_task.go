package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roblanc/ClarStiri/app/news"
)

type RefreshNewsTask struct {
	Task
	refresher Refresher
}

func NewRefreshNewsTask(refresher Refresher) *RefreshNewsTask {
	return &RefreshNewsTask{
		Task:      NewTask(TaskTypeRefreshNews, news.CacheKey),
		refresher: refresher,
	}
}

func (t *RefreshNewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stats, err := t.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh news: %w", err)
	}

	slog.Info("Task completed", "type", string(t.Type), "id", t.ID, "articles", stats.NewsItems, "stories", stats.AggregatedStories, "duration", t.GetDuration().String())

	return nil
}
