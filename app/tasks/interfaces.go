package tasks

import (
	"context"

	"github.com/roblanc/ClarStiri/app/news"
)

// TaskSchedulerInterface is what main needs to run background refreshes.
//
//	scheduler := NewScheduler(orchestrator, interval, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type Refresher interface {
	Refresh(ctx context.Context) (news.RefreshStats, error)
}
