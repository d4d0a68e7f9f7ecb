package scheduler

import (
	"context"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/go-co-op/gocron"
)

// Refresher is anything that can run one full refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler re-runs the refresh cycle on a fixed interval so the cache does
// not go stale between manual POST /countries/refresh calls.
type Scheduler struct {
	Cron *gocron.Scheduler
}

func New() *Scheduler {
	return &Scheduler{
		Cron: gocron.NewScheduler(time.UTC),
	}
}

// StartRefreshJob schedules a periodic refresh and starts the scheduler
// asynchronously. Errors from individual cycles are logged, not propagated;
// the next tick tries again.
func (s *Scheduler) StartRefreshJob(ctx context.Context, interval time.Duration, r Refresher) error {
	_, err := s.Cron.Every(interval).Do(func() {
		count, err := r.Refresh(ctx)
		if err != nil {
			logger.Error("Scheduled refresh failed: %v", err)
			return
		}
		logger.Info("Scheduled refresh complete, %d countries cached", count)
	})
	if err != nil {
		return err
	}

	s.Cron.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.Cron.Stop()
}
