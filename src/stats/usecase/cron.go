package usecase

import (
	"context"

	cron_adapter "github.com/MMN3003/bridgeswap/src/stats/adapter/cron"
	"github.com/MMN3003/bridgeswap/src/stats/domain"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var StatsRefreshCronID = uuid.MustParse("62444ba0-b2dd-4b8f-afee-c04f7b2ab6f0")

func NewCronService(c *cron.Cron, spec string, s domain.StatsUseCase, lock cron_adapter.RefreshLock) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		handleStatsRefresh(context.Background(), s, lock)
	})
}

// handleStatsRefresh reports whether this instance ran the job.
func handleStatsRefresh(ctx context.Context, s domain.StatsUseCase, lock cron_adapter.RefreshLock) bool {
	return lock.Hold(ctx, StatsRefreshCronID, func(ctx context.Context) {
		_, _ = s.Refresh(ctx)
	})
}
