package cron

import (
	"context"
	"errors"
	"time"

	"github.com/MMN3003/bridgeswap/src/cron/domain"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/google/uuid"
)

const releaseTimeout = 5 * time.Second

// RefreshLock lets one instance at a time run a scheduled stats refresh.
type RefreshLock interface {
	Hold(ctx context.Context, job uuid.UUID, fn func(context.Context)) bool
}

var _ RefreshLock = (*LeaseLock)(nil)

// LeaseLock backs RefreshLock with the cron lease rows.
type LeaseLock struct {
	leases domain.CronUseCase
	logger *logger.Logger
}

func NewLeaseLock(leases domain.CronUseCase, logg *logger.Logger) *LeaseLock {
	return &LeaseLock{leases: leases, logger: logg}
}

// Hold runs fn while holding the job's lease and reports whether it ran.
// A lease held elsewhere skips the tick quietly. The lease is released even
// when ctx is cancelled by the time fn returns.
func (l *LeaseLock) Hold(ctx context.Context, job uuid.UUID, fn func(context.Context)) bool {
	log := l.logger.WithField("job", job.String())
	if err := l.leases.CreateCron(ctx, job); err != nil {
		if !errors.Is(err, domain.ErrLocked) {
			log.Warnf("skipping tick, lease unavailable: %v", err)
		}
		return false
	}
	defer func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := l.leases.DeleteCron(rctx, job); err != nil {
			log.Errorf("lease not released: %v", err)
		}
	}()
	fn(ctx)
	return true
}
