package usecase

import (
	"context"
	"time"

	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/cron/domain"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/google/uuid"
)

var _ domain.CronUseCase = (*Service)(nil)

// DefaultLease bounds how long a lock row may be held before another
// instance treats it as abandoned.
const DefaultLease = 10 * time.Minute

type Service struct {
	cronRepo domain.CronRepository
	clock    clock.Clock
	lease    time.Duration
	logger   *logger.Logger
}

func NewService(cronRepo domain.CronRepository, c clock.Clock, lease time.Duration, logg *logger.Logger) *Service {
	if c == nil {
		c = clock.Real{}
	}
	if lease <= 0 {
		lease = DefaultLease
	}
	s := &Service{
		cronRepo: cronRepo,
		clock:    c,
		lease:    lease,
		logger:   logg,
	}
	return s
}

// CreateCron takes the lock for id. A row older than the lease is left over
// from a crashed run and is replaced.
func (s *Service) CreateCron(ctx context.Context, id uuid.UUID) error {
	existing, err := s.cronRepo.GetCronByID(ctx, id)
	if err != nil {
		return err
	}
	if existing != nil {
		if s.clock.Now().Sub(existing.CreatedAt) < s.lease {
			return domain.ErrLocked
		}
		s.logger.Warnf("cron %s: releasing stale lock from %s", id, existing.CreatedAt.Format(time.RFC3339))
		if err := s.cronRepo.DeleteCron(ctx, id); err != nil {
			return err
		}
	}
	_, err = s.cronRepo.SaveCron(ctx, &domain.Cron{ID: id})
	return err
}

func (s *Service) DeleteCron(ctx context.Context, id uuid.UUID) error {
	return s.cronRepo.DeleteCron(ctx, id)
}
