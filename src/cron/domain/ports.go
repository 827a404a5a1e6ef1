package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLocked means another instance currently holds the job's lock row.
var ErrLocked = errors.New("cron job is already running")

// Cron is a lock row. A job inserts its fixed id before running and deletes
// it afterwards, so concurrent instances skip the tick.
type Cron struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

type CronRepository interface {
	SaveCron(ctx context.Context, c *Cron) (*Cron, error)
	GetCronByID(ctx context.Context, id uuid.UUID) (*Cron, error)
	DeleteCron(ctx context.Context, id uuid.UUID) error
}

type CronUseCase interface {
	CreateCron(ctx context.Context, id uuid.UUID) error
	DeleteCron(ctx context.Context, id uuid.UUID) error
}
