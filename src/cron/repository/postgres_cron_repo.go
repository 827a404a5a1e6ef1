package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MMN3003/bridgeswap/src/cron/domain"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ domain.CronRepository = (*CronRepo)(nil)

// ---------- CRON LOCKS ----------
// Deletes are unscoped: a soft-deleted row would still block the primary key.
type Cron struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ---------- REPO ----------

type CronRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCronRepo(db *gorm.DB, log *logger.Logger) *CronRepo {
	if err := db.AutoMigrate(&Cron{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &CronRepo{db: db, log: log}
}

// ---------- CRUD ----------

func (r *CronRepo) SaveCron(ctx context.Context, c *domain.Cron) (*domain.Cron, error) {
	model := Cron{
		ID: c.ID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrLocked
		}
		return nil, err
	}
	return toDomainCron(&model), nil
}

func (r *CronRepo) GetCronByID(ctx context.Context, id uuid.UUID) (*domain.Cron, error) {
	var c Cron
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainCron(&c), nil
}

func (r *CronRepo) DeleteCron(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&Cron{}, "id = ?", id).Error
}

// ---------- HELPERS ----------

func toDomainCron(c *Cron) *domain.Cron {
	return &domain.Cron{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
	}
}
