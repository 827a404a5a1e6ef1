package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	tokenRepo "github.com/MMN3003/bridgeswap/src/token/repository"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ domain.TransactionRepository = (*TransactionRepo)(nil)

// ---------- TRANSACTIONS ----------
// Tokens are referenced by row id; linking resolves (symbol, network) first.
type Transaction struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primarykey"`
	TrackerID           string          `gorm:"not null;uniqueIndex"`
	UserAddress         *string         `gorm:"index"`
	FromTokenID         uuid.UUID       `gorm:"type:uuid;not null"`
	FromToken           tokenRepo.Token `gorm:"foreignKey:FromTokenID"`
	ToTokenID           uuid.UUID       `gorm:"type:uuid;not null"`
	ToToken             tokenRepo.Token `gorm:"foreignKey:ToTokenID"`
	FromAmount          string          `gorm:"not null"`
	ToAmount            string          `gorm:"not null"`
	Status              string          `gorm:"not null;index"`
	TxHash              *string
	DepositAddress      *string
	ReceivingAddress    *string
	EstimatedCompletion *time.Time
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time
}

// SwapQuote is the quote snapshot stored with each transaction.
type SwapQuote struct {
	ID            uuid.UUID       `gorm:"type:uuid;primarykey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Transaction   Transaction     `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	ExchangeRate  float64         `gorm:"not null"`
	PriceImpact   float64         `gorm:"not null"`
	Fees          decimal.Decimal `gorm:"type:numeric;not null"`
	Slippage      float64         `gorm:"not null"`
	CreatedAt     time.Time
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (q *SwapQuote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// ---------- REPO ----------

type TransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, log *logger.Logger) *TransactionRepo {
	if err := db.AutoMigrate(&Transaction{}, &SwapQuote{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	return &TransactionRepo{db: db, log: log}
}

// ---------- TRANSACTION CRUD ----------

// Create inserts the transaction row and its quote snapshot in one DB transaction.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction, fromTokenID, toTokenID string, snap domain.QuoteSnapshot) (*domain.Transaction, error) {
	fromID, err := uuid.Parse(fromTokenID)
	if err != nil {
		return nil, fmt.Errorf("from token id: %w", err)
	}
	toID, err := uuid.Parse(toTokenID)
	if err != nil {
		return nil, fmt.Errorf("to token id: %w", err)
	}
	model := Transaction{
		TrackerID:           t.TrackerID,
		UserAddress:         t.OwnerAddress,
		FromTokenID:         fromID,
		ToTokenID:           toID,
		FromAmount:          t.FromAmount,
		ToAmount:            t.ToAmount,
		Status:              string(t.Status),
		TxHash:              t.TxHash,
		DepositAddress:      t.DepositAddress,
		ReceivingAddress:    t.ReceivingAddress,
		EstimatedCompletion: t.EstimatedCompletion,
		CreatedAt:           t.CreatedAt,
	}
	if id, err := uuid.Parse(t.ID); err == nil {
		model.ID = id
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&model).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		quote := SwapQuote{
			TransactionID: model.ID,
			ExchangeRate:  snap.ExchangeRate,
			PriceImpact:   snap.PriceImpact,
			Fees:          snap.Fees,
			Slippage:      snap.Slippage,
		}
		if err := tx.Omit(clause.Associations).Create(&quote).Error; err != nil {
			return fmt.Errorf("insert quote snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, model.ID.String())
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return r.first(ctx, "transactions.id = ?", uid)
}

func (r *TransactionRepo) GetByTrackerID(ctx context.Context, trackerID string) (*domain.Transaction, error) {
	return r.first(ctx, "transactions.tracker_id = ?", trackerID)
}

// List returns newest first, optionally filtered by owner address.
func (r *TransactionRepo) List(ctx context.Context, owner string) ([]domain.Transaction, error) {
	q := r.db.WithContext(ctx).
		Preload("FromToken").
		Preload("ToToken").
		Order("created_at DESC")
	if owner != "" {
		q = q.Where("user_address = ?", owner)
	}
	var models []Transaction
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toDomainTransactions(models), nil
}

// Update writes only status, tx hash and estimated completion.
func (r *TransactionRepo) Update(ctx context.Context, id string, p domain.Patch) (*domain.Transaction, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", uid).Updates(patchColumns(p, time.Now().UTC()))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepo) TrackerIDExists(ctx context.Context, trackerID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("tracker_id = ?", trackerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ---------- HELPERS ----------

// patchColumns is the column form of domain.Transaction.Apply.
func patchColumns(p domain.Patch, now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.TxHash != nil {
		cols["tx_hash"] = *p.TxHash
	}
	if p.EstimatedCompletion != nil {
		cols["estimated_completion"] = *p.EstimatedCompletion
	}
	return cols
}

func (r *TransactionRepo) first(ctx context.Context, query string, args ...interface{}) (*domain.Transaction, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Preload("FromToken").
		Preload("ToToken").
		Where(query, args...).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainTransaction(&t), nil
}

func (r *TransactionRepo) toDomainTransaction(t *Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:                  t.ID.String(),
		TrackerID:           t.TrackerID,
		FromToken:           *tokenRepo.ToDomainToken(&t.FromToken),
		ToToken:             *tokenRepo.ToDomainToken(&t.ToToken),
		FromAmount:          t.FromAmount,
		ToAmount:            t.ToAmount,
		Status:              domain.Status(t.Status),
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		TxHash:              t.TxHash,
		DepositAddress:      t.DepositAddress,
		ReceivingAddress:    t.ReceivingAddress,
		OwnerAddress:        t.UserAddress,
		EstimatedCompletion: t.EstimatedCompletion,
	}
}

func (r *TransactionRepo) toDomainTransactions(ts []Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(ts))
	for i := range ts {
		out = append(out, *r.toDomainTransaction(&ts[i]))
	}
	return out
}
