package domain

import (
	"context"
	"time"

	quoteDomain "github.com/MMN3003/bridgeswap/src/quote/domain"
	"github.com/shopspring/decimal"
)

// QuoteSnapshot is the part of a quote persisted next to its transaction.
type QuoteSnapshot struct {
	ExchangeRate float64
	PriceImpact  float64
	Fees         decimal.Decimal
	Slippage     float64
}

func SnapshotOf(q *quoteDomain.SwapQuote) QuoteSnapshot {
	return QuoteSnapshot{
		ExchangeRate: q.ExchangeRate,
		PriceImpact:  q.PriceImpact,
		Fees:         q.Fees,
		Slippage:     q.Slippage,
	}
}

// TransactionRepository persistence port. Lookups return nil, nil on no match.
type TransactionRepository interface {
	Create(ctx context.Context, t *Transaction, fromTokenID, toTokenID string, snap QuoteSnapshot) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetByTrackerID(ctx context.Context, trackerID string) (*Transaction, error)
	List(ctx context.Context, owner string) ([]Transaction, error)
	Update(ctx context.Context, id string, p Patch) (*Transaction, error)
	TrackerIDExists(ctx context.Context, trackerID string) (bool, error)
}

// Store is the persistence adapter as seen by the lifecycle. Every method
// reports what failed; the caller decides how to recover.
type Store interface {
	GetTransactions(ctx context.Context, owner string) ([]Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*Transaction, error)
	GetTransactionByTrackerID(ctx context.Context, trackerID string) (*Transaction, error)
	CreateTransaction(ctx context.Context, t *Transaction, q *quoteDomain.SwapQuote) (*Transaction, error)
	UpdateTransaction(ctx context.Context, id string, p Patch) (*Transaction, error)
	TrackerIDExists(ctx context.Context, trackerID string) (bool, error)
}

type EventType string

const (
	EventCreated     EventType = "transaction.created"
	EventTransition  EventType = "transaction.status_changed"
	EventStepReached EventType = "transaction.step_reached"
)

// Event is published on every lifecycle change.
type Event struct {
	Type          EventType `json:"type"`
	TransactionID string    `json:"transaction_id"`
	TrackerID     string    `json:"tracker_id"`
	From          Status    `json:"from,omitempty"`
	To            Status    `json:"to"`
	Step          int       `json:"step,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	LocalOnly     bool      `json:"local_only"`
	At            time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
