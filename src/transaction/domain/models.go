package domain

import (
	"errors"
	"time"

	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
)

type Status string

const (
	StatusAwaitingPayment  Status = "awaiting_payment"
	StatusPaymentConfirmed Status = "payment_confirmed"
	StatusProcessing       Status = "processing"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
	// StatusPending is a legacy alias of processing, kept for display.
	StatusPending Status = "pending"
)

const (
	// EstimatedCompletionWindow is added to the creation time on accept.
	EstimatedCompletionWindow = 15 * time.Minute
	// PaymentWindow bounds how long an awaiting_payment transaction accepts a confirmation.
	PaymentWindow = 15 * time.Minute
)

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrTokenNotLinked     = errors.New("token not found in store")
	ErrTrackerIDTaken     = errors.New("could not allocate a unique tracker id")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentWindowEnded = errors.New("payment window has ended")
	ErrNotProcessing      = errors.New("transaction has no active processing run")
)

func (s Status) rank() int {
	switch s {
	case StatusAwaitingPayment:
		return 0
	case StatusPaymentConfirmed:
		return 1
	case StatusProcessing, StatusPending:
		return 2
	case StatusCompleted:
		return 3
	}
	return -1
}

func (s Status) Valid() bool {
	return s == StatusFailed || s.rank() >= 0
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition allows strictly forward moves along the happy path, plus
// failed from any non-terminal status. Processing and its pending alias are
// the same stage, so moving between them is not progress.
func (s Status) CanTransition(to Status) bool {
	if s.Terminal() || !to.Valid() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	return to.rank() > s.rank()
}

// stage orders statuses for reconciliation. Both terminal statuses sit at the
// top so neither can be replaced by an earlier stage.
func (s Status) stage() int {
	if s.Terminal() {
		return StatusCompleted.rank()
	}
	return s.rank()
}

// Transaction is append-mostly: after creation only Status, TxHash and
// EstimatedCompletion change.
type Transaction struct {
	ID                  string            `json:"id"`
	TrackerID           string            `json:"tracker_id"`
	FromToken           tokenDomain.Token `json:"from_token"`
	ToToken             tokenDomain.Token `json:"to_token"`
	FromAmount          string            `json:"from_amount"`
	ToAmount            string            `json:"to_amount"`
	Status              Status            `json:"status"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	TxHash              *string           `json:"tx_hash,omitempty"`
	DepositAddress      *string           `json:"deposit_address,omitempty"`
	ReceivingAddress    *string           `json:"receiving_address,omitempty"`
	OwnerAddress        *string           `json:"owner_address,omitempty"`
	EstimatedCompletion *time.Time        `json:"estimated_completion,omitempty"`
}

// Patch carries the mutable fields. Nil means unchanged.
type Patch struct {
	Status              *Status
	TxHash              *string
	EstimatedCompletion *time.Time
}

// Supersedes reports whether t should replace current, another copy of the
// same transaction. The further stage wins; on the same stage the later
// update wins and ties go to t.
func (t Transaction) Supersedes(current Transaction) bool {
	if a, b := t.Status.stage(), current.Status.stage(); a != b {
		return a > b
	}
	return !t.UpdatedAt.Before(current.UpdatedAt)
}

// Apply returns a copy of t with p applied and UpdatedAt set to now.
func (t Transaction) Apply(p Patch, now time.Time) Transaction {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.TxHash != nil {
		h := *p.TxHash
		t.TxHash = &h
	}
	if p.EstimatedCompletion != nil {
		e := *p.EstimatedCompletion
		t.EstimatedCompletion = &e
	}
	t.UpdatedAt = now
	return t
}
