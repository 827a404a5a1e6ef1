package http

import (
	"time"

	tokenHD "github.com/MMN3003/bridgeswap/src/token/delivery/http"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

// CreateTransactionRequestBody accepts a freshly built quote
// swagger:model CreateTransactionRequestBody
type CreateTransactionRequestBody struct {
	FromSymbol       string   `json:"from_symbol" binding:"required"`
	FromNetwork      string   `json:"from_network" binding:"required"`
	ToSymbol         string   `json:"to_symbol" binding:"required"`
	ToNetwork        string   `json:"to_network" binding:"required"`
	Amount           string   `json:"amount" binding:"required"`
	Slippage         *float64 `json:"slippage,omitempty"`
	ReceivingAddress string   `json:"receiving_address" binding:"required"`
	OwnerAddress     string   `json:"owner_address,omitempty"`
	AwaitPayment     bool     `json:"await_payment,omitempty"`
}

// FailTransactionRequestBody marks a transaction failed
// swagger:model FailTransactionRequestBody
type FailTransactionRequestBody struct {
	Reason string `json:"reason"`
}

// TransactionResponse is the external view of a transaction
// swagger:model TransactionResponse
type TransactionResponse struct {
	ID                  string                `json:"id"`
	TrackerID           string                `json:"tracker_id"`
	FromToken           tokenHD.TokenResponse `json:"from_token"`
	ToToken             tokenHD.TokenResponse `json:"to_token"`
	FromAmount          string                `json:"from_amount"`
	ToAmount            string                `json:"to_amount"`
	Status              domain.Status         `json:"status"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	TxHash              *string               `json:"tx_hash,omitempty"`
	DepositAddress      *string               `json:"deposit_address,omitempty"`
	ReceivingAddress    *string               `json:"receiving_address,omitempty"`
	EstimatedCompletion *time.Time            `json:"estimated_completion,omitempty"`
}

// ListTransactionsResponse wraps a history listing
// swagger:model ListTransactionsResponse
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ProgressResponse is the processing indicator
// swagger:model ProgressResponse
type ProgressResponse struct {
	CurrentStep      int    `json:"current_step"`
	TotalSteps       int    `json:"total_steps"`
	Label            string `json:"label"`
	Description      string `json:"description"`
	ElapsedSeconds   int    `json:"elapsed_seconds"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Countdown        string `json:"countdown"`
	Completed        bool   `json:"completed"`
}

// TrackResponse is a tracker lookup result
// swagger:model TrackResponse
type TrackResponse struct {
	State       string               `json:"state"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// DepositAddressResponse is the address the user pays into
// swagger:model DepositAddressResponse
type DepositAddressResponse struct {
	Symbol  string `json:"symbol"`
	Network string `json:"network"`
	Address string `json:"address"`
}

func fromTransactionDomain(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                  t.ID,
		TrackerID:           t.TrackerID,
		FromToken:           tokenHD.FromTokenDomain(t.FromToken),
		ToToken:             tokenHD.FromTokenDomain(t.ToToken),
		FromAmount:          t.FromAmount,
		ToAmount:            t.ToAmount,
		Status:              t.Status,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		TxHash:              t.TxHash,
		DepositAddress:      t.DepositAddress,
		ReceivingAddress:    t.ReceivingAddress,
		EstimatedCompletion: t.EstimatedCompletion,
	}
}

func fromProgressDomain(p domain.Progress) ProgressResponse {
	remaining := int(p.Remaining / time.Second)
	return ProgressResponse{
		CurrentStep:      p.CurrentStep,
		TotalSteps:       len(domain.Steps),
		Label:            p.Step.Label,
		Description:      p.Step.Description,
		ElapsedSeconds:   int(p.Elapsed / time.Second),
		RemainingSeconds: remaining,
		Countdown:        FormatCountdown(remaining),
		Completed:        p.Completed,
	}
}
