package domain

import (
	"errors"
	"fmt"

	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/shopspring/decimal"
)

const (
	// AmountPlaces is the display precision of computed destination amounts.
	AmountPlaces = 8

	DefaultSlippage = 0.5
	MaxSlippage     = 50.0
	MaxPriceImpact  = 2.0
)

// FeeRate is the flat fee estimate applied to the source amount.
var FeeRate = decimal.RequireFromString("0.003")

// ErrNotQuotable means a token is missing or the amount is not strictly positive.
var ErrNotQuotable = errors.New("quote needs both tokens and a positive amount")

// SwapQuote is ephemeral. Only its receiving address is filled in after build.
type SwapQuote struct {
	From             tokenDomain.Token `json:"from_token"`
	To               tokenDomain.Token `json:"to_token"`
	FromAmount       string            `json:"from_amount"`
	ToAmount         string            `json:"to_amount"`
	ExchangeRate     float64           `json:"exchange_rate"`
	PriceImpact      float64           `json:"price_impact"`
	Fees             decimal.Decimal   `json:"fees"`
	Slippage         float64           `json:"slippage"`
	ReceivingAddress string            `json:"receiving_address,omitempty"`
}

// ValidationError blocks submission and is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CheckMinimum applies the source token's minimum-swap threshold.
func CheckMinimum(from tokenDomain.Token, amount decimal.Decimal) error {
	if from.MinimumSwap == nil || !amount.LessThan(*from.MinimumSwap) {
		return nil
	}
	return &ValidationError{
		Field:   "from_amount",
		Message: fmt.Sprintf("Minimum swap amount is %s %s", from.MinimumSwap.String(), from.Symbol),
	}
}
