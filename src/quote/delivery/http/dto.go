package http

import (
	"github.com/MMN3003/bridgeswap/src/quote/domain"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequestBody is the payload to price a swap
// swagger:model CreateQuoteRequestBody
type CreateQuoteRequestBody struct {
	FromSymbol  string   `json:"from_symbol" binding:"required"`
	FromNetwork string   `json:"from_network" binding:"required"`
	ToSymbol    string   `json:"to_symbol" binding:"required"`
	ToNetwork   string   `json:"to_network" binding:"required"`
	Amount      string   `json:"amount" binding:"required"`
	Slippage    *float64 `json:"slippage,omitempty"`
	Flip        bool     `json:"flip,omitempty"`
}

// QuoteResponse is a computed quote plus its submission eligibility
// swagger:model QuoteResponse
type QuoteResponse struct {
	FromSymbol      string          `json:"from_symbol"`
	FromNetwork     string          `json:"from_network"`
	ToSymbol        string          `json:"to_symbol"`
	ToNetwork       string          `json:"to_network"`
	FromAmount      string          `json:"from_amount"`
	ToAmount        string          `json:"to_amount"`
	ExchangeRate    float64         `json:"exchange_rate"`
	PriceImpact     float64         `json:"price_impact"`
	Fees            decimal.Decimal `json:"fees"`
	Slippage        float64         `json:"slippage"`
	Eligible        bool            `json:"eligible"`
	ValidationError string          `json:"validation_error,omitempty"`
}

func fromQuoteDomain(q *domain.SwapQuote, validationErr error) QuoteResponse {
	resp := QuoteResponse{
		FromSymbol:   q.From.Symbol,
		FromNetwork:  string(q.From.Network),
		ToSymbol:     q.To.Symbol,
		ToNetwork:    string(q.To.Network),
		FromAmount:   q.FromAmount,
		ToAmount:     q.ToAmount,
		ExchangeRate: q.ExchangeRate,
		PriceImpact:  q.PriceImpact,
		Fees:         q.Fees,
		Slippage:     q.Slippage,
		Eligible:     validationErr == nil,
	}
	if validationErr != nil {
		resp.ValidationError = validationErr.Error()
	}
	return resp
}
