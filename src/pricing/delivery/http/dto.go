package http

// RateResponse is a pairwise exchange rate
// swagger:model RateResponse
type RateResponse struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

// PriceResponse is a USD price for one symbol
// swagger:model PriceResponse
type PriceResponse struct {
	Symbol string  `json:"symbol"`
	USD    float64 `json:"usd"`
}

// SetPriceRequestBody overrides a curated price
// swagger:model SetPriceRequestBody
type SetPriceRequestBody struct {
	USD float64 `json:"usd" binding:"required"`
}
