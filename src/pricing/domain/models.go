package domain

import (
	"context"
	"errors"
)

const (
	// ManualSymbol is priced from the custom table, never from the feed.
	ManualSymbol = "LUIGI"
	// DefaultFallbackPrice applies to symbols with no fallback entry.
	DefaultFallbackPrice = 1.0
)

var ErrInvalidPrice = errors.New("price must be positive")

// PriceFeed is the external oracle, addressed by provider coin id.
type PriceFeed interface {
	USDPrice(ctx context.Context, coinID string) (float64, error)
}

var feedIDs = map[string]string{
	"BTC":    "bitcoin",
	"ETH":    "ethereum",
	"SOL":    "solana",
	"BNB":    "binancecoin",
	"USDT":   "tether",
	"USDT.z": "tether",
	"TETRA":  "tether",
	"PEPE":   "pepe",
	"USDC":   "usd-coin",
}

// DefaultCustomPrices seeds the manually curated table.
func DefaultCustomPrices() map[string]float64 {
	return map[string]float64{ManualSymbol: 0.002017}
}

// fallback prices are all positive so rates never divide by zero
var fallbackPrices = map[string]float64{
	"BTC":    45000,
	"ETH":    2500,
	"SOL":    100,
	"BNB":    300,
	"USDT":   1,
	"USDT.z": 1,
	"TETRA":  1,
	"LUIGI":  0.002017,
	"PEPE":   0.000001,
	"USDC":   1,
}

func FeedID(symbol string) (string, bool) {
	id, ok := feedIDs[symbol]
	return id, ok
}

func FallbackPrice(symbol string) float64 {
	if p, ok := fallbackPrices[symbol]; ok {
		return p
	}
	return DefaultFallbackPrice
}
