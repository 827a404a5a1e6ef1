package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Window is the period the volume panel covers.
const Window = 24 * time.Hour

// CountedStatuses are the statuses whose transactions contribute to volume.
// Awaiting-payment and failed transactions never moved funds.
var CountedStatuses = []string{"payment_confirmed", "processing", "pending", "completed"}

// SymbolVolume is the raw sum of source amounts for one symbol.
type SymbolVolume struct {
	Symbol string
	Amount decimal.Decimal
	Swaps  int64
}

type SymbolStat struct {
	Symbol    string          `json:"symbol"`
	Amount    decimal.Decimal `json:"amount"`
	Swaps     int64           `json:"swaps"`
	USDVolume decimal.Decimal `json:"usd_volume"`
}

type Snapshot struct {
	TotalVolume decimal.Decimal
	TotalSwaps  int64
	AvgSwapSize decimal.Decimal
	BySymbol    []SymbolStat
	Since       time.Time
	UpdatedAt   time.Time
}

func (s Snapshot) Loaded() bool { return !s.UpdatedAt.IsZero() }

type VolumeRepository interface {
	VolumeBySymbol(ctx context.Context, since time.Time, statuses []string) ([]SymbolVolume, error)
}

type PriceSource interface {
	GetPrice(ctx context.Context, symbol string) float64
}

type StatsUseCase interface {
	Refresh(ctx context.Context) (Snapshot, error)
	Snapshot(ctx context.Context) (Snapshot, error)
}
