package http

import (
	"time"

	"github.com/MMN3003/bridgeswap/src/stats/domain"
)

// SymbolStatResponse is one row of the per-symbol breakdown
// swagger:model SymbolStatResponse
type SymbolStatResponse struct {
	Symbol    string `json:"symbol"`
	Amount    string `json:"amount"`
	Swaps     int64  `json:"swaps"`
	USDVolume string `json:"usd_volume"`
}

// StatsResponse is the 24h volume panel
// swagger:model StatsResponse
type StatsResponse struct {
	TotalVolume        string               `json:"total_volume"`
	TotalVolumeDisplay string               `json:"total_volume_display"`
	TotalSwaps         int64                `json:"total_swaps"`
	TotalSwapsDisplay  string               `json:"total_swaps_display"`
	AvgSwapSize        string               `json:"avg_swap_size"`
	AvgSwapSizeDisplay string               `json:"avg_swap_size_display"`
	BySymbol           []SymbolStatResponse `json:"by_symbol"`
	Since              time.Time            `json:"since"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func fromSnapshotDomain(s domain.Snapshot) StatsResponse {
	resp := StatsResponse{
		TotalVolume:        s.TotalVolume.StringFixed(2),
		TotalVolumeDisplay: domain.FormatVolume(s.TotalVolume),
		TotalSwaps:         s.TotalSwaps,
		TotalSwapsDisplay:  domain.FormatNumber(s.TotalSwaps),
		AvgSwapSize:        s.AvgSwapSize.StringFixed(2),
		AvgSwapSizeDisplay: domain.FormatCurrency(s.AvgSwapSize),
		BySymbol:           make([]SymbolStatResponse, 0, len(s.BySymbol)),
		Since:              s.Since,
		UpdatedAt:          s.UpdatedAt,
	}
	for _, b := range s.BySymbol {
		resp.BySymbol = append(resp.BySymbol, SymbolStatResponse{
			Symbol:    b.Symbol,
			Amount:    b.Amount.String(),
			Swaps:     b.Swaps,
			USDVolume: b.USDVolume.StringFixed(2),
		})
	}
	return resp
}
