package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/stats/domain"
	"github.com/shopspring/decimal"
)

var _ domain.StatsUseCase = (*Service)(nil)

type Service struct {
	repo   domain.VolumeRepository
	prices domain.PriceSource
	clock  clock.Clock
	logger *logger.Logger

	mu       sync.RWMutex
	snapshot domain.Snapshot
}

func NewService(repo domain.VolumeRepository, prices domain.PriceSource, c clock.Clock, logg *logger.Logger) *Service {
	if c == nil {
		c = clock.Real{}
	}
	return &Service{repo: repo, prices: prices, clock: c, logger: logg}
}

// Refresh recomputes the trailing-window volume. On failure the previous
// snapshot is kept.
func (s *Service) Refresh(ctx context.Context) (domain.Snapshot, error) {
	now := s.clock.Now()
	since := now.Add(-domain.Window)
	rows, err := s.repo.VolumeBySymbol(ctx, since, domain.CountedStatuses)
	if err != nil {
		s.logger.Errorf("stats refresh failed: %v", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.snapshot, err
	}

	snap := domain.Snapshot{
		TotalVolume: decimal.Zero,
		AvgSwapSize: decimal.Zero,
		BySymbol:    make([]domain.SymbolStat, 0, len(rows)),
		Since:       since,
		UpdatedAt:   now,
	}
	for _, r := range rows {
		price := decimal.NewFromFloat(s.prices.GetPrice(ctx, r.Symbol))
		usd := r.Amount.Mul(price)
		snap.TotalVolume = snap.TotalVolume.Add(usd)
		snap.TotalSwaps += r.Swaps
		snap.BySymbol = append(snap.BySymbol, domain.SymbolStat{
			Symbol:    r.Symbol,
			Amount:    r.Amount,
			Swaps:     r.Swaps,
			USDVolume: usd.Round(2),
		})
	}
	sort.SliceStable(snap.BySymbol, func(i, j int) bool {
		return snap.BySymbol[i].USDVolume.GreaterThan(snap.BySymbol[j].USDVolume)
	})
	if snap.TotalSwaps > 0 {
		snap.AvgSwapSize = snap.TotalVolume.Div(decimal.NewFromInt(snap.TotalSwaps)).Round(2)
	}
	snap.TotalVolume = snap.TotalVolume.Round(2)

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	s.logger.Infof("stats refreshed: volume=%s swaps=%d", snap.TotalVolume, snap.TotalSwaps)
	return snap, nil
}

// Snapshot serves the last refresh, computing one on first use.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap.Loaded() {
		return snap, nil
	}
	return s.Refresh(ctx)
}
