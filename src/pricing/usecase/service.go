package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/MMN3003/bridgeswap/src/cache"
	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/pricing/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Service is the rate oracle. GetPrice and GetExchangeRate never fail outward.
type Service struct {
	feed   domain.PriceFeed
	cache  *cache.TTL[float64]
	logger *logger.Logger
	tracer trace.Tracer

	mu     sync.RWMutex
	custom map[string]float64
}

func NewService(feed domain.PriceFeed, c clock.Clock, ttl time.Duration, logg *logger.Logger) *Service {
	return &Service{
		feed:   feed,
		cache:  cache.NewTTL[float64](c, ttl),
		logger: logg,
		tracer: otel.Tracer("bridgeswap/pricing"),
		custom: domain.DefaultCustomPrices(),
	}
}

func (s *Service) GetPrice(ctx context.Context, symbol string) float64 {
	if price, ok := s.cache.Get(symbol); ok {
		return price
	}
	if price, ok := s.customPrice(symbol); ok {
		s.cache.Set(symbol, price)
		return price
	}

	ctx, span := s.tracer.Start(ctx, "pricing.fetch", trace.WithAttributes(attribute.String("symbol", symbol)))
	defer span.End()

	coinID, ok := domain.FeedID(symbol)
	if !ok {
		s.logger.Warnf("no feed id for %s, using fallback price", symbol)
		span.SetAttributes(attribute.Bool("fallback", true))
		return domain.FallbackPrice(symbol)
	}
	price, err := s.feed.USDPrice(ctx, coinID)
	if err == nil && price <= 0 {
		err = domain.ErrInvalidPrice
	}
	if err != nil {
		s.logger.Errorf("price fetch for %s failed: %v", symbol, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fallback")
		return domain.FallbackPrice(symbol)
	}
	s.cache.Set(symbol, price)
	return price
}

// GetExchangeRate returns how many units of to one unit of from buys.
// Pairs involving the manual symbol use its curated price directly.
func (s *Service) GetExchangeRate(ctx context.Context, from, to string) float64 {
	if from == domain.ManualSymbol || to == domain.ManualSymbol {
		manual := s.manualPrice()
		if from == domain.ManualSymbol {
			return manual / s.GetPrice(ctx, to)
		}
		return s.GetPrice(ctx, from) / manual
	}

	var fromPrice, toPrice float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fromPrice = s.GetPrice(gctx, from)
		return nil
	})
	g.Go(func() error {
		toPrice = s.GetPrice(gctx, to)
		return nil
	})
	_ = g.Wait()
	return fromPrice / toPrice
}

// SetCustomPrice overrides a curated price and drops its cache entry.
func (s *Service) SetCustomPrice(symbol string, price float64) error {
	if price <= 0 {
		return domain.ErrInvalidPrice
	}
	symbol = strings.TrimSpace(symbol)
	s.mu.Lock()
	s.custom[symbol] = price
	s.mu.Unlock()
	s.cache.Delete(symbol)
	s.logger.Infof("%s price updated to %v USD", symbol, price)
	return nil
}

func (s *Service) ClearCache() {
	s.cache.Clear()
}

func (s *Service) customPrice(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.custom[symbol]
	return p, ok
}

func (s *Service) manualPrice() float64 {
	if p, ok := s.customPrice(domain.ManualSymbol); ok {
		return p
	}
	return domain.FallbackPrice(domain.ManualSymbol)
}
