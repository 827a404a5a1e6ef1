package usecase

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/quote/domain"
	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/shopspring/decimal"
)

// RateSource is satisfied by the pricing service.
type RateSource interface {
	GetExchangeRate(ctx context.Context, from, to string) float64
}

type Service struct {
	rates  RateSource
	rand   func() float64
	logger *logger.Logger
}

type Option func(*Service)

// WithRand replaces the price-impact source; it must return values in [0, 1).
func WithRand(f func() float64) Option { return func(s *Service) { s.rand = f } }

func NewService(rates RateSource, logg *logger.Logger, opts ...Option) *Service {
	s := &Service{rates: rates, rand: rand.Float64, logger: logg}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Build computes a quote. A nil slippage means the default.
func (s *Service) Build(ctx context.Context, from, to *tokenDomain.Token, amount string, slippage *float64) (*domain.SwapQuote, error) {
	if from == nil || to == nil {
		return nil, domain.ErrNotQuotable
	}
	fromAmount, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !fromAmount.IsPositive() {
		return nil, domain.ErrNotQuotable
	}
	slip := domain.DefaultSlippage
	if slippage != nil {
		slip = *slippage
	}
	if slip < 0 || slip > domain.MaxSlippage {
		return nil, &domain.ValidationError{Field: "slippage", Message: "Slippage must be between 0 and 50 percent"}
	}

	rate := s.rates.GetExchangeRate(ctx, from.Symbol, to.Symbol)
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		s.logger.Errorf("unusable rate %v for %s/%s", rate, from.Symbol, to.Symbol)
		return nil, domain.ErrNotQuotable
	}
	toAmount := fromAmount.Mul(decimal.NewFromFloat(rate))

	q := &domain.SwapQuote{
		From:         *from,
		To:           *to,
		FromAmount:   strings.TrimSpace(amount),
		ToAmount:     toAmount.StringFixed(domain.AmountPlaces),
		ExchangeRate: rate,
		PriceImpact:  s.rand() * domain.MaxPriceImpact,
		Fees:         fromAmount.Mul(domain.FeeRate),
		Slippage:     slip,
	}
	s.logger.Debugf("quote %s %s -> %s %s at %v", q.FromAmount, from.Symbol, q.ToAmount, to.Symbol, rate)
	return q, nil
}

// Validate reports whether q may be submitted.
func (s *Service) Validate(q *domain.SwapQuote) error {
	if q == nil {
		return domain.ErrNotQuotable
	}
	amount, err := decimal.NewFromString(q.FromAmount)
	if err != nil || !amount.IsPositive() {
		return domain.ErrNotQuotable
	}
	return domain.CheckMinimum(q.From, amount)
}

// Flip reverses direction: the old destination amount becomes the new source amount.
func (s *Service) Flip(ctx context.Context, q *domain.SwapQuote) (*domain.SwapQuote, error) {
	if q == nil {
		return nil, domain.ErrNotQuotable
	}
	slip := q.Slippage
	return s.Build(ctx, &q.To, &q.From, q.ToAmount, &slip)
}
