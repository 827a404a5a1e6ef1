package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/MMN3003/bridgeswap/src/cache"
	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/token/domain"
)

type Service struct {
	source domain.TokenSource
	cache  domain.TokenCache
	logger *logger.Logger
}

func NewService(source domain.TokenSource, c domain.TokenCache, logg *logger.Logger) *Service {
	return &Service{source: source, cache: c, logger: logg}
}

// Tokens serves the cached catalog. A degraded list from the source is served
// but not cached, so the next call goes back to the store.
func (s *Service) Tokens(ctx context.Context) []domain.Token {
	if tokens, ok := s.cache.Get(ctx); ok {
		return tokens
	}
	tokens, err := s.source.ListTokens(ctx)
	if err != nil {
		s.logger.Warnf("serving fallback tokens: %v", err)
		if len(tokens) == 0 {
			tokens = domain.FallbackTokens()
		}
		return tokens
	}
	if len(tokens) == 0 {
		s.logger.Warnf("token store is empty, serving fallback tokens")
		return domain.FallbackTokens()
	}
	s.cache.Set(ctx, tokens)
	return tokens
}

func (s *Service) Refresh(ctx context.Context) []domain.Token {
	s.cache.Invalidate(ctx)
	return s.Tokens(ctx)
}

// Find matches on (symbol, network); symbol comparison is case-insensitive.
func (s *Service) Find(ctx context.Context, symbol string, network domain.Network) (*domain.Token, bool) {
	for _, t := range s.Tokens(ctx) {
		if strings.EqualFold(t.Symbol, symbol) && t.Network == network {
			tok := t
			return &tok, true
		}
	}
	return nil, false
}

// ---------- IN-MEMORY CACHE ----------

var _ domain.TokenCache = (*MemoryCache)(nil)

const memoryCacheKey = "tokens"

type MemoryCache struct {
	ttl *cache.TTL[[]domain.Token]
}

func NewMemoryCache(c clock.Clock, ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: cache.NewTTL[[]domain.Token](c, ttl)}
}

func (m *MemoryCache) Get(_ context.Context) ([]domain.Token, bool) {
	return m.ttl.Get(memoryCacheKey)
}

func (m *MemoryCache) Set(_ context.Context, tokens []domain.Token) {
	m.ttl.Set(memoryCacheKey, tokens)
}

func (m *MemoryCache) Invalidate(_ context.Context) {
	m.ttl.Delete(memoryCacheKey)
}
