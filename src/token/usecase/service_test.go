package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/token/domain"
)

type mockSource struct {
	tokens []domain.Token
	err    error
	calls  int
}

func (m *mockSource) ListTokens(ctx context.Context) ([]domain.Token, error) {
	m.calls++
	return m.tokens, m.err
}

func TestTokens_CachedWithinTTL(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	src := &mockSource{tokens: []domain.Token{{Symbol: "ETH", Network: domain.NetworkERC20}}}
	svc := NewService(src, NewMemoryCache(fake, 5*time.Minute), logger.Nop())

	svc.Tokens(context.Background())
	fake.Advance(4 * time.Minute)
	svc.Tokens(context.Background())
	if src.calls != 1 {
		t.Fatalf("expected 1 store read inside the window, got %d", src.calls)
	}

	fake.Advance(time.Minute)
	svc.Tokens(context.Background())
	if src.calls != 2 {
		t.Fatalf("expected a re-read after expiry, got %d", src.calls)
	}
}

func TestTokens_DegradedNotCached(t *testing.T) {
	src := &mockSource{tokens: domain.ReducedFallbackTokens(), err: errors.New("db down")}
	svc := NewService(src, NewMemoryCache(nil, time.Minute), logger.Nop())

	got := svc.Tokens(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected reduced fallback, got %d tokens", len(got))
	}
	svc.Tokens(context.Background())
	if src.calls != 2 {
		t.Errorf("degraded result should not be cached, store read %d times", src.calls)
	}
}

func TestTokens_FailureWithoutListUsesFullFallback(t *testing.T) {
	src := &mockSource{err: errors.New("db down")}
	svc := NewService(src, NewMemoryCache(nil, time.Minute), logger.Nop())

	if got := svc.Tokens(context.Background()); len(got) != len(domain.FallbackTokens()) {
		t.Errorf("expected full fallback list, got %d", len(got))
	}
}

func TestFind_BySymbolAndNetwork(t *testing.T) {
	src := &mockSource{tokens: domain.FallbackTokens()}
	svc := NewService(src, NewMemoryCache(nil, time.Minute), logger.Nop())

	tok, ok := svc.Find(context.Background(), "usdt", domain.NetworkSolana)
	if !ok {
		t.Fatal("expected USDT on Solana")
	}
	if tok.Name != "Tether USD (Solana)" {
		t.Errorf("matched wrong token: %s", tok.Name)
	}
	if _, ok := svc.Find(context.Background(), "USDT", domain.NetworkTRC20); ok {
		t.Error("USDT/TRC20 is not in the catalog")
	}
}

func TestRefresh_Invalidates(t *testing.T) {
	src := &mockSource{tokens: domain.FallbackTokens()}
	svc := NewService(src, NewMemoryCache(nil, time.Hour), logger.Nop())

	svc.Tokens(context.Background())
	svc.Refresh(context.Background())
	if src.calls != 2 {
		t.Errorf("expected refresh to hit the store, calls=%d", src.calls)
	}
}
