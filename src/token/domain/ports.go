package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("token not found")

// TokenRepository persistence port
type TokenRepository interface {
	List(ctx context.Context) ([]Token, error)
	GetByID(ctx context.Context, id string) (*Token, error)
	FindBySymbolAndNetwork(ctx context.Context, symbol string, network Network) (*Token, error)
	Create(ctx context.Context, t *Token) (*Token, error)
	Ping(ctx context.Context) error
}

// TokenCache keeps the catalog between store reads.
type TokenCache interface {
	Get(ctx context.Context) ([]Token, bool)
	Set(ctx context.Context, tokens []Token)
	Invalidate(ctx context.Context)
}

// TokenSource is the store-facing side of the catalog. On failure it still
// returns a usable (reduced) list together with the error.
type TokenSource interface {
	ListTokens(ctx context.Context) ([]Token, error)
}
