// Package persistence is the store boundary of the swap flow. Every failure
// is logged here and handed back alongside a usable default; the lifecycle
// decides whether to fall back to local state.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/MMN3003/bridgeswap/src/logger"
	quoteDomain "github.com/MMN3003/bridgeswap/src/quote/domain"
	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

var (
	_ domain.Store            = (*Adapter)(nil)
	_ tokenDomain.TokenSource = (*Adapter)(nil)
)

type Adapter struct {
	tokens       tokenDomain.TokenRepository
	transactions domain.TransactionRepository
	logger       *logger.Logger
}

func NewAdapter(tokens tokenDomain.TokenRepository, transactions domain.TransactionRepository, logg *logger.Logger) *Adapter {
	return &Adapter{tokens: tokens, transactions: transactions, logger: logg}
}

// ListTokens returns tokens sorted by symbol, or the reduced fallback list
// together with the error.
func (a *Adapter) ListTokens(ctx context.Context) ([]tokenDomain.Token, error) {
	tokens, err := a.tokens.List(ctx)
	if err != nil {
		a.logger.Errorf("Error fetching tokens: %v", err)
		return tokenDomain.ReducedFallbackTokens(), err
	}
	return tokens, nil
}

func (a *Adapter) GetTransactions(ctx context.Context, owner string) ([]domain.Transaction, error) {
	txs, err := a.transactions.List(ctx, owner)
	if err != nil {
		a.logger.Errorf("Error fetching transactions: %v", err)
		return []domain.Transaction{}, err
	}
	return txs, nil
}

func (a *Adapter) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := a.transactions.GetByID(ctx, id)
	if err != nil {
		a.logger.Errorf("Error fetching transaction %s: %v", id, err)
		return nil, err
	}
	return t, nil
}

// GetTransactionByTrackerID is an exact match; no match is nil, nil.
func (a *Adapter) GetTransactionByTrackerID(ctx context.Context, trackerID string) (*domain.Transaction, error) {
	t, err := a.transactions.GetByTrackerID(ctx, trackerID)
	if err != nil {
		a.logger.Errorf("Error fetching transaction by tracker ID %s: %v", trackerID, err)
		return nil, err
	}
	return t, nil
}

// CreateTransaction links both tokens by (symbol, network) before inserting.
// A token that cannot be linked aborts the create with ErrTokenNotLinked.
func (a *Adapter) CreateTransaction(ctx context.Context, t *domain.Transaction, q *quoteDomain.SwapQuote) (*domain.Transaction, error) {
	fromID, err := a.linkToken(ctx, t.FromToken)
	if err != nil {
		a.logger.Errorf("Error creating transaction %s: %v", t.TrackerID, err)
		return nil, err
	}
	toID, err := a.linkToken(ctx, t.ToToken)
	if err != nil {
		a.logger.Errorf("Error creating transaction %s: %v", t.TrackerID, err)
		return nil, err
	}
	saved, err := a.transactions.Create(ctx, t, fromID, toID, domain.SnapshotOf(q))
	if err != nil {
		a.logger.Errorf("Error creating transaction %s: %v", t.TrackerID, err)
		return nil, err
	}
	return saved, nil
}

func (a *Adapter) UpdateTransaction(ctx context.Context, id string, p domain.Patch) (*domain.Transaction, error) {
	t, err := a.transactions.Update(ctx, id, p)
	if err != nil {
		a.logger.Errorf("Error updating transaction %s: %v", id, err)
		return nil, err
	}
	return t, nil
}

func (a *Adapter) TrackerIDExists(ctx context.Context, trackerID string) (bool, error) {
	exists, err := a.transactions.TrackerIDExists(ctx, trackerID)
	if err != nil {
		a.logger.Errorf("Error checking tracker ID %s: %v", trackerID, err)
		return false, err
	}
	return exists, nil
}

// CheckConnection reports whether the store answers.
func (a *Adapter) CheckConnection(ctx context.Context) bool {
	if err := a.tokens.Ping(ctx); err != nil {
		a.logger.Errorf("Database connection check failed: %v", err)
		return false
	}
	return true
}

func (a *Adapter) linkToken(ctx context.Context, t tokenDomain.Token) (string, error) {
	found, err := a.tokens.FindBySymbolAndNetwork(ctx, t.Symbol, t.Network)
	if err != nil {
		if errors.Is(err, tokenDomain.ErrNotFound) {
			return "", fmt.Errorf("%w: %s/%s", domain.ErrTokenNotLinked, t.Symbol, t.Network)
		}
		return "", fmt.Errorf("link token %s/%s: %w", t.Symbol, t.Network, err)
	}
	return found.ID, nil
}
