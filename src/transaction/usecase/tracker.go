package usecase

import (
	"context"
	"strings"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

type LookupState int

const (
	Searching LookupState = iota
	Found
	NotFound
)

func (s LookupState) String() string {
	switch s {
	case Searching:
		return "searching"
	case Found:
		return "found"
	default:
		return "not_found"
	}
}

type LookupResult struct {
	State       LookupState
	Transaction *domain.Transaction
	// Err is set when the store failed; the state is still NotFound.
	Err error
}

type LocalLookup interface {
	FindByTracker(trackerID string) (domain.Transaction, bool)
}

type RemoteLookup interface {
	GetTransactionByTrackerID(ctx context.Context, trackerID string) (*domain.Transaction, error)
}

// Tracker checks the local book first and the store second. Negative results
// are never cached.
type Tracker struct {
	local  LocalLookup
	remote RemoteLookup
	logger *logger.Logger
}

func NewTracker(local LocalLookup, remote RemoteLookup, logg *logger.Logger) *Tracker {
	return &Tracker{local: local, remote: remote, logger: logg}
}

func (t *Tracker) Lookup(ctx context.Context, trackerID string) LookupResult {
	trackerID = strings.TrimSpace(trackerID)
	if trackerID == "" {
		return LookupResult{State: NotFound}
	}
	if tx, ok := t.local.FindByTracker(trackerID); ok {
		return LookupResult{State: Found, Transaction: &tx}
	}
	tx, err := t.remote.GetTransactionByTrackerID(ctx, domain.NormalizeTrackerID(trackerID))
	if err != nil {
		t.logger.Warnf("tracker lookup %s failed: %v", trackerID, err)
		return LookupResult{State: NotFound, Err: err}
	}
	if tx == nil {
		return LookupResult{State: NotFound}
	}
	return LookupResult{State: Found, Transaction: tx}
}

// Search is an in-flight lookup.
type Search struct {
	done   chan struct{}
	result LookupResult
}

func (t *Tracker) Begin(ctx context.Context, trackerID string) *Search {
	s := &Search{done: make(chan struct{})}
	go func() {
		defer close(s.done)
		s.result = t.Lookup(ctx, trackerID)
	}()
	return s
}

func (s *Search) State() LookupState {
	select {
	case <-s.done:
		return s.result.State
	default:
		return Searching
	}
}

func (s *Search) Wait(ctx context.Context) LookupResult {
	select {
	case <-s.done:
		return s.result
	case <-ctx.Done():
		return LookupResult{State: Searching, Err: ctx.Err()}
	}
}
