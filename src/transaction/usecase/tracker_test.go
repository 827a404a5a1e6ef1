package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

type countingRemote struct {
	*memStore
	calls int
}

func (c *countingRemote) GetTransactionByTrackerID(ctx context.Context, trackerID string) (*domain.Transaction, error) {
	c.calls++
	return c.memStore.GetTransactionByTrackerID(ctx, trackerID)
}

func TestTracker_RemoteOnly(t *testing.T) {
	store := newMemStore()
	store.rows["r1"] = domain.Transaction{ID: "r1", TrackerID: "TXN-R3M0TE", Status: domain.StatusCompleted}
	tracker := NewTracker(NewBook(), store, logger.Nop())

	res := tracker.Lookup(context.Background(), " txn-r3m0te ")
	if res.State != Found || res.Transaction.ID != "r1" {
		t.Errorf("expected store hit, got %v", res.State)
	}
}

func TestTracker_NotFoundIsNotAnError(t *testing.T) {
	remote := &countingRemote{memStore: newMemStore()}
	tracker := NewTracker(NewBook(), remote, logger.Nop())

	for i := 0; i < 2; i++ {
		res := tracker.Lookup(context.Background(), "TXN-NOPE00")
		if res.State != NotFound || res.Err != nil || res.Transaction != nil {
			t.Errorf("expected clean not-found, got %+v", res)
		}
	}
	if remote.calls != 2 {
		t.Errorf("negative results must not be cached, store queried %d times", remote.calls)
	}
}

func TestTracker_LocalFirst(t *testing.T) {
	book := NewBook()
	book.Put(domain.Transaction{ID: "l1", TrackerID: "TXN-LOCAL1"})
	remote := &countingRemote{memStore: newMemStore()}
	tracker := NewTracker(book, remote, logger.Nop())

	if res := tracker.Lookup(context.Background(), "txn-local1"); res.State != Found {
		t.Errorf("expected local hit, got %v", res.State)
	}
	if remote.calls != 0 {
		t.Error("local hit should not reach the store")
	}
}

func TestTracker_StoreFailureIsNotFound(t *testing.T) {
	store := newMemStore()
	store.failReads = true
	res := NewTracker(NewBook(), store, logger.Nop()).Lookup(context.Background(), "TXN-ABCDEF")
	if res.State != NotFound || res.Err == nil {
		t.Errorf("expected not-found carrying the error, got %+v", res)
	}
}

type blockingRemote struct{ release chan struct{} }

func (b blockingRemote) GetTransactionByTrackerID(ctx context.Context, trackerID string) (*domain.Transaction, error) {
	<-b.release
	return nil, nil
}

func TestSearch_States(t *testing.T) {
	remote := blockingRemote{release: make(chan struct{})}
	search := NewTracker(NewBook(), remote, logger.Nop()).Begin(context.Background(), "TXN-ABCDEF")
	if search.State() != Searching {
		t.Errorf("expected searching, got %v", search.State())
	}
	close(remote.release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if res := search.Wait(ctx); res.State != NotFound {
		t.Errorf("expected not-found, got %v", res.State)
	}
	if search.State() != NotFound {
		t.Errorf("state after completion %v", search.State())
	}
}

func TestBook_LastWriterWins(t *testing.T) {
	book := NewBook()
	book.Put(domain.Transaction{ID: "a", Status: domain.StatusPaymentConfirmed})
	book.Put(domain.Transaction{ID: "b"})
	book.Put(domain.Transaction{ID: "a", Status: domain.StatusProcessing})

	list := book.List("")
	if len(list) != 2 || list[0].ID != "b" {
		t.Fatalf("expected newest first without duplicates, got %+v", list)
	}
	if got, _ := book.Get("a"); got.Status != domain.StatusProcessing {
		t.Errorf("expected last write, got %s", got.Status)
	}
}

func TestBook_MergeNeverMovesBackwards(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	book := NewBook()
	book.Put(domain.Transaction{ID: "done", Status: domain.StatusCompleted, UpdatedAt: at})
	book.Put(domain.Transaction{ID: "stale", Status: domain.StatusPaymentConfirmed, UpdatedAt: at})

	book.Merge([]domain.Transaction{
		{ID: "done", Status: domain.StatusPaymentConfirmed, UpdatedAt: at.Add(time.Hour)},
		{ID: "stale", Status: domain.StatusProcessing, UpdatedAt: at.Add(time.Minute)},
	})

	if got, _ := book.Get("done"); got.Status != domain.StatusCompleted {
		t.Errorf("completed entry regressed to %s", got.Status)
	}
	if got, _ := book.Get("stale"); got.Status != domain.StatusProcessing {
		t.Errorf("store progress not taken, got %s", got.Status)
	}
}
