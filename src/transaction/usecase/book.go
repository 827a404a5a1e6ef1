package usecase

import (
	"slices"
	"strings"
	"sync"

	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

// Book is the in-memory transaction list, newest first. Put is last writer
// wins per id; Merge never lets a store row move an entry backwards.
type Book struct {
	mu    sync.RWMutex
	items []domain.Transaction
}

func NewBook() *Book {
	return &Book{}
}

func (b *Book) Put(t domain.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == t.ID {
			b.items[i] = t
			return
		}
	}
	b.items = append([]domain.Transaction{t}, b.items...)
}

// Merge reconciles a store listing into the book. Entries held only locally
// are kept, and a store row replaces a local entry only when it supersedes it,
// so a transition applied locally after a failed store write survives.
func (b *Book) Merge(ts []domain.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	index := make(map[string]int, len(b.items))
	for i, t := range b.items {
		index[t.ID] = i
	}
	for _, t := range ts {
		if i, ok := index[t.ID]; ok {
			if t.Supersedes(b.items[i]) {
				b.items[i] = t
			}
			continue
		}
		index[t.ID] = len(b.items)
		b.items = append(b.items, t)
	}
	slices.SortStableFunc(b.items, func(x, y domain.Transaction) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
}

func (b *Book) Get(id string) (domain.Transaction, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.items {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

// FindByTracker compares case-insensitively.
func (b *Book) FindByTracker(trackerID string) (domain.Transaction, bool) {
	trackerID = strings.TrimSpace(trackerID)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.items {
		if strings.EqualFold(t.TrackerID, trackerID) {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

func (b *Book) HasTracker(trackerID string) bool {
	_, ok := b.FindByTracker(trackerID)
	return ok
}

// List returns a copy, optionally filtered by owner address.
func (b *Book) List(owner string) []domain.Transaction {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(b.items))
	for _, t := range b.items {
		if owner != "" && (t.OwnerAddress == nil || *t.OwnerAddress != owner) {
			continue
		}
		out = append(out, t)
	}
	return out
}
