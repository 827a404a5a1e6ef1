package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

var (
	ErrQueueFull = errors.New("event queue full")
	ErrClosed    = errors.New("event queue closed")
)

var _ domain.EventPublisher = (*Async)(nil)

// Async hands events to a single worker so callers never wait on the
// underlying publisher. Events keep their enqueue order.
type Async struct {
	next    domain.EventPublisher
	timeout time.Duration
	logger  *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Event
	done   chan struct{}
}

// NewAsync starts the worker. Each delivery gets its own timeout, detached
// from the caller's context.
func NewAsync(next domain.EventPublisher, buffer int, timeout time.Duration, logg *logger.Logger) *Async {
	a := &Async{
		next:    next,
		timeout: timeout,
		logger:  logg,
		queue:   make(chan domain.Event, buffer),
		done:    make(chan struct{}),
	}
	go a.work()
	return a
}

// Publish enqueues e and drops it when the queue is full.
func (a *Async) Publish(ctx context.Context, e domain.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for the queue to drain.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *Async) work() {
	defer close(a.done)
	for e := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Publish(ctx, e); err != nil {
			a.logger.WithField("tracker_id", e.TrackerID).Errorf("deliver %s failed: %v", e.Type, err)
		}
		cancel()
	}
}
