package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"

	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/logger"
	quoteDomain "github.com/MMN3003/bridgeswap/src/quote/domain"
	"github.com/MMN3003/bridgeswap/src/transaction/adapter/events"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxTrackerAttempts = 5

// Service is the sole writer of transaction status. Store failures never stop
// the flow: the locally built transaction is kept and transitions are applied
// to it instead.
type Service struct {
	store    domain.Store
	book     *Book
	deposits domain.DepositBook
	events   domain.EventPublisher
	clock    clock.Clock
	newID    func() (string, error)
	logger   *logger.Logger
	tracer   trace.Tracer

	locks keyedMutex

	mu   sync.Mutex
	runs map[string]*run
}

type Option func(*Service)

func WithClock(c clock.Clock) Option                      { return func(s *Service) { s.clock = c } }
func WithEvents(p domain.EventPublisher) Option           { return func(s *Service) { s.events = p } }
func WithBook(b *Book) Option                             { return func(s *Service) { s.book = b } }
func WithTrackerIDSource(f func() (string, error)) Option { return func(s *Service) { s.newID = f } }

func NewService(store domain.Store, deposits domain.DepositBook, logg *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		book:     NewBook(),
		deposits: deposits,
		events:   events.Noop{},
		clock:    clock.Real{},
		newID:    domain.NewTrackerID,
		logger:   logg,
		tracer:   otel.Tracer("bridgeswap/transaction"),
		runs:     make(map[string]*run),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Book() *Book {
	return s.book
}

// AcceptRequest turns a quote into a transaction.
type AcceptRequest struct {
	Quote            *quoteDomain.SwapQuote
	ReceivingAddress string
	// OwnerAddress filters history; it defaults to the receiving address.
	OwnerAddress string
	// AwaitPayment starts at awaiting_payment instead of payment_confirmed.
	AwaitPayment bool
}

func (s *Service) Accept(ctx context.Context, req AcceptRequest) (*domain.Transaction, error) {
	q := req.Quote
	if q == nil || q.ToAmount == "" {
		return nil, quoteDomain.ErrNotQuotable
	}
	amount, err := decimal.NewFromString(q.FromAmount)
	if err != nil || !amount.IsPositive() {
		return nil, quoteDomain.ErrNotQuotable
	}
	if err := quoteDomain.CheckMinimum(q.From, amount); err != nil {
		return nil, err
	}
	receiving := strings.TrimSpace(req.ReceivingAddress)
	if err := domain.ValidateReceivingAddress(q.To.Network, receiving); err != nil {
		return nil, err
	}
	q.ReceivingAddress = receiving

	trackerID, err := s.allocateTrackerID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "transaction.accept", trace.WithAttributes(attribute.String("tracker_id", trackerID)))
	defer span.End()

	now := s.clock.Now().UTC()
	status := domain.StatusPaymentConfirmed
	if req.AwaitPayment {
		status = domain.StatusAwaitingPayment
	}
	owner := strings.TrimSpace(req.OwnerAddress)
	if owner == "" {
		owner = receiving
	}
	deposit := s.deposits.For(q.From)
	eta := now.Add(domain.EstimatedCompletionWindow)
	local := domain.Transaction{
		ID:                  uuid.NewString(),
		TrackerID:           trackerID,
		FromToken:           q.From,
		ToToken:             q.To,
		FromAmount:          q.FromAmount,
		ToAmount:            q.ToAmount,
		Status:              status,
		CreatedAt:           now,
		UpdatedAt:           now,
		DepositAddress:      &deposit,
		ReceivingAddress:    &receiving,
		OwnerAddress:        &owner,
		EstimatedCompletion: &eta,
	}

	result := local
	localOnly := false
	saved, err := s.store.CreateTransaction(ctx, &local, q)
	if err != nil || saved == nil {
		s.logger.WithField("tracker_id", trackerID).Warnf("keeping transaction local, store create failed: %v", err)
		span.SetAttributes(attribute.Bool("local_only", true))
		localOnly = true
	} else {
		result = *saved
	}

	s.book.Put(result)
	s.publish(ctx, domain.Event{
		Type:          domain.EventCreated,
		TransactionID: result.ID,
		TrackerID:     result.TrackerID,
		To:            result.Status,
		LocalOnly:     localOnly,
		At:            now,
	})
	return &result, nil
}

// ConfirmPayment moves awaiting_payment to payment_confirmed inside the payment window.
func (s *Service) ConfirmPayment(ctx context.Context, id string) (*domain.Transaction, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusAwaitingPayment {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, domain.StatusPaymentConfirmed)
	}
	if s.clock.Now().Sub(current.CreatedAt) > domain.PaymentWindow {
		return nil, domain.ErrPaymentWindowEnded
	}
	return s.apply(ctx, *current, domain.StatusPaymentConfirmed, domain.Patch{}), nil
}

// StartProcessing moves payment_confirmed to processing and starts the
// simulated sequence. Calling it on a processing transaction restarts the
// sequence from step one.
func (s *Service) StartProcessing(ctx context.Context, id string) (*domain.Transaction, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := current
	switch current.Status {
	case domain.StatusProcessing, domain.StatusPending:
	case domain.StatusPaymentConfirmed:
		updated = s.apply(ctx, *current, domain.StatusProcessing, domain.Patch{})
	default:
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, domain.StatusProcessing)
	}
	s.startRun(*updated)
	return updated, nil
}

// CancelProcessing releases every pending timer of the run. No transition
// happens and late callbacks become no-ops. It waits for an in-flight
// transition of the same transaction, so a run being started is cancelled
// rather than missed.
func (s *Service) CancelProcessing(id string) bool {
	unlock := s.locks.lock(id)
	defer unlock()
	return s.cancelRun(id)
}

// cancelRun requires the transaction's lock.
func (s *Service) cancelRun(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return false
	}
	r.stop()
	delete(s.runs, id)
	s.logger.WithField("tracker_id", r.trackerID).Infof("processing cancelled")
	return true
}

// Progress reports the running sequence, or a finished one for completed transactions.
func (s *Service) Progress(ctx context.Context, id string) (domain.Progress, error) {
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if ok {
		return domain.ProgressAt(s.clock.Now().Sub(r.started)), nil
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return domain.Progress{}, err
	}
	if current.Status == domain.StatusCompleted {
		return domain.ProgressAt(domain.CompletionAfter()), nil
	}
	return domain.Progress{}, domain.ErrNotProcessing
}

// Fail moves any non-terminal transaction to failed and stops its run.
func (s *Service) Fail(ctx context.Context, id, reason string) (*domain.Transaction, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(domain.StatusFailed) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, domain.StatusFailed)
	}
	s.cancelRun(id)
	s.logger.WithField("tracker_id", current.TrackerID).Warnf("transaction failed: %s", reason)
	return s.applyWithReason(ctx, *current, domain.StatusFailed, domain.Patch{}, reason), nil
}

// Transactions reconciles the store listing into the book and serves the book.
func (s *Service) Transactions(ctx context.Context, owner string) []domain.Transaction {
	remote, err := s.store.GetTransactions(ctx, owner)
	if err != nil {
		s.logger.Warnf("serving local transactions only: %v", err)
	} else {
		s.book.Merge(remote)
	}
	return s.book.List(owner)
}

// Close cancels every run.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.runs {
		r.stop()
		delete(s.runs, id)
	}
}

// ---------- HELPERS ----------

func (s *Service) allocateTrackerID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxTrackerAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if s.book.HasTracker(id) {
			continue
		}
		exists, err := s.store.TrackerIDExists(ctx, id)
		if err != nil {
			// store unreachable: the local check is all we can do
			return id, nil
		}
		if !exists {
			return id, nil
		}
	}
	return "", domain.ErrTrackerIDTaken
}

func (s *Service) load(ctx context.Context, id string) (*domain.Transaction, error) {
	if t, ok := s.book.Get(id); ok {
		return &t, nil
	}
	t, err := s.store.GetTransactionByID(ctx, id)
	if err != nil || t == nil {
		return nil, domain.ErrNotFound
	}
	s.book.Put(*t)
	return t, nil
}

func (s *Service) apply(ctx context.Context, current domain.Transaction, to domain.Status, p domain.Patch) *domain.Transaction {
	return s.applyWithReason(ctx, current, to, p, "")
}

// applyWithReason writes through the store and falls back to the local copy.
// Callers hold the transaction's lock and have checked the transition.
func (s *Service) applyWithReason(ctx context.Context, current domain.Transaction, to domain.Status, p domain.Patch, reason string) *domain.Transaction {
	ctx, span := s.tracer.Start(ctx, "transaction.transition", trace.WithAttributes(
		attribute.String("tracker_id", current.TrackerID),
		attribute.String("from", string(current.Status)),
		attribute.String("to", string(to)),
	))
	defer span.End()

	p.Status = &to
	localOnly := false
	updated, err := s.store.UpdateTransaction(ctx, current.ID, p)
	if err != nil || updated == nil {
		s.logger.WithField("tracker_id", current.TrackerID).Warnf("applying %s locally, store update failed: %v", to, err)
		local := current.Apply(p, s.clock.Now().UTC())
		updated = &local
		localOnly = true
		span.SetAttributes(attribute.Bool("local_only", true))
	}
	s.book.Put(*updated)
	s.publish(ctx, domain.Event{
		Type:          domain.EventTransition,
		TransactionID: updated.ID,
		TrackerID:     updated.TrackerID,
		From:          current.Status,
		To:            updated.Status,
		Reason:        reason,
		LocalOnly:     localOnly,
		At:            s.clock.Now().UTC(),
	})
	return updated
}

func (s *Service) publish(ctx context.Context, e domain.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.WithField("tracker_id", e.TrackerID).Errorf("publish %s failed: %v", e.Type, err)
	}
}

// placeholderTxHash stands in for a settlement hash; nothing is broadcast.
func placeholderTxHash() string {
	var b [common.HashLength]byte
	_, _ = rand.Read(b[:])
	return common.BytesToHash(b[:]).Hex()
}

// keyedMutex serializes transitions of one transaction.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
