package usecase

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/logger"
	quoteDomain "github.com/MMN3003/bridgeswap/src/quote/domain"
	quoteUsecase "github.com/MMN3003/bridgeswap/src/quote/usecase"
	tokenDomain "github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/MMN3003/bridgeswap/src/transaction/adapter/events"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

// ---------- fakes ----------

type memStore struct {
	mu         sync.Mutex
	rows       map[string]domain.Transaction
	failCreate bool
	failUpdate bool
	failReads  bool
	takenIDs   map[string]bool

	// when set, UpdateTransaction signals entry and waits for the gate
	updateEntered chan struct{}
	updateGate    chan struct{}
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]domain.Transaction{}, takenIDs: map[string]bool{}}
}

var errStore = errors.New("store unavailable")

func (m *memStore) GetTransactions(ctx context.Context, owner string) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return []domain.Transaction{}, errStore
	}
	var out []domain.Transaction
	for _, t := range m.rows {
		if owner == "" || (t.OwnerAddress != nil && *t.OwnerAddress == owner) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, errStore
	}
	if t, ok := m.rows[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m *memStore) GetTransactionByTrackerID(ctx context.Context, trackerID string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, errStore
	}
	for _, t := range m.rows {
		if t.TrackerID == trackerID {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateTransaction(ctx context.Context, t *domain.Transaction, q *quoteDomain.SwapQuote) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return nil, errStore
	}
	m.rows[t.ID] = *t
	out := *t
	return &out, nil
}

func (m *memStore) UpdateTransaction(ctx context.Context, id string, p domain.Patch) (*domain.Transaction, error) {
	if m.updateEntered != nil {
		m.updateEntered <- struct{}{}
		<-m.updateGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return nil, errStore
	}
	t, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t = t.Apply(p, t.UpdatedAt.Add(time.Second))
	m.rows[id] = t
	return &t, nil
}

func (m *memStore) TrackerIDExists(ctx context.Context, trackerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return false, errStore
	}
	return m.takenIDs[trackerID], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) statuses(id string) []domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Status
	for _, e := range r.events {
		if e.TransactionID == id && e.Type != domain.EventStepReached {
			out = append(out, e.To)
		}
	}
	return out
}

type stalledPublisher struct {
	release chan struct{}
}

func (p stalledPublisher) Publish(ctx context.Context, e domain.Event) error {
	<-p.release
	return nil
}

type stubRates float64

func (r stubRates) GetExchangeRate(ctx context.Context, from, to string) float64 { return float64(r) }

// ---------- fixtures ----------

var (
	start       = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	evmAddress  = "0x" + strings.Repeat("ab", 20)
	trackerLike = regexp.MustCompile(`^TXN-[A-Z0-9]{6}$`)
)

func findToken(symbol string, network tokenDomain.Network) *tokenDomain.Token {
	for _, t := range tokenDomain.FallbackTokens() {
		if t.Is(symbol, network) {
			return &t
		}
	}
	panic("no token " + symbol)
}

func ethToUsdtQuote(t *testing.T, amount string) *quoteDomain.SwapQuote {
	t.Helper()
	builder := quoteUsecase.NewService(stubRates(2500), logger.Nop())
	q, err := builder.Build(context.Background(),
		findToken("ETH", tokenDomain.NetworkERC20),
		findToken("USDT", tokenDomain.NetworkBEP20),
		amount, nil)
	if err != nil {
		t.Fatalf("build quote: %v", err)
	}
	return q
}

type harness struct {
	svc    *Service
	store  *memStore
	clock  *clock.Fake
	events *recordingPublisher
}

func newHarness(opts ...Option) *harness {
	h := &harness{store: newMemStore(), clock: clock.NewFake(start), events: &recordingPublisher{}}
	deposits := domain.NewDepositBook(map[string]string{"ERC20": "erc20-deposit", "BTC": "btc-deposit"})
	opts = append([]Option{WithClock(h.clock), WithEvents(h.events)}, opts...)
	h.svc = NewService(h.store, deposits, logger.Nop(), opts...)
	return h
}

func (h *harness) accept(t *testing.T) *domain.Transaction {
	t.Helper()
	tx, err := h.svc.Accept(context.Background(), AcceptRequest{Quote: ethToUsdtQuote(t, "1.5"), ReceivingAddress: evmAddress})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return tx
}

// ---------- tests ----------

func TestAccept_EndToEnd(t *testing.T) {
	h := newHarness()
	q := ethToUsdtQuote(t, "1.5")
	if q.ToAmount != "3750.00000000" {
		t.Fatalf("expected 3750.00000000, got %s", q.ToAmount)
	}

	tx, err := h.svc.Accept(context.Background(), AcceptRequest{Quote: q, ReceivingAddress: evmAddress})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if tx.Status != domain.StatusPaymentConfirmed {
		t.Errorf("expected payment_confirmed, got %s", tx.Status)
	}
	if !trackerLike.MatchString(tx.TrackerID) {
		t.Errorf("tracker id %q", tx.TrackerID)
	}
	if tx.EstimatedCompletion == nil || tx.EstimatedCompletion.Sub(tx.CreatedAt) != 15*time.Minute {
		t.Errorf("estimated completion should be creation + 15m, got %v", tx.EstimatedCompletion)
	}
	if *tx.DepositAddress != "erc20-deposit" {
		t.Errorf("deposit address %s", *tx.DepositAddress)
	}
	if q.ReceivingAddress != evmAddress {
		t.Error("quote should carry the receiving address")
	}
	if _, ok := h.store.rows[tx.ID]; !ok {
		t.Error("transaction should be stored")
	}
}

func TestAccept_StoreFailureKeepsLocal(t *testing.T) {
	h := newHarness()
	h.store.failCreate = true
	h.store.failReads = true

	tx := h.accept(t)
	if tx.Status != domain.StatusPaymentConfirmed || !trackerLike.MatchString(tx.TrackerID) || tx.EstimatedCompletion == nil {
		t.Errorf("local transaction has the wrong shape: %+v", tx)
	}

	tracker := NewTracker(h.svc.Book(), h.store, logger.Nop())
	res := tracker.Lookup(context.Background(), strings.ToLower(tx.TrackerID))
	if res.State != Found || res.Transaction.ID != tx.ID {
		t.Errorf("expected local hit, got %v", res.State)
	}
}

func TestAccept_Validation(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Accept(context.Background(), AcceptRequest{Quote: ethToUsdtQuote(t, "1.5"), ReceivingAddress: "not-an-address"})
	var aerr *domain.AddressError
	if !errors.As(err, &aerr) {
		t.Errorf("expected AddressError, got %v", err)
	}

	_, err = h.svc.Accept(context.Background(), AcceptRequest{Quote: ethToUsdtQuote(t, "0.01"), ReceivingAddress: evmAddress})
	var verr *quoteDomain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected minimum validation, got %v", err)
	}
	if len(h.store.rows) != 0 {
		t.Error("validation failures must not create anything")
	}
}

func TestAccept_RegeneratesTakenTrackerID(t *testing.T) {
	ids := []string{"TXN-AAAAAA", "TXN-AAAAAA", "TXN-BBBBBB"}
	next := 0
	source := func() (string, error) {
		id := ids[next]
		next++
		return id, nil
	}
	h := newHarness(WithTrackerIDSource(source))
	h.store.takenIDs["TXN-AAAAAA"] = true

	tx := h.accept(t)
	if tx.TrackerID != "TXN-BBBBBB" {
		t.Errorf("expected regenerated id, got %s", tx.TrackerID)
	}
}

func TestAccept_GivesUpAfterBoundedAttempts(t *testing.T) {
	h := newHarness(WithTrackerIDSource(func() (string, error) { return "TXN-AAAAAA", nil }))
	h.store.takenIDs["TXN-AAAAAA"] = true

	_, err := h.svc.Accept(context.Background(), AcceptRequest{Quote: ethToUsdtQuote(t, "1.5"), ReceivingAddress: evmAddress})
	if !errors.Is(err, domain.ErrTrackerIDTaken) {
		t.Errorf("expected ErrTrackerIDTaken, got %v", err)
	}
}

func TestLifecycle_HappyPathNeverRegresses(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)

	if _, err := h.svc.StartProcessing(context.Background(), tx.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	p, _ := h.svc.Progress(context.Background(), tx.ID)
	if p.CurrentStep != 1 || p.Remaining != 300*time.Second {
		t.Errorf("fresh run progress %+v", p)
	}

	h.clock.Advance(240 * time.Second)
	p, _ = h.svc.Progress(context.Background(), tx.ID)
	if p.CurrentStep != 3 || p.Remaining != 60*time.Second {
		t.Errorf("progress at 240s %+v", p)
	}

	h.clock.Advance(62 * time.Second)
	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.TxHash == nil || len(*got.TxHash) != 66 || !strings.HasPrefix(*got.TxHash, "0x") {
		t.Errorf("placeholder hash %v", got.TxHash)
	}

	want := []domain.Status{domain.StatusPaymentConfirmed, domain.StatusProcessing, domain.StatusCompleted}
	seq := h.events.statuses(tx.ID)
	if len(seq) != len(want) {
		t.Fatalf("status sequence %v", seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("status sequence %v, want %v", seq, want)
		}
	}
	if _, err := h.svc.Fail(context.Background(), tx.ID, "late"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("completed is terminal, got %v", err)
	}
	if h.clock.Pending() != 0 {
		t.Errorf("%d timers left behind", h.clock.Pending())
	}
}

func TestLifecycle_UpdateFailureAppliesLocally(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)
	h.store.failUpdate = true

	updated, err := h.svc.StartProcessing(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if updated.Status != domain.StatusProcessing {
		t.Errorf("expected local processing, got %s", updated.Status)
	}
	h.clock.Advance(domain.CompletionAfter())
	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusCompleted {
		t.Errorf("expected local completion, got %s", got.Status)
	}
	if h.store.rows[tx.ID].Status != domain.StatusPaymentConfirmed {
		t.Errorf("store copy should be untouched, got %s", h.store.rows[tx.ID].Status)
	}
}

func TestLifecycle_CancelReleasesTimers(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)
	h.svc.StartProcessing(context.Background(), tx.ID)

	h.clock.Advance(100 * time.Second)
	if !h.svc.CancelProcessing(tx.ID) {
		t.Fatal("expected an active run")
	}
	if h.clock.Pending() != 0 {
		t.Errorf("%d timers still pending", h.clock.Pending())
	}
	h.clock.Advance(time.Hour)
	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusProcessing {
		t.Errorf("no transition after cancel, got %s", got.Status)
	}
	if _, err := h.svc.Progress(context.Background(), tx.ID); !errors.Is(err, domain.ErrNotProcessing) {
		t.Errorf("expected ErrNotProcessing, got %v", err)
	}

	// restart resets to step one
	h.svc.StartProcessing(context.Background(), tx.ID)
	p, err := h.svc.Progress(context.Background(), tx.ID)
	if err != nil || p.CurrentStep != 1 || p.Elapsed != 0 {
		t.Errorf("restart progress %+v err %v", p, err)
	}
	h.clock.Advance(domain.CompletionAfter())
	got, _ = h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusCompleted {
		t.Errorf("restarted run should complete, got %s", got.Status)
	}
}

func TestLifecycle_StaleRunIsNoop(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)
	h.svc.StartProcessing(context.Background(), tx.ID)
	h.svc.mu.Lock()
	stale := h.svc.runs[tx.ID]
	h.svc.mu.Unlock()

	h.svc.CancelProcessing(tx.ID)
	h.svc.onComplete(stale)

	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusProcessing {
		t.Errorf("late callback must not transition, got %s", got.Status)
	}
}

func TestConfirmPayment(t *testing.T) {
	h := newHarness()
	tx, err := h.svc.Accept(context.Background(), AcceptRequest{Quote: ethToUsdtQuote(t, "1.5"), ReceivingAddress: evmAddress, AwaitPayment: true})
	if err != nil || tx.Status != domain.StatusAwaitingPayment {
		t.Fatalf("expected awaiting_payment, got %v %v", tx, err)
	}
	if _, err := h.svc.StartProcessing(context.Background(), tx.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("processing before payment should be rejected, got %v", err)
	}
	confirmed, err := h.svc.ConfirmPayment(context.Background(), tx.ID)
	if err != nil || confirmed.Status != domain.StatusPaymentConfirmed {
		t.Errorf("confirm: %v %v", confirmed, err)
	}

	late, _ := h.svc.Accept(context.Background(), AcceptRequest{Quote: ethToUsdtQuote(t, "1.5"), ReceivingAddress: evmAddress, AwaitPayment: true})
	h.clock.Advance(16 * time.Minute)
	if _, err := h.svc.ConfirmPayment(context.Background(), late.ID); !errors.Is(err, domain.ErrPaymentWindowEnded) {
		t.Errorf("expected ErrPaymentWindowEnded, got %v", err)
	}
}

func TestFail_StopsRun(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)
	h.svc.StartProcessing(context.Background(), tx.ID)

	failed, err := h.svc.Fail(context.Background(), tx.ID, "route unavailable")
	if err != nil || failed.Status != domain.StatusFailed {
		t.Fatalf("fail: %v %v", failed, err)
	}
	h.clock.Advance(time.Hour)
	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusFailed {
		t.Errorf("failed must be terminal, got %s", got.Status)
	}
}

func TestTransactions_MergesStoreIntoBook(t *testing.T) {
	h := newHarness()
	h.store.failCreate = true
	local := h.accept(t)
	h.store.failCreate = false

	owner := "0x" + strings.Repeat("cd", 20)
	remote := domain.Transaction{ID: "remote-1", TrackerID: "TXN-REMOTE", Status: domain.StatusCompleted, CreatedAt: start.Add(-time.Hour), OwnerAddress: &owner}
	h.store.rows[remote.ID] = remote

	all := h.svc.Transactions(context.Background(), "")
	if len(all) != 2 || all[0].ID != local.ID || all[1].ID != remote.ID {
		t.Errorf("expected newest first with local kept, got %d", len(all))
	}
	mine := h.svc.Transactions(context.Background(), owner)
	if len(mine) != 1 || mine[0].ID != remote.ID {
		t.Errorf("owner filter returned %d", len(mine))
	}
}

func TestTransactions_KeepsLocalCompletionOverStaleStoreRow(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)
	h.store.failUpdate = true
	if _, err := h.svc.StartProcessing(context.Background(), tx.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	h.clock.Advance(domain.CompletionAfter())

	h.svc.Transactions(context.Background(), "")

	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("store row regressed the book to %s", got.Status)
	}
	if _, err := h.svc.StartProcessing(context.Background(), tx.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("completed transaction restarted, err %v", err)
	}
	if h.clock.Pending() != 0 {
		t.Errorf("%d timers scheduled after completion", h.clock.Pending())
	}
	want := []domain.Status{domain.StatusPaymentConfirmed, domain.StatusProcessing, domain.StatusCompleted}
	if got := h.events.statuses(tx.ID); !slices.Equal(got, want) {
		t.Errorf("events %v, want %v", got, want)
	}
}

func TestLifecycle_SlowEventSinkDoesNotBlockTransitions(t *testing.T) {
	stalled := stalledPublisher{release: make(chan struct{})}
	dispatch := events.NewAsync(stalled, 16, time.Second, logger.Nop())
	defer dispatch.Close()
	defer close(stalled.release)

	h := newHarness(WithEvents(dispatch))
	q := ethToUsdtQuote(t, "1.5")
	done := make(chan error, 1)
	go func() {
		tx, err := h.svc.Accept(context.Background(), AcceptRequest{Quote: q, ReceivingAddress: evmAddress})
		if err == nil {
			_, err = h.svc.StartProcessing(context.Background(), tx.ID)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("accept and start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("transitions waited on the event sink")
	}
}

func TestCancelProcessing_WaitsForInFlightStart(t *testing.T) {
	h := newHarness()
	tx := h.accept(t)
	h.store.updateEntered = make(chan struct{})
	h.store.updateGate = make(chan struct{})

	started := make(chan error, 1)
	go func() {
		_, err := h.svc.StartProcessing(context.Background(), tx.ID)
		started <- err
	}()
	<-h.store.updateEntered

	cancelled := make(chan bool, 1)
	go func() { cancelled <- h.svc.CancelProcessing(tx.ID) }()
	select {
	case <-cancelled:
		t.Fatal("cancel returned while the start was still writing")
	case <-time.After(50 * time.Millisecond):
	}
	close(h.store.updateGate)

	if err := <-started; err != nil {
		t.Fatalf("start: %v", err)
	}
	if !<-cancelled {
		t.Error("expected the started run to be cancelled")
	}
	if h.clock.Pending() != 0 {
		t.Errorf("%d timers left after cancel", h.clock.Pending())
	}
	got, _ := h.svc.Book().Get(tx.ID)
	if got.Status != domain.StatusProcessing {
		t.Errorf("cancel must not transition, got %s", got.Status)
	}
}
