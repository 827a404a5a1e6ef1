package usecase

import (
	"context"
	"time"

	"github.com/MMN3003/bridgeswap/src/clock"
	"github.com/MMN3003/bridgeswap/src/transaction/domain"
)

// run is one processing sequence. Timers fire step events and the final
// completion; a stopped run ignores its own late callbacks.
type run struct {
	id        string
	trackerID string
	started   time.Time
	timers    []clock.Timer
	alive     bool
}

// stop must be called with Service.mu held.
func (r *run) stop() {
	r.alive = false
	for _, t := range r.timers {
		t.Stop()
	}
}

func (s *Service) startRun(t domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.runs[t.ID]; ok {
		old.stop()
	}
	r := &run{id: t.ID, trackerID: t.TrackerID, started: s.clock.Now(), alive: true}
	for i, deadline := range domain.StepDeadlines() {
		step := domain.Steps[i]
		r.timers = append(r.timers, s.clock.AfterFunc(deadline, func() { s.onStep(r, step) }))
	}
	r.timers = append(r.timers, s.clock.AfterFunc(domain.CompletionAfter(), func() { s.onComplete(r) }))
	s.runs[t.ID] = r
	s.logger.WithField("tracker_id", t.TrackerID).Infof("processing started")
}

func (s *Service) isLive(r *run) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.alive && s.runs[r.id] == r
}

// retire removes r if it is still the live run for its transaction.
func (s *Service) retire(r *run) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !r.alive || s.runs[r.id] != r {
		return false
	}
	r.alive = false
	delete(s.runs, r.id)
	return true
}

func (s *Service) onStep(r *run, step domain.Step) {
	if !s.isLive(r) {
		return
	}
	s.logger.WithField("tracker_id", r.trackerID).Debugf("step %d reached: %s", step.ID, step.Label)
	s.publish(context.Background(), domain.Event{
		Type:          domain.EventStepReached,
		TransactionID: r.id,
		TrackerID:     r.trackerID,
		To:            domain.StatusProcessing,
		Step:          step.ID,
		At:            s.clock.Now().UTC(),
	})
}

func (s *Service) onComplete(r *run) {
	unlock := s.locks.lock(r.id)
	defer unlock()

	if !s.retire(r) {
		return
	}
	ctx := context.Background()
	current, err := s.load(ctx, r.id)
	if err != nil {
		s.logger.WithField("tracker_id", r.trackerID).Errorf("cannot complete: %v", err)
		return
	}
	if !current.Status.CanTransition(domain.StatusCompleted) {
		s.logger.WithField("tracker_id", r.trackerID).Warnf("not completing from %s", current.Status)
		return
	}
	hash := placeholderTxHash()
	s.apply(ctx, *current, domain.StatusCompleted, domain.Patch{TxHash: &hash})
}
