package cron

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MMN3003/bridgeswap/src/cron/domain"
	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/google/uuid"
)

type mockLeases struct {
	held       bool
	createErr  error
	releaseErr error
	releaseCtx error
}

func (m *mockLeases) CreateCron(ctx context.Context, id uuid.UUID) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.held {
		return domain.ErrLocked
	}
	m.held = true
	return nil
}

func (m *mockLeases) DeleteCron(ctx context.Context, id uuid.UUID) error {
	m.releaseCtx = ctx.Err()
	if m.releaseErr != nil {
		return m.releaseErr
	}
	m.held = false
	return nil
}

var job = uuid.MustParse("62444ba0-b2dd-4b8f-afee-c04f7b2ab6f0")

func TestLeaseLock_RunsAndReleases(t *testing.T) {
	leases := &mockLeases{}
	ran := false
	if !NewLeaseLock(leases, logger.Nop()).Hold(context.Background(), job, func(context.Context) { ran = true }) {
		t.Fatal("expected the job to run")
	}
	if !ran || leases.held {
		t.Errorf("ran %v, still held %v", ran, leases.held)
	}
}

func TestLeaseLock_SkipsQuietlyWhenHeld(t *testing.T) {
	var buf bytes.Buffer
	leases := &mockLeases{held: true}
	lock := NewLeaseLock(leases, logger.NewWithWriter("prod", &buf))
	if lock.Hold(context.Background(), job, func(context.Context) { t.Error("job ran without the lease") }) {
		t.Error("expected a skipped tick")
	}
	if buf.Len() != 0 {
		t.Errorf("a held lease is not an error: %s", buf.String())
	}

	leases.createErr = errors.New("connection refused")
	lock.Hold(context.Background(), job, func(context.Context) {})
	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("expected store failure logged, got %s", buf.String())
	}
}

func TestLeaseLock_ReleasesAfterCancellation(t *testing.T) {
	var buf bytes.Buffer
	leases := &mockLeases{releaseErr: errors.New("row vanished")}
	ctx, cancel := context.WithCancel(context.Background())
	NewLeaseLock(leases, logger.NewWithWriter("prod", &buf)).Hold(ctx, job, func(context.Context) { cancel() })

	if leases.releaseCtx != nil {
		t.Errorf("release ran with a dead context: %v", leases.releaseCtx)
	}
	if !strings.Contains(buf.String(), "row vanished") {
		t.Errorf("expected release failure logged, got %s", buf.String())
	}
}
