// Package server exposes the trigger API: start a batch run, report the
// last run's status. Run state lives in the run store, not in ambient
// globals, so a restart still answers /status truthfully.
package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/common"
	"github.com/deedscan/deedscan/internal/repository"
)

// WorkFunc executes one batch run and reports its outcome.
type WorkFunc func(ctx context.Context) repository.RunResult

// Trigger serializes batch runs: at most one in flight, started
// asynchronously, with the outcome written to the run store.
type Trigger struct {
	store  repository.RunStore
	work   WorkFunc
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

func NewTrigger(store repository.RunStore, work WorkFunc, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{store: store, work: work, logger: logger}
}

// Start begins a run in the background. Returns common.ErrConflict when a
// run is already in progress.
func (t *Trigger) Start(ctx context.Context) (uuid.UUID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return uuid.Nil, common.ErrConflict
	}

	run := &repository.Run{}
	if err := t.store.Create(ctx, run); err != nil {
		return uuid.Nil, common.WrapError(err, "create run record")
	}
	t.running = true

	// Detached context: the run outlives the HTTP request that started it.
	go t.execute(context.Background(), run.ID)
	return run.ID, nil
}

func (t *Trigger) execute(ctx context.Context, id uuid.UUID) {
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	t.logger.Info("trigger.run.start", "run_id", id)
	result := t.work(ctx)

	state := constants.RunStateDone
	if !result.Success {
		state = constants.RunStateFailed
	}
	if err := t.store.Finish(ctx, id, state, result); err != nil {
		t.logger.Error("trigger.run.finish_failed", "run_id", id, "error", err)
		return
	}
	t.logger.Info("trigger.run.done", "run_id", id, "state", state, "processed", result.Processed)
}

// Status describes the trigger's current state for the /status endpoint.
type Status struct {
	Running    bool                  `json:"running"`
	LastResult *repository.RunResult `json:"last_result"`
}

// Status reports whether a run is in flight and the last finished run's
// result (nil until a run has completed). A run still in progress has no
// result yet, so the previous run's result stays visible until the new one
// finishes.
func (t *Trigger) Status(ctx context.Context) (Status, error) {
	t.mu.Lock()
	running := t.running
	t.mu.Unlock()

	latest, err := t.store.LatestFinished(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Status{Running: running}, nil
		}
		return Status{}, common.WrapError(err, "load latest finished run")
	}
	return Status{Running: running, LastResult: latest.Result}, nil
}
