// Package repository persists batch-run records behind a narrow interface,
// so trigger-service state survives restarts instead of living in ambient
// globals.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deedscan/deedscan/constants"
)

// RunResult is the outcome of one completed batch run, serialized into the
// run record.
type RunResult struct {
	Success     bool   `json:"success"`
	Step        string `json:"step,omitempty"` // failing step on failure
	Error       string `json:"error,omitempty"`
	Processed   int    `json:"processed"`
	ResultsPath string `json:"results_path,omitempty"`
	Output      string `json:"output,omitempty"` // captured listing
}

// Run is one batch-run record.
type Run struct {
	ID         uuid.UUID
	State      constants.RunState
	StartedAt  time.Time
	FinishedAt *time.Time
	Result     *RunResult
}

// RunStore is the narrow persistence interface the trigger service and the
// orchestrator depend on.
type RunStore interface {
	// Create inserts a new run in RUNNING state.
	Create(ctx context.Context, run *Run) error
	// Finish marks a run DONE or FAILED and attaches its result.
	Finish(ctx context.Context, id uuid.UUID, state constants.RunState, result RunResult) error
	// Get returns a run by ID; common.ErrNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	// Latest returns the most recently started run; common.ErrNotFound if
	// none exists yet.
	Latest(ctx context.Context) (*Run, error)
	// LatestFinished returns the most recently finished run, skipping any
	// still in RUNNING state; common.ErrNotFound if no run has finished.
	LatestFinished(ctx context.Context) (*Run, error)
	// Close releases the store's resources.
	Close() error
}
