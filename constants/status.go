package constants

// RunState is the canonical state for a batch run record.
type RunState string

// Stable values (store these exact strings in the run store).
const (
	RunStateIdle    RunState = "IDLE"    // no run started yet
	RunStateRunning RunState = "RUNNING" // in progress
	RunStateDone    RunState = "DONE"    // completed, result available
	RunStateFailed  RunState = "FAILED"  // terminal failure
)
