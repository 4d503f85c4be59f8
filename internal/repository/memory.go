package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/common"
)

// MemoryStore implements RunStore with in-memory storage for unit tests and
// for running without a database file.
type MemoryStore struct {
	mu    sync.RWMutex
	runs  map[uuid.UUID]*Run
	order []uuid.UUID // creation order, newest last
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[uuid.UUID]*Run)}
}

func (s *MemoryStore) Create(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.State == "" {
		run.State = constants.RunStateRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	cp := *run
	s.runs[run.ID] = &cp
	s.order = append(s.order, run.ID)
	return nil
}

func (s *MemoryStore) Finish(_ context.Context, id uuid.UUID, state constants.RunState, result RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return common.ErrNotFound
	}
	now := time.Now().UTC()
	run.State = state
	run.FinishedAt = &now
	r := result
	run.Result = &r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *run
	return &cp, nil
}

func (s *MemoryStore) Latest(_ context.Context) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil, common.ErrNotFound
	}
	cp := *s.runs[s.order[len(s.order)-1]]
	return &cp, nil
}

func (s *MemoryStore) LatestFinished(_ context.Context) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		run := s.runs[s.order[i]]
		if run.FinishedAt != nil {
			cp := *run
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *MemoryStore) Close() error { return nil }
