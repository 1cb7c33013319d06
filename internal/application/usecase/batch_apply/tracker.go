// Package batchapply contains the retroactive rule application use cases.
package batchapply

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// BatchRunTracker stores batch run state (implemented in-memory or in Redis).
type BatchRunTracker interface {
	// Begin registers a running run. It returns ErrBatchAlreadyRunning when the rule
	// already has a run in progress.
	Begin(ctx context.Context, run *entity.BatchRun) error

	// Save stores the latest snapshot of a run.
	Save(ctx context.Context, run *entity.BatchRun) error

	// Finish stores the terminal snapshot and releases the rule for new runs.
	Finish(ctx context.Context, run *entity.BatchRun) error

	// Get returns a snapshot of a run or ErrBatchRunNotFound.
	Get(ctx context.Context, runID uuid.UUID) (*entity.BatchRun, error)

	// ActiveRunID returns the id of the run in progress for a rule, if any.
	ActiveRunID(ctx context.Context, ruleID uuid.UUID) (uuid.UUID, bool, error)
}

// InMemoryBatchRunTracker is an in-memory implementation of BatchRunTracker.
type InMemoryBatchRunTracker struct {
	mu     sync.RWMutex
	runs   map[uuid.UUID]*entity.BatchRun
	active map[uuid.UUID]uuid.UUID
}

// NewInMemoryBatchRunTracker creates a new in-memory batch run tracker.
func NewInMemoryBatchRunTracker() *InMemoryBatchRunTracker {
	return &InMemoryBatchRunTracker{
		runs:   make(map[uuid.UUID]*entity.BatchRun),
		active: make(map[uuid.UUID]uuid.UUID),
	}
}

// Begin registers run as the active run of its rule.
func (t *InMemoryBatchRunTracker) Begin(_ context.Context, run *entity.BatchRun) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.active[run.RuleID]; ok {
		return domainerror.ErrBatchAlreadyRunning
	}

	t.active[run.RuleID] = run.ID
	t.runs[run.ID] = copyBatchRun(run)
	return nil
}

// Save stores a snapshot of run.
func (t *InMemoryBatchRunTracker) Save(_ context.Context, run *entity.BatchRun) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[run.ID] = copyBatchRun(run)
	return nil
}

// Finish stores the final snapshot and clears the rule's active run.
func (t *InMemoryBatchRunTracker) Finish(_ context.Context, run *entity.BatchRun) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.runs[run.ID] = copyBatchRun(run)
	if t.active[run.RuleID] == run.ID {
		delete(t.active, run.RuleID)
	}
	return nil
}

// Get returns a snapshot of the run.
func (t *InMemoryBatchRunTracker) Get(_ context.Context, runID uuid.UUID) (*entity.BatchRun, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	run, ok := t.runs[runID]
	if !ok {
		return nil, domainerror.ErrBatchRunNotFound
	}
	return copyBatchRun(run), nil
}

// ActiveRunID returns the run in progress for ruleID.
func (t *InMemoryBatchRunTracker) ActiveRunID(_ context.Context, ruleID uuid.UUID) (uuid.UUID, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	runID, ok := t.active[ruleID]
	return runID, ok, nil
}

// copyBatchRun detaches a snapshot from the run the worker goroutine keeps mutating.
func copyBatchRun(run *entity.BatchRun) *entity.BatchRun {
	c := *run
	if run.Result != nil {
		result := *run.Result
		result.Errors = append([]entity.BatchItemError(nil), run.Result.Errors...)
		c.Result = &result
	}
	if run.FinishedAt != nil {
		finishedAt := *run.FinishedAt
		c.FinishedAt = &finishedAt
	}
	return &c
}

// CancelRegistry holds the cancel functions of the runs executing in this process.
type CancelRegistry struct {
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

// NewCancelRegistry creates an empty registry.
func NewCancelRegistry() *CancelRegistry {
	return &CancelRegistry{
		cancels: make(map[uuid.UUID]context.CancelFunc),
	}
}

// Register associates cancel with runID.
func (r *CancelRegistry) Register(runID uuid.UUID, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels[runID] = cancel
}

// Remove forgets runID.
func (r *CancelRegistry) Remove(runID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, runID)
}

// Cancel signals the run. It reports false when the run is not executing here.
func (r *CancelRegistry) Cancel(runID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancel, ok := r.cancels[runID]
	if !ok {
		return false
	}
	cancel()
	return true
}

// CancelAll signals every run executing here. Used on shutdown.
func (r *CancelRegistry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cancel := range r.cancels {
		cancel()
	}
	return len(r.cancels)
}
