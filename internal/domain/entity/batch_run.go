// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// BatchScope restricts which historical transactions a batch run considers.
type BatchScope string

const (
	BatchScopeAll               BatchScope = "ALL"
	BatchScopeUncategorizedOnly BatchScope = "UNCATEGORIZED_ONLY"
)

// IsValid reports whether s is a known scope.
func (s BatchScope) IsValid() bool {
	return s == BatchScopeAll || s == BatchScopeUncategorizedOnly
}

// Includes reports whether tx is eligible under the scope.
func (s BatchScope) Includes(tx *Transaction) bool {
	if s == BatchScopeUncategorizedOnly {
		return tx.IsUncategorized() && !tx.IsBlocked
	}
	return true
}

// BatchItemError records a non-fatal failure for one transaction during a batch run.
type BatchItemError struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Message       string    `json:"message"`
}

// BatchApplyResult summarizes a batch run. For a cancelled run it covers only the work done.
type BatchApplyResult struct {
	TotalProcessed int              `json:"total_processed"`
	TotalUpdated   int              `json:"total_updated"`
	TotalDeleted   int              `json:"total_deleted"`
	Errors         []BatchItemError `json:"errors"`
	Cancelled      bool             `json:"cancelled"`
}

// NewBatchApplyResult creates an empty result with a non-nil error list.
func NewBatchApplyResult() *BatchApplyResult {
	return &BatchApplyResult{
		Errors: make([]BatchItemError, 0),
	}
}

// BatchRunStatus is the state of a batch run.
type BatchRunStatus string

const (
	BatchRunStatusIdle      BatchRunStatus = "idle"
	BatchRunStatusRunning   BatchRunStatus = "running"
	BatchRunStatusCompleted BatchRunStatus = "completed"
	BatchRunStatusCancelled BatchRunStatus = "cancelled"
	BatchRunStatusFailed    BatchRunStatus = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s BatchRunStatus) IsTerminal() bool {
	return s == BatchRunStatusCompleted || s == BatchRunStatusCancelled || s == BatchRunStatusFailed
}

// BatchRun tracks one retroactive application of a rule.
//
// Idle -> Running -> Completed | Cancelled | Failed. Completed and Cancelled carry a Result,
// Failed carries only the Failure message.
type BatchRun struct {
	ID         uuid.UUID         `json:"id"`
	RuleID     uuid.UUID         `json:"rule_id"`
	Scope      BatchScope        `json:"scope"`
	Status     BatchRunStatus    `json:"status"`
	Current    int               `json:"current"`
	Total      int               `json:"total"`
	Result     *BatchApplyResult `json:"result,omitempty"`
	Failure    string            `json:"failure,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

// NewBatchRun creates an idle run for the given rule and scope.
func NewBatchRun(ruleID uuid.UUID, scope BatchScope) *BatchRun {
	return &BatchRun{
		ID:     uuid.New(),
		RuleID: ruleID,
		Scope:  scope,
		Status: BatchRunStatusIdle,
	}
}

// Start moves the run to Running.
func (r *BatchRun) Start(now time.Time) {
	r.Status = BatchRunStatusRunning
	r.StartedAt = now
}

// Progress records the live (current, total) pair.
func (r *BatchRun) Progress(current, total int) {
	r.Current = current
	r.Total = total
}

// Complete moves the run to Completed or Cancelled depending on the result.
func (r *BatchRun) Complete(result *BatchApplyResult, now time.Time) {
	r.Status = BatchRunStatusCompleted
	if result.Cancelled {
		r.Status = BatchRunStatusCancelled
	}
	r.Result = result
	r.FinishedAt = &now
}

// Fail moves the run to Failed. Any partial result is discarded.
func (r *BatchRun) Fail(err error, now time.Time) {
	r.Status = BatchRunStatusFailed
	r.Result = nil
	r.Failure = err.Error()
	r.FinishedAt = &now
}
