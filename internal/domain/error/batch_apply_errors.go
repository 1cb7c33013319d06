// Package error defines domain-specific errors for the rule engine service.
package error

import (
	"errors"
	"fmt"
)

// Rule application and batch errors.
var (
	// ErrUnsupportedAction is returned when an action's field/type pairing has no meaning.
	ErrUnsupportedAction = errors.New("unsupported action for field")

	// ErrInvalidActionValue is returned when an action value cannot be applied to its field.
	ErrInvalidActionValue = errors.New("invalid action value")

	// ErrBatchAlreadyRunning is returned when a batch run is already in flight for the rule.
	ErrBatchAlreadyRunning = errors.New("batch apply already running for rule")

	// ErrBatchRunNotFound is returned when a batch run is not known to the tracker.
	ErrBatchRunNotFound = errors.New("batch run not found")

	// ErrBatchRunNotActive is returned when cancelling a run that is not running.
	ErrBatchRunNotActive = errors.New("batch run is not running")

	// ErrInvalidBatchScope is returned when the scope is unknown.
	ErrInvalidBatchScope = errors.New("invalid batch scope")

	// ErrHistoryUnavailable is returned when the transaction history cannot be read.
	ErrHistoryUnavailable = errors.New("transaction history unavailable")
)

// ApplyError is a non-fatal failure of a single action. The action is skipped and the
// remaining actions still run.
type ApplyError struct {
	Index  int
	Action string
	Err    error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("action %d (%s): %v", e.Index, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// BatchFatalError is an unrecoverable batch failure. Per-item errors collected before it
// are not part of the error.
type BatchFatalError struct {
	Processed int
	Err       error
}

// Error implements the error interface.
func (e *BatchFatalError) Error() string {
	return fmt.Sprintf("batch apply failed after %d transactions: %v", e.Processed, e.Err)
}

// Unwrap returns the underlying error.
func (e *BatchFatalError) Unwrap() error {
	return e.Err
}

// BatchApplyErrorCode defines error codes for batch apply errors.
// Format: BAT-XXYYYY where XX is category and YYYY is specific error.
type BatchApplyErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidBatchScope BatchApplyErrorCode = "BAT-010001"
	ErrCodeBatchRuleNotFound BatchApplyErrorCode = "BAT-010002"
	ErrCodeBatchRunNotFound  BatchApplyErrorCode = "BAT-010003"

	// State errors (02XXXX)
	ErrCodeBatchAlreadyRunning BatchApplyErrorCode = "BAT-020001"
	ErrCodeBatchRunNotActive   BatchApplyErrorCode = "BAT-020002"
	ErrCodeBatchRateLimited    BatchApplyErrorCode = "BAT-020003"
)

// BatchApplyError represents a batch apply error with code and message.
type BatchApplyError struct {
	Code    BatchApplyErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BatchApplyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BatchApplyError) Unwrap() error {
	return e.Err
}

// NewBatchApplyError creates a new BatchApplyError with the given code and message.
func NewBatchApplyError(code BatchApplyErrorCode, message string, err error) *BatchApplyError {
	return &BatchApplyError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
