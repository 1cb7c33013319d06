// Package error defines domain-specific errors for the rule engine service.
package error

import "errors"

// TransactionRule domain errors.
var (
	// ErrTransactionRuleNotFound is returned when a rule is not found in the system.
	ErrTransactionRuleNotFound = errors.New("transaction rule not found")

	// ErrRuleMissingFields is returned when required fields are missing.
	ErrRuleMissingFields = errors.New("missing required fields")

	// ErrRuleNameTooLong is returned when the rule name exceeds the maximum length.
	ErrRuleNameTooLong = errors.New("rule name too long")

	// ErrRuleNoConditions is returned when a rule has no conditions.
	// An empty condition list would match every transaction.
	ErrRuleNoConditions = errors.New("rule must have at least one condition")

	// ErrRuleNoActions is returned when a rule has no actions.
	ErrRuleNoActions = errors.New("rule must have at least one action")

	// ErrInvalidCondition is returned when a condition has an unknown field or operator,
	// or a value that can never be evaluated.
	ErrInvalidCondition = errors.New("invalid rule condition")

	// ErrInvalidAction is returned when an action has an unknown field or type, or a value
	// that is not allowed for its type.
	ErrInvalidAction = errors.New("invalid rule action")

	// ErrInvalidPriority is returned when a rule priority is negative.
	ErrInvalidPriority = errors.New("invalid rule priority")

	// ErrSystemTemplateNotDeletable is returned when deleting a system template rule.
	ErrSystemTemplateNotDeletable = errors.New("system template rules cannot be deleted")
)

// TransactionRuleErrorCode defines error codes for transaction rule errors.
// Format: TRL-XXYYYY where XX is category and YYYY is specific error.
type TransactionRuleErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeRuleNotFound            TransactionRuleErrorCode = "TRL-010001"
	ErrCodeMissingRuleFields       TransactionRuleErrorCode = "TRL-010002"
	ErrCodeRuleNameTooLong         TransactionRuleErrorCode = "TRL-010003"
	ErrCodeRuleNoConditions        TransactionRuleErrorCode = "TRL-010004"
	ErrCodeRuleNoActions           TransactionRuleErrorCode = "TRL-010005"
	ErrCodeInvalidCondition        TransactionRuleErrorCode = "TRL-010006"
	ErrCodeInvalidAction           TransactionRuleErrorCode = "TRL-010007"
	ErrCodeInvalidPriority         TransactionRuleErrorCode = "TRL-010008"
	ErrCodeSystemTemplateProtected TransactionRuleErrorCode = "TRL-020001"
)

// TransactionRuleError represents a transaction rule error with code and message.
type TransactionRuleError struct {
	Code    TransactionRuleErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionRuleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionRuleError) Unwrap() error {
	return e.Err
}

// NewTransactionRuleError creates a new TransactionRuleError with the given code and message.
func NewTransactionRuleError(code TransactionRuleErrorCode, message string, err error) *TransactionRuleError {
	return &TransactionRuleError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
