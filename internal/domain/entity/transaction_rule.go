// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRulePriority is assigned to rules created without an explicit priority.
const DefaultRulePriority = 100

// TransactionField identifies the transaction attribute a condition or action targets.
type TransactionField string

const (
	FieldAmount    TransactionField = "AMOUNT"
	FieldMerchant  TransactionField = "MERCHANT"
	FieldCategory  TransactionField = "CATEGORY"
	FieldSMSText   TransactionField = "SMS_TEXT"
	FieldType      TransactionField = "TYPE"
	FieldBankName  TransactionField = "BANK_NAME"
	FieldNarration TransactionField = "NARRATION"
)

// IsValid reports whether f is a known field.
func (f TransactionField) IsValid() bool {
	switch f {
	case FieldAmount, FieldMerchant, FieldCategory, FieldSMSText, FieldType, FieldBankName, FieldNarration:
		return true
	}
	return false
}

// ConditionOperator is the comparison applied by a RuleCondition.
type ConditionOperator string

const (
	OperatorLessThan    ConditionOperator = "LESS_THAN"
	OperatorGreaterThan ConditionOperator = "GREATER_THAN"
	OperatorEquals      ConditionOperator = "EQUALS"
	OperatorContains    ConditionOperator = "CONTAINS"
	OperatorStartsWith  ConditionOperator = "STARTS_WITH"
)

// IsValid reports whether o is a known operator.
func (o ConditionOperator) IsValid() bool {
	switch o {
	case OperatorLessThan, OperatorGreaterThan, OperatorEquals, OperatorContains, OperatorStartsWith:
		return true
	}
	return false
}

// ActionType is the mutation performed by a RuleAction.
type ActionType string

const (
	ActionSet       ActionType = "SET"
	ActionAppend    ActionType = "APPEND"
	ActionPrepend   ActionType = "PREPEND"
	ActionClear     ActionType = "CLEAR"
	ActionAddTag    ActionType = "ADD_TAG"
	ActionRemoveTag ActionType = "REMOVE_TAG"
	ActionBlock     ActionType = "BLOCK"
)

// IsValid reports whether a is a known action type.
func (a ActionType) IsValid() bool {
	switch a {
	case ActionSet, ActionAppend, ActionPrepend, ActionClear, ActionAddTag, ActionRemoveTag, ActionBlock:
		return true
	}
	return false
}

// RuleCondition is a single field/operator/value test.
// Value is kept as an untyped string and parsed at evaluation time.
type RuleCondition struct {
	Field    TransactionField  `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    string            `json:"value"`
}

// RuleAction is a single field mutation, or the BLOCK directive.
type RuleAction struct {
	Field      TransactionField `json:"field"`
	ActionType ActionType       `json:"action_type"`
	Value      string           `json:"value"`
}

// TransactionRule is a named, prioritized bundle of AND-ed conditions and ordered actions.
// Lower priority values are evaluated first.
type TransactionRule struct {
	ID               uuid.UUID
	Name             string
	Description      *string
	Priority         int
	Conditions       []RuleCondition
	Actions          []RuleAction
	IsActive         bool
	IsSystemTemplate bool // Only affects deletability
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewTransactionRule creates a new active TransactionRule entity.
func NewTransactionRule(
	name string,
	description *string,
	priority int,
	conditions []RuleCondition,
	actions []RuleAction,
) *TransactionRule {
	now := time.Now().UTC()

	return &TransactionRule{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Priority:    priority,
		Conditions:  conditions,
		Actions:     actions,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasBlockAction reports whether any action of the rule is BLOCK.
func (r *TransactionRule) HasBlockAction() bool {
	for _, action := range r.Actions {
		if action.ActionType == ActionBlock {
			return true
		}
	}
	return false
}

// RulePriorityUpdate represents a priority update for a single rule.
type RulePriorityUpdate struct {
	ID       uuid.UUID
	Priority int
}
