// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

const (
	// MaxRuleNameLength is the maximum allowed length for rule names.
	MaxRuleNameLength = 100
)

// validateName checks the rule name and returns it trimmed.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domainerror.NewTransactionRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"name is required",
			domainerror.ErrRuleMissingFields,
		)
	}

	if len([]rune(name)) > MaxRuleNameLength {
		return "", domainerror.NewTransactionRuleError(
			domainerror.ErrCodeRuleNameTooLong,
			fmt.Sprintf("name must not exceed %d characters", MaxRuleNameLength),
			domainerror.ErrRuleNameTooLong,
		)
	}

	return name, nil
}

// validatePriority rejects negative priorities.
func validatePriority(priority int) error {
	if priority < 0 {
		return domainerror.NewTransactionRuleError(
			domainerror.ErrCodeInvalidPriority,
			"priority must be zero or greater",
			domainerror.ErrInvalidPriority,
		)
	}
	return nil
}

// validateConditions checks that every condition can be evaluated.
// Pairings the matcher would always treat as a non-match are rejected here.
func validateConditions(conditions []entity.RuleCondition) error {
	if len(conditions) == 0 {
		return domainerror.NewTransactionRuleError(
			domainerror.ErrCodeRuleNoConditions,
			"at least one condition is required",
			domainerror.ErrRuleNoConditions,
		)
	}

	for i, condition := range conditions {
		if err := validateCondition(condition); err != nil {
			return domainerror.NewTransactionRuleError(
				domainerror.ErrCodeInvalidCondition,
				fmt.Sprintf("condition %d: %s", i, err.Error()),
				domainerror.ErrInvalidCondition,
			)
		}
	}

	return nil
}

func validateCondition(condition entity.RuleCondition) error {
	if !condition.Field.IsValid() {
		return fmt.Errorf("unknown field %q", condition.Field)
	}
	if !condition.Operator.IsValid() {
		return fmt.Errorf("unknown operator %q", condition.Operator)
	}

	if condition.Field == entity.FieldAmount {
		switch condition.Operator {
		case entity.OperatorLessThan, entity.OperatorGreaterThan, entity.OperatorEquals:
		default:
			return fmt.Errorf("operator %s cannot be used with AMOUNT", condition.Operator)
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(condition.Value)); err != nil {
			return fmt.Errorf("value %q is not a number", condition.Value)
		}
		return nil
	}

	if condition.Operator == entity.OperatorLessThan || condition.Operator == entity.OperatorGreaterThan {
		return fmt.Errorf("operator %s can only be used with AMOUNT", condition.Operator)
	}

	return nil
}

// validateActions checks that every action can be applied.
func validateActions(actions []entity.RuleAction) error {
	if len(actions) == 0 {
		return domainerror.NewTransactionRuleError(
			domainerror.ErrCodeRuleNoActions,
			"at least one action is required",
			domainerror.ErrRuleNoActions,
		)
	}

	for i, action := range actions {
		if err := validateAction(action); err != nil {
			return domainerror.NewTransactionRuleError(
				domainerror.ErrCodeInvalidAction,
				fmt.Sprintf("action %d: %s", i, err.Error()),
				domainerror.ErrInvalidAction,
			)
		}
	}

	return nil
}

func validateAction(action entity.RuleAction) error {
	if !action.ActionType.IsValid() {
		return fmt.Errorf("unknown action type %q", action.ActionType)
	}

	switch action.ActionType {
	case entity.ActionBlock:
		if action.Value != "" {
			return fmt.Errorf("BLOCK does not take a value")
		}
		return nil
	case entity.ActionAddTag, entity.ActionRemoveTag:
		if strings.TrimSpace(action.Value) == "" {
			return fmt.Errorf("%s requires a tag", action.ActionType)
		}
		return nil
	}

	if !action.Field.IsValid() {
		return fmt.Errorf("unknown field %q", action.Field)
	}

	if action.Field == entity.FieldAmount {
		switch action.ActionType {
		case entity.ActionClear:
			return nil
		case entity.ActionSet:
			if _, err := decimal.NewFromString(strings.TrimSpace(action.Value)); err != nil {
				return fmt.Errorf("value %q is not a number", action.Value)
			}
			return nil
		default:
			return fmt.Errorf("%s cannot be used with AMOUNT", action.ActionType)
		}
	}

	return nil
}
