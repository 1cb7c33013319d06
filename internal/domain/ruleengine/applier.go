// Package ruleengine evaluates transaction rules against transactions.
package ruleengine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// ApplyOutcome is the result of applying a rule's actions.
type ApplyOutcome struct {
	Transaction *entity.Transaction
	Blocked     bool
	Errors      []*domainerror.ApplyError
}

// Applier applies rule actions to a working copy of a transaction.
type Applier struct{}

// NewApplier creates a new Applier.
func NewApplier() *Applier {
	return &Applier{}
}

// Apply runs actions in order against a copy of tx; tx itself is never modified.
//
// BLOCK marks the copy blocked and discards the remaining actions. An action that makes no
// sense for its field is skipped and reported in Errors.
//
// SET is idempotent; APPEND and PREPEND are not: applying the same rule twice concatenates
// the value twice.
func (a *Applier) Apply(tx *entity.Transaction, actions []entity.RuleAction) ApplyOutcome {
	outcome := ApplyOutcome{
		Transaction: tx.Clone(),
	}

	for i, action := range actions {
		if action.ActionType == entity.ActionBlock {
			outcome.Transaction.IsBlocked = true
			outcome.Blocked = true
			break
		}

		if err := applyAction(outcome.Transaction, action); err != nil {
			outcome.Errors = append(outcome.Errors, &domainerror.ApplyError{
				Index:  i,
				Action: fmt.Sprintf("%s %s", action.ActionType, action.Field),
				Err:    err,
			})
		}
	}

	return outcome
}

// applyAction mutates tx for a single non-BLOCK action.
func applyAction(tx *entity.Transaction, action entity.RuleAction) error {
	switch action.ActionType {
	case entity.ActionAddTag:
		return addTag(tx, action.Value)
	case entity.ActionRemoveTag:
		return removeTag(tx, action.Value)
	case entity.ActionSet, entity.ActionAppend, entity.ActionPrepend, entity.ActionClear:
	default:
		return domainerror.ErrUnsupportedAction
	}

	if action.Field == entity.FieldAmount {
		return applyAmountAction(tx, action)
	}

	current, ok := tx.StringField(action.Field)
	if !ok {
		return domainerror.ErrUnsupportedAction
	}

	switch action.ActionType {
	case entity.ActionSet:
		current = action.Value
	case entity.ActionAppend:
		current += action.Value
	case entity.ActionPrepend:
		current = action.Value + current
	case entity.ActionClear:
		current = ""
	}
	tx.SetStringField(action.Field, current)
	return nil
}

// applyAmountAction handles SET and CLEAR on the numeric amount field.
func applyAmountAction(tx *entity.Transaction, action entity.RuleAction) error {
	switch action.ActionType {
	case entity.ActionSet:
		amount, err := decimal.NewFromString(strings.TrimSpace(action.Value))
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domainerror.ErrInvalidActionValue, action.Value)
		}
		tx.Amount = amount
		return nil
	case entity.ActionClear:
		tx.Amount = decimal.Zero
		return nil
	default:
		return domainerror.ErrUnsupportedAction
	}
}

func addTag(tx *entity.Transaction, value string) error {
	tag := strings.TrimSpace(value)
	if tag == "" {
		return fmt.Errorf("%w: empty tag", domainerror.ErrInvalidActionValue)
	}
	if !tx.HasTag(tag) {
		tx.Tags = append(tx.Tags, tag)
	}
	return nil
}

func removeTag(tx *entity.Transaction, value string) error {
	tag := strings.TrimSpace(value)
	if tag == "" {
		return fmt.Errorf("%w: empty tag", domainerror.ErrInvalidActionValue)
	}
	tx.Tags = slices.DeleteFunc(tx.Tags, func(existing string) bool {
		return strings.EqualFold(existing, tag)
	})
	return nil
}
