// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// UpdateTransactionRuleInput represents the input for transaction rule update.
// Conditions and Actions replace the stored lists as a whole when non-nil.
type UpdateTransactionRuleInput struct {
	RuleID      uuid.UUID
	Name        *string // Optional
	Description *string // Optional, empty string clears it
	Priority    *int    // Optional
	Conditions  []entity.RuleCondition
	Actions     []entity.RuleAction
	IsActive    *bool // Optional
}

// UpdateTransactionRuleOutput represents the output of transaction rule update.
type UpdateTransactionRuleOutput struct {
	Rule *entity.TransactionRule
}

// UpdateTransactionRuleUseCase handles transaction rule update logic.
type UpdateTransactionRuleUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
}

// NewUpdateTransactionRuleUseCase creates a new UpdateTransactionRuleUseCase instance.
func NewUpdateTransactionRuleUseCase(ruleRepo adapter.TransactionRuleRepository) *UpdateTransactionRuleUseCase {
	return &UpdateTransactionRuleUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute performs the transaction rule update.
func (uc *UpdateTransactionRuleUseCase) Execute(ctx context.Context, input UpdateTransactionRuleInput) (*UpdateTransactionRuleOutput, error) {
	rule, err := findRule(ctx, uc.ruleRepo, input.RuleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		rule.Name = name
	}

	if input.Description != nil {
		if *input.Description == "" {
			rule.Description = nil
		} else {
			description := *input.Description
			rule.Description = &description
		}
	}

	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return nil, err
		}
		rule.Priority = *input.Priority
	}

	if input.Conditions != nil {
		if err := validateConditions(input.Conditions); err != nil {
			return nil, err
		}
		rule.Conditions = input.Conditions
	}

	if input.Actions != nil {
		if err := validateActions(input.Actions); err != nil {
			return nil, err
		}
		rule.Actions = input.Actions
	}

	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	rule.UpdatedAt = time.Now().UTC()

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update transaction rule: %w", err)
	}

	return &UpdateTransactionRuleOutput{Rule: rule}, nil
}
