// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// ReorderTransactionRulesInput represents the input for reordering rules.
type ReorderTransactionRulesInput struct {
	Order []RulePriorityInput
}

// RulePriorityInput represents a priority update for a single rule.
type RulePriorityInput struct {
	ID       uuid.UUID
	Priority int
}

// ReorderTransactionRulesOutput represents the output of reordering rules.
type ReorderTransactionRulesOutput struct {
	Rules []*entity.TransactionRule
}

// ReorderTransactionRulesUseCase handles rule reordering logic.
type ReorderTransactionRulesUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
}

// NewReorderTransactionRulesUseCase creates a new ReorderTransactionRulesUseCase instance.
func NewReorderTransactionRulesUseCase(ruleRepo adapter.TransactionRuleRepository) *ReorderTransactionRulesUseCase {
	return &ReorderTransactionRulesUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute performs the rule reordering.
func (uc *ReorderTransactionRulesUseCase) Execute(ctx context.Context, input ReorderTransactionRulesInput) (*ReorderTransactionRulesOutput, error) {
	// Validate that at least one rule is provided
	if len(input.Order) == 0 {
		return nil, domainerror.NewTransactionRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"at least one rule must be provided",
			domainerror.ErrRuleMissingFields,
		)
	}

	// Verify all rules exist and priorities are valid
	updates := make([]entity.RulePriorityUpdate, len(input.Order))
	for i, update := range input.Order {
		if _, err := findRule(ctx, uc.ruleRepo, update.ID); err != nil {
			return nil, err
		}
		if err := validatePriority(update.Priority); err != nil {
			return nil, err
		}
		updates[i] = entity.RulePriorityUpdate{
			ID:       update.ID,
			Priority: update.Priority,
		}
	}

	// Update priorities in batch
	if err := uc.ruleRepo.UpdatePriorities(ctx, updates); err != nil {
		return nil, fmt.Errorf("failed to update rule priorities: %w", err)
	}

	rules, err := uc.ruleRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated rules: %w", err)
	}

	return &ReorderTransactionRulesOutput{Rules: rules}, nil
}
