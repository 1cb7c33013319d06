// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// GetTransactionRuleInput represents the input for reading a single rule.
type GetTransactionRuleInput struct {
	RuleID uuid.UUID
}

// GetTransactionRuleOutput represents the output of reading a single rule.
type GetTransactionRuleOutput struct {
	Rule *entity.TransactionRule
}

// GetTransactionRuleUseCase handles reading a single rule.
type GetTransactionRuleUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
}

// NewGetTransactionRuleUseCase creates a new GetTransactionRuleUseCase instance.
func NewGetTransactionRuleUseCase(ruleRepo adapter.TransactionRuleRepository) *GetTransactionRuleUseCase {
	return &GetTransactionRuleUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute returns the rule.
func (uc *GetTransactionRuleUseCase) Execute(ctx context.Context, input GetTransactionRuleInput) (*GetTransactionRuleOutput, error) {
	rule, err := findRule(ctx, uc.ruleRepo, input.RuleID)
	if err != nil {
		return nil, err
	}
	return &GetTransactionRuleOutput{Rule: rule}, nil
}

// findRule loads a rule and maps a missing rule to a coded error.
func findRule(ctx context.Context, ruleRepo adapter.TransactionRuleRepository, id uuid.UUID) (*entity.TransactionRule, error) {
	rule, err := ruleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionRuleNotFound) {
			return nil, domainerror.NewTransactionRuleError(
				domainerror.ErrCodeRuleNotFound,
				"transaction rule not found",
				domainerror.ErrTransactionRuleNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction rule: %w", err)
	}
	return rule, nil
}
