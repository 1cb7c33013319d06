// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"fmt"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// ListTransactionRulesInput represents the input for listing rules.
type ListTransactionRulesInput struct {
	ActiveOnly bool
}

// ListTransactionRulesOutput represents the output of listing rules.
// Rules are in evaluation order: ascending priority, then creation order.
type ListTransactionRulesOutput struct {
	Rules []*entity.TransactionRule
}

// ListTransactionRulesUseCase handles listing rules.
type ListTransactionRulesUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
}

// NewListTransactionRulesUseCase creates a new ListTransactionRulesUseCase instance.
func NewListTransactionRulesUseCase(ruleRepo adapter.TransactionRuleRepository) *ListTransactionRulesUseCase {
	return &ListTransactionRulesUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute lists the rules.
func (uc *ListTransactionRulesUseCase) Execute(ctx context.Context, input ListTransactionRulesInput) (*ListTransactionRulesOutput, error) {
	var (
		rules []*entity.TransactionRule
		err   error
	)
	if input.ActiveOnly {
		rules, err = uc.ruleRepo.FindActive(ctx)
	} else {
		rules, err = uc.ruleRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction rules: %w", err)
	}

	return &ListTransactionRulesOutput{Rules: rules}, nil
}
