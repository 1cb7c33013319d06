// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"fmt"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// CreateTransactionRuleInput represents the input for transaction rule creation.
type CreateTransactionRuleInput struct {
	Name        string
	Description *string
	Priority    *int // Optional, defaults to entity.DefaultRulePriority
	Conditions  []entity.RuleCondition
	Actions     []entity.RuleAction
	IsActive    *bool // Optional, defaults to true
}

// CreateTransactionRuleOutput represents the output of transaction rule creation.
type CreateTransactionRuleOutput struct {
	Rule *entity.TransactionRule
}

// CreateTransactionRuleUseCase handles transaction rule creation logic.
type CreateTransactionRuleUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
}

// NewCreateTransactionRuleUseCase creates a new CreateTransactionRuleUseCase instance.
func NewCreateTransactionRuleUseCase(ruleRepo adapter.TransactionRuleRepository) *CreateTransactionRuleUseCase {
	return &CreateTransactionRuleUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute performs the transaction rule creation.
func (uc *CreateTransactionRuleUseCase) Execute(ctx context.Context, input CreateTransactionRuleInput) (*CreateTransactionRuleOutput, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	priority := entity.DefaultRulePriority
	if input.Priority != nil {
		priority = *input.Priority
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}

	if err := validateConditions(input.Conditions); err != nil {
		return nil, err
	}
	if err := validateActions(input.Actions); err != nil {
		return nil, err
	}

	rule := entity.NewTransactionRule(name, input.Description, priority, input.Conditions, input.Actions)
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create transaction rule: %w", err)
	}

	return &CreateTransactionRuleOutput{Rule: rule}, nil
}
