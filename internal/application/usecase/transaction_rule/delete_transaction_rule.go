// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// DeleteTransactionRuleInput represents the input for transaction rule deletion.
type DeleteTransactionRuleInput struct {
	RuleID uuid.UUID
}

// DeleteTransactionRuleUseCase handles transaction rule deletion logic.
type DeleteTransactionRuleUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
}

// NewDeleteTransactionRuleUseCase creates a new DeleteTransactionRuleUseCase instance.
func NewDeleteTransactionRuleUseCase(ruleRepo adapter.TransactionRuleRepository) *DeleteTransactionRuleUseCase {
	return &DeleteTransactionRuleUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute performs the transaction rule deletion. System templates can be deactivated
// but not deleted.
func (uc *DeleteTransactionRuleUseCase) Execute(ctx context.Context, input DeleteTransactionRuleInput) error {
	rule, err := findRule(ctx, uc.ruleRepo, input.RuleID)
	if err != nil {
		return err
	}

	if rule.IsSystemTemplate {
		return domainerror.NewTransactionRuleError(
			domainerror.ErrCodeSystemTemplateProtected,
			"system template rules cannot be deleted",
			domainerror.ErrSystemTemplateNotDeletable,
		)
	}

	if err := uc.ruleRepo.Delete(ctx, rule.ID); err != nil {
		return fmt.Errorf("failed to delete transaction rule: %w", err)
	}

	return nil
}
