// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	"github.com/finance-tracker/rule-engine/internal/domain/ruleengine"
)

// PreviewRulesInput represents a candidate transaction to evaluate.
type PreviewRulesInput struct {
	Transaction *entity.Transaction
}

// PreviewRulesOutput represents what ingesting the candidate would produce.
type PreviewRulesOutput struct {
	MatchedRule *entity.TransactionRule
	Transaction *entity.Transaction
	Blocked     bool
	Warnings    []string
}

// PreviewRulesUseCase evaluates the active rule set against a candidate transaction
// without persisting anything.
type PreviewRulesUseCase struct {
	ruleRepo adapter.TransactionRuleRepository
	engine   *ruleengine.Engine
}

// NewPreviewRulesUseCase creates a new PreviewRulesUseCase instance.
func NewPreviewRulesUseCase(ruleRepo adapter.TransactionRuleRepository, engine *ruleengine.Engine) *PreviewRulesUseCase {
	return &PreviewRulesUseCase{
		ruleRepo: ruleRepo,
		engine:   engine,
	}
}

// Execute performs the preview.
func (uc *PreviewRulesUseCase) Execute(ctx context.Context, input PreviewRulesInput) (*PreviewRulesOutput, error) {
	rules, err := uc.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active rules: %w", err)
	}

	evaluation := uc.engine.Evaluate(rules, input.Transaction)

	output := &PreviewRulesOutput{
		Transaction: evaluation.Transaction,
		Blocked:     evaluation.Blocked,
		Warnings:    make([]string, 0, len(evaluation.ApplyErrors)),
	}
	for _, applyErr := range evaluation.ApplyErrors {
		output.Warnings = append(output.Warnings, applyErr.Error())
	}

	if evaluation.Matched() {
		output.MatchedRule = ruleByID(rules, *evaluation.MatchedRuleID)
	}

	return output, nil
}

func ruleByID(rules []*entity.TransactionRule, id uuid.UUID) *entity.TransactionRule {
	for _, rule := range rules {
		if rule.ID == id {
			return rule
		}
	}
	return nil
}
