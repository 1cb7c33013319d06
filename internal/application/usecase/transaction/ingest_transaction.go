// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/domain/ruleengine"
)

// IngestTransactionInput represents a newly observed transaction.
type IngestTransactionInput struct {
	Date      time.Time
	Amount    decimal.Decimal
	Merchant  string
	Category  string
	SMSText   string
	Type      string
	BankName  string
	Narration string
	Tags      []string
}

// ToEntity builds an unsaved transaction from the input. Blank and repeated tags are dropped.
func (input IngestTransactionInput) ToEntity() *entity.Transaction {
	transaction := entity.NewTransaction(
		input.Date,
		input.Amount,
		input.Merchant,
		input.Category,
		input.SMSText,
		input.Type,
		input.BankName,
		input.Narration,
	)
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" && !transaction.HasTag(tag) {
			transaction.Tags = append(transaction.Tags, tag)
		}
	}
	return transaction
}

// IngestTransactionOutput represents the stored transaction and the rule that shaped it.
type IngestTransactionOutput struct {
	Transaction   *entity.Transaction
	MatchedRuleID *string
	Blocked       bool
	Warnings      []string
}

// IngestTransactionUseCase runs the active rules against a new transaction and stores
// the outcome.
type IngestTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	ruleRepo        adapter.TransactionRuleRepository
	engine          *ruleengine.Engine
}

// NewIngestTransactionUseCase creates a new IngestTransactionUseCase instance.
func NewIngestTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	ruleRepo adapter.TransactionRuleRepository,
	engine *ruleengine.Engine,
) *IngestTransactionUseCase {
	return &IngestTransactionUseCase{
		transactionRepo: transactionRepo,
		ruleRepo:        ruleRepo,
		engine:          engine,
	}
}

// Execute performs the transaction ingestion.
func (uc *IngestTransactionUseCase) Execute(ctx context.Context, input IngestTransactionInput) (*IngestTransactionOutput, error) {
	// Validate date
	if input.Date.IsZero() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}

	// A transaction with nothing to describe it cannot be matched by any rule
	if strings.TrimSpace(input.Merchant) == "" &&
		strings.TrimSpace(input.SMSText) == "" &&
		strings.TrimSpace(input.Narration) == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"one of merchant, sms_text or narration is required",
			domainerror.ErrMalformedTransaction,
		)
	}

	transaction := input.ToEntity()

	output := &IngestTransactionOutput{Warnings: make([]string, 0)}

	// Evaluate against a snapshot of the active rules
	rules, err := uc.ruleRepo.FindActive(ctx)
	if err != nil {
		slog.Default().Warn("Failed to load rules, storing transaction unmodified",
			"transactionID", transaction.ID.String(),
			"error", err.Error(),
		)
		output.Warnings = append(output.Warnings, "rules unavailable, transaction stored without evaluation")
	} else {
		evaluation := uc.engine.Evaluate(rules, transaction)
		transaction = evaluation.Transaction
		output.Blocked = evaluation.Blocked

		if evaluation.Matched() {
			ruleID := evaluation.MatchedRuleID.String()
			output.MatchedRuleID = &ruleID
		}
		for _, applyErr := range evaluation.ApplyErrors {
			output.Warnings = append(output.Warnings, applyErr.Error())
		}
		if len(evaluation.ApplyErrors) > 0 {
			slog.Default().Warn("Rule actions skipped during ingest",
				"transactionID", transaction.ID.String(),
				"ruleID", *output.MatchedRuleID,
				"skipped", len(evaluation.ApplyErrors),
			)
		}
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	output.Transaction = transaction
	return output, nil
}
