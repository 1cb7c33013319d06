// Package batchapply contains the retroactive rule application use cases.
package batchapply

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/domain/ruleengine"
)

const (
	// DefaultPageSize is the number of transactions read per history page.
	DefaultPageSize = 200

	// DefaultProgressInterval reports progress after every processed transaction.
	DefaultProgressInterval = 1
)

// ProgressFunc receives the number of processed transactions and the expected total.
type ProgressFunc func(current, total int)

// Coordinator applies one rule across the transaction history.
// Callers must not run two coordinators over overlapping history at the same time.
type Coordinator struct {
	matcher          *ruleengine.Matcher
	applier          *ruleengine.Applier
	history          adapter.TransactionHistory
	pageSize         int
	progressInterval int
}

// NewCoordinator creates a new Coordinator. Non-positive sizes fall back to the defaults.
func NewCoordinator(
	matcher *ruleengine.Matcher,
	applier *ruleengine.Applier,
	history adapter.TransactionHistory,
	pageSize int,
	progressInterval int,
) *Coordinator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if progressInterval <= 0 {
		progressInterval = DefaultProgressInterval
	}

	return &Coordinator{
		matcher:          matcher,
		applier:          applier,
		history:          history,
		pageSize:         pageSize,
		progressInterval: progressInterval,
	}
}

// ApplyToHistory runs rule against every transaction the scope includes, oldest first.
//
// Cancellation of ctx is checked between transactions: the transaction in flight is
// finished (its write is not cancelled), later ones are never touched, and the partial
// result is returned with Cancelled set and a nil error.
//
// Failures limited to one transaction are recorded in the result and the run continues.
// If the history itself cannot be read, a *domainerror.BatchFatalError is returned and
// the partial result is dropped.
func (c *Coordinator) ApplyToHistory(
	ctx context.Context,
	rule *entity.TransactionRule,
	scope entity.BatchScope,
	onProgress ProgressFunc,
) (*entity.BatchApplyResult, error) {
	startTime := time.Now()
	logger := slog.Default().With("ruleID", rule.ID.String(), "scope", string(scope))

	result := entity.NewBatchApplyResult()
	if ctx.Err() != nil {
		result.Cancelled = true
		return result, nil
	}

	total, err := c.history.CountEligible(ctx, scope)
	if err != nil {
		if ctx.Err() != nil {
			result.Cancelled = true
			return result, nil
		}
		return nil, c.fatal(0, err)
	}

	logger.Info("Starting batch rule application", "eligible", total)

	// Writes must survive cancellation so the item in flight is never half-done.
	writeCtx := context.WithoutCancel(ctx)
	cursor := adapter.HistoryCursor{}
	lastReported := -1

	report := func() {
		if onProgress == nil || result.TotalProcessed == 0 || lastReported == result.TotalProcessed {
			return
		}
		lastReported = result.TotalProcessed
		onProgress(result.TotalProcessed, total)
	}

pages:
	for {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		page, err := c.history.NextPage(ctx, scope, cursor, c.pageSize)
		if err != nil {
			if ctx.Err() != nil {
				result.Cancelled = true
				break
			}
			logger.Error("Failed to read transaction history", "error", err.Error(), "processed", result.TotalProcessed)
			return nil, c.fatal(result.TotalProcessed, err)
		}
		if len(page) == 0 {
			break
		}

		for _, tx := range page {
			if ctx.Err() != nil {
				result.Cancelled = true
				break pages
			}
			cursor = adapter.CursorAfter(tx)

			if !scope.Includes(tx) {
				continue
			}

			c.processItem(writeCtx, rule, tx, result)
			result.TotalProcessed++
			if result.TotalProcessed > total {
				total = result.TotalProcessed
			}

			if result.TotalProcessed%c.progressInterval == 0 {
				report()
			}
		}
	}

	report()

	logger.Info("Batch rule application finished",
		"processed", result.TotalProcessed,
		"updated", result.TotalUpdated,
		"deleted", result.TotalDeleted,
		"errors", len(result.Errors),
		"cancelled", result.Cancelled,
		"duration", time.Since(startTime).String(),
	)

	return result, nil
}

// processItem matches, applies and persists one transaction. Any failure, including a
// panic, is recorded against the transaction and never escapes.
func (c *Coordinator) processItem(
	ctx context.Context,
	rule *entity.TransactionRule,
	tx *entity.Transaction,
	result *entity.BatchApplyResult,
) {
	defer func() {
		if r := recover(); r != nil {
			recordItemError(result, tx.ID, fmt.Errorf("%w: %v", domainerror.ErrMalformedTransaction, r))
		}
	}()

	if tx.ID == uuid.Nil {
		recordItemError(result, tx.ID, fmt.Errorf("%w: missing id", domainerror.ErrMalformedTransaction))
		return
	}

	if !c.matcher.Matches(rule, tx) {
		return
	}

	outcome := c.applier.Apply(tx, rule.Actions)
	for _, applyErr := range outcome.Errors {
		recordItemError(result, tx.ID, applyErr)
	}

	if !outcome.Blocked && outcome.Transaction.SameContent(tx) {
		return
	}

	updated := outcome.Transaction
	ruleID := rule.ID
	updated.MatchedRuleID = &ruleID
	updated.UpdatedAt = time.Now().UTC()

	if err := c.history.SaveRuleOutcome(ctx, updated); err != nil {
		recordItemError(result, tx.ID, fmt.Errorf("failed to save transaction: %w", err))
		return
	}

	if outcome.Blocked {
		result.TotalDeleted++
	} else {
		result.TotalUpdated++
	}
}

// fatal wraps a history read failure.
func (c *Coordinator) fatal(processed int, err error) error {
	return &domainerror.BatchFatalError{
		Processed: processed,
		Err:       fmt.Errorf("%w: %w", domainerror.ErrHistoryUnavailable, err),
	}
}

func recordItemError(result *entity.BatchApplyResult, transactionID uuid.UUID, err error) {
	result.Errors = append(result.Errors, entity.BatchItemError{
		TransactionID: transactionID,
		Message:       err.Error(),
	})
}
