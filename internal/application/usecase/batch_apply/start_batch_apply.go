package batchapply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// StartBatchApplyInput represents the input for applying a rule to past transactions.
type StartBatchApplyInput struct {
	RuleID uuid.UUID
	Scope  entity.BatchScope
}

// StartBatchApplyOutput represents the output of starting a batch run.
type StartBatchApplyOutput struct {
	RunID   uuid.UUID         `json:"run_id"`
	RuleID  uuid.UUID         `json:"rule_id"`
	Scope   entity.BatchScope `json:"scope"`
	Message string            `json:"message"`
}

// StartBatchApplyUseCase starts a batch run in the background.
type StartBatchApplyUseCase struct {
	ruleRepo    adapter.TransactionRuleRepository
	coordinator *Coordinator
	tracker     BatchRunTracker
	cancels     *CancelRegistry
	wg          sync.WaitGroup
}

// NewStartBatchApplyUseCase creates a new StartBatchApplyUseCase instance.
func NewStartBatchApplyUseCase(
	ruleRepo adapter.TransactionRuleRepository,
	coordinator *Coordinator,
	tracker BatchRunTracker,
	cancels *CancelRegistry,
) *StartBatchApplyUseCase {
	return &StartBatchApplyUseCase{
		ruleRepo:    ruleRepo,
		coordinator: coordinator,
		tracker:     tracker,
		cancels:     cancels,
	}
}

// Execute validates the request, registers the run and returns without waiting for it.
func (uc *StartBatchApplyUseCase) Execute(ctx context.Context, input StartBatchApplyInput) (*StartBatchApplyOutput, error) {
	if input.Scope == "" {
		input.Scope = entity.BatchScopeAll
	}
	if !input.Scope.IsValid() {
		return nil, domainerror.NewBatchApplyError(
			domainerror.ErrCodeInvalidBatchScope,
			"Scope must be ALL or UNCATEGORIZED_ONLY",
			domainerror.ErrInvalidBatchScope,
		)
	}

	rule, err := uc.ruleRepo.FindByID(ctx, input.RuleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionRuleNotFound) {
			return nil, domainerror.NewBatchApplyError(
				domainerror.ErrCodeBatchRuleNotFound,
				"Rule not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find rule: %w", err)
	}

	run := entity.NewBatchRun(rule.ID, input.Scope)
	run.Start(time.Now().UTC())

	if err := uc.tracker.Begin(ctx, run); err != nil {
		if errors.Is(err, domainerror.ErrBatchAlreadyRunning) {
			return nil, domainerror.NewBatchApplyError(
				domainerror.ErrCodeBatchAlreadyRunning,
				"A batch apply is already running for this rule",
				err,
			)
		}
		return nil, fmt.Errorf("failed to register batch run: %w", err)
	}

	// The run outlives the request, so it gets its own cancellable context.
	runCtx, cancel := context.WithCancel(context.Background())
	uc.cancels.Register(run.ID, cancel)

	uc.wg.Add(1)
	go uc.runAsync(runCtx, cancel, rule, run)

	return &StartBatchApplyOutput{
		RunID:   run.ID,
		RuleID:  rule.ID,
		Scope:   run.Scope,
		Message: fmt.Sprintf("Applying rule %q to past transactions", rule.Name),
	}, nil
}

// Wait blocks until every run started by this use case has finished.
func (uc *StartBatchApplyUseCase) Wait() {
	uc.wg.Wait()
}

// runAsync drives the coordinator and mirrors its progress into the tracker.
func (uc *StartBatchApplyUseCase) runAsync(ctx context.Context, cancel context.CancelFunc, rule *entity.TransactionRule, run *entity.BatchRun) {
	defer uc.wg.Done()
	defer cancel()
	defer uc.cancels.Remove(run.ID)

	logger := slog.Default().With("runID", run.ID.String(), "ruleID", rule.ID.String())
	// Tracker writes use a detached context so a cancelled run still records its outcome.
	trackerCtx := context.WithoutCancel(ctx)

	onProgress := func(current, total int) {
		run.Progress(current, total)
		if err := uc.tracker.Save(trackerCtx, run); err != nil {
			logger.Warn("Failed to save batch progress", "error", err.Error())
		}
	}

	result, err := uc.coordinator.ApplyToHistory(ctx, rule, run.Scope, onProgress)
	if err != nil {
		logger.Error("Batch run failed", "error", err.Error())
		run.Fail(err, time.Now().UTC())
	} else {
		run.Progress(result.TotalProcessed, max(run.Total, result.TotalProcessed))
		run.Complete(result, time.Now().UTC())
	}

	if err := uc.tracker.Finish(trackerCtx, run); err != nil {
		logger.Error("Failed to record batch run outcome", "error", err.Error())
	}
}
