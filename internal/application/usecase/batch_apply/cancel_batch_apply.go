package batchapply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// CancelBatchApplyInput represents the input for cancelling a batch run.
type CancelBatchApplyInput struct {
	RunID uuid.UUID
}

// CancelBatchApplyOutput represents the output of a cancellation request.
type CancelBatchApplyOutput struct {
	RunID   uuid.UUID             `json:"run_id"`
	Status  entity.BatchRunStatus `json:"status"`
	Message string                `json:"message"`
}

// CancelBatchApplyUseCase requests cancellation of a running batch.
// Cancellation is cooperative: the run stops after the transaction in flight.
type CancelBatchApplyUseCase struct {
	tracker BatchRunTracker
	cancels *CancelRegistry
}

// NewCancelBatchApplyUseCase creates a new CancelBatchApplyUseCase instance.
func NewCancelBatchApplyUseCase(tracker BatchRunTracker, cancels *CancelRegistry) *CancelBatchApplyUseCase {
	return &CancelBatchApplyUseCase{
		tracker: tracker,
		cancels: cancels,
	}
}

// Execute signals the run to stop.
func (uc *CancelBatchApplyUseCase) Execute(ctx context.Context, input CancelBatchApplyInput) (*CancelBatchApplyOutput, error) {
	run, err := uc.tracker.Get(ctx, input.RunID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBatchRunNotFound) {
			return nil, domainerror.NewBatchApplyError(
				domainerror.ErrCodeBatchRunNotFound,
				"Batch run not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to get batch run: %w", err)
	}

	if run.Status.IsTerminal() || !uc.cancels.Cancel(run.ID) {
		return nil, domainerror.NewBatchApplyError(
			domainerror.ErrCodeBatchRunNotActive,
			"Batch run is not running on this instance",
			domainerror.ErrBatchRunNotActive,
		)
	}

	slog.Default().Info("Batch run cancellation requested", "runID", run.ID.String())

	return &CancelBatchApplyOutput{
		RunID:   run.ID,
		Status:  run.Status,
		Message: "Cancellation requested",
	}, nil
}
