package batchapply

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// GetBatchStatusInput represents the input for reading a batch run.
type GetBatchStatusInput struct {
	RunID uuid.UUID
}

// GetBatchStatusOutput represents the output of reading a batch run.
type GetBatchStatusOutput struct {
	Run *entity.BatchRun
}

// GetBatchStatusUseCase reports the progress and outcome of a batch run.
type GetBatchStatusUseCase struct {
	tracker BatchRunTracker
}

// NewGetBatchStatusUseCase creates a new GetBatchStatusUseCase instance.
func NewGetBatchStatusUseCase(tracker BatchRunTracker) *GetBatchStatusUseCase {
	return &GetBatchStatusUseCase{
		tracker: tracker,
	}
}

// Execute returns the latest snapshot of the run.
func (uc *GetBatchStatusUseCase) Execute(ctx context.Context, input GetBatchStatusInput) (*GetBatchStatusOutput, error) {
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

	return &GetBatchStatusOutput{Run: run}, nil
}
