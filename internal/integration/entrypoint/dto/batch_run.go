// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	batchapply "github.com/finance-tracker/rule-engine/internal/application/usecase/batch_apply"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// StartBatchApplyResponse represents the response for starting a batch run.
type StartBatchApplyResponse struct {
	RunID   string `json:"run_id"`
	RuleID  string `json:"rule_id"`
	Scope   string `json:"scope"`
	Message string `json:"message"`
}

// BatchItemErrorResponse represents a per-transaction failure.
type BatchItemErrorResponse struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// BatchApplyResultResponse represents the summary of a finished run.
type BatchApplyResultResponse struct {
	TotalProcessed int                      `json:"total_processed"`
	TotalUpdated   int                      `json:"total_updated"`
	TotalDeleted   int                      `json:"total_deleted"`
	Errors         []BatchItemErrorResponse `json:"errors"`
	Cancelled      bool                     `json:"cancelled"`
}

// BatchRunResponse represents the state of a batch run.
type BatchRunResponse struct {
	ID         string                    `json:"id"`
	RuleID     string                    `json:"rule_id"`
	Scope      string                    `json:"scope"`
	Status     string                    `json:"status"`
	Current    int                       `json:"current"`
	Total      int                       `json:"total"`
	Result     *BatchApplyResultResponse `json:"result,omitempty"`
	Failure    string                    `json:"failure,omitempty"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt *time.Time                `json:"finished_at,omitempty"`
}

// CancelBatchApplyResponse represents the response for a cancellation request.
type CancelBatchApplyResponse struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ToStartBatchApplyResponse converts a StartBatchApplyOutput to its response DTO.
func ToStartBatchApplyResponse(output *batchapply.StartBatchApplyOutput) StartBatchApplyResponse {
	return StartBatchApplyResponse{
		RunID:   output.RunID.String(),
		RuleID:  output.RuleID.String(),
		Scope:   string(output.Scope),
		Message: output.Message,
	}
}

// ToBatchApplyResultResponse converts a BatchApplyResult to its response DTO.
func ToBatchApplyResultResponse(result *entity.BatchApplyResult) BatchApplyResultResponse {
	response := BatchApplyResultResponse{
		TotalProcessed: result.TotalProcessed,
		TotalUpdated:   result.TotalUpdated,
		TotalDeleted:   result.TotalDeleted,
		Errors:         make([]BatchItemErrorResponse, len(result.Errors)),
		Cancelled:      result.Cancelled,
	}
	for i, itemErr := range result.Errors {
		response.Errors[i] = BatchItemErrorResponse{
			TransactionID: itemErr.TransactionID.String(),
			Message:       itemErr.Message,
		}
	}
	return response
}

// ToBatchRunResponse converts a domain BatchRun to a BatchRunResponse DTO.
func ToBatchRunResponse(run *entity.BatchRun) BatchRunResponse {
	response := BatchRunResponse{
		ID:         run.ID.String(),
		RuleID:     run.RuleID.String(),
		Scope:      string(run.Scope),
		Status:     string(run.Status),
		Current:    run.Current,
		Total:      run.Total,
		Failure:    run.Failure,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	if run.Result != nil {
		result := ToBatchApplyResultResponse(run.Result)
		response.Result = &result
	}
	return response
}

// ToCancelBatchApplyResponse converts a CancelBatchApplyOutput to its response DTO.
func ToCancelBatchApplyResponse(output *batchapply.CancelBatchApplyOutput) CancelBatchApplyResponse {
	return CancelBatchApplyResponse{
		RunID:   output.RunID.String(),
		Status:  string(output.Status),
		Message: output.Message,
	}
}
