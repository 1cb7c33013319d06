// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	batchapply "github.com/finance-tracker/rule-engine/internal/application/usecase/batch_apply"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/dto"
)

// BatchRunController handles retroactive rule application endpoints.
type BatchRunController struct {
	startUseCase  *batchapply.StartBatchApplyUseCase
	statusUseCase *batchapply.GetBatchStatusUseCase
	cancelUseCase *batchapply.CancelBatchApplyUseCase
}

// NewBatchRunController creates a new batch run controller instance.
func NewBatchRunController(
	startUseCase *batchapply.StartBatchApplyUseCase,
	statusUseCase *batchapply.GetBatchStatusUseCase,
	cancelUseCase *batchapply.CancelBatchApplyUseCase,
) *BatchRunController {
	return &BatchRunController{
		startUseCase:  startUseCase,
		statusUseCase: statusUseCase,
		cancelUseCase: cancelUseCase,
	}
}

// Start handles POST /rules/:id/apply requests.
// The run continues in the background; poll GET /batch-runs/:id for progress.
func (c *BatchRunController) Start(ctx *gin.Context) {
	ruleID, ok := parseRuleID(ctx)
	if !ok {
		return
	}

	// An empty body applies to ALL
	var req dto.ApplyRuleRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid request body",
				Code:    string(domainerror.ErrCodeInvalidBatchScope),
				Details: err.Error(),
			})
			return
		}
	}

	output, err := c.startUseCase.Execute(ctx.Request.Context(), batchapply.StartBatchApplyInput{
		RuleID: ruleID,
		Scope:  entity.BatchScope(req.Scope),
	})
	if err != nil {
		c.handleBatchApplyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.ToStartBatchApplyResponse(output))
}

// Status handles GET /batch-runs/:id requests.
func (c *BatchRunController) Status(ctx *gin.Context) {
	runID, ok := parseRunID(ctx)
	if !ok {
		return
	}

	output, err := c.statusUseCase.Execute(ctx.Request.Context(), batchapply.GetBatchStatusInput{RunID: runID})
	if err != nil {
		c.handleBatchApplyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBatchRunResponse(output.Run))
}

// Cancel handles POST /batch-runs/:id/cancel requests.
func (c *BatchRunController) Cancel(ctx *gin.Context) {
	runID, ok := parseRunID(ctx)
	if !ok {
		return
	}

	output, err := c.cancelUseCase.Execute(ctx.Request.Context(), batchapply.CancelBatchApplyInput{RunID: runID})
	if err != nil {
		c.handleBatchApplyError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.ToCancelBatchApplyResponse(output))
}

// handleBatchApplyError handles batch apply errors and returns appropriate HTTP responses.
func (c *BatchRunController) handleBatchApplyError(ctx *gin.Context, err error) {
	var batchErr *domainerror.BatchApplyError
	if errors.As(err, &batchErr) {
		statusCode := c.getStatusCodeForBatchApplyError(batchErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: batchErr.Message,
			Code:  string(batchErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForBatchApplyError maps batch apply error codes to HTTP status codes.
func (c *BatchRunController) getStatusCodeForBatchApplyError(code domainerror.BatchApplyErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidBatchScope:
		return http.StatusBadRequest
	case domainerror.ErrCodeBatchRuleNotFound, domainerror.ErrCodeBatchRunNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeBatchAlreadyRunning, domainerror.ErrCodeBatchRunNotActive:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseRunID(ctx *gin.Context) (uuid.UUID, bool) {
	runID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid batch run ID format",
			Code:  string(domainerror.ErrCodeBatchRunNotFound),
		})
		return uuid.Nil, false
	}
	return runID, true
}
