// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	transactionrule "github.com/finance-tracker/rule-engine/internal/application/usecase/transaction_rule"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/dto"
)

// TransactionRuleController handles transaction rule endpoints.
type TransactionRuleController struct {
	listUseCase    *transactionrule.ListTransactionRulesUseCase
	getUseCase     *transactionrule.GetTransactionRuleUseCase
	createUseCase  *transactionrule.CreateTransactionRuleUseCase
	updateUseCase  *transactionrule.UpdateTransactionRuleUseCase
	deleteUseCase  *transactionrule.DeleteTransactionRuleUseCase
	reorderUseCase *transactionrule.ReorderTransactionRulesUseCase
	previewUseCase *transactionrule.PreviewRulesUseCase
}

// NewTransactionRuleController creates a new transaction rule controller instance.
func NewTransactionRuleController(
	listUseCase *transactionrule.ListTransactionRulesUseCase,
	getUseCase *transactionrule.GetTransactionRuleUseCase,
	createUseCase *transactionrule.CreateTransactionRuleUseCase,
	updateUseCase *transactionrule.UpdateTransactionRuleUseCase,
	deleteUseCase *transactionrule.DeleteTransactionRuleUseCase,
	reorderUseCase *transactionrule.ReorderTransactionRulesUseCase,
	previewUseCase *transactionrule.PreviewRulesUseCase,
) *TransactionRuleController {
	return &TransactionRuleController{
		listUseCase:    listUseCase,
		getUseCase:     getUseCase,
		createUseCase:  createUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		reorderUseCase: reorderUseCase,
		previewUseCase: previewUseCase,
	}
}

// List handles GET /rules requests.
func (c *TransactionRuleController) List(ctx *gin.Context) {
	input := transactionrule.ListTransactionRulesInput{
		ActiveOnly: ctx.Query("active_only") == "true",
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve rules",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionRuleListResponse(output.Rules))
}

// Get handles GET /rules/:id requests.
func (c *TransactionRuleController) Get(ctx *gin.Context) {
	ruleID, ok := parseRuleID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), transactionrule.GetTransactionRuleInput{RuleID: ruleID})
	if err != nil {
		c.handleTransactionRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionRuleResponse(output.Rule))
}

// Create handles POST /rules requests.
func (c *TransactionRuleController) Create(ctx *gin.Context) {
	// Parse request body
	var req dto.CreateTransactionRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingRuleFields),
			Details: err.Error(),
		})
		return
	}

	input := transactionrule.CreateTransactionRuleInput{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Conditions:  dto.ToRuleConditions(req.Conditions),
		Actions:     dto.ToRuleActions(req.Actions),
		IsActive:    req.IsActive,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionRuleResponse(output.Rule))
}

// Update handles PATCH /rules/:id requests.
func (c *TransactionRuleController) Update(ctx *gin.Context) {
	ruleID, ok := parseRuleID(ctx)
	if !ok {
		return
	}

	// Parse request body
	var req dto.UpdateTransactionRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingRuleFields),
			Details: err.Error(),
		})
		return
	}

	input := transactionrule.UpdateTransactionRuleInput{
		RuleID:      ruleID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Conditions:  dto.ToRuleConditions(req.Conditions),
		Actions:     dto.ToRuleActions(req.Actions),
		IsActive:    req.IsActive,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionRuleResponse(output.Rule))
}

// Delete handles DELETE /rules/:id requests.
func (c *TransactionRuleController) Delete(ctx *gin.Context) {
	ruleID, ok := parseRuleID(ctx)
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), transactionrule.DeleteTransactionRuleInput{RuleID: ruleID}); err != nil {
		c.handleTransactionRuleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Reorder handles PATCH /rules/reorder requests.
func (c *TransactionRuleController) Reorder(ctx *gin.Context) {
	// Parse request body
	var req dto.ReorderTransactionRulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingRuleFields),
			Details: err.Error(),
		})
		return
	}

	// Convert to input format
	order := make([]transactionrule.RulePriorityInput, len(req.Order))
	for i, item := range req.Order {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid rule ID format: " + item.ID,
			})
			return
		}
		order[i] = transactionrule.RulePriorityInput{
			ID:       id,
			Priority: item.Priority,
		}
	}

	output, err := c.reorderUseCase.Execute(ctx.Request.Context(), transactionrule.ReorderTransactionRulesInput{Order: order})
	if err != nil {
		c.handleTransactionRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionRuleListResponse(output.Rules))
}

// Preview handles POST /rules/preview requests.
func (c *TransactionRuleController) Preview(ctx *gin.Context) {
	// Parse request body
	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeMissingTransactionFields),
			Details: err.Error(),
		})
		return
	}

	input, ok := parseTransactionRequest(ctx, req)
	if !ok {
		return
	}

	output, err := c.previewUseCase.Execute(ctx.Request.Context(), transactionrule.PreviewRulesInput{
		Transaction: input.ToEntity(),
	})
	if err != nil {
		c.handleTransactionRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPreviewRulesResponse(output))
}

// handleTransactionRuleError handles transaction rule errors and returns appropriate HTTP responses.
func (c *TransactionRuleController) handleTransactionRuleError(ctx *gin.Context, err error) {
	var ruleErr *domainerror.TransactionRuleError
	if errors.As(err, &ruleErr) {
		statusCode := c.getStatusCodeForTransactionRuleError(ruleErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: ruleErr.Message,
			Code:  string(ruleErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForTransactionRuleError maps transaction rule error codes to HTTP status codes.
func (c *TransactionRuleController) getStatusCodeForTransactionRuleError(code domainerror.TransactionRuleErrorCode) int {
	switch code {
	case domainerror.ErrCodeRuleNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeSystemTemplateProtected:
		return http.StatusForbidden
	case domainerror.ErrCodeMissingRuleFields,
		domainerror.ErrCodeRuleNameTooLong,
		domainerror.ErrCodeRuleNoConditions,
		domainerror.ErrCodeRuleNoActions,
		domainerror.ErrCodeInvalidCondition,
		domainerror.ErrCodeInvalidAction,
		domainerror.ErrCodeInvalidPriority:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseRuleID reads the :id path parameter and writes a 400 response when it is invalid.
func parseRuleID(ctx *gin.Context) (uuid.UUID, bool) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid rule ID format",
			Code:  string(domainerror.ErrCodeRuleNotFound),
		})
		return uuid.Nil, false
	}
	return ruleID, true
}
