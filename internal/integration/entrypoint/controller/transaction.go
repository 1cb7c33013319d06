// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/rule-engine/internal/application/usecase/transaction"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	ingestUseCase *transaction.IngestTransactionUseCase
	listUseCase   *transaction.ListTransactionsUseCase
	getUseCase    *transaction.GetTransactionUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	ingestUseCase *transaction.IngestTransactionUseCase,
	listUseCase *transaction.ListTransactionsUseCase,
	getUseCase *transaction.GetTransactionUseCase,
) *TransactionController {
	return &TransactionController{
		ingestUseCase: ingestUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
	}
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
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

	output, err := c.ingestUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToIngestTransactionResponse(output))
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	input := transaction.ListTransactionsInput{
		Search:            ctx.Query("search"),
		UncategorizedOnly: ctx.Query("uncategorized") == "true",
		IncludeBlocked:    ctx.Query("include_blocked") == "true",
	}

	// Parse date filters
	if startDateStr := ctx.Query("start_date"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid start_date format, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		input.StartDate = &startDate
	}
	if endDateStr := ctx.Query("end_date"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end_date format, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		input.EndDate = &endDate
	}

	// Parse pagination
	if page, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve transactions",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Get handles GET /transactions/:id requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
			Code:  string(domainerror.ErrCodeTransactionNotFound),
		})
		return
	}

	tx, err := c.getUseCase.Execute(ctx.Request.Context(), transaction.GetTransactionInput{TransactionID: transactionID})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// handleTransactionError handles transaction errors and returns appropriate HTTP responses.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	var txErr *domainerror.TransactionError
	if errors.As(err, &txErr) {
		statusCode := http.StatusBadRequest
		if txErr.Code == domainerror.ErrCodeTransactionNotFound {
			statusCode = http.StatusNotFound
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: txErr.Message,
			Code:  string(txErr.Code),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// parseTransactionRequest converts the request body to use case input and writes a 400
// response when the date or amount cannot be parsed.
func parseTransactionRequest(ctx *gin.Context, req dto.CreateTransactionRequest) (transaction.IngestTransactionInput, bool) {
	date, err := parseTransactionDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid date format, expected YYYY-MM-DD or RFC3339",
			Code:  string(domainerror.ErrCodeInvalidTransactionDate),
		})
		return transaction.IngestTransactionInput{}, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid amount format",
			Code:  string(domainerror.ErrCodeInvalidTransactionAmount),
		})
		return transaction.IngestTransactionInput{}, false
	}

	return transaction.IngestTransactionInput{
		Date:      date,
		Amount:    amount,
		Merchant:  req.Merchant,
		Category:  req.Category,
		SMSText:   req.SMSText,
		Type:      req.Type,
		BankName:  req.BankName,
		Narration: req.Narration,
		Tags:      req.Tags,
	}, true
}

func parseTransactionDate(value string) (time.Time, error) {
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}
