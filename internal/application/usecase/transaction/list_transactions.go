// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"time"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	StartDate         *time.Time
	EndDate           *time.Time
	Search            string
	UncategorizedOnly bool
	IncludeBlocked    bool
	Page              int
	Limit             int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
	Pagination   PaginationOutput
}

// ListTransactionsUseCase handles listing transactions logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the transaction listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	// Set default pagination values
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := adapter.TransactionFilter{
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Search:            input.Search,
		UncategorizedOnly: input.UncategorizedOnly,
		IncludeBlocked:    input.IncludeBlocked,
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, adapter.TransactionPagination{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListTransactionsOutput{
		Transactions: result.Transactions,
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}, nil
}
