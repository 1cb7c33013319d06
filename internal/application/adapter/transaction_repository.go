// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	StartDate         *time.Time
	EndDate           *time.Time
	Search            string // Case-insensitive merchant/narration match
	UncategorizedOnly bool
	IncludeBlocked    bool // Blocked transactions are hidden from ledger views by default
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID, blocked or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)
}
