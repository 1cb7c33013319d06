// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// TransactionRuleRepository defines the interface for transaction rule persistence operations.
type TransactionRuleRepository interface {
	// Create creates a new rule in the database.
	Create(ctx context.Context, rule *entity.TransactionRule) error

	// FindByID retrieves a rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TransactionRule, error)

	// FindAll retrieves all rules ordered by priority (ascending), then creation order.
	FindAll(ctx context.Context) ([]*entity.TransactionRule, error)

	// FindActive retrieves the active rules ordered by priority (ascending), then creation order.
	// The returned slice is a snapshot owned by the caller.
	FindActive(ctx context.Context) ([]*entity.TransactionRule, error)

	// Update updates an existing rule in the database.
	Update(ctx context.Context, rule *entity.TransactionRule) error

	// Delete removes a rule from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdatePriorities updates the priorities for multiple rules in a batch operation.
	UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error
}
