// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// HistoryCursor is a keyset position in the history, ordered by (CreatedAt, ID).
// The zero value starts from the beginning.
type HistoryCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// IsZero reports whether the cursor points at the start of the history.
func (c HistoryCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == uuid.Nil
}

// CursorAfter returns the cursor positioned just after tx.
func CursorAfter(tx *entity.Transaction) HistoryCursor {
	return HistoryCursor{CreatedAt: tx.CreatedAt, ID: tx.ID}
}

// TransactionHistory is the read/write port used by batch rule application.
type TransactionHistory interface {
	// CountEligible counts the transactions the scope includes.
	CountEligible(ctx context.Context, scope entity.BatchScope) (int, error)

	// NextPage returns up to limit transactions included by the scope that come strictly
	// after the cursor, in (CreatedAt, ID) order. An empty page means the end.
	NextPage(ctx context.Context, scope entity.BatchScope, after HistoryCursor, limit int) ([]*entity.Transaction, error)

	// SaveRuleOutcome atomically persists the rule-managed fields of tx.
	SaveRuleOutcome(ctx context.Context, tx *entity.Transaction) error
}
