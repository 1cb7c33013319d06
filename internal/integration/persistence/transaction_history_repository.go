// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence/model"
)

// transactionHistoryRepository implements the adapter.TransactionHistory interface.
// Pages are read with a (created_at, id) keyset so rows updated by a batch run never
// shift the rows that follow them.
type transactionHistoryRepository struct {
	db *gorm.DB
}

// NewTransactionHistoryRepository creates a new transaction history repository instance.
func NewTransactionHistoryRepository(db *gorm.DB) adapter.TransactionHistory {
	return &transactionHistoryRepository{
		db: db,
	}
}

// CountEligible counts the transactions the scope includes.
func (r *transactionHistoryRepository) CountEligible(ctx context.Context, scope entity.BatchScope) (int, error) {
	var count int64
	result := scopeQuery(r.db.WithContext(ctx).Model(&model.TransactionModel{}), scope).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(count), nil
}

// NextPage returns up to limit transactions positioned after the cursor, oldest first.
func (r *transactionHistoryRepository) NextPage(ctx context.Context, scope entity.BatchScope, after adapter.HistoryCursor, limit int) ([]*entity.Transaction, error) {
	query := scopeQuery(r.db.WithContext(ctx), scope)
	if !after.IsZero() {
		createdAt := after.CreatedAt.UTC()
		query = query.Where("created_at > ? OR (created_at = ? AND id > ?)", createdAt, createdAt, after.ID)
	}

	var transactionModels []model.TransactionModel
	result := query.
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, tm := range transactionModels {
		transactions[i] = tm.ToEntity()
	}
	return transactions, nil
}

// SaveRuleOutcome writes the fields a rule may change. Creation data is left alone.
func (r *transactionHistoryRepository) SaveRuleOutcome(ctx context.Context, transaction *entity.Transaction) error {
	m := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", transaction.ID).
		Select("amount", "merchant", "category", "sms_text", "type", "bank_name", "narration", "tags", "is_blocked", "matched_rule_id", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// scopeQuery narrows query to the transactions the scope includes.
func scopeQuery(query *gorm.DB, scope entity.BatchScope) *gorm.DB {
	if scope == entity.BatchScopeUncategorizedOnly {
		return query.Where("TRIM(category) = '' AND is_blocked = ?", false)
	}
	return query
}
