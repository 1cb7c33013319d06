// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence/model"
)

// evaluationOrder sorts rules the way the engine evaluates them.
const evaluationOrder = "priority ASC, created_at ASC, id ASC"

// transactionRuleRepository implements the adapter.TransactionRuleRepository interface.
type transactionRuleRepository struct {
	db *gorm.DB
}

// NewTransactionRuleRepository creates a new transaction rule repository instance.
func NewTransactionRuleRepository(db *gorm.DB) adapter.TransactionRuleRepository {
	return &transactionRuleRepository{
		db: db,
	}
}

// Create creates a new rule in the database.
func (r *transactionRuleRepository) Create(ctx context.Context, rule *entity.TransactionRule) error {
	ruleModel := model.TransactionRuleFromEntity(rule)
	result := r.db.WithContext(ctx).Create(ruleModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a rule by its ID.
func (r *transactionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TransactionRule, error) {
	var ruleModel model.TransactionRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindAll retrieves every rule in evaluation order.
func (r *transactionRuleRepository) FindAll(ctx context.Context) ([]*entity.TransactionRule, error) {
	return r.find(r.db.WithContext(ctx))
}

// FindActive retrieves the active rules in evaluation order.
func (r *transactionRuleRepository) FindActive(ctx context.Context) ([]*entity.TransactionRule, error) {
	return r.find(r.db.WithContext(ctx).Where("is_active = ?", true))
}

func (r *transactionRuleRepository) find(query *gorm.DB) ([]*entity.TransactionRule, error) {
	var ruleModels []model.TransactionRuleModel
	result := query.Order(evaluationOrder).Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.TransactionRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// Update updates an existing rule in the database.
func (r *transactionRuleRepository) Update(ctx context.Context, rule *entity.TransactionRule) error {
	ruleModel := model.TransactionRuleFromEntity(rule)
	result := r.db.WithContext(ctx).Save(ruleModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes a rule from the database.
func (r *transactionRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TransactionRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionRuleNotFound
	}
	return nil
}

// UpdatePriorities updates the priorities for multiple rules in a batch operation.
func (r *transactionRuleRepository) UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, update := range updates {
			result := tx.Model(&model.TransactionRuleModel{}).
				Where("id = ?", update.ID).
				Updates(map[string]interface{}{
					"priority":   update.Priority,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}
