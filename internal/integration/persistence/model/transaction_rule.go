// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// TransactionRuleModel represents the transaction_rules table in the database.
// Conditions and actions are stored as JSON so the table works on Postgres and SQLite.
type TransactionRuleModel struct {
	ID               uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Name             string                 `gorm:"type:varchar(100);not null"`
	Description      *string                `gorm:"type:text"`
	Priority         int                    `gorm:"not null;default:100;index"`
	Conditions       []entity.RuleCondition `gorm:"type:text;not null;serializer:json"`
	Actions          []entity.RuleAction    `gorm:"type:text;not null;serializer:json"`
	IsActive         bool                   `gorm:"not null;default:true;index"`
	IsSystemTemplate bool                   `gorm:"not null;default:false"`
	CreatedAt        time.Time              `gorm:"not null"`
	UpdatedAt        time.Time              `gorm:"not null"`
}

// TableName returns the table name for the TransactionRuleModel.
func (TransactionRuleModel) TableName() string {
	return "transaction_rules"
}

// ToEntity converts a TransactionRuleModel to a domain TransactionRule entity.
func (m *TransactionRuleModel) ToEntity() *entity.TransactionRule {
	conditions := m.Conditions
	if conditions == nil {
		conditions = []entity.RuleCondition{}
	}
	actions := m.Actions
	if actions == nil {
		actions = []entity.RuleAction{}
	}

	return &entity.TransactionRule{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Priority:         m.Priority,
		Conditions:       conditions,
		Actions:          actions,
		IsActive:         m.IsActive,
		IsSystemTemplate: m.IsSystemTemplate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// TransactionRuleFromEntity creates a TransactionRuleModel from a domain TransactionRule entity.
func TransactionRuleFromEntity(rule *entity.TransactionRule) *TransactionRuleModel {
	return &TransactionRuleModel{
		ID:               rule.ID,
		Name:             rule.Name,
		Description:      rule.Description,
		Priority:         rule.Priority,
		Conditions:       rule.Conditions,
		Actions:          rule.Actions,
		IsActive:         rule.IsActive,
		IsSystemTemplate: rule.IsSystemTemplate,
		CreatedAt:        rule.CreatedAt,
		UpdatedAt:        rule.UpdatedAt,
	}
}
