// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// Blocked rows stay in the table with is_blocked set.
type TransactionModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;index:idx_transactions_history,priority:2"`
	Date          time.Time       `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Merchant      string          `gorm:"type:varchar(255);not null;default:''"`
	Category      string          `gorm:"type:varchar(100);not null;default:''"`
	SMSText       string          `gorm:"column:sms_text;type:text;not null;default:''"`
	Type          string          `gorm:"type:varchar(20);not null;default:''"`
	BankName      string          `gorm:"type:varchar(100);not null;default:''"`
	Narration     string          `gorm:"type:text;not null;default:''"`
	Tags          []string        `gorm:"type:text;serializer:json"`
	IsBlocked     bool            `gorm:"not null;default:false;index"`
	MatchedRuleID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_transactions_history,priority:1"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}

	return &entity.Transaction{
		ID:            m.ID,
		Date:          m.Date,
		Amount:        m.Amount,
		Merchant:      m.Merchant,
		Category:      m.Category,
		SMSText:       m.SMSText,
		Type:          m.Type,
		BankName:      m.BankName,
		Narration:     m.Narration,
		Tags:          tags,
		IsBlocked:     m.IsBlocked,
		MatchedRuleID: m.MatchedRuleID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
// Timestamps are stored in UTC so history ordering is the same on every driver.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	return &TransactionModel{
		ID:            transaction.ID,
		Date:          transaction.Date,
		Amount:        transaction.Amount,
		Merchant:      transaction.Merchant,
		Category:      transaction.Category,
		SMSText:       transaction.SMSText,
		Type:          transaction.Type,
		BankName:      transaction.BankName,
		Narration:     transaction.Narration,
		Tags:          transaction.Tags,
		IsBlocked:     transaction.IsBlocked,
		MatchedRuleID: transaction.MatchedRuleID,
		CreatedAt:     transaction.CreatedAt.UTC(),
		UpdatedAt:     transaction.UpdatedAt.UTC(),
	}
}
