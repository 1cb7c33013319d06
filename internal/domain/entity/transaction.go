// Package entity defines the core business entities for the domain layer.
package entity

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a financial transaction as seen by the rule engine.
// A blocked transaction is soft-deleted: hidden from ledger views but kept in storage.
type Transaction struct {
	ID            uuid.UUID
	Date          time.Time
	Amount        decimal.Decimal
	Merchant      string
	Category      string // Empty means uncategorized
	SMSText       string
	Type          string
	BankName      string
	Narration     string
	Tags          []string
	IsBlocked     bool
	MatchedRuleID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	date time.Time,
	amount decimal.Decimal,
	merchant string,
	category string,
	smsText string,
	transactionType string,
	bankName string,
	narration string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:        uuid.New(),
		Date:      date,
		Amount:    amount,
		Merchant:  merchant,
		Category:  category,
		SMSText:   smsText,
		Type:      transactionType,
		BankName:  bankName,
		Narration: narration,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	clone := *t
	clone.Tags = slices.Clone(t.Tags)
	if t.MatchedRuleID != nil {
		id := *t.MatchedRuleID
		clone.MatchedRuleID = &id
	}
	return &clone
}

// IsUncategorized reports whether no category has been assigned.
func (t *Transaction) IsUncategorized() bool {
	return strings.TrimSpace(t.Category) == ""
}

// StringField returns the value of a string-typed field. ok is false for AMOUNT and unknown fields.
func (t *Transaction) StringField(field TransactionField) (value string, ok bool) {
	switch field {
	case FieldMerchant:
		return t.Merchant, true
	case FieldCategory:
		return t.Category, true
	case FieldSMSText:
		return t.SMSText, true
	case FieldType:
		return t.Type, true
	case FieldBankName:
		return t.BankName, true
	case FieldNarration:
		return t.Narration, true
	}
	return "", false
}

// SetStringField sets a string-typed field. It returns false for AMOUNT and unknown fields.
func (t *Transaction) SetStringField(field TransactionField, value string) bool {
	switch field {
	case FieldMerchant:
		t.Merchant = value
	case FieldCategory:
		t.Category = value
	case FieldSMSText:
		t.SMSText = value
	case FieldType:
		t.Type = value
	case FieldBankName:
		t.BankName = value
	case FieldNarration:
		t.Narration = value
	default:
		return false
	}
	return true
}

// HasTag reports whether tag is present, ignoring case.
func (t *Transaction) HasTag(tag string) bool {
	return slices.ContainsFunc(t.Tags, func(existing string) bool {
		return strings.EqualFold(existing, tag)
	})
}

// SameContent reports whether the rule-visible content of t and other is identical.
// Bookkeeping fields (timestamps, MatchedRuleID) are ignored.
func (t *Transaction) SameContent(other *Transaction) bool {
	return t.Amount.Equal(other.Amount) &&
		t.Merchant == other.Merchant &&
		t.Category == other.Category &&
		t.SMSText == other.SMSText &&
		t.Type == other.Type &&
		t.BankName == other.BankName &&
		t.Narration == other.Narration &&
		t.IsBlocked == other.IsBlocked &&
		slices.Equal(t.Tags, other.Tags)
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*Transaction
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
