// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/finance-tracker/rule-engine/internal/application/usecase/transaction"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for ingesting a transaction.
type CreateTransactionRequest struct {
	Date      string   `json:"date" binding:"required"`
	Amount    string   `json:"amount" binding:"required"`
	Merchant  string   `json:"merchant" binding:"max=255"`
	Category  string   `json:"category" binding:"max=100"`
	SMSText   string   `json:"sms_text"`
	Type      string   `json:"type" binding:"max=20"`
	BankName  string   `json:"bank_name" binding:"max=100"`
	Narration string   `json:"narration"`
	Tags      []string `json:"tags"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Amount        string    `json:"amount"`
	Merchant      string    `json:"merchant"`
	Category      string    `json:"category"`
	SMSText       string    `json:"sms_text"`
	Type          string    `json:"type"`
	BankName      string    `json:"bank_name"`
	Narration     string    `json:"narration"`
	Tags          []string  `json:"tags"`
	IsBlocked     bool      `json:"is_blocked"`
	MatchedRuleID *string   `json:"matched_rule_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IngestTransactionResponse represents the response for ingesting a transaction.
type IngestTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Blocked     bool                `json:"blocked"`
	Warnings    []string            `json:"warnings"`
}

// PaginationResponse represents pagination information.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationResponse    `json:"pagination"`
}

// ToTransactionResponse converts a domain Transaction to a TransactionResponse DTO.
func ToTransactionResponse(tx *entity.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:        tx.ID.String(),
		Date:      tx.Date.Format("2006-01-02"),
		Amount:    tx.Amount.StringFixed(2),
		Merchant:  tx.Merchant,
		Category:  tx.Category,
		SMSText:   tx.SMSText,
		Type:      tx.Type,
		BankName:  tx.BankName,
		Narration: tx.Narration,
		Tags:      tx.Tags,
		IsBlocked: tx.IsBlocked,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
	if response.Tags == nil {
		response.Tags = []string{}
	}
	if tx.MatchedRuleID != nil {
		id := tx.MatchedRuleID.String()
		response.MatchedRuleID = &id
	}
	return response
}

// ToIngestTransactionResponse converts an IngestTransactionOutput to its response DTO.
func ToIngestTransactionResponse(output *transaction.IngestTransactionOutput) IngestTransactionResponse {
	return IngestTransactionResponse{
		Transaction: ToTransactionResponse(output.Transaction),
		Blocked:     output.Blocked,
		Warnings:    output.Warnings,
	}
}

// ToTransactionListResponse converts a ListTransactionsOutput to a TransactionListResponse DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	response := TransactionListResponse{
		Transactions: make([]TransactionResponse, len(output.Transactions)),
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
	for i, tx := range output.Transactions {
		response.Transactions[i] = ToTransactionResponse(tx)
	}
	return response
}
