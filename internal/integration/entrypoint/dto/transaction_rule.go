// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	transactionrule "github.com/finance-tracker/rule-engine/internal/application/usecase/transaction_rule"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// RuleConditionRequest represents one rule condition in a request body.
type RuleConditionRequest struct {
	Field    string `json:"field" binding:"required"`
	Operator string `json:"operator" binding:"required"`
	Value    string `json:"value"`
}

// RuleActionRequest represents one rule action in a request body.
type RuleActionRequest struct {
	Field      string `json:"field"`
	ActionType string `json:"action_type" binding:"required"`
	Value      string `json:"value"`
}

// CreateTransactionRuleRequest represents the request body for rule creation.
type CreateTransactionRuleRequest struct {
	Name        string                 `json:"name" binding:"required,max=100"`
	Description *string                `json:"description,omitempty"`
	Priority    *int                   `json:"priority,omitempty"`
	Conditions  []RuleConditionRequest `json:"conditions" binding:"required,dive"`
	Actions     []RuleActionRequest    `json:"actions" binding:"required,dive"`
	IsActive    *bool                  `json:"is_active,omitempty"`
}

// UpdateTransactionRuleRequest represents the request body for rule update.
type UpdateTransactionRuleRequest struct {
	Name        *string                `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string                `json:"description,omitempty"`
	Priority    *int                   `json:"priority,omitempty"`
	Conditions  []RuleConditionRequest `json:"conditions,omitempty" binding:"omitempty,dive"`
	Actions     []RuleActionRequest    `json:"actions,omitempty" binding:"omitempty,dive"`
	IsActive    *bool                  `json:"is_active,omitempty"`
}

// ReorderTransactionRulesRequest represents the request body for reordering rules.
type ReorderTransactionRulesRequest struct {
	Order []RulePriorityItem `json:"order" binding:"required,dive"`
}

// RulePriorityItem represents a single rule priority update.
type RulePriorityItem struct {
	ID       string `json:"id" binding:"required,uuid"`
	Priority int    `json:"priority" binding:"min=0"`
}

// ApplyRuleRequest represents the request body for applying a rule to past transactions.
type ApplyRuleRequest struct {
	Scope string `json:"scope"`
}

// TransactionRuleResponse represents a single rule in API responses.
type TransactionRuleResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Description      *string                `json:"description,omitempty"`
	Priority         int                    `json:"priority"`
	Conditions       []entity.RuleCondition `json:"conditions"`
	Actions          []entity.RuleAction    `json:"actions"`
	IsActive         bool                   `json:"is_active"`
	IsSystemTemplate bool                   `json:"is_system_template"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// TransactionRuleListResponse represents the response for listing rules.
type TransactionRuleListResponse struct {
	Rules []TransactionRuleResponse `json:"rules"`
}

// PreviewRulesResponse represents what ingesting a candidate transaction would produce.
type PreviewRulesResponse struct {
	Matched     bool                     `json:"matched"`
	MatchedRule *TransactionRuleResponse `json:"matched_rule,omitempty"`
	Blocked     bool                     `json:"blocked"`
	Transaction TransactionResponse      `json:"transaction"`
	Warnings    []string                 `json:"warnings"`
}

// ToRuleConditions converts request conditions to domain conditions.
func ToRuleConditions(items []RuleConditionRequest) []entity.RuleCondition {
	if items == nil {
		return nil
	}
	conditions := make([]entity.RuleCondition, len(items))
	for i, item := range items {
		conditions[i] = entity.RuleCondition{
			Field:    entity.TransactionField(item.Field),
			Operator: entity.ConditionOperator(item.Operator),
			Value:    item.Value,
		}
	}
	return conditions
}

// ToRuleActions converts request actions to domain actions.
func ToRuleActions(items []RuleActionRequest) []entity.RuleAction {
	if items == nil {
		return nil
	}
	actions := make([]entity.RuleAction, len(items))
	for i, item := range items {
		actions[i] = entity.RuleAction{
			Field:      entity.TransactionField(item.Field),
			ActionType: entity.ActionType(item.ActionType),
			Value:      item.Value,
		}
	}
	return actions
}

// ToTransactionRuleResponse converts a domain TransactionRule to a TransactionRuleResponse DTO.
func ToTransactionRuleResponse(rule *entity.TransactionRule) TransactionRuleResponse {
	return TransactionRuleResponse{
		ID:               rule.ID.String(),
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

// ToTransactionRuleListResponse converts a list of rules to TransactionRuleListResponse.
func ToTransactionRuleListResponse(rules []*entity.TransactionRule) TransactionRuleListResponse {
	response := TransactionRuleListResponse{
		Rules: make([]TransactionRuleResponse, len(rules)),
	}
	for i, rule := range rules {
		response.Rules[i] = ToTransactionRuleResponse(rule)
	}
	return response
}

// ToPreviewRulesResponse converts a PreviewRulesOutput to a PreviewRulesResponse DTO.
func ToPreviewRulesResponse(output *transactionrule.PreviewRulesOutput) PreviewRulesResponse {
	response := PreviewRulesResponse{
		Matched:     output.MatchedRule != nil,
		Blocked:     output.Blocked,
		Transaction: ToTransactionResponse(output.Transaction),
		Warnings:    output.Warnings,
	}
	if output.MatchedRule != nil {
		rule := ToTransactionRuleResponse(output.MatchedRule)
		response.MatchedRule = &rule
	}
	return response
}
