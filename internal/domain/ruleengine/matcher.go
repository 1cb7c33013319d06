// Package ruleengine evaluates transaction rules against transactions.
// Everything in this package is pure and safe for concurrent use.
package ruleengine

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

// Matcher decides whether a rule's conditions hold for a transaction.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Matches reports whether every condition of the rule holds for tx.
// A rule without conditions matches every transaction.
func (m *Matcher) Matches(rule *entity.TransactionRule, tx *entity.Transaction) bool {
	for _, condition := range rule.Conditions {
		if !m.MatchesCondition(condition, tx) {
			return false
		}
	}
	return true
}

// MatchesCondition evaluates a single condition. Conditions that cannot be evaluated
// (unparseable amount, unknown field or operator) are a non-match.
func (m *Matcher) MatchesCondition(condition entity.RuleCondition, tx *entity.Transaction) bool {
	if condition.Field == entity.FieldAmount {
		return matchAmount(condition, tx.Amount)
	}

	value, ok := tx.StringField(condition.Field)
	if !ok {
		return false
	}
	return matchString(condition, value)
}

// matchAmount compares the transaction amount using decimal arithmetic.
func matchAmount(condition entity.RuleCondition, amount decimal.Decimal) bool {
	expected, err := decimal.NewFromString(strings.TrimSpace(condition.Value))
	if err != nil {
		return false
	}

	switch condition.Operator {
	case entity.OperatorLessThan:
		return amount.LessThan(expected)
	case entity.OperatorGreaterThan:
		return amount.GreaterThan(expected)
	case entity.OperatorEquals:
		return amount.Equal(expected)
	default:
		return false
	}
}

// matchString compares string fields case-insensitively.
func matchString(condition entity.RuleCondition, value string) bool {
	switch condition.Operator {
	case entity.OperatorEquals:
		return strings.EqualFold(value, condition.Value)
	case entity.OperatorContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(condition.Value))
	case entity.OperatorStartsWith:
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(condition.Value))
	default:
		return false
	}
}
