package ruleengine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

func newTestTransaction(amount string) *entity.Transaction {
	tx := &entity.Transaction{
		Amount:    decimal.RequireFromString(amount),
		Merchant:  "AMZN PAY",
		SMSText:   "Rs.150.00 debited from A/c XX1234 at AMZN PAY",
		Type:      "DEBIT",
		BankName:  "HDFC Bank",
		Narration: "UPI/AMZN/123",
		Tags:      []string{},
	}
	return tx
}

func ruleWith(conditions ...entity.RuleCondition) *entity.TransactionRule {
	return &entity.TransactionRule{
		IsActive:   true,
		Conditions: conditions,
	}
}

func TestMatcher_EmptyConditionsMatchEverything(t *testing.T) {
	m := NewMatcher()

	for _, amount := range []string{"0", "-42.10", "999999.99"} {
		assert.True(t, m.Matches(ruleWith(), newTestTransaction(amount)), "amount %s", amount)
	}
}

func TestMatcher_Amount(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name      string
		condition entity.RuleCondition
		amount    string
		want      bool
	}{
		{"less than below", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorLessThan, Value: "200"}, "150.00", true},
		{"less than is strict", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorLessThan, Value: "200"}, "200.00", false},
		{"greater than above", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorGreaterThan, Value: "200"}, "200.01", true},
		{"greater than is strict", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorGreaterThan, Value: "200"}, "200", false},
		{"equals ignores scale", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorEquals, Value: "200"}, "200.00", true},
		{"equals exact decimal", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorEquals, Value: "0.1"}, "0.10", true},
		{"equals different", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorEquals, Value: "200"}, "200.01", false},
		{"value with spaces", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorLessThan, Value: " 10 "}, "5", true},
		{"unparseable value is non-match", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorLessThan, Value: "ten"}, "5", false},
		{"empty value is non-match", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorEquals, Value: ""}, "0", false},
		{"contains on amount is non-match", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorContains, Value: "1"}, "150", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(ruleWith(tt.condition), newTestTransaction(tt.amount)))
		})
	}
}

func TestMatcher_StringFields(t *testing.T) {
	m := NewMatcher()
	tx := newTestTransaction("150")

	tests := []struct {
		name      string
		condition entity.RuleCondition
		want      bool
	}{
		{"contains is case-insensitive", entity.RuleCondition{Field: entity.FieldMerchant, Operator: entity.OperatorContains, Value: "amzn"}, true},
		{"contains miss", entity.RuleCondition{Field: entity.FieldMerchant, Operator: entity.OperatorContains, Value: "swiggy"}, false},
		{"starts with", entity.RuleCondition{Field: entity.FieldSMSText, Operator: entity.OperatorStartsWith, Value: "rs.150"}, true},
		{"starts with miss", entity.RuleCondition{Field: entity.FieldSMSText, Operator: entity.OperatorStartsWith, Value: "debited"}, false},
		{"equals is case-insensitive", entity.RuleCondition{Field: entity.FieldBankName, Operator: entity.OperatorEquals, Value: "hdfc bank"}, true},
		{"equals needs full value", entity.RuleCondition{Field: entity.FieldBankName, Operator: entity.OperatorEquals, Value: "hdfc"}, false},
		{"type equals", entity.RuleCondition{Field: entity.FieldType, Operator: entity.OperatorEquals, Value: "debit"}, true},
		{"narration contains", entity.RuleCondition{Field: entity.FieldNarration, Operator: entity.OperatorContains, Value: "upi/"}, true},
		{"empty category equals empty", entity.RuleCondition{Field: entity.FieldCategory, Operator: entity.OperatorEquals, Value: ""}, true},
		{"less than on string is non-match", entity.RuleCondition{Field: entity.FieldMerchant, Operator: entity.OperatorLessThan, Value: "ZZZ"}, false},
		{"unknown field is non-match", entity.RuleCondition{Field: "ACCOUNT", Operator: entity.OperatorContains, Value: ""}, false},
		{"unknown operator is non-match", entity.RuleCondition{Field: entity.FieldMerchant, Operator: "MATCHES", Value: "AMZN"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(ruleWith(tt.condition), tx))
		})
	}
}

func TestMatcher_AllConditionsMustHold(t *testing.T) {
	m := NewMatcher()
	tx := newTestTransaction("150")

	matching := entity.RuleCondition{Field: entity.FieldMerchant, Operator: entity.OperatorContains, Value: "amzn"}
	failing := entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorGreaterThan, Value: "1000"}

	assert.True(t, m.Matches(ruleWith(matching, matching), tx))
	assert.False(t, m.Matches(ruleWith(matching, failing), tx))
	assert.False(t, m.Matches(ruleWith(failing, matching), tx))
}
