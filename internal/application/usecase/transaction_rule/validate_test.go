// Package transactionrule contains transaction rule-related use cases.
package transactionrule

import (
	"errors"
	"strings"
	"testing"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "trims whitespace", input: "  Swiggy  ", want: "Swiggy"},
		{name: "empty", input: "", wantErr: domainerror.ErrRuleMissingFields},
		{name: "blank", input: "   ", wantErr: domainerror.ErrRuleMissingFields},
		{name: "exactly max length", input: strings.Repeat("a", MaxRuleNameLength), want: strings.Repeat("a", MaxRuleNameLength)},
		{name: "too long", input: strings.Repeat("a", MaxRuleNameLength+1), wantErr: domainerror.ErrRuleNameTooLong},
		{name: "multibyte counts runes", input: strings.Repeat("→", MaxRuleNameLength), want: strings.Repeat("→", MaxRuleNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateName(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateConditions(t *testing.T) {
	tests := []struct {
		name      string
		condition entity.RuleCondition
		valid     bool
	}{
		{"amount less than number", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorLessThan, Value: "10"}, true},
		{"amount equals decimal", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorEquals, Value: " 99.50 "}, true},
		{"amount not a number", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorGreaterThan, Value: "ten"}, false},
		{"amount contains", entity.RuleCondition{Field: entity.FieldAmount, Operator: entity.OperatorContains, Value: "1"}, false},
		{"merchant contains", entity.RuleCondition{Field: entity.FieldMerchant, Operator: entity.OperatorContains, Value: "amzn"}, true},
		{"sms starts with", entity.RuleCondition{Field: entity.FieldSMSText, Operator: entity.OperatorStartsWith, Value: "Rs"}, true},
		{"merchant greater than", entity.RuleCondition{Field: entity.FieldMerchant, Operator: entity.OperatorGreaterThan, Value: "a"}, false},
		{"unknown field", entity.RuleCondition{Field: "ACCOUNT", Operator: entity.OperatorEquals, Value: "x"}, false},
		{"unknown operator", entity.RuleCondition{Field: entity.FieldMerchant, Operator: "REGEX", Value: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConditions([]entity.RuleCondition{tt.condition})
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, domainerror.ErrInvalidCondition) {
				t.Errorf("expected ErrInvalidCondition, got %v", err)
			}
		})
	}

	t.Run("empty list", func(t *testing.T) {
		if err := validateConditions(nil); !errors.Is(err, domainerror.ErrRuleNoConditions) {
			t.Errorf("expected ErrRuleNoConditions, got %v", err)
		}
	})
}

func TestValidateActions(t *testing.T) {
	tests := []struct {
		name   string
		action entity.RuleAction
		valid  bool
	}{
		{"set category", entity.RuleAction{Field: entity.FieldCategory, ActionType: entity.ActionSet, Value: "Food"}, true},
		{"clear narration", entity.RuleAction{Field: entity.FieldNarration, ActionType: entity.ActionClear}, true},
		{"block without value", entity.RuleAction{Field: entity.FieldCategory, ActionType: entity.ActionBlock}, true},
		{"block with value", entity.RuleAction{Field: entity.FieldCategory, ActionType: entity.ActionBlock, Value: "x"}, false},
		{"add tag", entity.RuleAction{ActionType: entity.ActionAddTag, Value: "work"}, true},
		{"add blank tag", entity.RuleAction{ActionType: entity.ActionAddTag, Value: " "}, false},
		{"remove tag without value", entity.RuleAction{ActionType: entity.ActionRemoveTag}, false},
		{"set amount number", entity.RuleAction{Field: entity.FieldAmount, ActionType: entity.ActionSet, Value: "0"}, true},
		{"set amount text", entity.RuleAction{Field: entity.FieldAmount, ActionType: entity.ActionSet, Value: "zero"}, false},
		{"append amount", entity.RuleAction{Field: entity.FieldAmount, ActionType: entity.ActionAppend, Value: "1"}, false},
		{"unknown type", entity.RuleAction{Field: entity.FieldMerchant, ActionType: "UPPERCASE"}, false},
		{"unknown field", entity.RuleAction{Field: "ACCOUNT", ActionType: entity.ActionSet, Value: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateActions([]entity.RuleAction{tt.action})
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, domainerror.ErrInvalidAction) {
				t.Errorf("expected ErrInvalidAction, got %v", err)
			}
		})
	}

	t.Run("empty list", func(t *testing.T) {
		if err := validateActions([]entity.RuleAction{}); !errors.Is(err, domainerror.ErrRuleNoActions) {
			t.Errorf("expected ErrRuleNoActions, got %v", err)
		}
	})
}
