// Package ruleengine evaluates transaction rules against transactions.
package ruleengine

import (
	"slices"

	"github.com/google/uuid"

	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

// Evaluation is the result of running a rule set against one transaction.
type Evaluation struct {
	MatchedRuleID *uuid.UUID
	Transaction   *entity.Transaction
	Blocked       bool
	ApplyErrors   []*domainerror.ApplyError
}

// Matched reports whether a rule won.
func (e Evaluation) Matched() bool {
	return e.MatchedRuleID != nil
}

// Engine finds the winning rule for a single transaction and applies it.
type Engine struct {
	matcher *Matcher
	applier *Applier
}

// NewEngine creates a new Engine.
func NewEngine(matcher *Matcher, applier *Applier) *Engine {
	return &Engine{
		matcher: matcher,
		applier: applier,
	}
}

// Evaluate runs the active rules against tx in ascending priority order, ties kept in the
// order given. The first matching rule wins: its actions are applied and no further rule is
// considered. Without a match the returned transaction is an unchanged copy of tx.
func (e *Engine) Evaluate(rules []*entity.TransactionRule, tx *entity.Transaction) Evaluation {
	for _, rule := range OrderForEvaluation(rules) {
		if !e.matcher.Matches(rule, tx) {
			continue
		}

		outcome := e.applier.Apply(tx, rule.Actions)
		ruleID := rule.ID
		outcome.Transaction.MatchedRuleID = &ruleID

		return Evaluation{
			MatchedRuleID: &ruleID,
			Transaction:   outcome.Transaction,
			Blocked:       outcome.Blocked,
			ApplyErrors:   outcome.Errors,
		}
	}

	return Evaluation{
		Transaction: tx.Clone(),
	}
}

// OrderForEvaluation returns the active rules sorted by ascending priority.
// The sort is stable so equal priorities keep their input order. rules is not modified.
func OrderForEvaluation(rules []*entity.TransactionRule) []*entity.TransactionRule {
	active := make([]*entity.TransactionRule, 0, len(rules))
	for _, rule := range rules {
		if rule != nil && rule.IsActive {
			active = append(active, rule)
		}
	}

	slices.SortStableFunc(active, func(a, b *entity.TransactionRule) int {
		return a.Priority - b.Priority
	})
	return active
}
