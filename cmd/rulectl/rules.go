package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	transactionrule "github.com/finance-tracker/rule-engine/internal/application/usecase/transaction_rule"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect transaction rules",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE:  runRulesList,
	}
	listCmd.Flags().Bool("active-only", false, "only show active rules")

	cmd.AddCommand(listCmd)
	return cmd
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	activeOnly, err := cmd.Flags().GetBool("active-only")
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	output, err := a.ListRules.Execute(ctx, transactionrule.ListTransactionRulesInput{ActiveOnly: activeOnly})
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	if len(output.Rules) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rules found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("PRIORITY"),
		headerStyle.Render("ACTIVE"),
		headerStyle.Render("NAME"),
		headerStyle.Render("ACTIONS"),
	)
	for _, rule := range output.Rules {
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%s\n",
			rule.ID,
			rule.Priority,
			rule.IsActive,
			rule.Name,
			describeActions(rule.Actions),
		)
	}
	return w.Flush()
}

func describeActions(actions []entity.RuleAction) string {
	parts := make([]string, 0, len(actions))
	for _, action := range actions {
		switch action.ActionType {
		case entity.ActionBlock:
			parts = append(parts, string(action.ActionType))
		case entity.ActionAddTag, entity.ActionRemoveTag:
			parts = append(parts, fmt.Sprintf("%s %q", action.ActionType, action.Value))
		default:
			parts = append(parts, fmt.Sprintf("%s %s=%q", action.ActionType, action.Field, action.Value))
		}
	}
	return strings.Join(parts, ", ")
}
