package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	batchapply "github.com/finance-tracker/rule-engine/internal/application/usecase/batch_apply"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply one rule to the stored transaction history",
		Long: `Apply evaluates a single rule against every stored transaction in the chosen
scope and writes the changed transactions back.

Press Ctrl-C to stop early; transactions already written stay written and the
partial result is printed.`,
		RunE: runApply,
	}

	cmd.Flags().String("rule", "", "ID of the rule to apply (required)")
	cmd.Flags().String("scope", "all", "history scope: all or uncategorized")
	_ = cmd.MarkFlagRequired("rule")

	return cmd
}

func runApply(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ruleFlag, err := cmd.Flags().GetString("rule")
	if err != nil {
		return err
	}
	ruleID, err := uuid.Parse(ruleFlag)
	if err != nil {
		return fmt.Errorf("invalid rule id %q: %w", ruleFlag, err)
	}

	scopeFlag, err := cmd.Flags().GetString("scope")
	if err != nil {
		return err
	}
	scope, err := parseScope(scopeFlag)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rule, err := a.RuleRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionRuleNotFound) {
			return fmt.Errorf("rule %s not found", ruleID)
		}
		return fmt.Errorf("failed to load rule: %w", err)
	}

	result, err := applyRule(ctx, a.Coordinator, a.Tracker, rule, scope, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), rule, result)
	return nil
}

// applyRule registers the run with the tracker so it cannot overlap with another run
// of the same rule, then drives the coordinator with a progress bar.
func applyRule(
	ctx context.Context,
	coordinator *batchapply.Coordinator,
	tracker batchapply.BatchRunTracker,
	rule *entity.TransactionRule,
	scope entity.BatchScope,
	progressOut io.Writer,
) (*entity.BatchApplyResult, error) {
	run := entity.NewBatchRun(rule.ID, scope)
	run.Start(time.Now().UTC())

	if err := tracker.Begin(ctx, run); err != nil {
		if errors.Is(err, domainerror.ErrBatchAlreadyRunning) {
			return nil, fmt.Errorf("rule %s is already being applied", rule.ID)
		}
		return nil, fmt.Errorf("failed to register batch run: %w", err)
	}

	// The outcome is recorded even after Ctrl-C.
	trackerCtx := context.WithoutCancel(ctx)

	var bar *progressbar.ProgressBar
	onProgress := func(current, total int) {
		if bar == nil {
			bar = newProgressBar(progressOut, total, rule.Name)
		}
		if err := bar.Set(current); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
		run.Progress(current, total)
	}

	result, err := coordinator.ApplyToHistory(ctx, rule, scope, onProgress)
	if bar != nil {
		_ = bar.Finish()
	}

	if err != nil {
		run.Fail(err, time.Now().UTC())
	} else {
		run.Complete(result, time.Now().UTC())
	}
	if finishErr := tracker.Finish(trackerCtx, run); finishErr != nil {
		slog.Error("Failed to record batch run outcome", "runID", run.ID.String(), "error", finishErr)
	}

	if err != nil {
		return nil, fmt.Errorf("apply stopped: %w", err)
	}
	return result, nil
}

func newProgressBar(w io.Writer, total int, ruleName string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Applying %q[reset]", ruleName)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func parseScope(value string) (entity.BatchScope, error) {
	switch value {
	case "all", "ALL":
		return entity.BatchScopeAll, nil
	case "uncategorized", "UNCATEGORIZED_ONLY":
		return entity.BatchScopeUncategorizedOnly, nil
	default:
		return "", fmt.Errorf("invalid scope %q: use all or uncategorized", value)
	}
}

func printResult(w io.Writer, rule *entity.TransactionRule, result *entity.BatchApplyResult) {
	title := successStyle.Render(fmt.Sprintf("Applied %q", rule.Name))
	if result.Cancelled {
		title = warningStyle.Render(fmt.Sprintf("Cancelled %q, partial result", rule.Name))
	}

	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  processed: %d\n", result.TotalProcessed)
	fmt.Fprintf(w, "  updated:   %d\n", result.TotalUpdated)
	fmt.Fprintf(w, "  blocked:   %d\n", result.TotalDeleted)

	if len(result.Errors) > 0 {
		fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("  errors:    %d", len(result.Errors))))
		for _, itemErr := range result.Errors {
			fmt.Fprintf(w, "    %s: %s\n", itemErr.TransactionID, itemErr.Message)
		}
	}
}
