// Package main is the entry point for rulectl, the rule engine command line tool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rulectl",
	Short: "Manage transaction rules and apply them to history",
	Long: `rulectl inspects the stored transaction rules and applies a single rule
retroactively to the stored transaction history.

Configuration is read from the same environment variables as the API server.`,
	PersistentPreRunE: initLogging,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(applyCmd())
}

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Ctrl-C cancels a running apply; the partial result is still printed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command, _ []string) error {
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
