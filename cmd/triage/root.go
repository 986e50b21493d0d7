package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/triage/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage is a guided first-aid assistant",
	Long: `Triage walks you through a yes/no first-aid decision tree.
A free-text symptom description can be classified by a language model to
skip straight to the most relevant question.

This tool does not replace professional care. Call your local emergency number first.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("tree", "", "Path to a custom tree YAML file (default: built-in first-aid tree)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides TRIAGE_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides TRIAGE_LOG_FORMAT)")
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger) {
	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	return cfg, cfg.Logger()
}
