package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/cli"
	"github.com/aretw0/triage/pkg/observability"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive triage session",
	Long: `Starts an interactive triage session in the terminal.
Describe the symptoms, or leave the description empty to start from the
first question, then answer each question with yes or no (y/n).
Type 'initial' to start over and 'quit' to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		treePath, _ := cmd.Flags().GetString("tree")
		offline, _ := cmd.Flags().GetBool("offline")
		symptoms, _ := cmd.Flags().GetString("symptoms")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		plain, _ := cmd.Flags().GetBool("plain")
		cfg, logger := loadConfig(cmd)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		assistant, err := cli.BuildAssistant(sigCtx, cli.BuildOptions{
			TreePath: treePath,
			Offline:  offline,
			Config:   cfg,
			Logger:   logger,
			Hooks:    observability.LogHooks(logger),
		})
		if err != nil {
			return err
		}

		_, err = cli.RunSession(sigCtx, assistant, cli.SessionOptions{
			In:       os.Stdin,
			Out:      cmd.OutOrStdout(),
			Symptoms: symptoms,
			Plain:    plain || !cli.IsTerminal(os.Stdout),
			JSON:     jsonMode,
			Quiet:    quiet,
			Version:  triage.Version,
		})
		if errors.Is(err, context.Canceled) {
			if sig := sigCtx.Signal(); sig != nil && !jsonMode {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nSession interrupted (%v).\n", sig)
			}
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("offline", false, "Disable symptom classification; start from the first question")
	runCmd.Flags().StringP("symptoms", "s", "", "Symptom description (skips the prompt)")
	runCmd.Flags().Bool("json", false, "Emit one JSON object per step instead of formatted text")
	runCmd.Flags().BoolP("quiet", "q", false, "Hide the banner and disclaimer")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering")
}
