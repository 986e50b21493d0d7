package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/triage/internal/cli"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [symptoms...]",
	Short: "Resolve a symptom description to its starting question",
	Long: `Sends the symptom description to the configured language model once and
prints the id and text of the question a session would start from.
Any classification failure prints the first question of the tree.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		treePath, _ := cmd.Flags().GetString("tree")
		idOnly, _ := cmd.Flags().GetBool("id")
		cfg, logger := loadConfig(cmd)

		assistant, err := cli.BuildAssistant(cmd.Context(), cli.BuildOptions{
			TreePath: treePath,
			Config:   cfg,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		step, err := assistant.StartFromSymptoms(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if idOnly {
			fmt.Fprintln(cmd.OutOrStdout(), step.NodeID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", step.NodeID, step.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Bool("id", false, "Print only the node id")
}
