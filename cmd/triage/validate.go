package main

import (
	"fmt"

	"github.com/aretw0/triage/internal/validator"
	"github.com/aretw0/triage/pkg/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a tree definition for consistency",
	Long: `Loads a tree definition and reports schema violations, dangling
transitions, cycles, unreachable nodes and entry points that are not questions.
Without a file argument the --tree flag, or the built-in tree, is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("tree")
		if len(args) > 0 {
			path = args[0]
		}

		t, err := catalog.LoadOrDefault(path)
		if err != nil {
			if problems := validator.Errors(err); len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
				}
				return fmt.Errorf("validation failed: %d problem(s)", len(problems))
			}
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Tree is valid! %d nodes, %d entry points, depth %d\n",
			len(t.Nodes()), len(t.EntryPoints()), t.Depth())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
