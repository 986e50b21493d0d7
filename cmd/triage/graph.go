package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/presentation/graph"
	"github.com/aretw0/triage/pkg/catalog"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the decision tree as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the decision tree.
Use --path to highlight the nodes a sequence of answers walks through.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		treePath, _ := cmd.Flags().GetString("tree")
		showText, _ := cmd.Flags().GetBool("text")
		path, _ := cmd.Flags().GetString("path")

		t, err := catalog.LoadOrDefault(treePath)
		if err != nil {
			return err
		}

		opts := graph.Options{Root: t.Root(), ShowText: showText}
		if path != "" {
			a, err := triage.New(triage.WithTree(t))
			if err != nil {
				return err
			}
			overlay, err := graph.Trace(cmd.Context(), a, t.Root(), splitAnswers(path))
			if err != nil {
				return fmt.Errorf("invalid --path: %w", err)
			}
			opts.Overlay = overlay
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(t.Nodes(), opts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("text", false, "Label nodes with their text instead of their ids")
	graphCmd.Flags().String("path", "", "Comma-separated answers to highlight, e.g. yes,no,yes")
}

func splitAnswers(s string) []string {
	var answers []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			answers = append(answers, p)
		}
	}
	return answers
}
