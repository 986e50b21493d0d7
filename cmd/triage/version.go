package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/triage"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of triage",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "triage version %s\n", strings.TrimSpace(triage.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
