// Package main provides the entry point for the permjudge CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/permjudge/cmd/permjudge/commands"
	"github.com/Sumatoshi-tech/permjudge/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "permjudge",
		Short: "Replay and score permutation-sorting transcripts",
		Long: `permjudge replays a submitted transcript of block moves and range
reversals against a permutation, checks that every edit is legal and the
result is sorted, and scores the number of edits used.

Commands:
  judge     Judge one transcript
  problems  List the preset problems
  ramp      Render a problem's score ramp as HTML`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewJudgeCommand())
	rootCmd.AddCommand(commands.NewProblemsCommand())
	rootCmd.AddCommand(commands.NewRampCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
