// Package main provides the stagehand CLI entrypoint.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/stagehand/internal/logging"
)

var (
	version = "0.1.0"
	noColor bool
	dbPath  string
	log     = logging.New("cli")
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stagehand",
		Short: "Stage planner for multi-agent action sets",
		Long: `Stagehand assigns capability-constrained agents to dependency-ordered
actions, producing a stage-by-stage execution plan.

Actions in the same stage are independent and can run concurrently;
every action runs strictly after its dependencies, and agents that
previously handled an object are preferred for later actions touching it.

Use 'stagehand plan --demo' to plan the built-in chair-assembly scenario.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "runs database path (default ~/.stagehand/data/runs.db)")

	rootCmd.AddCommand(planCommand())
	rootCmd.AddCommand(validateCommand())
	rootCmd.AddCommand(runsCommand())
	rootCmd.AddCommand(versionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stagehand version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("stagehand %s\n", version)
		},
	}
}
