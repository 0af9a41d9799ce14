// Package main scenario validation commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joss/stagehand/internal/config"
	"github.com/joss/stagehand/internal/planner"
	"github.com/joss/stagehand/internal/render"
	"github.com/joss/stagehand/internal/scenario"
)

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pattern]",
		Short: "Validate scenario files",
		Long: `Validate scenario files against shape and dependency-graph rules.
The pattern may use doublestar globs; without a pattern, the scenario
library under ~/.stagehand/scenarios is scanned.

Examples:
  stagehand validate
  stagehand validate scenarios/chair.yaml
  stagehand validate 'scenarios/**/*.yaml'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) == 1 {
				pattern = args[0]
			} else {
				library := config.GetPaths().Scenarios
				if err := config.EnsureDir(library); err != nil {
					fatalError(err)
				}
				pattern = filepath.Join(library, "**", "*.yaml")
			}

			files, err := scenario.FindFiles(pattern)
			if err != nil {
				fatalError(err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %q", pattern)
			}

			w := render.Stdout()
			failed := 0
			for _, path := range files {
				if err := validateFile(path); err != nil {
					w.Println("✗ %s: %v", path, err)
					failed++
					continue
				}
				w.Println("✓ %s", path)
			}

			if failed > 0 {
				render.Stderr().Println("%d of %d files failed validation", failed, len(files))
				os.Exit(1)
			}
			return nil
		},
	}
}

func validateFile(path string) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	return planner.Validate(s.Actions)
}
