// Package main planning commands.
package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/joss/stagehand/internal/planner"
	"github.com/joss/stagehand/internal/render"
	"github.com/joss/stagehand/internal/scenario"
)

func planCommand() *cobra.Command {
	var (
		demo     bool
		save     bool
		showLoad bool
	)

	cmd := &cobra.Command{
		Use:   "plan [scenario.yaml]",
		Short: "Plan a scenario into stages",
		Long: `Plan a scenario: validate its dependency graph, assign agents to every
action, and print the stage-by-stage result.

Examples:
  stagehand plan scenarios/chair.yaml
  stagehand plan --demo
  stagehand plan --demo --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s   *scenario.Scenario
				err error
			)
			switch {
			case demo:
				s = scenario.Chair()
			case len(args) == 1:
				s, err = scenario.Load(args[0])
				if err != nil {
					fatalError(err)
				}
			default:
				return errors.New("provide a scenario file or --demo")
			}

			slog := log.WithScenario(s.Name)
			slog.Info("scenario_loaded", map[string]interface{}{
				"agents":  len(s.Agents),
				"actions": len(s.Actions),
			})

			result, err := planner.Plan(s.Actions, s.Agents, planOptions()...)
			if err != nil {
				slog.Error("plan_failed", nil, err)
				fatalError(errors.New(explainPlanError(err)))
			}

			r := render.New(usePretty())
			w := render.Stdout()
			w.Print("%s", r.Plan(s.Name, result))
			w.Println("%s", r.Summary(result))
			if showLoad {
				w.Line()
				w.Println("Agent load:")
				w.Print("%s", r.AgentLoad(result))
			}

			if save {
				st, err := openStore()
				if err != nil {
					fatalError(err)
				}
				defer st.Close()

				run, err := st.Save(context.Background(), s.Name, result)
				if err != nil {
					fatalError(err)
				}
				w.Println("Saved run %s", run.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "plan the built-in chair-assembly scenario")
	cmd.Flags().BoolVar(&save, "save", false, "persist the result to the runs database")
	cmd.Flags().BoolVar(&showLoad, "agent-load", false, "print per-agent assignment counts")
	return cmd
}
