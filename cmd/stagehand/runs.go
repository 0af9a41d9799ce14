// Package main stored-run commands.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joss/stagehand/internal/render"
)

func runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored planning runs",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				fatalError(err)
			}
			defer st.Close()

			runs, err := st.List(context.Background(), limit)
			if err != nil {
				fatalError(err)
			}
			w := render.Stdout()
			if len(runs) == 0 {
				w.Println("No stored runs")
				return nil
			}

			for _, run := range runs {
				w.Println("%s  %s", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
				w.Item("%s: %d actions over %d stages",
					render.Truncate(run.Scenario, 40), run.Actions, run.Stages)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show a stored run's full plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				fatalError(err)
			}
			defer st.Close()

			run, err := st.Get(context.Background(), args[0])
			if err != nil {
				fatalError(err)
			}

			r := render.New(usePretty())
			w := render.Stdout()
			w.Print("%s", r.Plan(run.Scenario, run.Result))
			w.Println("%s", r.Summary(run.Result))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <run_id>",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				fatalError(err)
			}
			defer st.Close()

			if err := st.Delete(context.Background(), args[0]); err != nil {
				fatalError(err)
			}
			render.Stdout().Println("Deleted run %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}
