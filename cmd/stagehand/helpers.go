package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/joss/stagehand/internal/config"
	"github.com/joss/stagehand/internal/planner"
	"github.com/joss/stagehand/internal/store"
)

// fatalError logs and prints the error, then exits.
func fatalError(err error) {
	log.Error("command_failed", nil, err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// usePretty reports whether colored output should be produced: enabled by
// config, not disabled by flag, and stdout is a terminal.
func usePretty() bool {
	if noColor || !config.Env().Pretty {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// openStore opens the runs database at the --db path or the configured
// default.
func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = config.Env().DBPath
	}
	return store.Open(path)
}

// planOptions builds scheduler options from configuration.
func planOptions() []planner.Option {
	opts := []planner.Option{planner.WithLogger(log)}
	if n := config.Env().MaxExtraStages; n > 0 {
		opts = append(opts, planner.WithMaxExtraStages(n))
	}
	return opts
}

// explainPlanError maps planner failures to one-line attributable messages.
func explainPlanError(err error) string {
	switch {
	case errors.Is(err, planner.ErrMissingDependency):
		return "dependency graph is incomplete: " + err.Error()
	case errors.Is(err, planner.ErrCyclicDependency):
		return "dependency graph has a cycle: " + err.Error()
	case errors.Is(err, planner.ErrInvalidRequirement):
		return "action set is malformed: " + err.Error()
	case errors.Is(err, planner.ErrCapacity):
		return "agent roster cannot satisfy the action set: " + err.Error()
	case errors.Is(err, planner.ErrStarvation):
		return "scheduling stalled: " + err.Error()
	default:
		return err.Error()
	}
}
