// Package render formats planning results for terminal consumption.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/joss/stagehand/internal/planner"
)

// Renderer handles plan output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer. When pretty is true, output is colored for
// terminals; otherwise plain text.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Plan formats a planning result as a stage-ordered listing: every stage in
// order, each assignment with its agents and description, and the
// dependencies each action waited for.
func (r *Renderer) Plan(name string, result *planner.Result) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Plan: %s", name) + "\n")
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	} else if name != "" {
		sb.WriteString("Plan: " + name + "\n")
	}

	for stage := 1; stage <= result.MaxStage(); stage++ {
		r.formatStage(&sb, stage, result)
	}
	return sb.String()
}

func (r *Renderer) formatStage(sb *strings.Builder, stage int, result *planner.Result) {
	if r.pretty {
		fmt.Fprintf(sb, "%s\n", color.YellowString("Stage %d:", stage))
	} else {
		fmt.Fprintf(sb, "Stage %d:\n", stage)
	}

	for _, as := range result.Stages[stage] {
		agents := "[" + strings.Join(as.Agents, ",") + "]"
		if r.pretty {
			fmt.Fprintf(sb, "    %s %s - %s\n", color.GreenString(as.ActionID), agents, as.Description)
		} else {
			fmt.Fprintf(sb, "    %s %s - %s\n", as.ActionID, agents, as.Description)
		}
		if deps := result.Dependencies[as.ActionID]; len(deps) > 0 {
			line := fmt.Sprintf("         depends on: %s", strings.Join(deps, ", "))
			if r.pretty {
				line = color.HiBlackString(line)
			}
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString("\n")
}

// Summary formats one-line plan statistics.
func (r *Renderer) Summary(result *planner.Result) string {
	stages := result.MaxStage()
	actions := result.ActionCount()

	agents := make(map[string]bool)
	for _, assignments := range result.Stages {
		for _, as := range assignments {
			for _, id := range as.Agents {
				agents[id] = true
			}
		}
	}

	return fmt.Sprintf("%d actions over %d stages, %d agents used", actions, stages, len(agents))
}

// AgentLoad formats per-agent assignment counts, busiest first.
func (r *Renderer) AgentLoad(result *planner.Result) string {
	load := make(map[string]int)
	for _, assignments := range result.Stages {
		for _, as := range assignments {
			for _, id := range as.Agents {
				load[id]++
			}
		}
	}

	ids := make([]string, 0, len(load))
	for id := range load {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if load[ids[i]] != load[ids[j]] {
			return load[ids[i]] > load[ids[j]]
		}
		return ids[i] < ids[j]
	})

	var sb strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&sb, "  %s: %d\n", id, load[id])
	}
	return sb.String()
}
