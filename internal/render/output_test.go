package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/stagehand/internal/planner"
)

func sampleResult() *planner.Result {
	return &planner.Result{
		Stages: map[int][]planner.Assignment{
			1: {
				{ActionID: "1", Agents: []string{"A"}, Stage: 1, Description: "Fetch chair back"},
				{ActionID: "2", Agents: []string{"B"}, Stage: 1, Description: "Fetch chair seat"},
			},
			2: {
				{ActionID: "7", Agents: []string{"A"}, Stage: 2, Description: "Attach back and seat"},
			},
		},
		Dependencies: map[string][]string{
			"1": nil,
			"2": nil,
			"7": {"1", "2"},
		},
	}
}

func TestPlanPlain(t *testing.T) {
	out := New(false).Plan("chair-assembly", sampleResult())

	assert.Contains(t, out, "Plan: chair-assembly")
	assert.Contains(t, out, "Stage 1:")
	assert.Contains(t, out, "Stage 2:")
	assert.Contains(t, out, "1 [A] - Fetch chair back")
	assert.Contains(t, out, "7 [A] - Attach back and seat")
	assert.Contains(t, out, "depends on: 1, 2")

	// Stages come out in order.
	require.Less(t, strings.Index(out, "Stage 1:"), strings.Index(out, "Stage 2:"))
}

func TestPlanOmitsEmptyDependencyLine(t *testing.T) {
	out := New(false).Plan("", sampleResult())
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.Contains(line, "Fetch chair back") {
			assert.NotContains(t, lines[i+1], "depends on")
		}
	}
}

func TestSummary(t *testing.T) {
	out := New(false).Summary(sampleResult())
	assert.Equal(t, "3 actions over 2 stages, 2 agents used", out)
}

func TestAgentLoad(t *testing.T) {
	out := New(false).AgentLoad(sampleResult())
	// A has two assignments, B one; A listed first.
	require.Less(t, strings.Index(out, "A: 2"), strings.Index(out, "B: 1"))
}

func TestWriter(t *testing.T) {
	var buf strings.Builder
	w := NewWriter(&buf)

	w.Println("Plan: %s", "chair")
	w.Item("%s: %d stages", "run-1", 4)
	w.Line()
	w.Print("done")

	assert.Equal(t, "Plan: chair\n  run-1: 4 stages\n\ndone", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "lon...", Truncate("long description", 6))
	assert.Equal(t, "lo", Truncate("long", 2))
}
