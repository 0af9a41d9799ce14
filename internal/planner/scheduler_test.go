package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func one() AgentRequirement { return AgentRequirement{Min: 1, Max: 1} }

// chairActions is the chair-assembly scenario: six independent fetches, one
// back/seat attach, four leg attaches.
func chairActions() []Action {
	return []Action{
		{ID: "1", Type: ActionFetch, Objects: []string{"chair_back"}, Description: "Fetch chair back", Requires: one()},
		{ID: "2", Type: ActionFetch, Objects: []string{"chair_seat"}, Description: "Fetch chair seat", Requires: one()},
		{ID: "3", Type: ActionFetch, Objects: []string{"leg1"}, Description: "Fetch leg 1", Requires: one()},
		{ID: "4", Type: ActionFetch, Objects: []string{"leg2"}, Description: "Fetch leg 2", Requires: one()},
		{ID: "5", Type: ActionFetch, Objects: []string{"leg3"}, Description: "Fetch leg 3", Requires: one()},
		{ID: "6", Type: ActionFetch, Objects: []string{"leg4"}, Description: "Fetch leg 4", Requires: one()},
		{ID: "7", Type: ActionAttach, Objects: []string{"chair_back", "chair_seat"}, Description: "Attach chair back and chair seat together", Requires: one(), DependsOn: []string{"1", "2"}},
		{ID: "8", Type: ActionAttach, Objects: []string{"leg1", "chair_seat"}, Description: "Attach leg 1 to chair seat", Requires: one(), DependsOn: []string{"3", "7"}},
		{ID: "9", Type: ActionAttach, Objects: []string{"leg2", "chair_seat"}, Description: "Attach leg 2 to chair seat", Requires: one(), DependsOn: []string{"4", "7"}},
		{ID: "10", Type: ActionAttach, Objects: []string{"leg3", "chair_seat"}, Description: "Attach leg 3 to chair seat", Requires: one(), DependsOn: []string{"5", "7"}},
		{ID: "11", Type: ActionAttach, Objects: []string{"leg4", "chair_seat"}, Description: "Attach leg 4 to chair seat", Requires: one(), DependsOn: []string{"6", "7"}},
	}
}

func threeAgents() []Agent {
	return []Agent{{ID: "A"}, {ID: "B"}, {ID: "C"}}
}

// assertPlanInvariants checks the structural guarantees every successful plan
// must satisfy: dependency ordering, per-stage agent disjointness, minimum
// agent counts, capability constraints, and one assignment per action.
func assertPlanInvariants(t *testing.T, result *Result, actions []Action, agents []Agent) {
	t.Helper()

	byID := make(map[string]Action)
	for _, a := range actions {
		byID[a.ID] = a
	}
	agentByID := make(map[string]Agent)
	for _, a := range agents {
		agentByID[a.ID] = a
	}

	seen := make(map[string]int)
	for stage, assignments := range result.Stages {
		usedInStage := make(map[string]bool)
		for _, as := range assignments {
			assert.Equal(t, stage, as.Stage)
			seen[as.ActionID]++

			action, ok := byID[as.ActionID]
			require.True(t, ok, "assignment for unknown action %s", as.ActionID)
			assert.GreaterOrEqual(t, len(as.Agents), action.Requires.Min,
				"action %s under-staffed", as.ActionID)

			for _, id := range as.Agents {
				assert.False(t, usedInStage[id],
					"agent %s used twice in stage %d", id, stage)
				usedInStage[id] = true
				assert.True(t, agentByID[id].CanDo(action.Type),
					"agent %s assigned to disallowed action %s", id, as.ActionID)
			}
		}
	}

	for _, a := range actions {
		assert.Equal(t, 1, seen[a.ID], "action %s assigned %d times", a.ID, seen[a.ID])
	}

	for _, a := range actions {
		mine := result.Find(a.ID)
		require.NotNil(t, mine)
		for _, dep := range a.DependsOn {
			theirs := result.Find(dep)
			require.NotNil(t, theirs)
			assert.Greater(t, mine.Stage, theirs.Stage,
				"action %s (stage %d) must run after dependency %s (stage %d)",
				a.ID, mine.Stage, dep, theirs.Stage)
		}
	}
}

func TestPlanChairScenario(t *testing.T) {
	actions := chairActions()
	result, err := Plan(actions, threeAgents())
	require.NoError(t, err)

	assertPlanInvariants(t, result, actions, threeAgents())
	assert.Equal(t, 4, result.MaxStage())
	assert.Equal(t, len(actions), result.ActionCount())

	// The three roster agents cover the first three fetches in stage 1.
	for _, id := range []string{"1", "2", "3"} {
		assert.Equal(t, 1, result.Find(id).Stage, "fetch %s", id)
	}

	// Back/seat attach becomes eligible as soon as both fetches are placed
	// and is prioritized by its four dependents.
	seatAttach := result.Find("7")
	assert.Equal(t, 2, seatAttach.Stage)
	assert.Equal(t, []string{"A"}, seatAttach.Agents, "agent A fetched the chair back")

	// Each leg attach goes to the exact agent that fetched its leg.
	for _, c := range []struct {
		attach, fetch string
	}{
		{"8", "3"},
		{"9", "4"},
		{"10", "5"},
		{"11", "6"},
	} {
		fetchedBy := result.Find(c.fetch).Agents[0]
		assert.Equal(t, []string{fetchedBy}, result.Find(c.attach).Agents,
			"attach %s should reuse the agent that fetched via %s", c.attach, c.fetch)
		assert.Greater(t, result.Find(c.attach).Stage, result.Find(c.fetch).Stage)
		assert.Greater(t, result.Find(c.attach).Stage, seatAttach.Stage)
	}

	// Dependency map is carried through for rendering.
	assert.Equal(t, []string{"1", "2"}, result.Dependencies["7"])
	assert.Empty(t, result.Dependencies["1"])
}

func TestPlanIsDeterministic(t *testing.T) {
	first, err := Plan(chairActions(), threeAgents())
	require.NoError(t, err)
	second, err := Plan(chairActions(), threeAgents())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanAffinityPreference(t *testing.T) {
	// B fetches the crate because A cannot fetch; the later attach must go to
	// B even though A is first in the roster and free.
	actions := []Action{
		{ID: "get", Type: ActionFetch, Objects: []string{"crate"}, Requires: one()},
		{ID: "fix", Type: ActionAttach, Objects: []string{"crate"}, Requires: one(), DependsOn: []string{"get"}},
	}
	agents := []Agent{
		{ID: "A", Constraints: []string{"can't_fetch"}},
		{ID: "B"},
	}

	result, err := Plan(actions, agents)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, result.Find("get").Agents)
	assert.Equal(t, []string{"B"}, result.Find("fix").Agents)
}

func TestPlanAffinityCappedAtMinimum(t *testing.T) {
	// Two willing previous handlers, but the attach needs only one agent: the
	// preference list is capped at the minimum, in object order.
	actions := []Action{
		{ID: "f1", Type: ActionFetch, Objects: []string{"left"}, Requires: one()},
		{ID: "f2", Type: ActionFetch, Objects: []string{"right"}, Requires: one()},
		{ID: "join", Type: ActionAttach, Objects: []string{"left", "right"}, Requires: one(), DependsOn: []string{"f1", "f2"}},
	}
	agents := []Agent{{ID: "A"}, {ID: "B"}}

	result, err := Plan(actions, agents)
	require.NoError(t, err)

	leftHandler := result.Find("f1").Agents[0]
	assert.Equal(t, []string{leftHandler}, result.Find("join").Agents)
}

func TestPlanConstrainedAgentNeverAttaches(t *testing.T) {
	actions := chairActions()
	agents := []Agent{
		{ID: "A", Constraints: []string{"can't_attach"}},
		{ID: "B"},
		{ID: "C"},
	}

	result, err := Plan(actions, agents)
	require.NoError(t, err)
	assertPlanInvariants(t, result, actions, agents)

	for _, id := range []string{"7", "8", "9", "10", "11"} {
		assert.NotContains(t, result.Find(id).Agents, "A")
	}
}

func TestPlanMultiAgentAction(t *testing.T) {
	actions := []Action{
		{ID: "lift", Type: ActionPick, Objects: []string{"table"}, Requires: AgentRequirement{Min: 2, Max: 3}},
	}
	agents := threeAgents()

	result, err := Plan(actions, agents)
	require.NoError(t, err)

	// Exactly the minimum is assigned even though a third agent is free.
	assert.Equal(t, []string{"A", "B"}, result.Find("lift").Agents)
}

func TestPlanSpillsToLaterStageWhenBusy(t *testing.T) {
	// One agent, two independent fetches: the second must move to stage 2.
	actions := []Action{
		{ID: "f1", Type: ActionFetch, Objects: []string{"x"}, Requires: one()},
		{ID: "f2", Type: ActionFetch, Objects: []string{"y"}, Requires: one()},
	}
	agents := []Agent{{ID: "A"}}

	result, err := Plan(actions, agents)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Find("f1").Stage)
	assert.Equal(t, 2, result.Find("f2").Stage)
}

func TestPlanCapacityUnsatisfiable(t *testing.T) {
	// Minimum requirement exceeds the roster: must terminate with a typed
	// error instead of probing stages forever.
	actions := []Action{
		{ID: "heavy", Type: ActionPick, Objects: []string{"boulder"}, Requires: AgentRequirement{Min: 2, Max: 2}},
	}
	agents := []Agent{{ID: "A"}}

	result, err := Plan(actions, agents)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrCapacity))

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, "heavy", capErr.ActionID)
}

func TestPlanCapacityWhenNobodyQualifies(t *testing.T) {
	actions := []Action{
		{ID: "glue", Type: ActionAttach, Objects: []string{"panel"}, Requires: one()},
	}
	agents := []Agent{
		{ID: "A", Constraints: []string{"can't_attach"}},
		{ID: "B", Constraints: []string{"can't_attach"}},
	}

	_, err := Plan(actions, agents, WithMaxExtraStages(3))
	assert.True(t, errors.Is(err, ErrCapacity))
}

func TestPlanRejectsZeroRequirement(t *testing.T) {
	// A zero-value requirement (Min=0) must surface as a typed error, not an
	// empty agent set panicking the affinity update.
	actions := []Action{
		{ID: "get", Type: ActionFetch, Objects: []string{"crate"}},
	}

	result, err := Plan(actions, []Agent{{ID: "A"}})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInvalidRequirement))

	var invalid *InvalidRequirementError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "get", invalid.ActionID)
	assert.Equal(t, 0, invalid.Min)
}

func TestPlanRejectsInvertedRequirement(t *testing.T) {
	actions := []Action{
		{ID: "lift", Type: ActionPick, Requires: AgentRequirement{Min: 3, Max: 1}},
	}

	_, err := Plan(actions, threeAgents())
	assert.True(t, errors.Is(err, ErrInvalidRequirement))
	assert.True(t, IsValidation(err))
}

func TestPlanRejectsInvalidGraph(t *testing.T) {
	missing := []Action{
		{ID: "a", Type: ActionFetch, Requires: one(), DependsOn: []string{"ghost"}},
	}
	_, err := Plan(missing, threeAgents())
	assert.True(t, errors.Is(err, ErrMissingDependency))

	cyclic := []Action{
		{ID: "a", Type: ActionFetch, Requires: one(), DependsOn: []string{"b"}},
		{ID: "b", Type: ActionFetch, Requires: one(), DependsOn: []string{"a"}},
	}
	_, err = Plan(cyclic, threeAgents())
	assert.True(t, errors.Is(err, ErrCyclicDependency))
}

func TestStarvationErrorReporting(t *testing.T) {
	// The starvation branch is believed unreachable once validation has
	// confirmed an acyclic graph (every scan finds an action whose
	// dependencies are placed, by induction on topological order), so the
	// reporting path is covered by construction.
	err := &StarvationError{Remaining: []string{"x", "y"}}
	assert.True(t, errors.Is(err, ErrStarvation))
	assert.Contains(t, err.Error(), "x, y")
}

func TestBuildIndexDependentCounts(t *testing.T) {
	actions := chairActions()
	idx := buildIndex(actions)

	assert.Equal(t, 4, idx.dependentCount["7"], "back/seat attach has four dependents")
	assert.Equal(t, 1, idx.dependentCount["1"])
	assert.Equal(t, 0, idx.dependentCount["8"])
	assert.Len(t, idx.children["7"], 4)
}

func TestPlanEmptyActionSet(t *testing.T) {
	result, err := Plan(nil, threeAgents())
	require.NoError(t, err)
	assert.Equal(t, 0, result.MaxStage())
	assert.Equal(t, 0, result.ActionCount())
}
