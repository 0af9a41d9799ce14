package scenario

import "github.com/joss/stagehand/internal/planner"

// Chair returns the built-in chair-assembly demo: six part fetches, one
// back/seat attach, and four leg attaches, with three unconstrained agents.
func Chair() *Scenario {
	one := planner.AgentRequirement{Min: 1, Max: 1}
	return &Scenario{
		Name: "chair-assembly",
		Agents: []planner.Agent{
			{ID: "A"},
			{ID: "B"},
			{ID: "C"},
		},
		Actions: []planner.Action{
			{ID: "1", Type: planner.ActionFetch, Objects: []string{"chair_back"}, Description: "Fetch chair back", Requires: one},
			{ID: "2", Type: planner.ActionFetch, Objects: []string{"chair_seat"}, Description: "Fetch chair seat", Requires: one},
			{ID: "3", Type: planner.ActionFetch, Objects: []string{"leg1"}, Description: "Fetch leg 1", Requires: one},
			{ID: "4", Type: planner.ActionFetch, Objects: []string{"leg2"}, Description: "Fetch leg 2", Requires: one},
			{ID: "5", Type: planner.ActionFetch, Objects: []string{"leg3"}, Description: "Fetch leg 3", Requires: one},
			{ID: "6", Type: planner.ActionFetch, Objects: []string{"leg4"}, Description: "Fetch leg 4", Requires: one},
			{ID: "7", Type: planner.ActionAttach, Objects: []string{"chair_back", "chair_seat"},
				Description: "Attach chair back and chair seat together", Requires: one, DependsOn: []string{"1", "2"}},
			{ID: "8", Type: planner.ActionAttach, Objects: []string{"leg1", "chair_seat"},
				Description: "Attach leg 1 to chair seat", Requires: one, DependsOn: []string{"3", "7"}},
			{ID: "9", Type: planner.ActionAttach, Objects: []string{"leg2", "chair_seat"},
				Description: "Attach leg 2 to chair seat", Requires: one, DependsOn: []string{"4", "7"}},
			{ID: "10", Type: planner.ActionAttach, Objects: []string{"leg3", "chair_seat"},
				Description: "Attach leg 3 to chair seat", Requires: one, DependsOn: []string{"5", "7"}},
			{ID: "11", Type: planner.ActionAttach, Objects: []string{"leg4", "chair_seat"},
				Description: "Attach leg 4 to chair seat", Requires: one, DependsOn: []string{"6", "7"}},
		},
	}
}
