// Package planner assigns capability-constrained agents to dependency-ordered
// actions, producing a stage-by-stage execution plan. Actions in the same
// stage are mutually independent and may run concurrently downstream.
package planner

// ActionType classifies what an action does to its objects.
type ActionType string

const (
	ActionFetch  ActionType = "fetch"
	ActionPick   ActionType = "pick"
	ActionPlace  ActionType = "place"
	ActionAttach ActionType = "attach"
)

// Agent is an interchangeable worker. Constraints list the action types the
// agent cannot perform, encoded as "can't_<type>" tags.
type Agent struct {
	ID          string   `json:"id" yaml:"id"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// CanDo reports whether the agent may perform actions of the given type.
func (a Agent) CanDo(t ActionType) bool {
	tag := "can't_" + string(t)
	for _, c := range a.Constraints {
		if c == tag {
			return false
		}
	}
	return true
}

// AgentRequirement bounds how many agents an action needs. The scheduler
// always assigns exactly Min agents; Max is accepted as an upper bound but
// never used for voluntary over-assignment.
type AgentRequirement struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Valid reports whether the requirement is well-formed.
func (r AgentRequirement) Valid() bool {
	return r.Min >= 1 && r.Min <= r.Max
}

// Action is a unit of work with a type, target objects, dependencies, and an
// agent-count requirement. Immutable input to the planner.
type Action struct {
	ID          string           `json:"id" yaml:"id"`
	Type        ActionType       `json:"type" yaml:"type"`
	Objects     []string         `json:"objects,omitempty" yaml:"objects,omitempty"`
	Description string           `json:"description" yaml:"description"`
	Requires    AgentRequirement `json:"agents" yaml:"agents"`
	DependsOn   []string         `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Assignment records the planner's decision for one action: which agents run
// it, and in which stage. Created once per action, never mutated.
type Assignment struct {
	ActionID    string   `json:"action_id"`
	Agents      []string `json:"agents"`
	Stage       int      `json:"stage"`
	Description string   `json:"description"`
}

// Result is a complete plan: assignments grouped by stage, plus the
// action-to-dependency map for downstream rendering.
type Result struct {
	Stages       map[int][]Assignment `json:"stages"`
	Dependencies map[string][]string  `json:"dependencies"`
}

// MaxStage returns the highest stage number in the result, or 0 for an empty
// plan.
func (r *Result) MaxStage() int {
	max := 0
	for s := range r.Stages {
		if s > max {
			max = s
		}
	}
	return max
}

// ActionCount returns the total number of assignments across all stages.
func (r *Result) ActionCount() int {
	n := 0
	for _, as := range r.Stages {
		n += len(as)
	}
	return n
}

// Find returns the assignment for the given action ID, or nil if the action
// is not in the plan.
func (r *Result) Find(actionID string) *Assignment {
	for _, as := range r.Stages {
		for i := range as {
			if as[i].ActionID == actionID {
				return &as[i]
			}
		}
	}
	return nil
}
