package planner

import (
	"time"

	"github.com/joss/stagehand/internal/logging"
)

// Option configures a planning run.
type Option func(*scheduler)

// WithMaxExtraStages overrides how many stages past the desired stage the
// staffing search may probe before giving up with a CapacityError. The
// default is len(actions)+1, which upper-bounds any feasible schedule.
func WithMaxExtraStages(n int) Option {
	return func(s *scheduler) {
		if n > 0 {
			s.maxExtra = n
		}
	}
}

// WithLogger attaches a structured logger for plan lifecycle events.
func WithLogger(l *logging.Logger) Option {
	return func(s *scheduler) {
		s.log = l
	}
}

// planContext holds all mutable state for one planning run. Each Plan call
// gets a fresh context, so runs never observe each other's affinity history.
type planContext struct {
	// affinity maps an object ID to the agent that most recently fetched or
	// attached it. Read when staffing, written after every fetch/attach.
	affinity map[string]string

	// stages accumulates committed assignments keyed by stage number.
	stages map[int][]Assignment

	// assigned maps each placed action ID to its stage.
	assigned map[string]int
}

func newPlanContext() *planContext {
	return &planContext{
		affinity: make(map[string]string),
		stages:   make(map[int][]Assignment),
		assigned: make(map[string]int),
	}
}

// freeAgents returns the roster members not yet committed in the given stage,
// preserving roster order. Commitments are stage-local: every agent is free
// again in the next stage.
func (c *planContext) freeAgents(stage int, roster []Agent) []Agent {
	used := make(map[string]bool)
	for _, as := range c.stages[stage] {
		for _, id := range as.Agents {
			used[id] = true
		}
	}
	free := make([]Agent, 0, len(roster))
	for _, a := range roster {
		if !used[a.ID] {
			free = append(free, a)
		}
	}
	return free
}

// ready reports whether every dependency of the action has been placed.
func (c *planContext) ready(a *Action) bool {
	for _, dep := range a.DependsOn {
		if _, ok := c.assigned[dep]; !ok {
			return false
		}
	}
	return true
}

// recordHandlers notes which agent ended up holding each object, so later
// actions touching the same object prefer that agent.
func (c *planContext) recordHandlers(a *Action, agents []string) {
	if a.Type != ActionFetch && a.Type != ActionAttach {
		return
	}
	for _, obj := range a.Objects {
		c.affinity[obj] = agents[0]
	}
}

type scheduler struct {
	actions  []Action
	roster   []Agent
	idx      *depIndex
	ctx      *planContext
	maxExtra int
	log      *logging.Logger
}

// Plan validates the action set and assigns every action to exactly one stage
// and one qualified agent set, honoring dependency order, capability
// constraints, minimum agent counts, and handler-affinity preference.
//
// Actions become eligible the moment all their dependencies are placed;
// among eligible actions the one with the most direct dependents is placed
// first, with input order breaking ties. The result is deterministic for a
// given input.
func Plan(actions []Action, agents []Agent, opts ...Option) (*Result, error) {
	start := time.Now()
	if err := Validate(actions); err != nil {
		return nil, err
	}
	// A zero-value or inverted requirement would let staff return an empty
	// agent set and crash the affinity update; reject it up front.
	for i := range actions {
		if !actions[i].Requires.Valid() {
			return nil, &InvalidRequirementError{
				ActionID: actions[i].ID,
				Min:      actions[i].Requires.Min,
				Max:      actions[i].Requires.Max,
			}
		}
	}

	s := &scheduler{
		actions:  actions,
		roster:   agents,
		idx:      buildIndex(actions),
		ctx:      newPlanContext(),
		maxExtra: len(actions) + 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	remaining := len(actions)
	for remaining > 0 {
		next := s.nextEligible()
		if next == nil {
			return nil, &StarvationError{Remaining: s.unassignedIDs()}
		}
		if err := s.place(next, s.desiredStage(next)); err != nil {
			return nil, err
		}
		remaining--
	}

	result := &Result{
		Stages:       s.ctx.stages,
		Dependencies: make(map[string][]string, len(actions)),
	}
	for i := range actions {
		deps := make([]string, len(actions[i].DependsOn))
		copy(deps, actions[i].DependsOn)
		result.Dependencies[actions[i].ID] = deps
	}

	if s.log != nil {
		s.log.TimedEvent("plan_complete", start, map[string]interface{}{
			"actions": len(actions),
			"agents":  len(agents),
			"stages":  result.MaxStage(),
		})
	}
	return result, nil
}

// nextEligible picks the unassigned action whose dependencies are all placed,
// preferring the highest dependent count. Returns nil when none qualifies.
func (s *scheduler) nextEligible() *Action {
	var pick *Action
	for i := range s.actions {
		a := &s.actions[i]
		if _, done := s.ctx.assigned[a.ID]; done {
			continue
		}
		if !s.ctx.ready(a) {
			continue
		}
		if pick == nil || s.idx.dependentCount[a.ID] > s.idx.dependentCount[pick.ID] {
			pick = a
		}
	}
	return pick
}

// desiredStage is one past the latest dependency, or 1 for a root action.
func (s *scheduler) desiredStage(a *Action) int {
	desired := 1
	for _, dep := range a.DependsOn {
		if stage := s.ctx.assigned[dep]; stage+1 > desired {
			desired = stage + 1
		}
	}
	return desired
}

// place finds the first stage at or after desired where the action can be
// staffed, then commits the assignment and records handler affinity.
func (s *scheduler) place(a *Action, desired int) error {
	limit := desired + s.maxExtra
	for stage := desired; stage <= limit; stage++ {
		chosen, ok := s.staff(a, stage)
		if !ok {
			continue
		}
		assignment := Assignment{
			ActionID:    a.ID,
			Agents:      chosen,
			Stage:       stage,
			Description: a.Description,
		}
		s.ctx.stages[stage] = append(s.ctx.stages[stage], assignment)
		s.ctx.assigned[a.ID] = stage
		s.ctx.recordHandlers(a, chosen)
		if s.log != nil {
			s.log.Debug("action_assigned", map[string]interface{}{
				"action": a.ID,
				"stage":  stage,
				"agents": chosen,
			})
		}
		return nil
	}
	return &CapacityError{ActionID: a.ID, Stage: limit}
}

// staff selects the action's agent set for one candidate stage. Agents that
// recently handled one of the action's objects are preferred, in the action's
// declared object order; the rest is filled from the free roster in roster
// order. Exactly Min agents are assigned.
func (s *scheduler) staff(a *Action, stage int) ([]string, bool) {
	qualified := make([]Agent, 0, len(s.roster))
	for _, agent := range s.ctx.freeAgents(stage, s.roster) {
		if agent.CanDo(a.Type) {
			qualified = append(qualified, agent)
		}
	}

	need := a.Requires.Min
	chosen := make([]string, 0, need)
	inChosen := make(map[string]bool, need)

	for _, obj := range a.Objects {
		handler, ok := s.ctx.affinity[obj]
		if !ok || inChosen[handler] {
			continue
		}
		for _, agent := range qualified {
			if agent.ID == handler {
				chosen = append(chosen, handler)
				inChosen[handler] = true
				break
			}
		}
	}
	if len(chosen) >= need {
		return chosen[:need], true
	}

	for _, agent := range qualified {
		if len(chosen) == need {
			break
		}
		if !inChosen[agent.ID] {
			chosen = append(chosen, agent.ID)
			inChosen[agent.ID] = true
		}
	}
	if len(chosen) < need {
		return nil, false
	}
	return chosen, true
}

func (s *scheduler) unassignedIDs() []string {
	var ids []string
	for i := range s.actions {
		if _, ok := s.ctx.assigned[s.actions[i].ID]; !ok {
			ids = append(ids, s.actions[i].ID)
		}
	}
	return ids
}
