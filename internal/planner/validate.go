package planner

// Validate checks the dependency graph: every dependency must reference an
// existing action, and the relation must be acyclic. Does not mutate input.
func Validate(actions []Action) error {
	byID := make(map[string]*Action, len(actions))
	for i := range actions {
		byID[actions[i].ID] = &actions[i]
	}

	for i := range actions {
		for _, dep := range actions[i].DependsOn {
			if _, ok := byID[dep]; !ok {
				return &MissingDependencyError{ActionID: actions[i].ID, DependsOn: dep}
			}
		}
	}

	// Depth-first search tracking the current path separately from the fully
	// explored set; revisiting a node still on the path means a cycle.
	visited := make(map[string]bool, len(actions))
	path := make(map[string]bool)

	var visit func(id string) bool
	visit = func(id string) bool {
		if path[id] {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		path[id] = true
		for _, dep := range byID[id].DependsOn {
			if visit(dep) {
				return true
			}
		}
		delete(path, id)
		return false
	}

	for i := range actions {
		if !visited[actions[i].ID] {
			if visit(actions[i].ID) {
				return &CycleError{ActionID: actions[i].ID}
			}
		}
	}
	return nil
}
