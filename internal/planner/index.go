package planner

// depIndex is the reverse-dependency view of the action set: for each action,
// the actions that depend on it, and how many of those there are. Built once
// per planning run, read-only afterwards.
type depIndex struct {
	children       map[string][]*Action
	dependentCount map[string]int
}

func buildIndex(actions []Action) *depIndex {
	idx := &depIndex{
		children:       make(map[string][]*Action),
		dependentCount: make(map[string]int, len(actions)),
	}
	for i := range actions {
		for _, dep := range actions[i].DependsOn {
			idx.children[dep] = append(idx.children[dep], &actions[i])
		}
	}
	for i := range actions {
		idx.dependentCount[actions[i].ID] = len(idx.children[actions[i].ID])
	}
	return idx
}
