// Package scenario loads planning scenarios (agents plus actions) from YAML
// files and validates their shape before the planner runs.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/joss/stagehand/internal/planner"
)

// Scenario is one planning problem: a named roster and an action set.
type Scenario struct {
	Name    string           `yaml:"name"`
	Agents  []planner.Agent  `yaml:"agents"`
	Actions []planner.Action `yaml:"actions"`
}

// Parse decodes and shape-checks a YAML scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FindFiles expands a doublestar glob pattern into a sorted list of scenario
// file paths.
func FindFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// check validates scenario shape: non-empty unique IDs and sane agent
// requirements. Graph-level validation (missing deps, cycles) stays with the
// planner.
func (s *Scenario) check() error {
	if len(s.Agents) == 0 {
		return fmt.Errorf("scenario %q has no agents", s.Name)
	}
	if len(s.Actions) == 0 {
		return fmt.Errorf("scenario %q has no actions", s.Name)
	}

	agentIDs := make(map[string]bool, len(s.Agents))
	for _, a := range s.Agents {
		if a.ID == "" {
			return fmt.Errorf("scenario %q: agent with empty id", s.Name)
		}
		if agentIDs[a.ID] {
			return fmt.Errorf("scenario %q: duplicate agent id %s", s.Name, a.ID)
		}
		agentIDs[a.ID] = true
	}

	actionIDs := make(map[string]bool, len(s.Actions))
	for _, a := range s.Actions {
		if a.ID == "" {
			return fmt.Errorf("scenario %q: action with empty id", s.Name)
		}
		if actionIDs[a.ID] {
			return fmt.Errorf("scenario %q: duplicate action id %s", s.Name, a.ID)
		}
		actionIDs[a.ID] = true
		if a.Type == "" {
			return fmt.Errorf("scenario %q: action %s has no type", s.Name, a.ID)
		}
		if !a.Requires.Valid() {
			return fmt.Errorf("scenario %q: action %s has invalid agent requirement (min %d, max %d)",
				s.Name, a.ID, a.Requires.Min, a.Requires.Max)
		}
	}
	return nil
}
