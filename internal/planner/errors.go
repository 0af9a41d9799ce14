package planner

import (
	"errors"
	"fmt"
	"strings"
)

// Common planner errors.
var (
	// ErrMissingDependency indicates an action depends on an unknown action ID.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrCyclicDependency indicates the dependency graph contains a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrInvalidRequirement indicates an action's agent requirement is
	// malformed (min < 1 or min > max).
	ErrInvalidRequirement = errors.New("invalid agent requirement")

	// ErrStarvation indicates unassigned actions remain but none is eligible.
	ErrStarvation = errors.New("scheduling starvation")

	// ErrCapacity indicates an action cannot be staffed within the stage bound.
	ErrCapacity = errors.New("capacity unsatisfiable")
)

// MissingDependencyError wraps ErrMissingDependency with the offending edge.
type MissingDependencyError struct {
	ActionID  string
	DependsOn string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("action %s depends on non-existent action %s", e.ActionID, e.DependsOn)
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// CycleError wraps ErrCyclicDependency with the action where the cycle was
// detected.
type CycleError struct {
	ActionID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected starting at action %s", e.ActionID)
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// InvalidRequirementError wraps ErrInvalidRequirement with the offending
// action and its declared bounds.
type InvalidRequirementError struct {
	ActionID string
	Min      int
	Max      int
}

func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("action %s has invalid agent requirement (min %d, max %d)", e.ActionID, e.Min, e.Max)
}

func (e *InvalidRequirementError) Unwrap() error {
	return ErrInvalidRequirement
}

// StarvationError wraps ErrStarvation with the IDs of the stuck actions.
type StarvationError struct {
	Remaining []string
}

func (e *StarvationError) Error() string {
	return fmt.Sprintf("unable to schedule actions: %s", strings.Join(e.Remaining, ", "))
}

func (e *StarvationError) Unwrap() error {
	return ErrStarvation
}

// CapacityError wraps ErrCapacity with the action that could not be staffed
// and the stage at which the search gave up.
type CapacityError struct {
	ActionID string
	Stage    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("action %s cannot be staffed by stage %d: not enough qualified agents", e.ActionID, e.Stage)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacity
}

// IsValidation reports whether the error is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingDependency) ||
		errors.Is(err, ErrCyclicDependency) ||
		errors.Is(err, ErrInvalidRequirement)
}
