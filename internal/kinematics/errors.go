package kinematics

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for solving operations.
var (
	// ErrNoSolution indicates none of the five equations yields a number for the target.
	ErrNoSolution = errors.New("kinematics: no solution found")

	// ErrUnresolvedDependency indicates a resolver target depends on a value
	// that is neither known nor produced by an earlier target.
	ErrUnresolvedDependency = errors.New("kinematics: unresolved dependency")

	// ErrInvalidVarRef indicates a malformed variable reference or state key.
	ErrInvalidVarRef = errors.New("kinematics: invalid variable reference")

	// ErrIncompleteState indicates a value required for evaluation is unknown.
	ErrIncompleteState = errors.New("kinematics: incomplete state")

	// ErrInvalidValue indicates a NaN or infinite state value.
	ErrInvalidValue = errors.New("kinematics: invalid value")
)

// SolveError wraps ErrNoSolution with the target and the number of equations tried.
type SolveError struct {
	Target VarRef
	Tried  int
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: %s (tried %d equations)", ErrNoSolution, e.Target, e.Tried)
}

func (e *SolveError) Unwrap() error {
	return ErrNoSolution
}

// ResolveError reports the resolver target that could not be solved.
type ResolveError struct {
	Target  VarRef
	Index   int
	Missing []VarRef
	Wrapped error
}

func (e *ResolveError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, ref := range e.Missing {
		missing[i] = ref.String()
	}
	return fmt.Sprintf("%s: target %s (#%d) with unknowns [%s]: %v",
		ErrUnresolvedDependency, e.Target, e.Index, strings.Join(missing, " "), e.Wrapped)
}

func (e *ResolveError) Unwrap() []error {
	return []error{ErrUnresolvedDependency, e.Wrapped}
}
