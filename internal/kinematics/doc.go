// Package kinematics solves one-dimensional constant-acceleration problems.
//
// A problem is two [State] values, the initial instant (group 0) and the
// final instant (group 1), each mapping the names s, v, t (and a, on the
// initial state only) to a known number or an unbound placeholder. Unknowns
// are addressed with a [VarRef] such as t1 (final time).
//
//   - [Complete]: fills every missing name with a placeholder
//   - [BigFive]: the five equations of motion for the two states
//   - [Solver.Solve]: scans the equations in order and returns the first
//     numeric value found for the target
//   - [Solver.Resolve]: solves an ordered list of targets, feeding each value
//     back into the states
//   - [Check]: residuals of the fully known equations
//   - [NewProfile]: s(t) and v(t) sampled over the interval
//
// # Example
//
//	initial, _ := kinematics.NewState(kinematics.Initial, map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8})
//	final, _ := kinematics.NewState(kinematics.Final, map[string]float64{"v": 3e8})
//	initial, final, err := kinematics.Resolve(initial, final, kinematics.MustParseVarRefs("t1", "s1"))
//
// # Errors
//
// A target no equation can produce fails with [ErrNoSolution]. Inside
// [Solver.Resolve] the same failure is reported as [ErrUnresolvedDependency],
// since it means an earlier target or a known value was missing.
package kinematics
