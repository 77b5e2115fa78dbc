package kinematics

import (
	"fmt"
	"math"
	"sort"

	sym "github.com/san-kum/kinsolve/internal/symbolic"
	"go.uber.org/zap"
)

// Solution is the value found for one target.
type Solution struct {
	Target VarRef
	Value  float64
	// Roots holds every real root the equation produced, ascending.
	Roots []float64
	// Equation is the 1-based index of the equation used, 0 when the target
	// was already known.
	Equation int
}

// Problem is a solver input: two states and an ordered target list.
type Problem struct {
	Initial State
	Final   State
	Find    []VarRef
}

// Result holds the populated states and one solution per target.
type Result struct {
	Initial   State
	Final     State
	Solutions []Solution
}

// Solver runs the equation scan. The zero value is not usable; see NewSolver.
type Solver struct {
	log *zap.Logger
}

// NewSolver returns a solver logging to log; a nil logger discards output.
func NewSolver(log *zap.Logger) *Solver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Solver{log: log.Named("kinematics")}
}

// Solve completes both states and scans the five equations in order,
// returning the first numeric value found for target. A target already known
// is returned as is. Failure is a *SolveError wrapping ErrNoSolution.
func (s *Solver) Solve(initial, final State, target VarRef) (Solution, error) {
	if !target.Valid() {
		return Solution{}, fmt.Errorf("%w: %s", ErrInvalidVarRef, target)
	}
	if err := Complete(initial, final); err != nil {
		return Solution{}, err
	}

	if v, ok := stateOf(initial, final, target.Group).Known(target.Name); ok {
		return Solution{Target: target, Value: v, Roots: []float64{v}}, nil
	}

	eqs := BigFive(initial, final)
	for _, eq := range eqs {
		bindings, err := sym.Solve(eq.Eq)
		if err != nil {
			s.log.Debug("equation skipped",
				zap.Stringer("target", target),
				zap.Int("equation", eq.Index),
				zap.Error(err))
			continue
		}

		roots := numericRoots(bindings, target)
		if len(roots) == 0 {
			s.log.Debug("no numeric binding",
				zap.Stringer("target", target),
				zap.Int("equation", eq.Index),
				zap.Int("bindings", len(bindings)))
			continue
		}

		v := preferRoot(target, roots, initial, final)
		s.log.Debug("solved",
			zap.Stringer("target", target),
			zap.Int("equation", eq.Index),
			zap.Float64("value", v),
			zap.Float64s("roots", roots))
		return Solution{Target: target, Value: v, Roots: roots, Equation: eq.Index}, nil
	}

	return Solution{}, &SolveError{Target: target, Tried: len(eqs)}
}

// Run solves p.Find strictly in order, writing each value into the state of
// its group before the next target is attempted. Nothing is reordered. On
// failure the partial result is returned with a *ResolveError.
func (s *Solver) Run(p Problem) (*Result, error) {
	if p.Initial == nil || p.Final == nil {
		return nil, fmt.Errorf("%w: nil state", ErrIncompleteState)
	}
	for _, ref := range p.Find {
		if !ref.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidVarRef, ref)
		}
	}

	res := &Result{Initial: p.Initial, Final: p.Final}
	for i, ref := range p.Find {
		sol, err := s.Solve(p.Initial, p.Final, ref)
		if err != nil {
			missing := Unknowns(p.Initial, p.Final)
			s.log.Warn("target unresolved",
				zap.Stringer("target", ref),
				zap.Int("index", i),
				zap.Int("unknowns", len(missing)))
			return res, &ResolveError{Target: ref, Index: i, Missing: missing, Wrapped: err}
		}
		stateOf(p.Initial, p.Final, ref.Group).Set(ref.Name, sol.Value)
		res.Solutions = append(res.Solutions, sol)
	}

	s.log.Debug("resolved", zap.Int("targets", len(p.Find)))
	return res, nil
}

// Resolve is Run returning only the populated states.
func (s *Solver) Resolve(initial, final State, find []VarRef) (State, State, error) {
	res, err := s.Run(Problem{Initial: initial, Final: final, Find: find})
	if res == nil {
		return initial, final, err
	}
	return res.Initial, res.Final, err
}

// Solve uses a solver that discards logs.
func Solve(initial, final State, target VarRef) (Solution, error) {
	return NewSolver(nil).Solve(initial, final, target)
}

// Resolve uses a solver that discards logs.
func Resolve(initial, final State, find []VarRef) (State, State, error) {
	return NewSolver(nil).Resolve(initial, final, find)
}

func stateOf(initial, final State, g Group) State {
	if g == Final {
		return final
	}
	return initial
}

func numericRoots(bindings []sym.Binding, target VarRef) []float64 {
	name := target.String()
	var roots []float64
	for _, b := range bindings {
		if b.Symbol != name || !sym.IsNumber(b.Value) {
			continue
		}
		v, err := sym.Evalf(b.Value)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		roots = append(roots, v)
	}
	sort.Float64s(roots)
	return roots
}

// preferRoot picks among ascending roots. Times take the root giving the
// shortest non-negative interval; other quantities take the largest root.
func preferRoot(target VarRef, roots []float64, initial, final State) float64 {
	if target.Name != Time {
		return roots[len(roots)-1]
	}
	if target.Group == Final {
		if t0, ok := initial.Known(Time); ok {
			for _, r := range roots {
				if r >= t0 {
					return r
				}
			}
		}
		return roots[0]
	}
	if t1, ok := final.Known(Time); ok {
		for i := len(roots) - 1; i >= 0; i-- {
			if roots[i] <= t1 {
				return roots[i]
			}
		}
	}
	return roots[0]
}
