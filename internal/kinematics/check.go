package kinematics

import (
	"math"

	sym "github.com/san-kum/kinsolve/internal/symbolic"
)

// DefaultTolerance is the relative residual above which an equation is
// reported inconsistent.
const DefaultTolerance = 1e-6

const checkedEquations = 4

// Residual is lhs - rhs of a fully known equation.
type Residual struct {
	Equation   int
	Form       string
	Value      float64
	Consistent bool
}

// Check evaluates equations 1 to 4 whose variables are all known and reports
// their residuals. Equation 5 relates the positions themselves and does not
// hold along general motion, so it is not checked. A residual is compared
// against tol scaled by the larger of one and the magnitudes of both sides.
// The states are not modified.
func Check(initial, final State, tol float64) []Residual {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	initial, final = initial.Clone(), final.Clone()
	if err := Complete(initial, final); err != nil {
		return nil
	}

	var out []Residual
	for _, eq := range BigFive(initial, final)[:checkedEquations] {
		lhs, okL := sym.Float(eq.Eq.LHS)
		rhs, okR := sym.Float(eq.Eq.RHS)
		if !okL || !okR {
			continue
		}
		r, _ := sym.Evalf(eq.Eq.Residual())
		scale := math.Max(1, math.Max(math.Abs(lhs), math.Abs(rhs)))
		out = append(out, Residual{
			Equation:   eq.Index,
			Form:       eq.Form,
			Value:      r,
			Consistent: math.Abs(r) <= tol*scale,
		})
	}
	return out
}

// Consistent reports whether every checked equation is within tolerance.
func Consistent(residuals []Residual) bool {
	for _, r := range residuals {
		if !r.Consistent {
			return false
		}
	}
	return true
}
