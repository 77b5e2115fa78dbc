package symbolic

import (
	"errors"
	"fmt"
	"sort"

	gs "github.com/njchilds90/gosymbol"
)

// Expr is a gosymbol expression: an exact rational, a symbol or a
// sum, product or power of those.
type Expr = gs.Expr

// ErrNotNumeric indicates an expression that still holds a free symbol.
var ErrNotNumeric = errors.New("symbolic: expression is not numeric")

// Num converts a finite float64 exactly into a rational literal.
func Num(v float64) Expr { return gs.NFloat(v) }

func NewSymbol(name string) Expr { return gs.S(name) }

func Add(terms ...Expr) Expr   { return gs.AddOf(terms...) }
func Mul(factors ...Expr) Expr { return gs.MulOf(factors...) }
func Neg(e Expr) Expr          { return gs.MulOf(gs.N(-1), e) }
func Sub(a, b Expr) Expr       { return gs.AddOf(a, Neg(b)) }
func Half(e Expr) Expr         { return gs.MulOf(gs.F(1, 2), e) }
func Square(e Expr) Expr       { return gs.PowOf(e, gs.N(2)) }
func Sqrt(e Expr) Expr         { return gs.SqrtOf(e) }

// Float evaluates e when it holds no symbol.
func Float(e Expr) (float64, bool) {
	n, ok := e.Eval()
	if !ok {
		return 0, false
	}
	return n.Float64(), true
}

// IsNumber reports whether e evaluates to a finite number.
func IsNumber(e Expr) bool {
	_, ok := Float(e)
	return ok
}

// Evalf is Float with an error naming the expression.
func Evalf(e Expr) (float64, error) {
	v, ok := Float(e)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, e)
	}
	return v, nil
}

// FreeSymbols returns the sorted names of the symbols in e.
func FreeSymbols(e Expr) []string {
	set := gs.FreeSymbols(e)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Collect expands e and merges terms that share a monomial, so that
// s1 - s1 cancels and 2*s0 + s0 becomes 3*s0. gosymbol only merges bare
// symbols on its own.
func Collect(e Expr) Expr {
	expanded := gs.Expand(e)
	terms := []Expr{expanded}
	if sum, ok := expanded.(*gs.Add); ok {
		terms = sum.Terms()
	}

	coeffs := make(map[string]*gs.Num, len(terms))
	monomials := make(map[string]Expr, len(terms))
	var order []string
	for _, t := range terms {
		c, m := splitTerm(t)
		key := ""
		if m != nil {
			key = m.String()
		}
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = gs.N(0)
			monomials[key] = m
		}
		coeffs[key] = addNum(coeffs[key], c)
	}

	out := make([]Expr, 0, len(order))
	for _, key := range order {
		c := coeffs[key]
		switch {
		case c.IsZero():
		case monomials[key] == nil:
			out = append(out, c)
		default:
			out = append(out, gs.MulOf(c, monomials[key]))
		}
	}
	return gs.AddOf(out...)
}

// splitTerm separates the rational coefficient of a term from its monomial.
// A bare number has a nil monomial.
func splitTerm(t Expr) (*gs.Num, Expr) {
	switch v := t.(type) {
	case *gs.Num:
		return v, nil
	case *gs.Mul:
		fs := v.Factors()
		if c, ok := fs[0].(*gs.Num); ok {
			return c, gs.MulOf(fs[1:]...)
		}
	}
	return gs.N(1), t
}

func addNum(a, b *gs.Num) *gs.Num {
	n, _ := gs.AddOf(a, b).Eval()
	return n
}
