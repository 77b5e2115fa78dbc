package symbolic

import (
	"errors"
	"fmt"
	"sort"

	gs "github.com/njchilds90/gosymbol"
)

var (
	// ErrNoFreeSymbol indicates an equation with nothing left to solve for.
	ErrNoFreeSymbol = errors.New("symbolic: equation has no free symbol")

	// ErrNotPolynomial indicates a symbol appears under a non-integer power.
	ErrNotPolynomial = errors.New("symbolic: not polynomial in symbol")

	// ErrDegree indicates a polynomial of degree higher than two.
	ErrDegree = errors.New("symbolic: degree above 2 unsupported")

	// ErrUnsolvable indicates no free symbol of the equation could be isolated.
	ErrUnsolvable = errors.New("symbolic: no free symbol can be isolated")
)

// Equation is lhs = rhs.
type Equation = gs.Equation

func Eq(lhs, rhs Expr) *Equation { return gs.Eq(lhs, rhs) }

// Symbols returns the sorted names of the symbols that survive moving every
// term of eq to one side.
func Symbols(eq *Equation) []string { return FreeSymbols(Collect(eq.Residual())) }

// Binding is one solution of an equation for a symbol.
type Binding struct {
	Symbol string
	Value  Expr
}

func (b Binding) String() string { return fmt.Sprintf("%s = %s", b.Symbol, b.Value) }

// Solve isolates the first free symbol (in lexical order) the equation is
// polynomial of degree 1 or 2 in. Linear equations yield one binding; quadratic
// ones yield one binding per root, ascending when numeric. Complex roots of a
// numeric quadratic are dropped, which can leave zero bindings.
func Solve(eq *Equation) ([]Binding, error) {
	residual := Collect(eq.Residual())
	free := FreeSymbols(residual)
	if len(free) == 0 {
		return nil, ErrNoFreeSymbol
	}

	lastErr := ErrUnsolvable
	for _, name := range free {
		bindings, err := solveFor(residual, name)
		if errors.Is(err, ErrNoFreeSymbol) {
			continue
		}
		if err != nil {
			lastErr = err
			continue
		}
		return bindings, nil
	}
	return nil, lastErr
}

// SolveFor isolates the named symbol regardless of lexical order.
func SolveFor(eq *Equation, name string) ([]Binding, error) {
	return solveFor(Collect(eq.Residual()), name)
}

func solveFor(residual Expr, name string) ([]Binding, error) {
	coeffs, err := Coefficients(residual, name)
	if err != nil {
		return nil, err
	}

	switch len(coeffs) - 1 {
	case 0:
		return nil, ErrNoFreeSymbol
	case 1:
		res := gs.SolveLinear(coeffs[1], coeffs[0])
		if res.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrUnsolvable, name, res.Error)
		}
		return []Binding{{Symbol: name, Value: res.Solutions[0]}}, nil
	case 2:
		res := gs.SolveQuadraticExact(coeffs[2], coeffs[1], coeffs[0])
		if res.Error != "" {
			// Complex roots.
			return nil, nil
		}
		return quadraticBindings(name, res.Solutions), nil
	}
	return nil, fmt.Errorf("%w: %s has degree %d", ErrDegree, name, len(coeffs)-1)
}

// quadraticBindings orders numeric roots ascending and merges a double root.
func quadraticBindings(name string, roots []Expr) []Binding {
	vals := make([]float64, 0, len(roots))
	for _, r := range roots {
		v, ok := Float(r)
		if !ok {
			break
		}
		vals = append(vals, v)
	}

	if len(vals) == len(roots) {
		idx := make([]int, len(roots))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool { return vals[idx[i]] < vals[idx[j]] })

		out := make([]Binding, 0, len(roots))
		for n, i := range idx {
			if n > 0 && vals[i] == vals[idx[n-1]] {
				continue
			}
			out = append(out, Binding{Symbol: name, Value: roots[i]})
		}
		return out
	}

	out := make([]Binding, len(roots))
	for i, r := range roots {
		out[i] = Binding{Symbol: name, Value: r}
	}
	return out
}

// Coefficients expands e as a polynomial in the named symbol and returns its
// coefficients, constant term first. Trailing zero coefficients are trimmed.
func Coefficients(e Expr, name string) ([]Expr, error) {
	collected := Collect(e)
	if err := checkPolynomial(collected, name); err != nil {
		return nil, err
	}

	deg := gs.Degree(collected, name)
	raw := gs.PolyCoeffs(collected, name)
	out := make([]Expr, deg+1)
	for d := range out {
		c, ok := raw[d]
		if !ok {
			out[d] = gs.N(0)
			continue
		}
		out[d] = Collect(c)
	}
	return trim(out), nil
}

// checkPolynomial rejects terms holding name other than as a plain factor or
// a positive integer power of it.
func checkPolynomial(e Expr, name string) error {
	terms := []Expr{e}
	if sum, ok := e.(*gs.Add); ok {
		terms = sum.Terms()
	}
	for _, t := range terms {
		factors := []Expr{t}
		if m, ok := t.(*gs.Mul); ok {
			factors = m.Factors()
		}
		for _, f := range factors {
			if isPower(f, name) {
				continue
			}
			if _, ok := gs.FreeSymbols(f)[name]; ok {
				return fmt.Errorf("%w: %s in %s", ErrNotPolynomial, name, f)
			}
		}
	}
	return nil
}

func isPower(f Expr, name string) bool {
	switch v := f.(type) {
	case *gs.Sym:
		return v.Name() == name
	case *gs.Pow:
		base, ok := v.Base().(*gs.Sym)
		if !ok || base.Name() != name {
			return false
		}
		n, ok := v.ExpExpr().(*gs.Num)
		return ok && n.IsInteger() && n.IsPositive()
	}
	return false
}

func trim(c []Expr) []Expr {
	n := len(c)
	for n > 1 {
		if z, ok := c[n-1].(*gs.Num); ok && z.IsZero() {
			n--
			continue
		}
		break
	}
	return c[:n]
}
