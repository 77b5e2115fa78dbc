// Package symbolic adapts github.com/njchilds90/gosymbol to the kinematics
// equations.
//
// gosymbol supplies the expression tree, exact rational arithmetic and the
// linear and quadratic solvers. This package adds:
//
//   - [Collect]: expansion followed by merging of like terms, which gosymbol
//     leaves apart when a symbol carries a coefficient
//   - [Solve]: isolates the first free symbol, in lexical order, the equation
//     is polynomial of degree 1 or 2 in, returning [Binding] values
//   - [IsNumber], [Float] and [Evalf]: numeric testing and evaluation
//
// # Example
//
//	t1 := symbolic.NewSymbol("t1")
//	eq := symbolic.Eq(symbolic.Num(3e8), symbolic.Mul(symbolic.Num(9.8), t1))
//	bindings, _ := symbolic.Solve(eq)
//	v, _ := symbolic.Evalf(bindings[0].Value) // 3.0612244897959184e+07
//
// When an equation has several free symbols the binding is expressed in the
// others and is not a number.
package symbolic
