package kinematics

import (
	sym "github.com/san-kum/kinsolve/internal/symbolic"
)

// Equation is one of the five equations of motion, numbered from 1.
type Equation struct {
	Index int
	Form  string
	Eq    *sym.Equation
}

// Forms are the printable equations of motion, in solving order.
var Forms = [5]string{
	"v1 = v0 + a0(t1 - t0)",
	"s1 - s0 = 1/2 a0 (t1 - t0)^2 + v0 (t1 - t0)",
	"v1^2 = v0^2 + 2 a0 (s1 - s0)",
	"s1 - s0 = -1/2 a0 (t1 - t0)^2 + v1 (t1 - t0)",
	"s1 - s0 = 1/2 (s1 + s0)(t1 - t0)",
}

// BigFive instantiates the equations of motion over two completed states.
// The order is fixed; the solver takes the first equation that yields a number.
func BigFive(initial, final State) []Equation {
	s0, v0, t0, a0 := initial[Position], initial[Velocity], initial[Time], initial[Acceleration]
	s1, v1, t1 := final[Position], final[Velocity], final[Time]

	dt := sym.Sub(t1, t0)
	ds := sym.Sub(s1, s0)

	eqs := []*sym.Equation{
		sym.Eq(v1, sym.Add(v0, sym.Mul(a0, dt))),
		sym.Eq(ds, sym.Add(sym.Half(sym.Mul(a0, sym.Square(dt))), sym.Mul(v0, dt))),
		sym.Eq(sym.Square(v1), sym.Add(sym.Square(v0), sym.Mul(sym.Num(2), a0, ds))),
		sym.Eq(ds, sym.Add(sym.Neg(sym.Half(sym.Mul(a0, sym.Square(dt)))), sym.Mul(v1, dt))),
		sym.Eq(ds, sym.Half(sym.Mul(sym.Add(s1, s0), dt))),
	}

	out := make([]Equation, len(eqs))
	for i, eq := range eqs {
		out[i] = Equation{Index: i + 1, Form: Forms[i], Eq: eq}
	}
	return out
}
