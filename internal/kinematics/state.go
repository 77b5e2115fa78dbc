package kinematics

import (
	"fmt"
	"math"

	"github.com/san-kum/kinsolve/internal/symbolic"
)

// Name identifies a kinematic quantity.
type Name byte

const (
	Position     Name = 's'
	Time         Name = 't'
	Velocity     Name = 'v'
	Acceleration Name = 'a'
)

// Names lists every quantity in completion order.
var Names = []Name{Position, Time, Velocity, Acceleration}

func (n Name) String() string { return string(n) }

func (n Name) Valid() bool {
	switch n {
	case Position, Time, Velocity, Acceleration:
		return true
	}
	return false
}

// Label is the human-readable quantity name.
func (n Name) Label() string {
	switch n {
	case Position:
		return "position"
	case Time:
		return "time"
	case Velocity:
		return "velocity"
	case Acceleration:
		return "acceleration"
	}
	return "unknown"
}

// Group selects the instant a variable belongs to.
type Group int

const (
	Initial Group = 0
	Final   Group = 1
)

func (g Group) String() string {
	if g == Final {
		return "final"
	}
	return "initial"
}

// VarRef addresses one variable, written <name><group> (t1 is the final time).
type VarRef struct {
	Name  Name
	Group Group
}

func (r VarRef) String() string { return fmt.Sprintf("%c%d", r.Name, r.Group) }

// Valid rejects unknown names, unknown groups and a final acceleration.
func (r VarRef) Valid() bool {
	if !r.Name.Valid() {
		return false
	}
	if r.Group != Initial && r.Group != Final {
		return false
	}
	return !(r.Name == Acceleration && r.Group == Final)
}

// ParseVarRef parses s0, v1, t1, a0 and so on.
func ParseVarRef(s string) (VarRef, error) {
	if len(s) != 2 {
		return VarRef{}, fmt.Errorf("%w: %q", ErrInvalidVarRef, s)
	}
	ref := VarRef{Name: Name(s[0])}
	switch s[1] {
	case '0':
		ref.Group = Initial
	case '1':
		ref.Group = Final
	default:
		return VarRef{}, fmt.Errorf("%w: %q has group %q", ErrInvalidVarRef, s, s[1])
	}
	if !ref.Valid() {
		return VarRef{}, fmt.Errorf("%w: %q", ErrInvalidVarRef, s)
	}
	return ref, nil
}

// ParseVarRefs parses an ordered target list.
func ParseVarRefs(refs ...string) ([]VarRef, error) {
	out := make([]VarRef, 0, len(refs))
	for _, s := range refs {
		ref, err := ParseVarRef(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

// MustParseVarRefs is ParseVarRefs for literals; it panics on error.
func MustParseVarRefs(refs ...string) []VarRef {
	out, err := ParseVarRefs(refs...)
	if err != nil {
		panic(err)
	}
	return out
}

// State maps each quantity to a number or a placeholder symbol.
type State map[Name]symbolic.Expr

// NewState builds a state from known values keyed by s, v, t and a.
// The final state does not accept a: acceleration is constant. Values must be
// finite.
func NewState(g Group, values map[string]float64) (State, error) {
	st := make(State, len(Names))
	for key, v := range values {
		if len(key) != 1 {
			return nil, fmt.Errorf("%w: state key %q", ErrInvalidVarRef, key)
		}
		ref := VarRef{Name: Name(key[0]), Group: g}
		if !ref.Valid() {
			return nil, fmt.Errorf("%w: %s state key %q", ErrInvalidVarRef, g, key)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s = %v", ErrInvalidValue, ref, v)
		}
		st[ref.Name] = symbolic.Num(v)
	}
	return st, nil
}

// Known returns the value of n when it is bound to a number.
func (s State) Known(n Name) (float64, bool) {
	e, ok := s[n]
	if !ok {
		return 0, false
	}
	return symbolic.Float(e)
}

// Set binds n to v, which must be finite.
func (s State) Set(n Name, v float64) { s[n] = symbolic.Num(v) }

// Values returns the known values keyed by name.
func (s State) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for n := range s {
		if v, ok := s.Known(n); ok {
			out[n.String()] = v
		}
	}
	return out
}

func (s State) Clone() State {
	c := make(State, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Complete binds a fresh placeholder named <name><group> to every quantity
// missing from either state. A nil state cannot be filled in place and is
// reported as ErrIncompleteState.
func Complete(initial, final State) error {
	if initial == nil || final == nil {
		return fmt.Errorf("%w: nil state", ErrIncompleteState)
	}
	for g, st := range []State{initial, final} {
		for _, n := range Names {
			if _, ok := st[n]; !ok {
				st[n] = symbolic.NewSymbol(VarRef{Name: n, Group: Group(g)}.String())
			}
		}
	}
	return nil
}

// Unknowns lists the variables of either state not bound to a number, in
// completion order. The final acceleration is never listed.
func Unknowns(initial, final State) []VarRef {
	var out []VarRef
	for g, st := range []State{initial, final} {
		for _, n := range Names {
			ref := VarRef{Name: n, Group: Group(g)}
			if !ref.Valid() {
				continue
			}
			if _, ok := st.Known(n); !ok {
				out = append(out, ref)
			}
		}
	}
	return out
}

