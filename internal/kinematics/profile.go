package kinematics

import "fmt"

// DefaultSamples is the profile resolution used when none is given.
const DefaultSamples = 50

// Profile is the closed-form motion sampled over [t0, t1].
type Profile struct {
	Times      []float64
	Positions  []float64
	Velocities []float64
}

// NewProfile samples s(t) = s0 + v0 (t - t0) + a0 (t - t0)^2 / 2 and
// v(t) = v0 + a0 (t - t0) at evenly spaced instants including both ends.
// s0, v0, a0, t0 and t1 must be known.
func NewProfile(initial, final State, samples int) (*Profile, error) {
	if samples < 2 {
		samples = 2
	}

	need := []struct {
		st State
		n  Name
		g  Group
	}{
		{initial, Position, Initial},
		{initial, Velocity, Initial},
		{initial, Acceleration, Initial},
		{initial, Time, Initial},
		{final, Time, Final},
	}
	vals := make([]float64, len(need))
	for i, n := range need {
		v, ok := n.st.Known(n.n)
		if !ok {
			return nil, fmt.Errorf("%w: %s unknown", ErrIncompleteState, VarRef{Name: n.n, Group: n.g})
		}
		vals[i] = v
	}
	s0, v0, a0, t0, t1 := vals[0], vals[1], vals[2], vals[3], vals[4]

	p := &Profile{
		Times:      make([]float64, samples),
		Positions:  make([]float64, samples),
		Velocities: make([]float64, samples),
	}
	step := (t1 - t0) / float64(samples-1)
	for i := 0; i < samples; i++ {
		t := t0 + float64(i)*step
		if i == samples-1 {
			t = t1
		}
		dt := t - t0
		p.Times[i] = t
		p.Positions[i] = s0 + v0*dt + 0.5*a0*dt*dt
		p.Velocities[i] = v0 + a0*dt
	}
	return p, nil
}

func (p *Profile) Len() int { return len(p.Times) }
