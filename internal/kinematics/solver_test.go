package kinematics_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinsolve/internal/kinematics"
)

func states(initial, final map[string]float64) (kinematics.State, kinematics.State) {
	GinkgoHelper()
	i, err := kinematics.NewState(kinematics.Initial, initial)
	Expect(err).NotTo(HaveOccurred())
	f, err := kinematics.NewState(kinematics.Final, final)
	Expect(err).NotTo(HaveOccurred())
	return i, f
}

func ref(s string) kinematics.VarRef {
	GinkgoHelper()
	r, err := kinematics.ParseVarRef(s)
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Solve", func() {
	// s0=2 t0=1 v0=3 a0=2 t1=4 gives v1=9, s1=20.
	full := func() (map[string]float64, map[string]float64) {
		return map[string]float64{"s": 2, "t": 1, "v": 3, "a": 2},
			map[string]float64{"s": 20, "t": 4, "v": 9}
	}

	DescribeTable("reproduces the closed form with a single unknown",
		func(target string, want float64) {
			initial, final := full()
			r := ref(target)
			if r.Group == kinematics.Initial {
				delete(initial, r.Name.String())
			} else {
				delete(final, r.Name.String())
			}
			i, f := states(initial, final)

			sol, err := kinematics.Solve(i, f, r)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Target).To(Equal(r))
			Expect(sol.Value).To(BeNumerically("~", want, 1e-9))
			Expect(sol.Equation).To(BeNumerically(">=", 1))
		},
		Entry("initial position", "s0", 2.0),
		Entry("final position", "s1", 20.0),
		Entry("initial velocity", "v0", 3.0),
		Entry("final velocity", "v1", 9.0),
		Entry("initial time", "t0", 1.0),
		Entry("final time", "t1", 4.0),
		Entry("acceleration", "a0", 2.0),
	)

	It("returns a known value unchanged", func() {
		initial, final := full()
		for _, target := range []string{"s0", "s1", "v0", "v1", "t0", "t1", "a0"} {
			i, f := states(initial, final)
			sol, err := kinematics.Solve(i, f, ref(target))
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Equation).To(Equal(0), target)

			r := ref(target)
			src := initial
			if r.Group == kinematics.Final {
				src = final
			}
			Expect(sol.Value).To(Equal(src[r.Name.String()]), target)
		}
	})

	It("solves the final time of the light-speed problem with equation 1", func() {
		i, f := states(map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8}, map[string]float64{"v": 3e8})

		sol, err := kinematics.Solve(i, f, ref("t1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Equation).To(Equal(1))
		Expect(sol.Value).To(BeNumerically("~", 3e8/9.8, 1e-6))
		Expect(sol.Value).To(BeNumerically("~", 30612244.898, 1e-3))
	})

	It("solves the final position once the final time is known", func() {
		i, f := states(
			map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8},
			map[string]float64{"v": 3e8, "t": 30612244.8979592},
		)

		sol, err := kinematics.Solve(i, f, ref("s1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Equation).To(Equal(2))
		Expect(sol.Value).To(BeNumerically("~", 4.5918367e15, 1e9))
	})

	It("does not divide by zero without acceleration", func() {
		i, f := states(
			map[string]float64{"s": 1, "t": 0, "v": 5, "a": 0},
			map[string]float64{"v": 5, "t": 10},
		)

		sol, err := kinematics.Solve(i, f, ref("s1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Equation).To(Equal(2))
		Expect(sol.Value).To(BeNumerically("~", 51, 1e-12))
	})

	It("takes the positive root for a velocity", func() {
		i, f := states(
			map[string]float64{"s": 0, "t": 0, "v": 0, "a": 2},
			map[string]float64{"s": 9},
		)

		sol, err := kinematics.Solve(i, f, ref("v1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Equation).To(Equal(3))
		Expect(sol.Roots).To(HaveLen(2))
		Expect(sol.Roots[0]).To(BeNumerically("~", -6, 1e-12))
		Expect(sol.Value).To(BeNumerically("~", 6, 1e-12))
	})

	It("takes the earliest time after the initial instant", func() {
		// 16 = 10t - t^2 at t = 2 and t = 8.
		i, f := states(
			map[string]float64{"s": 0, "t": 0, "v": 10, "a": -2},
			map[string]float64{"s": 16},
		)

		sol, err := kinematics.Solve(i, f, ref("t1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Equation).To(Equal(2))
		Expect(sol.Roots).To(HaveLen(2))
		Expect(sol.Value).To(BeNumerically("~", 2, 1e-12))
		Expect(sol.Roots[1]).To(BeNumerically("~", 8, 1e-12))
	})

	It("reports an explicit failure with too few knowns", func() {
		i, f := states(map[string]float64{"s": 0}, map[string]float64{})

		_, err := kinematics.Solve(i, f, ref("t1"))
		Expect(err).To(MatchError(kinematics.ErrNoSolution))

		var solveErr *kinematics.SolveError
		Expect(errors.As(err, &solveErr)).To(BeTrue())
		Expect(solveErr.Target).To(Equal(ref("t1")))
		Expect(solveErr.Tried).To(Equal(5))
	})

	It("solves an initial position once the final position cancels", func() {
		// Over [0, 2] equation 5 reads s1 - s0 = s1 + s0, so s0 = 0 whatever s1 is.
		i, f := states(map[string]float64{"t": 0}, map[string]float64{"t": 2})

		sol, err := kinematics.Solve(i, f, ref("s0"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Equation).To(Equal(5))
		Expect(sol.Value).To(BeZero())
		Expect(sol.Roots).To(Equal([]float64{0}))
	})

	It("reports nil states instead of filling them", func() {
		f, err := kinematics.NewState(kinematics.Final, map[string]float64{"t": 2})
		Expect(err).NotTo(HaveOccurred())

		_, err = kinematics.Solve(nil, f, ref("s0"))
		Expect(err).To(MatchError(kinematics.ErrIncompleteState))

		_, _, err = kinematics.Resolve(kinematics.State{}, nil, []kinematics.VarRef{ref("s1")})
		Expect(err).To(MatchError(kinematics.ErrIncompleteState))
		Expect(kinematics.Check(nil, nil, 0)).To(BeEmpty())
	})

	It("rejects a final acceleration target", func() {
		i, f := states(map[string]float64{"a": 1}, map[string]float64{})

		_, err := kinematics.Solve(i, f, kinematics.VarRef{Name: kinematics.Acceleration, Group: kinematics.Final})
		Expect(err).To(MatchError(kinematics.ErrInvalidVarRef))
	})

	It("completes both states with named placeholders", func() {
		i, f := states(map[string]float64{"s": 0}, map[string]float64{})
		Expect(kinematics.Complete(i, f)).To(Succeed())

		Expect(i).To(HaveLen(4))
		Expect(f).To(HaveLen(4))
		Expect(i[kinematics.Velocity].String()).To(Equal("v0"))
		Expect(f[kinematics.Time].String()).To(Equal("t1"))
		Expect(i[kinematics.Position].String()).To(Equal("0"))
	})
})

var _ = Describe("Resolve", func() {
	It("chains targets and writes values back", func() {
		i, f := states(map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8}, map[string]float64{"v": 3e8})

		initial, final, err := kinematics.Resolve(i, f, kinematics.MustParseVarRefs("t1", "s1"))
		Expect(err).NotTo(HaveOccurred())

		t1, ok := final.Known(kinematics.Time)
		Expect(ok).To(BeTrue())
		Expect(t1).To(BeNumerically("~", 3e8/9.8, 1e-6))

		s1, ok := final.Known(kinematics.Position)
		Expect(ok).To(BeTrue())
		Expect(s1).To(BeNumerically("~", 4.5918367e15, 1e9))

		a0, _ := initial.Known(kinematics.Acceleration)
		Expect(a0).To(Equal(9.8))
	})

	It("records the equation used per target", func() {
		i, f := states(map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8}, map[string]float64{"v": 3e8})

		res, err := kinematics.NewSolver(nil).Run(kinematics.Problem{
			Initial: i,
			Final:   f,
			Find:    kinematics.MustParseVarRefs("t1", "s1"),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Solutions).To(HaveLen(2))
		Expect(res.Solutions[0].Equation).To(Equal(1))
		Expect(res.Solutions[1].Equation).To(Equal(2))
	})

	It("fails on a dependency listed too late", func() {
		// v1 needs a0, which only equation 2 produces.
		newStates := func() (kinematics.State, kinematics.State) {
			return states(map[string]float64{"s": 0, "t": 0, "v": 0}, map[string]float64{"s": 4, "t": 2})
		}

		i, f := newStates()
		_, final, err := kinematics.Resolve(i, f, kinematics.MustParseVarRefs("v1", "a0"))
		Expect(err).To(MatchError(kinematics.ErrUnresolvedDependency))
		Expect(err).To(MatchError(kinematics.ErrNoSolution))
		_, ok := final.Known(kinematics.Velocity)
		Expect(ok).To(BeFalse())

		var resolveErr *kinematics.ResolveError
		Expect(errors.As(err, &resolveErr)).To(BeTrue())
		Expect(resolveErr.Target).To(Equal(ref("v1")))
		Expect(resolveErr.Index).To(Equal(0))
		Expect(resolveErr.Missing).To(ContainElements(ref("a0"), ref("v1")))

		i, f = newStates()
		initial, final, err := kinematics.Resolve(i, f, kinematics.MustParseVarRefs("a0", "v1"))
		Expect(err).NotTo(HaveOccurred())
		a0, _ := initial.Known(kinematics.Acceleration)
		v1, _ := final.Known(kinematics.Velocity)
		Expect(a0).To(BeNumerically("~", 2, 1e-12))
		Expect(v1).To(BeNumerically("~", 4, 1e-12))
	})

	It("keeps values found before a failure", func() {
		// t1 = 3 from equation 1; s1 then needs s0.
		i, f := states(map[string]float64{"t": 0, "v": 0, "a": 2}, map[string]float64{"v": 6})

		_, final, err := kinematics.Resolve(i, f, kinematics.MustParseVarRefs("t1", "s1"))
		Expect(err).To(MatchError(kinematics.ErrUnresolvedDependency))

		var resolveErr *kinematics.ResolveError
		Expect(errors.As(err, &resolveErr)).To(BeTrue())
		Expect(resolveErr.Index).To(Equal(1))
		Expect(resolveErr.Target).To(Equal(ref("s1")))

		t1, ok := final.Known(kinematics.Time)
		Expect(ok).To(BeTrue())
		Expect(t1).To(BeNumerically("~", 3, 1e-12))
	})

	It("rejects invalid targets before solving", func() {
		i, f := states(map[string]float64{"s": 0}, map[string]float64{})
		_, _, err := kinematics.Resolve(i, f, []kinematics.VarRef{{Name: 'x', Group: kinematics.Initial}})
		Expect(err).To(MatchError(kinematics.ErrInvalidVarRef))
		Expect(err).NotTo(MatchError(kinematics.ErrUnresolvedDependency))
	})
})

var _ = Describe("Check", func() {
	It("accepts a consistent over-determined problem", func() {
		i, f := states(map[string]float64{"s": 2, "t": 1, "v": 3, "a": 2}, map[string]float64{"s": 20, "t": 4, "v": 9})

		residuals := kinematics.Check(i, f, 0)
		Expect(residuals).To(HaveLen(4))
		Expect(kinematics.Consistent(residuals)).To(BeTrue())
	})

	It("flags conflicting inputs", func() {
		i, f := states(map[string]float64{"s": 2, "t": 1, "v": 3, "a": 2}, map[string]float64{"s": 20, "t": 4, "v": 10})

		residuals := kinematics.Check(i, f, 0)
		Expect(kinematics.Consistent(residuals)).To(BeFalse())
		Expect(residuals[0].Equation).To(Equal(1))
		Expect(residuals[0].Consistent).To(BeFalse())
		Expect(residuals[0].Value).To(BeNumerically("~", 1, 1e-12))
	})

	It("skips equations with unknowns and leaves the states untouched", func() {
		i, f := states(map[string]float64{"s": 0, "t": 0, "v": 0, "a": 9.8}, map[string]float64{"v": 3e8})

		Expect(kinematics.Check(i, f, 0)).To(BeEmpty())
		Expect(i).To(HaveLen(4))
		Expect(f).To(HaveLen(1))
	})
})

var _ = Describe("Profile", func() {
	It("samples position and velocity over the interval", func() {
		i, f := states(map[string]float64{"s": 2, "t": 1, "v": 3, "a": 2}, map[string]float64{"t": 4})

		p, err := kinematics.NewProfile(i, f, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(4))
		Expect(p.Times).To(Equal([]float64{1, 2, 3, 4}))
		Expect(p.Positions[0]).To(Equal(2.0))
		Expect(p.Positions[3]).To(BeNumerically("~", 20, 1e-12))
		Expect(p.Velocities[3]).To(BeNumerically("~", 9, 1e-12))
	})

	It("needs the final time", func() {
		i, f := states(map[string]float64{"s": 2, "t": 1, "v": 3, "a": 2}, map[string]float64{})

		_, err := kinematics.NewProfile(i, f, 10)
		Expect(err).To(MatchError(kinematics.ErrIncompleteState))
		Expect(err.Error()).To(ContainSubstring("t1"))
	})
})
