package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/kinsolve/internal/kinematics"
)

// FormatValue prints v with ten significant digits.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Title renders a gradient banner.
func Title(text string) string {
	return GradientText(text, lipgloss.Color("#00ffff"), lipgloss.Color("#ff00ff"))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Heading.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// StateTable lists every quantity at both instants. Solved marks values that
// were produced by the solver rather than given.
func StateTable(initial, final kinematics.State, solved []kinematics.Solution) string {
	derived := make(map[kinematics.VarRef]bool, len(solved))
	for _, s := range solved {
		if s.Equation > 0 {
			derived[s.Target] = true
		}
	}

	cell := func(st kinematics.State, ref kinematics.VarRef) string {
		if !ref.Valid() {
			return Subtle.Render("n/a")
		}
		v, ok := st.Known(ref.Name)
		switch {
		case !ok:
			return Unknown.Render("?")
		case derived[ref]:
			return Solved.Render(FormatValue(v))
		default:
			return Known.Render(FormatValue(v))
		}
	}

	t := newTable("quantity", "initial (0)", "final (1)")
	for _, n := range kinematics.Names {
		t.Row(
			fmt.Sprintf("%s %s", n, n.Label()),
			cell(initial, kinematics.VarRef{Name: n, Group: kinematics.Initial}),
			cell(final, kinematics.VarRef{Name: n, Group: kinematics.Final}),
		)
	}
	return t.String()
}

// SolutionTable has one row per target in solve order.
func SolutionTable(solutions []kinematics.Solution) string {
	t := newTable("target", "value", "equation", "roots")
	for _, s := range solutions {
		eq := Subtle.Render("given")
		if s.Equation > 0 {
			eq = fmt.Sprintf("(%d) %s", s.Equation, kinematics.Forms[s.Equation-1])
		}
		roots := make([]string, len(s.Roots))
		for i, r := range s.Roots {
			roots[i] = FormatValue(r)
		}
		t.Row(s.Target.String(), Solved.Render(FormatValue(s.Value)), eq, strings.Join(roots, ", "))
	}
	return t.String()
}

// ResidualTable reports each fully known equation and whether it holds.
func ResidualTable(residuals []kinematics.Residual) string {
	if len(residuals) == 0 {
		return Subtle.Render("no fully determined equations to check")
	}
	t := newTable("equation", "residual", "status")
	for _, r := range residuals {
		status := Solved.Render("ok")
		if !r.Consistent {
			status = ErrorText.Render("inconsistent")
		}
		t.Row(fmt.Sprintf("(%d) %s", r.Equation, r.Form), FormatValue(r.Value), status)
	}
	return t.String()
}

// ErrorBox renders err in a bordered panel.
func ErrorBox(err error) string {
	return Panel.BorderForeground(lipgloss.Color("#ff4444")).
		Render(ErrorText.Render("error") + "\n" + err.Error())
}
