package tui

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/kinsolve/internal/config"
	"github.com/san-kum/kinsolve/internal/kinematics"
	"github.com/san-kum/kinsolve/internal/viz"
	"go.uber.org/zap"
)

const (
	customEntry = "custom"
	formRule    = 34

	menuHints   = "↑↓ select   enter open   q quit"
	formHints   = "↑↓ select  enter edit  x clear  f find  c reset  s solve  esc back"
	resultHints = "enter back  m menu  q quit"
)

// fields is the form order: the initial instant, then the final one.
var fields = kinematics.MustParseVarRefs("s0", "t0", "v0", "a0", "s1", "t1", "v1")

type state int

const (
	stateMenu state = iota
	stateForm
	stateResult
)

type model struct {
	state   state
	cursor  int
	entries []string
	name    string

	values  map[kinematics.VarRef]float64
	find    []kinematics.VarRef
	field   int
	editing bool
	input   textinput.Model

	result  *kinematics.Result
	profile *kinematics.Profile
	err     error

	solver  *kinematics.Solver
	samples int

	width  int
	height int
}

// NewInteractiveApp returns the solver form. A nil logger discards output.
func NewInteractiveApp(log *zap.Logger) *model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "value"
	in.CharLimit = 24
	in.Width = 14

	return &model{
		input:   in,
		state:   stateMenu,
		entries: append(config.ListPresets(), customEntry),
		values:  make(map[kinematics.VarRef]float64),
		solver:  kinematics.NewSolver(log),
		samples: kinematics.DefaultSamples,
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateForm:
		return m.formKey(msg)
	case stateResult:
		return m.resultKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.load(m.entries[m.cursor])
		m.state = stateForm
	}
	return m, nil
}

func (m model) formKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, ok := parseValue(m.input.Value()); ok {
				m.values[fields[m.field]] = v
				m.untarget(fields[m.field])
			}
			m.stopEditing()
		case "esc":
			m.stopEditing()
		case "ctrl+c":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.field > 0 {
			m.field--
		}
	case "down", "j":
		if m.field < len(fields)-1 {
			m.field++
		}
	case "enter", " ":
		m.editing = true
		m.input.SetValue("")
		if v, ok := m.values[fields[m.field]]; ok {
			m.input.SetValue(viz.FormatValue(v))
		}
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "x", "delete", "backspace":
		delete(m.values, fields[m.field])
	case "f":
		m.toggleTarget(fields[m.field])
	case "c":
		m.values = make(map[kinematics.VarRef]float64)
		m.find = nil
	case "s":
		m.solve()
		m.state = stateResult
	}
	return m, nil
}

func (m model) resultKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "b", "enter":
		m.state = stateForm
	case "m":
		m.state = stateMenu
	}
	return m, nil
}

// load fills the form from a preset, or clears it for a custom problem.
func (m *model) load(name string) {
	m.name = name
	m.values = make(map[kinematics.VarRef]float64)
	m.find = nil
	m.field = 0
	m.result, m.profile, m.err = nil, nil, nil

	cfg := config.GetPreset(name)
	if cfg == nil {
		m.name = customEntry
		return
	}
	for k, v := range cfg.Initial {
		if ref, err := kinematics.ParseVarRef(k + "0"); err == nil {
			m.values[ref] = v
		}
	}
	for k, v := range cfg.Final {
		if ref, err := kinematics.ParseVarRef(k + "1"); err == nil {
			m.values[ref] = v
		}
	}
	if refs, err := kinematics.ParseVarRefs(cfg.Find...); err == nil {
		m.find = refs
	}
	if cfg.Samples > 0 {
		m.samples = cfg.Samples
	}
}

// parseValue accepts finite numbers only; the solver cannot hold inf or NaN.
func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (m *model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *model) toggleTarget(ref kinematics.VarRef) {
	if i := slices.Index(m.find, ref); i >= 0 {
		m.find = slices.Delete(m.find, i, i+1)
		return
	}
	delete(m.values, ref)
	m.find = append(m.find, ref)
}

func (m *model) untarget(ref kinematics.VarRef) {
	if i := slices.Index(m.find, ref); i >= 0 {
		m.find = slices.Delete(m.find, i, i+1)
	}
}

// problem builds solver states from the form.
func (m model) problem() kinematics.Problem {
	initial, final := kinematics.State{}, kinematics.State{}
	for ref, v := range m.values {
		if ref.Group == kinematics.Final {
			final.Set(ref.Name, v)
		} else {
			initial.Set(ref.Name, v)
		}
	}
	return kinematics.Problem{Initial: initial, Final: final, Find: slices.Clone(m.find)}
}

func (m *model) solve() {
	m.result, m.profile, m.err = nil, nil, nil
	if len(m.find) == 0 {
		m.err = fmt.Errorf("no targets: press f on a field to solve for it")
		return
	}

	res, err := m.solver.Run(m.problem())
	m.result, m.err = res, err
	if err != nil || res == nil {
		return
	}
	if p, perr := kinematics.NewProfile(res.Initial, res.Final, m.samples); perr == nil {
		m.profile = p
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateForm:
		return m.viewForm()
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("    " + viz.Separator(28) + "\n")
	b.WriteString("           " + viz.Title("k i n s o l v e") + "\n")
	b.WriteString("    " + viz.Separator(28) + "\n")
	b.WriteString("\n")

	for i, name := range m.entries {
		desc := "enter your own values"
		if cfg := config.GetPreset(name); cfg != nil {
			desc = "find " + strings.Join(cfg.Find, ", ")
		}
		if i == m.cursor {
			b.WriteString("      " + viz.Heading.Render("▸ ") + viz.Selected.Render(fmt.Sprintf("%-14s", name)) + viz.Subtle.Render(desc) + "\n")
		} else {
			b.WriteString("        " + viz.Known.Render(fmt.Sprintf("%-14s", name)) + viz.Subtle.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("      " + viz.KeyHint.Render(menuHints) + "\n")

	return b.String()
}

func (m model) viewForm() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + viz.Heading.Render(m.name) + "\n")
	b.WriteString("      " + viz.Separator(formRule) + "\n\n")

	for i, ref := range fields {
		if i == 4 {
			b.WriteString("\n")
		}
		label := fmt.Sprintf("%-4s%-14s", ref, ref.Name.Label())

		var val string
		switch v, ok := m.values[ref]; {
		case m.editing && i == m.field:
			val = "  " + m.input.View()
		case ok:
			val = fmt.Sprintf("%14s", viz.FormatValue(v))
		case slices.Contains(m.find, ref):
			val = fmt.Sprintf("%14s", fmt.Sprintf("find #%d", slices.Index(m.find, ref)+1))
		default:
			val = fmt.Sprintf("%14s", "?")
		}

		switch _, known := m.values[ref]; {
		case i == m.field && m.editing:
			b.WriteString("      " + viz.Heading.Render("▸ ") + viz.Selected.Render(label) + val + "\n")
		case i == m.field:
			b.WriteString("      " + viz.Heading.Render("▸ ") + viz.Selected.Render(label+val) + "\n")
		case slices.Contains(m.find, ref):
			b.WriteString("        " + viz.Subtle.Render(label) + viz.WarnText.Render(val) + "\n")
		case known:
			b.WriteString("        " + viz.Subtle.Render(label) + viz.Known.Render(val) + "\n")
		default:
			b.WriteString("        " + viz.Subtle.Render(label) + viz.Unknown.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("      " + viz.KeyHint.Render(formHints) + "\n")

	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder

	status := viz.Solved.Render("● solved")
	if m.err != nil {
		status = viz.WarnText.Render("○ incomplete")
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s\n\n", viz.Heading.Render(m.name), status))

	if m.result != nil {
		b.WriteString(viz.StateTable(m.result.Initial, m.result.Final, m.result.Solutions) + "\n")
		if len(m.result.Solutions) > 0 {
			b.WriteString(viz.SolutionTable(m.result.Solutions) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString(viz.ErrorBox(m.err) + "\n")
	}

	if m.profile != nil {
		width := min(max(m.width-12, 20), 60)
		b.WriteString(fmt.Sprintf("\n   %s %s\n", viz.Subtle.Render("s"), viz.Sparkline(m.profile.Positions, width)))
		b.WriteString(fmt.Sprintf("   %s %s\n", viz.Subtle.Render("v"), viz.Sparkline(m.profile.Velocities, width)))
	}

	b.WriteString("\n   " + viz.KeyHint.Render(resultHints) + "\n")

	return b.String()
}

// RunInteractive starts the solver form in the alternate screen.
func RunInteractive(log *zap.Logger) error {
	p := tea.NewProgram(NewInteractiveApp(log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
