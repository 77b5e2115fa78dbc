// Package viz renders solver input and output for the terminal.
//
//   - [StateTable]: the two instants side by side, knowns and unknowns styled apart
//   - [SolutionTable]: one row per solved target with the equation used
//   - [ResidualTable]: consistency of an over-determined problem
//   - [PlotProfile]: asciigraph plots of s(t) and v(t)
//
// Styles are lipgloss values shared with the interactive solver.
package viz
