package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kinsolve/internal/kinematics"
)

// Plot dimensions used when the caller passes zero.
const (
	DefaultPlotWidth  = 60
	DefaultPlotHeight = 12
)

// PlotProfile draws position and velocity against time, one chart each.
func PlotProfile(p *kinematics.Profile, width, height int) string {
	if p == nil || p.Len() == 0 {
		return Subtle.Render("no profile")
	}
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}

	span := fmt.Sprintf("t = %s .. %s", FormatValue(p.Times[0]), FormatValue(p.Times[p.Len()-1]))
	var b strings.Builder
	b.WriteString(plot(p.Positions, width, height, "s(t)  "+span))
	b.WriteString("\n\n")
	b.WriteString(plot(p.Velocities, width, height, "v(t)  "+span))
	return b.String()
}

func plot(series []float64, width, height int, caption string) string {
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}
