package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odosim/internal/sim"
)

// Layer is one path drawn onto a shared frame.
type Layer struct {
	Name   string
	Style  lipgloss.Style
	XS, YS []float64
	Marks  bool
}

// TrajectoryLayers extracts the true path, the odometry path and the GPS
// fixes from a log.
func TrajectoryLayers(log *sim.Log) []Layer {
	truth := Layer{Name: "True", Style: TruthStyle}
	odo := Layer{Name: "odometry", Style: OdometryStyle}
	gps := Layer{Name: "GPS", Style: GPSStyle, Marks: true}

	for _, r := range log.Records {
		truth.XS = append(truth.XS, r.True.X)
		truth.YS = append(truth.YS, r.True.Y)
		odo.XS = append(odo.XS, r.Odometry.X)
		odo.YS = append(odo.YS, r.Odometry.Y)
		if r.Observation.Due {
			gps.XS = append(gps.XS, r.Observation.X)
			gps.YS = append(gps.YS, r.Observation.Y)
		}
	}
	return []Layer{truth, odo, gps}
}

// LayerBounds covers every point of every layer.
func LayerBounds(layers []Layer) Bounds {
	b := EmptyBounds()
	for _, l := range layers {
		for i := range l.XS {
			b.Extend(l.XS[i], l.YS[i])
		}
	}
	return b
}

// RenderLayers draws each layer on its own canvas over common bounds and
// merges them cell by cell. Later layers win the cell colour.
func RenderLayers(layers []Layer, w, h int) string {
	bounds := LayerBounds(layers)
	canvases := make([]*Canvas, len(layers))
	for i, l := range layers {
		c := NewCanvas(w, h)
		f := NewFrame(c, bounds)
		if l.Marks {
			for j := range l.XS {
				f.Mark(l.XS[j], l.YS[j])
			}
		} else {
			f.Path(l.XS, l.YS)
		}
		canvases[i] = c
	}

	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			cell := rune(brailleBase)
			owner := -1
			for i, c := range canvases {
				if c.Grid[row][col] != brailleBase {
					cell |= c.Grid[row][col]
					owner = i
				}
			}
			if owner < 0 {
				b.WriteRune(cell)
				continue
			}
			b.WriteString(layers[owner].Style.Render(string(cell)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Legend lists the layer names in their colours.
func Legend(layers []Layer) string {
	parts := make([]string, 0, len(layers))
	for _, l := range layers {
		if len(l.XS) == 0 {
			continue
		}
		parts = append(parts, l.Style.Render("■ "+l.Name))
	}
	return strings.Join(parts, "  ")
}

// TrajectoryView renders a log as a braille plot with a legend underneath.
func TrajectoryView(log *sim.Log, w, h int) string {
	layers := TrajectoryLayers(log)
	return RenderLayers(layers, w, h) + Legend(layers)
}
