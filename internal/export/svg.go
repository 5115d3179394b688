// Package export writes trajectory plots as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/odosim/internal/sim"
	"github.com/san-kum/odosim/internal/viz"
)

var layerColors = map[string]string{
	"True":     "#4488ff",
	"odometry": "#ff4444",
	"GPS":      "#00cc66",
}

const svgPadding = 0.05

// CanvasToSVG converts a braille canvas to SVG dots
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Dots()
	width, height := float64(w)*scale, float64(h)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, scale*0.4)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// LayersSVG draws paths as polylines and marked layers as crosses, all in
// one frame with y pointing up.
func LayersSVG(layers []viz.Layer, width, height int) string {
	b := viz.LayerBounds(layers)
	if b.Empty() {
		return ""
	}
	spanX := b.MaxX - b.MinX
	spanY := b.MaxY - b.MinY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	b.MinX -= spanX * svgPadding
	b.MinY -= spanY * svgPadding
	spanX *= 1 + 2*svgPadding
	spanY *= 1 + 2*svgPadding

	project := func(x, y float64) (float64, float64) {
		return (x - b.MinX) / spanX * float64(width),
			float64(height) - (y-b.MinY)/spanY*float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, l := range layers {
		if len(l.XS) == 0 {
			continue
		}
		color, ok := layerColors[l.Name]
		if !ok {
			color = "#ffffff"
		}

		if l.Marks {
			fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"1.5\">\n", color)
			for i := range l.XS {
				x, y := project(l.XS[i], l.YS[i])
				fmt.Fprintf(&sb, "<path d=\"M%.1f,%.1f l6,6 m-6,0 l6,-6\"/>\n", x-3, y-3)
			}
			sb.WriteString("</g>\n")
			continue
		}

		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", color)
		for i := range l.XS {
			x, y := project(l.XS[i], l.YS[i])
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG writes the true path, odometry path and GPS fixes of a log.
func TrajectorySVG(w io.Writer, log *sim.Log, width, height int) error {
	svg := LayersSVG(viz.TrajectoryLayers(log), width, height)
	if svg == "" {
		return fmt.Errorf("export: empty sample log")
	}
	_, err := io.WriteString(w, svg)
	return err
}

func TrajectorySVGFile(path string, log *sim.Log, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := TrajectorySVG(f, log, width, height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
