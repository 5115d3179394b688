package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odosim/internal/sim"
)

// Series names accepted by SeriesOf.
var SeriesNames = []string{"true_x", "true_y", "true_yaw", "odo_x", "odo_y", "odo_yaw", "drift", "heading_error"}

// SeriesOf pulls one per-step quantity out of a log.
func SeriesOf(log *sim.Log, name string) ([]float64, error) {
	var pick func(r sim.Record) float64
	switch name {
	case "true_x":
		pick = func(r sim.Record) float64 { return r.True.X }
	case "true_y":
		pick = func(r sim.Record) float64 { return r.True.Y }
	case "true_yaw":
		pick = func(r sim.Record) float64 { return r.True.Yaw }
	case "odo_x":
		pick = func(r sim.Record) float64 { return r.Odometry.X }
	case "odo_y":
		pick = func(r sim.Record) float64 { return r.Odometry.Y }
	case "odo_yaw":
		pick = func(r sim.Record) float64 { return r.Odometry.Yaw }
	case "drift":
		pick = func(r sim.Record) float64 { return r.True.Distance(r.Odometry) }
	case "heading_error":
		pick = func(r sim.Record) float64 { return r.Odometry.Yaw - r.True.Yaw }
	default:
		return nil, fmt.Errorf("unknown series %q (have %v)", name, SeriesNames)
	}

	out := make([]float64, len(log.Records))
	for i, r := range log.Records {
		out[i] = pick(r)
	}
	return out, nil
}

// SeriesPlot draws a time series as an ASCII chart. Long series are
// decimated to at most width points.
func SeriesPlot(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return ""
	}
	if stride := len(data) / width; stride > 1 {
		sampled := make([]float64, 0, width+1)
		for i := 0; i < len(data); i += stride {
			sampled = append(sampled, data[i])
		}
		data = sampled
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
