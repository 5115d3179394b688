// Package render draws sample logs and curve comparisons as image or
// HTML artifacts.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/odosim/internal/curve"
	"github.com/san-kum/odosim/internal/sim"
)

var (
	trueColor     = color.RGBA{B: 255, A: 255}
	odometryColor = color.RGBA{R: 255, A: 255}
	gpsColor      = color.RGBA{G: 160, A: 255}
	fittedColor   = color.RGBA{R: 255, G: 140, A: 255}
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// Series is one labelled XY path extracted from a log.
type Series struct {
	Name   string
	Points plotter.XYs
}

// TrajectorySeries splits a log into the true path, the odometry path and
// the due observations.
func TrajectorySeries(log *sim.Log) (truth, odometry, gps Series) {
	truth = Series{Name: "True", Points: make(plotter.XYs, 0, log.Len())}
	odometry = Series{Name: "odometry", Points: make(plotter.XYs, 0, log.Len())}
	gps = Series{Name: "GPS"}

	for _, r := range log.Records {
		truth.Points = append(truth.Points, plotter.XY{X: r.True.X, Y: r.True.Y})
		odometry.Points = append(odometry.Points, plotter.XY{X: r.Odometry.X, Y: r.Odometry.Y})
		if r.Observation.Due {
			gps.Points = append(gps.Points, plotter.XY{X: r.Observation.X, Y: r.Observation.Y})
		}
	}
	return truth, odometry, gps
}

// TrajectoryPlot builds the true/odometry/GPS overlay for a log.
func TrajectoryPlot(log *sim.Log, title string) (*plot.Plot, error) {
	if log.Len() == 0 {
		return nil, fmt.Errorf("render: empty sample log")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	truth, odometry, gps := TrajectorySeries(log)

	t, err := plotter.NewLine(truth.Points)
	if err != nil {
		return nil, err
	}
	t.LineStyle.Width = vg.Points(1.5)
	t.LineStyle.Color = trueColor
	p.Add(t)
	p.Legend.Add(truth.Name, t)

	o, err := plotter.NewLine(odometry.Points)
	if err != nil {
		return nil, err
	}
	o.LineStyle.Width = vg.Points(1.5)
	o.LineStyle.Color = odometryColor
	p.Add(o)
	p.Legend.Add(odometry.Name, o)

	if len(gps.Points) > 0 {
		s, err := plotter.NewScatter(gps.Points)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CrossGlyph{}
		s.GlyphStyle.Color = gpsColor
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add(gps.Name, s)
	}

	p.Legend.Top = true
	return p, nil
}

// TrajectoryPNG renders the trajectory overlay to path. The format follows
// the file extension.
func TrajectoryPNG(log *sim.Log, title, path string) error {
	p, err := TrajectoryPlot(log, title)
	if err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

// CurvePlot overlays the noisy samples with the true and fitted curves.
func CurvePlot(data []curve.Point, cmp *curve.Comparison) (*plot.Plot, error) {
	if len(cmp.X) == 0 {
		return nil, fmt.Errorf("render: empty comparison")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("true rms %.4f, fitted rms %.4f", cmp.TrueRMSE, cmp.FittedRMSE)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if len(data) > 0 {
		pts := make(plotter.XYs, len(data))
		for i, d := range data {
			pts[i] = plotter.XY{X: d.X, Y: d.Y}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add("data", s)
	}

	for _, c := range []struct {
		name string
		ys   []float64
		col  color.Color
	}{
		{"true", cmp.True, trueColor},
		{"fitted", cmp.Fitted, fittedColor},
	} {
		pts := make(plotter.XYs, len(cmp.X))
		for i := range cmp.X {
			pts[i] = plotter.XY{X: cmp.X[i], Y: c.ys[i]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(2)
		l.LineStyle.Color = c.col
		p.Add(l)
		p.Legend.Add(c.name, l)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

func CurvePNG(data []curve.Point, cmp *curve.Comparison, path string) error {
	p, err := CurvePlot(data, cmp)
	if err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}
