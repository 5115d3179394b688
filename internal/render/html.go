package render

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/plotter"

	"github.com/san-kum/odosim/internal/sim"
)

func lineData(pts plotter.XYs) []opts.LineData {
	data := make([]opts.LineData, len(pts))
	for i, p := range pts {
		data[i] = opts.LineData{Value: []interface{}{p.X, p.Y}}
	}
	return data
}

// TrajectoryChart builds an interactive chart of the true path, the
// odometry path and the GPS fixes.
func TrajectoryChart(log *sim.Log, title string) (*charts.Line, error) {
	if log.Len() == 0 {
		return nil, fmt.Errorf("render: empty sample log")
	}

	truth, odometry, gps := TrajectorySeries(log)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("variant=%s steps=%d seed=%d", log.Variant, log.Len(), log.Seed)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "y", NameLocation: "middle", NameGap: 30}),
	)

	line.AddSeries(truth.Name, lineData(truth.Points),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	line.AddSeries(odometry.Name, lineData(odometry.Points),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	if len(gps.Points) > 0 {
		data := make([]opts.ScatterData, len(gps.Points))
		for i, p := range gps.Points {
			data[i] = opts.ScatterData{Value: []interface{}{p.X, p.Y}}
		}
		scatter := charts.NewScatter()
		scatter.AddSeries(gps.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
		line.Overlap(scatter)
	}

	return line, nil
}

// TrajectoryHTML writes a self-contained chart page to w.
func TrajectoryHTML(w io.Writer, log *sim.Log, title string) error {
	chart, err := TrajectoryChart(log, title)
	if err != nil {
		return err
	}
	return chart.Render(w)
}

func TrajectoryHTMLFile(path string, log *sim.Log, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := TrajectoryHTML(f, log, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
