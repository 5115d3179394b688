package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/odosim/internal/automation"
	"github.com/san-kum/odosim/internal/config"
	"github.com/san-kum/odosim/internal/curve"
	"github.com/san-kum/odosim/internal/experiment"
	"github.com/san-kum/odosim/internal/export"
	"github.com/san-kum/odosim/internal/render"
	"github.com/san-kum/odosim/internal/sim"
	"github.com/san-kum/odosim/internal/storage"
	"github.com/san-kum/odosim/internal/viz"
)

var (
	dataDir string

	runOpts   simFlags
	batchOpts simFlags
	liveOpts  simFlags
	sweepOpts simFlags

	outFile  string
	pngFile  string
	htmlFile string
	svgFile  string
	noSave   bool
	numRuns  int
	series   []string
	width    int
	height   int

	curveConfig string
	curveSeed   int64

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "odosim",
		Short:        "odometry and GPS trajectory data generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one trajectory and write its sample log",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd, &runOpts)
	runCmd.Flags().StringVar(&outFile, "out", "", "CSV output path (default from config)")
	runCmd.Flags().StringVar(&pngFile, "png", "", "render trajectory chart to this file")
	runCmd.Flags().StringVar(&htmlFile, "html", "", "render interactive chart to this file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the data directory")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run consecutive seeds concurrently and save each run",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	addSimFlags(batchCmd, &batchOpts)
	batchCmd.Flags().IntVar(&numRuns, "runs", 10, "number of seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"drift"}, fmt.Sprintf("series to chart against time %v", viz.SeriesNames))
	plotCmd.Flags().IntVar(&width, "width", 70, "plot width in characters")
	plotCmd.Flags().IntVar(&height, "height", 20, "plot height in characters")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the trajectory as SVG")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a stored run to PNG and/or HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&pngFile, "png", "", "PNG (or SVG/PDF by extension) output path")
	renderCmd.Flags().StringVar(&htmlFile, "html", "", "HTML output path")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output path (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outFile, "out", "", "output path (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd, &liveOpts)

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "generate noisy samples of y = exp(a*x + b)",
		Args:  cobra.NoArgs,
		RunE:  generateCurve,
	}
	curveCmd.Flags().StringVar(&curveConfig, "config", "", "config file path (yaml)")
	curveCmd.Flags().Int64Var(&curveSeed, "seed", 0, "random seed")
	curveCmd.Flags().StringVar(&outFile, "out", "", "CSV output path (default from config)")
	curveCmd.Flags().StringVar(&pngFile, "png", "", "render samples and true curve to this file")

	compareCmd := &cobra.Command{
		Use:   "compare-curve [csv]",
		Short: "compare fitted and true curves against sampled data",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareCurve,
	}
	compareCmd.Flags().StringVar(&curveConfig, "config", "", "config file path (yaml)")
	compareCmd.Flags().StringVar(&pngFile, "png", "", "render comparison chart to this file")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of simulation steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and summarise a metric over seeds",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd, &sweepOpts)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "input_noise.v", fmt.Sprintf("parameter to sweep %v", automation.SweepParams))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&numRuns, "runs", 10, "seeds per value")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "final_drift", "metric to summarise")

	rootCmd.AddCommand(runCmd, batchCmd, listCmd, plotCmd, renderCmd, exportJSONCmd, exportCSVCmd,
		presetsCmd, liveCmd, curveCmd, compareCmd, scenarioCmd, sweepCmd)
	return rootCmd
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &runOpts)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}

	start := time.Now()
	log, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cfg.Output
	if cmd.Flags().Changed("out") {
		out = outFile
	}
	if out != "" {
		if err := storage.WriteCSVFile(out, log); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	}

	runID := ""
	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		if runID, err = st.Save(cfg, log); err != nil {
			return err
		}
	}

	if err := renderArtifacts(log, cfg.Observation); err != nil {
		return err
	}

	facts := [][2]string{
		{"observation", cfg.Observation},
		{"steps", fmt.Sprintf("%d", log.Len())},
		{"fixes", fmt.Sprintf("%d", len(log.Observations()))},
		{"seed", fmt.Sprintf("%d", cfg.Seed)},
		{"elapsed", elapsed.String()},
	}
	if runID != "" {
		facts = append(facts, [2]string{"run id", runID})
	}
	if out != "" {
		facts = append(facts, [2]string{"output", out})
	}
	fmt.Println(viz.Summary("run complete", facts, log.Metrics))
	return nil
}

func renderArtifacts(log *sim.Log, title string) error {
	if pngFile != "" {
		if err := render.TrajectoryPNG(log, title, pngFile); err != nil {
			return fmt.Errorf("render %s: %w", pngFile, err)
		}
	}
	if htmlFile != "" {
		if err := render.TrajectoryHTMLFile(htmlFile, log, title); err != nil {
			return fmt.Errorf("render %s: %w", htmlFile, err)
		}
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &batchOpts)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	logs, err := experiment.New(cfg, experiment.NewRegistry()).RunEnsemble(cmd.Context(), numRuns)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tSTEPS\tFIXES\tFINAL_DRIFT\tMEAN_DRIFT")
	for _, log := range logs {
		runCfg := *cfg
		runCfg.Seed = log.Seed
		runID, err := st.Save(&runCfg, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.6f\t%.6f\n",
			runID, log.Seed, log.Len(), len(log.Observations()),
			log.Metrics["final_drift"], log.Metrics["mean_drift"])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tSIM_TIME\tDT\tSEED\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.4f\t%d\t%d\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.SimTime,
			run.Dt,
			run.Seed,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, log, err := storage.New(dataDir).LoadLog(args[0])
	if err != nil {
		return err
	}
	if log.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", log.Len())

	fmt.Println(viz.Panel.Render(viz.TrajectoryView(log, width, height)))
	fmt.Println()

	for _, name := range series {
		data, err := viz.SeriesOf(log, name)
		if err != nil {
			return err
		}
		fmt.Println(viz.SeriesPlot(data, width, 10, name+" vs time"))
		fmt.Println()
	}

	if svgFile != "" {
		if err := export.TrajectorySVGFile(svgFile, log, 800, 600); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgFile)
	}
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	if pngFile == "" && htmlFile == "" {
		return fmt.Errorf("nothing to render: set --png and/or --html")
	}
	meta, log, err := storage.New(dataDir).LoadLog(args[0])
	if err != nil {
		return err
	}
	return renderArtifacts(log, meta.ID)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, log, err := storage.New(dataDir).LoadLog(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.ExportJSONFile(outFile, args[0], log)
	}
	return storage.ExportJSON(os.Stdout, args[0], log)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, log, err := storage.New(dataDir).LoadLog(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.WriteCSVFile(outFile, log)
	}
	return storage.WriteCSV(os.Stdout, log)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s observation=%s sim_time=%g zdt=%g u=(%g, %g) q=(%g, %g)\n",
			name, cfg.Observation, cfg.SimTime, cfg.Obs.Period,
			cfg.Input.V, cfg.Input.Omega, cfg.InputNoise.V, cfg.InputNoise.Omega)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &liveOpts)
	if err != nil {
		return err
	}
	model, err := experiment.NewRegistry().GetObservation(cfg.Observation, cfg.Obs)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLiveModel(cfg.Sim(), model, cfg.Observation+" observations"), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func loadCurveConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if curveConfig != "" {
		if _, err := config.LoadOnto(curveConfig, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.ValidateCurve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func generateCurve(cmd *cobra.Command, args []string) error {
	cfg, err := loadCurveConfig()
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = curveSeed
	}

	cc := cfg.Curve
	xs := curve.Grid(cc.Start, cc.Stop, cc.Step)
	truth := curve.Coeffs{A: cc.A, B: cc.B}
	pts := curve.Generate(xs, truth, cc.Sigma, sim.NewGaussian(seed))

	out := cc.Output
	if cmd.Flags().Changed("out") {
		out = outFile
	}
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := storage.WriteCurveCSV(f, pts); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", out, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if pngFile != "" {
		cmp := curve.Compare(pts, xs, truth, truth)
		if err := render.CurvePNG(pts, &cmp, pngFile); err != nil {
			return fmt.Errorf("render %s: %w", pngFile, err)
		}
	}

	fmt.Println(viz.Summary("curve generated", [][2]string{
		{"points", fmt.Sprintf("%d", len(pts))},
		{"a, b", fmt.Sprintf("%g, %g", cc.A, cc.B)},
		{"sigma", fmt.Sprintf("%g", cc.Sigma)},
		{"seed", fmt.Sprintf("%d", seed)},
		{"output", out},
	}, map[string]float64{"true_rms": curve.RMSE(pts, truth)}))
	return nil
}

func compareCurve(cmd *cobra.Command, args []string) error {
	cfg, err := loadCurveConfig()
	if err != nil {
		return err
	}
	cc := cfg.Curve

	path := cc.Output
	if len(args) > 0 {
		path = args[0]
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := storage.ReadCurveCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	xs := curve.Grid(cc.Start, cc.Stop, cc.Step)
	cmp := curve.Compare(data, xs, curve.Coeffs{A: cc.A, B: cc.B}, curve.Coeffs{A: cc.FittedA, B: cc.FittedB})

	if pngFile != "" {
		if err := render.CurvePNG(data, &cmp, pngFile); err != nil {
			return fmt.Errorf("render %s: %w", pngFile, err)
		}
	}

	fmt.Println(viz.Summary("fitted vs true", [][2]string{
		{"data", fmt.Sprintf("%s (%d points)", path, len(data))},
		{"true a, b", fmt.Sprintf("%g, %g", cc.A, cc.B)},
		{"fitted a, b", fmt.Sprintf("%g, %g", cc.FittedA, cc.FittedB)},
	}, map[string]float64{
		"true_rms":   cmp.TrueRMSE,
		"fitted_rms": cmp.FittedRMSE,
		"max_gap":    cmp.MaxGap,
	}))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUNS\tSTEPS\tFINAL_DRIFT\tSAVED")
	for _, r := range results {
		drift := 0.0
		for _, log := range r.Logs {
			drift += log.Metrics["final_drift"]
		}
		drift /= float64(len(r.Logs))
		fmt.Fprintf(w, "%s\t%d\t%d\t%.6f\t%s\n",
			r.Name, len(r.Logs), r.Logs[0].Len(), drift, strings.Join(r.RunIDs, ","))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, &sweepOpts)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Runs:      numRuns,
		Metric:    sweepMetric,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN\tSTD\tMIN\tMAX\n", strings.ToUpper(sweepParam))
	means := make([]float64, len(results))
	for i, r := range results {
		means[i] = r.Mean
		fmt.Fprintf(w, "%.4f\t%.6f\t%.6f\t%.6f\t%.6f\n", r.ParamValue, r.Mean, r.StdDev, r.Min, r.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(means) > 1 {
		fmt.Println()
		fmt.Println(viz.SeriesPlot(means, 60, 8, sweepMetric+" vs "+sweepParam))
	}
	return nil
}
