package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/cmplx"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/analysis"
	"github.com/san-kum/dlqr/internal/config"
	"github.com/san-kum/dlqr/internal/control"
	"github.com/san-kum/dlqr/internal/linsys"
	"github.com/san-kum/dlqr/internal/metrics"
	"github.com/san-kum/dlqr/internal/plant"
	"github.com/san-kum/dlqr/internal/riccati"
	"github.com/san-kum/dlqr/internal/sim"
	"github.com/san-kum/dlqr/internal/storage"
	"github.com/san-kum/dlqr/internal/sweep"
	"github.com/san-kum/dlqr/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	tolerance  float64
	maxIter    int
	verbose    bool
	dt         float64
	steps      int
	qScale     float64
	rScale     float64
	// Sweep grid
	rMin    float64
	rMax    float64
	rPoints int
	// Export axes
	xAxis   int
	yAxis   int
	outFile string
	// Live view
	frameRate int
	// Simulate rollout
	controllerName string
	pidKp          float64
	pidKi          float64
	pidKd          float64
	pidTarget      float64
	runs           int
	spread         float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dlqr",
		Short: "discrete-time LQR gain design lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dlqr", "data directory")

	gainCmd := &cobra.Command{
		Use:   "gain [plant]",
		Short: "solve for the optimal feedback gain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGain,
	}
	addProblemFlags(gainCmd)
	gainCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-iteration convergence")

	simulateCmd := &cobra.Command{
		Use:   "simulate [plant]",
		Short: "design a gain and roll out the closed loop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulate,
	}
	addProblemFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&controllerName, "controller", "lqr", "controller to roll out (lqr, pid, none)")
	simulateCmd.Flags().Float64Var(&pidKp, "kp", 10.0, "proportional gain (pid controller)")
	simulateCmd.Flags().Float64Var(&pidKi, "ki", 0.0, "integral gain (pid controller)")
	simulateCmd.Flags().Float64Var(&pidKd, "kd", 1.0, "derivative gain (pid controller)")
	simulateCmd.Flags().Float64Var(&pidTarget, "target", 0.0, "setpoint for the first state (pid controller)")
	simulateCmd.Flags().IntVar(&runs, "runs", 1, "roll out an ensemble of perturbed starts")
	simulateCmd.Flags().Float64Var(&spread, "spread", 0.2, "relative spread of the ensemble starts")

	sweepCmd := &cobra.Command{
		Use:   "sweep [plant]",
		Short: "sweep the control penalty and compare designs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addProblemFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&rMin, "r-min", 0.1, "smallest R multiplier")
	sweepCmd.Flags().Float64Var(&rMax, "r-max", 100, "largest R multiplier")
	sweepCmd.Flags().IntVar(&rPoints, "points", 7, "grid points")

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "watch the closed loop in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addProblemFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list presets for a plant",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  runList,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a phase-plane view of a saved run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportSVG,
	}
	exportSVGCmd.Flags().IntVar(&xAxis, "x-axis", 0, "column for the x axis")
	exportSVGCmd.Flags().IntVar(&yAxis, "y-axis", 1, "column for the y axis")
	exportSVGCmd.Flags().StringVar(&outFile, "out", "trajectory.svg", "output file")

	rootCmd.AddCommand(gainCmd, simulateCmd, sweepCmd, liveCmd, presetsCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "problem config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset for the plant")
	cmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "convergence threshold")
	cmd.Flags().IntVar(&maxIter, "max-iter", riccati.DefaultMaxIter, "iteration cap (negative for unbounded)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "sample time (0 uses the plant default)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "simulation steps")
	cmd.Flags().Float64Var(&qScale, "q-scale", 1, "state cost multiplier")
	cmd.Flags().Float64Var(&rScale, "r-scale", 1, "control cost multiplier")
}

// resolveProblem builds the design problem from, in increasing precedence,
// the plant defaults, a preset or config file, and command-line flags.
func resolveProblem(cmd *cobra.Command, args []string) (*config.Problem, *config.Config, error) {
	cfg := config.DefaultConfig()

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case len(args) > 0 && preset != "":
		p := config.GetPreset(args[0], preset)
		if p == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(args[0]))
		}
		// Copy so flag overrides do not touch the shared preset table.
		c := *p
		cfg = &c
	case len(args) > 0:
		cfg.Plant = args[0]
	}

	if cmd.Flags().Changed("tolerance") {
		cfg.Solver.Tolerance = tolerance
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.Solver.MaxIter = maxIter
	}
	if cmd.Flags().Changed("dt") {
		cfg.System.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Sim.Steps = steps
	}
	if cmd.Flags().Changed("q-scale") {
		cfg.Weights.QScale = qScale
	}
	if cmd.Flags().Changed("r-scale") {
		cfg.Weights.RScale = rScale
	}

	prob, err := cfg.Resolve()
	if err != nil {
		return nil, nil, err
	}
	return prob, cfg, nil
}

func solverOptions(cfg *config.Config) riccati.Options {
	opts := riccati.Options{
		Tolerance: cfg.Solver.Tolerance,
		MaxIter:   cfg.Solver.MaxIter,
	}
	if verbose {
		opts.Observer = func(iteration int, delta float64) {
			fmt.Printf("  iteration %d: delta %.3e\n", iteration, delta)
		}
	}
	return opts
}

func design(prob *config.Problem, cfg *config.Config) (*riccati.Solution, error) {
	w := prob.Weights
	return riccati.Solve(prob.System.A, prob.System.B, w.Q, w.R, w.N, solverOptions(cfg))
}

func runGain(cmd *cobra.Command, args []string) error {
	prob, cfg, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("gain design · %s (dt=%.4fs)", prob.Name, prob.Dt)))

	start := time.Now()
	sol, err := design(prob, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("converged in %d iterations (delta %.3e, %v)\n\n", sol.Iterations, sol.Delta, elapsed)
	fmt.Printf("gain K =\n%v\n\n", mat.Formatted(sol.K, mat.Prefix(""), mat.Squeeze()))

	acl, err := prob.System.ClosedLoop(sol.K)
	if err != nil {
		return err
	}
	poles, err := analysis.Eigenvalues(acl)
	if err != nil {
		return err
	}
	radius, err := analysis.SpectralRadius(acl)
	if err != nil {
		return err
	}

	fmt.Print("closed-loop pole magnitudes:")
	for _, p := range poles {
		fmt.Printf(" %.4f", cmplx.Abs(p))
	}
	fmt.Println()

	stable := "yes"
	if radius >= 1 {
		stable = "no"
	}
	fmt.Printf("stable: %s (spectral radius %.4f)\n", stable, radius)

	if tc, err := analysis.TimeConstant(acl, prob.Dt); err == nil {
		fmt.Printf("dominant time constant: %.3fs\n", tc)
	}
	if cost, err := analysis.CostToGo(sol.P, prob.X0); err == nil {
		fmt.Printf("cost-to-go from x0: %.6f\n", cost)
	}

	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	prob, cfg, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	makeCtl, sol, err := buildController(controllerName, prob, cfg)
	if err != nil {
		return err
	}
	var gain [][]float64
	iterations := 0
	if sol != nil {
		gain = linsys.Rows(sol.K)
		iterations = sol.Iterations
	}

	if runs > 1 {
		return runEnsemble(prob, cfg, makeCtl)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(prob.System, makeCtl())
	s.AddMetric(metrics.NewQuadraticCost(prob.Weights))
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewSettlingTime(0.01))

	fmt.Printf("simulating %s closed loop with %s (%d steps, dt=%.4fs)...\n", prob.Name, controllerName, cfg.Sim.Steps, prob.Dt)
	start := time.Now()
	result, err := s.Run(context.Background(), prob.X0, sim.Config{Dt: prob.Dt, Steps: cfg.Sim.Steps})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(prob.Name, prob.Dt, cfg.Solver.Tolerance, iterations, gain, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	if sol != nil {
		fmt.Printf("gain solved in %d iterations\n", sol.Iterations)
	}
	fmt.Printf("final state: %v\n", result.Final())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

// buildController maps the --controller flag to a controller factory.
// Only the lqr choice solves for a gain; the baselines roll out without one.
func buildController(name string, prob *config.Problem, cfg *config.Config) (func() linsys.Controller, *riccati.Solution, error) {
	switch name {
	case "lqr":
		sol, err := design(prob, cfg)
		if err != nil {
			return nil, nil, err
		}
		return func() linsys.Controller { return control.NewStateFeedback(sol.K, nil) }, sol, nil
	case "pid":
		return func() linsys.Controller { return control.NewPID(pidKp, pidKi, pidKd, pidTarget) }, nil, nil
	case "none":
		_, m := prob.System.Dims()
		return func() linsys.Controller { return control.NewNone(m) }, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown controller: %s (available: lqr, pid, none)", name)
	}
}

// runEnsemble rolls out the controller from a spread of scaled starts and
// reports how far each run ends from the origin.
func runEnsemble(prob *config.Problem, cfg *config.Config, makeCtl func() linsys.Controller) error {
	starts := make([]linsys.State, runs)
	for i := range starts {
		scale := 1.0
		if runs > 1 {
			scale = 1 - spread + 2*spread*float64(i)/float64(runs-1)
		}
		s := prob.X0.Clone()
		for j := range s {
			s[j] *= scale
		}
		starts[i] = s
	}

	fmt.Printf("simulating %s ensemble with %s (%d runs, %d steps, dt=%.4fs)...\n\n",
		prob.Name, controllerName, runs, cfg.Sim.Steps, prob.Dt)

	e := sim.NewEnsemble(prob.System, makeCtl)
	results, err := e.Run(context.Background(), starts, sim.Config{Dt: prob.Dt, Steps: cfg.Sim.Steps})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\t|X0|\tFINAL |X|\tFINAL MAX")
	for i, r := range results {
		final := r.Final()
		fmt.Fprintf(w, "%d\t%.4f\t%.3e\t%.3e\n", i, starts[i].Norm(), final.Norm(), final.MaxAbs())
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	prob, cfg, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	candidates := sweep.Grid([]float64{1}, sweep.Scales(rMin, rMax, rPoints))
	sweepProb := &sweep.Problem{
		System:  prob.System,
		Weights: prob.Weights,
		X0:      prob.X0,
		Dt:      prob.Dt,
		Steps:   cfg.Sim.Steps,
		Solver:  riccati.Options{Tolerance: cfg.Solver.Tolerance, MaxIter: cfg.Solver.MaxIter},
	}

	fmt.Printf("sweeping %s over %d control penalties...\n\n", prob.Name, len(candidates))
	rows, err := sweep.Run(context.Background(), sweepProb, candidates)
	if err != nil {
		return err
	}
	best := sweep.Best(rows, "quadratic_cost")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "R-SCALE\tMAX|K|\tITER\tRADIUS\tCOST\tEFFORT\t")
	for i, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(w, "%.3f\terror: %v\t\t\t\t\t\n", row.RScale, row.Err)
			continue
		}
		marker := ""
		if i == best {
			marker = "  <- best"
		}
		fmt.Fprintf(w, "%.3f\t%.4f\t%d\t%.4f\t%.4f\t%.4f\t%s\n",
			row.RScale,
			row.GainMax,
			row.Iterations,
			row.SpectralRadius,
			row.Metrics["quadratic_cost"],
			row.Metrics["control_effort"],
			marker,
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	prob, cfg, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	sol, err := design(prob, cfg)
	if err != nil {
		return err
	}

	ctrl := control.NewStateFeedback(sol.K, nil)
	m := viz.NewModel(prob.Name, prob.States, prob.System, ctrl, sol.K, prob.X0, prob.Dt, frameRate)
	return viz.Run(m)
}

func runPresets(cmd *cobra.Command, args []string) error {
	plants := plant.Names()
	if len(args) > 0 {
		plants = args[:1]
	}
	for _, name := range plants {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for plant: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLANT\tTIME\tSTEPS\tDT\tITER")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\n",
			run.ID,
			run.Plant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Iterations,
		)
	}
	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("run %s · %s", meta.ID, meta.Plant)))
	fmt.Printf("samples: %d\n\n", len(states))

	labels := columnLabels(meta.Plant, len(states[0]))

	numCols := len(states[0])
	if numCols > 6 {
		numCols = 6
	}
	for col := 0; col < numCols; col++ {
		data := make([]float64, len(states))
		for i := range states {
			if col < len(states[i]) {
				data[i] = states[i][col]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(labels[col]),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// columnLabels names the CSV columns after the time: the plant's state
// labels first, then its input labels, falling back to indices.
func columnLabels(plantName string, cols int) []string {
	labels := make([]string, cols)
	var names []string
	if p, err := plant.Get(plantName); err == nil {
		names = append(append([]string{}, p.States...), p.Inputs...)
	}
	for i := range labels {
		if i < len(names) {
			labels[i] = names[i]
		} else {
			labels[i] = fmt.Sprintf("x%d", i)
		}
	}
	return labels
}

func runExport(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	return storage.WriteStoredJSON(os.Stdout, meta, times, states)
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	svg, err := storage.TrajectorySVG(states, xAxis, yAxis, 800, 600, "#00ff88")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}
