package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	particles  int
	steps      int
	seed       int64
	integrator string
	placement  string
	spread     float64
	graphInit  string
	repulsion  float64
	attraction float64
	wall       float64
	dampening  float64
	restitute  float64
	cubeSize   float64
	stepSize   float64
	exportJSON string
	runs       int
	parallel   int
	metricName string
	rows       int
	cols       int
	samples    int
	svgFile    string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	points     int
	gridArgs   []string
	maximize   bool
	spectrum   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "particlesim",
		Short:         "3d particle simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its report",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&exportJSON, "export", "", "also write the full result as JSON to this file ('-' for stdout)")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final frame as SVG to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "run the same seed under several integrators",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many seeds in parallel and summarize the metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (0 = unlimited)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric trace of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "also plot each metric's power spectrum")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "write the selected metric as SVG to this file (needs --metric)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run once per value of one physics parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "repulsion", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&points, "points", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search physics parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridArgs, "grid", nil, "name=lo:hi:n or name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "overlaps", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "max", false, "maximize instead of minimize")

	percolateCmd := &cobra.Command{
		Use:   "percolate",
		Short: "sweep the bond threshold on a lattice and report cluster growth",
		Args:  cobra.NoArgs,
		RunE:  sweepPercolation,
	}
	percolateCmd.Flags().IntVar(&rows, "rows", 10, "lattice rows")
	percolateCmd.Flags().IntVar(&cols, "cols", 10, "lattice columns")
	percolateCmd.Flags().IntVar(&samples, "samples", 50, "threshold samples in [0, 1]")
	percolateCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, ensembleCmd, presetsCmd, listCmd, plotCmd, percolateCmd,
		scenarioCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.IntVarP(&particles, "particles", "n", config.DefaultParticles, "number of particles")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.StringVar(&integrator, "integrator", "verlet", "integrator (euler, verlet, rk4)")
	f.StringVar(&placement, "placement", "sphere", "initial placement (sphere, cube)")
	f.Float64Var(&spread, "spread", config.DefaultSpread, "placement scale")
	f.StringVar(&graphInit, "graph", "hub", "initial graph (none, hub, random)")
	f.Float64Var(&repulsion, "repulsion", 0, "pair repulsion strength (negative attracts)")
	f.Float64Var(&attraction, "attraction", 0, "spring strength")
	f.Float64Var(&wall, "wall", 0, "wall repulsion strength")
	f.Float64Var(&dampening, "dampening", 0, "velocity retained per step")
	f.Float64Var(&restitute, "restitution", 0, "collision restitution")
	f.Float64Var(&cubeSize, "cube", 0, "containment cube side")
	f.Float64Var(&stepSize, "dt", 0, "step size override")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order. The returned name labels the run.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "config"
	}

	f := cmd.Flags()
	if f.Changed("particles") {
		cfg.Particles = particles
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("placement") {
		cfg.Placement = placement
	}
	if f.Changed("spread") {
		cfg.Spread = spread
	}
	if f.Changed("graph") {
		cfg.Graph.Init = graphInit
	}
	if f.Changed("repulsion") {
		cfg.Physics.Repulsion = repulsion
	}
	if f.Changed("attraction") {
		cfg.Physics.Attraction = attraction
	}
	if f.Changed("wall") {
		cfg.Physics.Wall = wall
	}
	if f.Changed("dampening") {
		cfg.Physics.Dampening = dampening
	}
	if f.Changed("restitution") {
		cfg.Physics.Restitution = restitute
	}
	if f.Changed("cube") {
		cfg.Physics.CubeSize = cubeSize
	}
	if f.Changed("dt") {
		cfg.Physics.StepSize = stepSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	slog.Debug("resolved config", "name", name, "particles", cfg.Particles, "integrator", cfg.Integrator, "seed", cfg.Seed)
	return cfg, name, nil
}
