package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/export"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/percolation"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/san-kum/particlesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, nil)
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("running %s: %d particles, %s, %d steps\n", name, cfg.Particles, cfg.Integrator, cfg.Steps)
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Println(warnStyle.Render("stopped early: " + runErr.Error()))
	}

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}
	slog.Info("run saved", "id", runID, "dir", dataDir)

	if exportJSON != "" {
		if err := writeExport(exportJSON, name, cfg.Integrator, result); err != nil {
			return err
		}
	}
	if svgFile != "" {
		s := exp.Simulation()
		cam := viz.NewCamera(cfg.Physics.CubeSize * 1.2)
		svg := export.SnapshotToSVG(s.Snapshot(), s.Colors(), cam, 800, 800)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("run " + runID))
	printRow("steps", fmt.Sprintf("%d", result.Steps))
	printRow("elapsed", result.Elapsed.String())
	printRow("contacts", fmt.Sprintf("%d", result.Collisions))
	printRow("wall clamps", fmt.Sprintf("%d", result.Clamps))
	fmt.Println("\nmetrics:")
	for _, n := range result.Names {
		printRow("  "+n, fmt.Sprintf("%.6g", result.Metrics[n]))
	}
	return runErr
}

func printRow(label, value string) {
	fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
}

func writeExport(path, name, integrator string, result *sim.Result) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return storage.ExportJSON(w, name, integrator, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(name, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	schemes := args
	if len(schemes) == 0 {
		schemes = experiment.NewRegistry().ListSchemes()
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("comparing integrators for %s (%d particles, %d steps, seed %d)\n\n", name, cfg.Particles, cfg.Steps, cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tKINETIC\tDRIFT\tMIN_SEP\tOVERLAPS\tTIME_MS")

	var series [][]float64
	var plotted []string
	for _, scheme := range schemes {
		c := cfg.Clone()
		c.Integrator = scheme
		exp := experiment.New(c, nil)
		if err := exp.Setup(); err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", scheme, err)
			continue
		}
		result, err := exp.Run(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(w, "%s\terror: %v\n", scheme, err)
			continue
		}
		m := result.Metrics
		fmt.Fprintf(w, "%s\t%.6g\t%.3e\t%.4f\t%.0f\t%.2f\n",
			scheme,
			m["kinetic_energy"],
			m["energy_drift"],
			m["min_separation"],
			m["overlaps"],
			float64(result.Elapsed.Microseconds())/1000,
		)
		if s := column(result, "kinetic_energy"); len(s) > 1 {
			series = append(series, s)
			plotted = append(plotted, scheme)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) > 0 {
		colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow}
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(series,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.SeriesColors(colors...),
			asciigraph.Caption("kinetic energy: "+strings.Join(plotted, " / ")),
		))
	}
	return nil
}

func column(result *sim.Result, name string) []float64 {
	idx := -1
	for i, n := range result.Names {
		if n == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(result.Trace))
	for i, row := range result.Trace {
		out[i] = row[idx]
	}
	return out
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ens, err := experiment.New(cfg, nil).Ensemble(runs)
	if err != nil {
		return err
	}
	ens.Limit = parallel

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("ensemble %s: %d runs of %d steps, seeds %d..%d\n\n", name, runs, cfg.Steps, cfg.Seed, cfg.Seed+int64(runs)-1)
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, s := range sim.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%.6g\t%.6g\n", s.Name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tINTEG\tREPULSION\tATTRACTION\tGRAPH\tCLAMP")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		g := p.Graph.Init
		if p.Percolation.Enabled {
			g = "percolation/" + p.Percolation.Threshold
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%g\t%g\t%s\t%s\n",
			name, p.Particles, p.Integrator, p.Physics.Repulsion, p.Physics.Attraction, g, p.Physics.WallClamp)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tN\tSTEPS\tINTEG\tKINETIC")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.4g\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Integrator,
			run.Metrics["kinetic_energy"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrator: %s, particles: %d\n\n", meta.Integrator, meta.Particles)

	if svgFile != "" {
		if metricName == "" {
			return fmt.Errorf("--svg needs --metric")
		}
		svg := export.TraceToSVG(trace.Series[metricName], 800, 300, "#00ccff")
		if svg == "" {
			return fmt.Errorf("no data to plot for %s", metricName)
		}
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
	}

	plotted := 0
	for _, name := range trace.Names {
		if metricName != "" && name != metricName {
			continue
		}
		data := trace.Series[name]
		if len(data) < 2 || !finite(data) {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		))
		if period, share := analysis.DominantPeriod(data); period > 0 {
			printRow("  period", fmt.Sprintf("%.1f steps (%.0f%% of power)", period, share*100))
		}
		if spectrum {
			if ps := analysis.PowerSpectrum(data); len(ps) > 1 {
				fmt.Println(asciigraph.Plot(ps[1:],
					asciigraph.Height(8),
					asciigraph.Width(80),
					asciigraph.Caption(name+" power spectrum"),
				))
			}
		}
		fmt.Println()
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("no data to plot")
	}
	return nil
}

// finite rejects series asciigraph cannot scale, such as min_separation
// before any pair existed.
func finite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func sweepPercolation(cmd *cobra.Command, args []string) error {
	if rows < 1 || cols < 1 || samples < 1 {
		return fmt.Errorf("%w: rows, cols and samples must be positive", dynamo.ErrInvalidConfig)
	}
	n := rows * cols
	g, err := graph.New(n)
	if err != nil {
		return err
	}
	cands := percolation.Lattice(rows, cols, rand.New(rand.NewSource(seed)))
	driver := percolation.NewDriver(g, cands, nil)

	largest := make([]float64, 0, samples+1)
	critical := -1.0
	for k := 0; k <= samples; k++ {
		th := float64(k) / float64(samples)
		if _, err := driver.Update(th); err != nil {
			return err
		}
		largest = append(largest, float64(percolation.Largest(g))/float64(n))
		if critical < 0 && percolation.Spans(g, rows, cols) {
			critical = th
		}
	}

	fmt.Printf("bond percolation on a %dx%d lattice (%d candidate bonds, seed %d)\n\n", rows, cols, len(cands), seed)
	fmt.Println(asciigraph.Plot(largest,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("largest cluster fraction vs threshold"),
	))
	fmt.Println()
	if critical < 0 {
		printRow("spanning", "never")
		return nil
	}
	printRow("spanning at", fmt.Sprintf("%.3f", critical))
	printRow("bonds open", fmt.Sprintf("%.3f", percolation.CriticalFraction(cands, critical)))
	return nil
}
