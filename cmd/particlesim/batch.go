package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/automation"
	"github.com/san-kum/particlesim/internal/optim"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Println(titleStyle.Render("scenario " + sc.Name))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	outcomes, runErr := automation.RunScenario(ctx, sc, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tSTEPS\tKINETIC\tOVERLAPS\tRUN_ID")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.0f\t%s\n",
			o.Name, o.Result.Steps, o.Result.Metrics["kinetic_energy"], o.Result.Metrics["overlaps"], o.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("sweeping %s over [%g, %g] on %s (%d points)\n\n", sweepParam, sweepMin, sweepMax, name, points)
	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:   cfg,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Points: points,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tKINETIC\tSPREAD\tOVERLAPS\tSTATUS\n", strings.ToUpper(sweepParam))
	kinetic := make([]float64, 0, len(results))
	for _, r := range results {
		status := "ok"
		if r.Diverged {
			status = warnStyle.Render("diverged")
		}
		fmt.Fprintf(w, "%.4g\t%d\t%.4g\t%.4g\t%.0f\t%s\n",
			r.Value, r.Steps, r.Metrics["kinetic_energy"], r.Metrics["spread"], r.Metrics["overlaps"], status)
		if !r.Diverged {
			kinetic = append(kinetic, r.Metrics["kinetic_energy"])
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(kinetic) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(kinetic,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("final kinetic energy vs "+sweepParam),
		))
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridArgs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names := make([]string, 0, len(gridArgs))
	ranges := make([][]float64, 0, len(gridArgs))
	for _, arg := range gridArgs {
		n, vals, err := parseGrid(arg)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, vals)
	}

	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize

	ctx, cancel := interruptContext()
	defer cancel()

	goal := "minimizing"
	if maximize {
		goal = "maximizing"
	}
	fmt.Printf("tuning %s on %s, %s %s\n\n", strings.Join(names, ", "), name, goal, metricName)
	best, err := gs.Search(ctx, cfg, metricName)
	if err != nil {
		return err
	}

	printRow("evaluated", fmt.Sprintf("%d (%d failed)", best.Evaluated, best.Failed))
	printRow(metricName, fmt.Sprintf("%.6g", best.Value))
	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printRow("  "+k, fmt.Sprintf("%g", best.Params[k]))
	}
	return nil
}

// parseGrid reads "name=lo:hi:n" or "name=v1,v2,...".
func parseGrid(arg string) (string, []float64, error) {
	name, body, ok := strings.Cut(arg, "=")
	if !ok || name == "" || body == "" {
		return "", nil, fmt.Errorf("bad grid %q: want name=lo:hi:n or name=v1,v2", arg)
	}
	if parts := strings.Split(body, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return "", nil, fmt.Errorf("bad grid range %q", arg)
		}
		return name, optim.Linspace(lo, hi, n), nil
	}
	var vals []float64
	for _, f := range strings.Split(body, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad grid value in %q: %w", arg, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}
