// Package optim searches physics parameters for the configuration that best
// scores on one run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the objective; by default the smallest value wins.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Best is the winning point of a search. Evaluated counts completed runs;
// Failed counts runs that could not be set up or stopped with an error.
type Best struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

// Search runs base once per grid point and scores it by metricName.
// Cancelling ctx stops the search and returns ctx.Err().
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Best, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	probe := base.Clone()
	for i, name := range g.paramNames {
		if len(g.ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", name)
		}
		if err := probe.SetParam(name, g.ranges[i][0]); err != nil {
			return nil, err
		}
	}

	best := &Best{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, best); err != nil {
		return best, err
	}
	if best.Params == nil {
		return best, fmt.Errorf("optim: no run produced %s", metricName)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return g.evaluate(ctx, current, base, metricName, best)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, best); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, metricName string, best *Best) error {
	cfg := base.Clone()
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return err
		}
	}

	exp := experiment.New(cfg, nil)
	if err := exp.Setup(); err != nil {
		slog.Debug("grid point rejected", "params", params, "err", err)
		best.Failed++
		return nil
	}
	result, err := exp.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		slog.Debug("grid point failed", "params", params, "err", err)
		best.Failed++
		return nil
	}
	best.Evaluated++

	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		return nil
	}
	if (g.Maximize && val > best.Value) || (!g.Maximize && val < best.Value) {
		best.Value = val
		best.Params = params
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
