package sim

import (
	"context"

	"github.com/san-kum/particlesim/internal/metrics"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Ensemble runs independent simulations that differ only in their seed.
// Each member is single-threaded; parallelism is across members.
type Ensemble struct {
	n         int
	opts      []Option
	runs      int
	seedStart int64
	steps     int

	// Metrics builds a fresh metric set for each member; nil uses
	// metrics.Defaults.
	Metrics func() []metrics.Metric
	// Limit caps concurrently running members; 0 means no limit.
	Limit int
}

func NewEnsemble(n int, runs int, seedStart int64, steps int, opts ...Option) *Ensemble {
	return &Ensemble{n: n, opts: opts, runs: runs, seedStart: seedStart, steps: steps}
}

// Run returns one result per member in seed order. The first member error
// cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.runs)
	g, ctx := errgroup.WithContext(ctx)
	if e.Limit > 0 {
		g.SetLimit(e.Limit)
	}

	for i := 0; i < e.runs; i++ {
		idx := i
		g.Go(func() error {
			opts := append(append([]Option(nil), e.opts...), WithSeed(e.seedStart+int64(idx)))
			s, err := New(e.n, opts...)
			if err != nil {
				return err
			}
			r := NewRunner(s)
			build := e.Metrics
			if build == nil {
				build = metrics.Defaults
			}
			for _, m := range build() {
				r.AddMetric(m)
			}
			res, err := r.Run(ctx, e.steps)
			results[idx] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary is the spread of one metric across members.
type Summary struct {
	Name                   string
	Mean, StdDev, Min, Max float64
}

// Summarize reduces ensemble results metric by metric in the order of the
// first result's names. StdDev is the unbiased sample estimate and is NaN
// for a single member.
func Summarize(results []*Result) []Summary {
	if len(results) == 0 || results[0] == nil {
		return nil
	}
	out := make([]Summary, 0, len(results[0].Names))
	vals := make([]float64, len(results))
	for _, name := range results[0].Names {
		for i, r := range results {
			vals[i] = r.Metrics[name]
		}
		mean, std := stat.MeanStdDev(vals, nil)
		out = append(out, Summary{
			Name:   name,
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(vals),
			Max:    floats.Max(vals),
		})
	}
	return out
}
