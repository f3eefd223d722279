package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/percolation"
)

// GraphBuilder creates the initial adjacency for n particles.
type GraphBuilder func(n int, rng *rand.Rand, cfg config.GraphConfig) (*graph.Graph, error)

// ThresholdBuilder creates the percolation threshold source.
type ThresholdBuilder func(cfg config.PercolationConfig, seed int64) percolation.Source

type Registry struct {
	graphs     map[string]GraphBuilder
	thresholds map[string]ThresholdBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		graphs:     make(map[string]GraphBuilder),
		thresholds: make(map[string]ThresholdBuilder),
	}

	r.graphs["none"] = func(n int, _ *rand.Rand, _ config.GraphConfig) (*graph.Graph, error) {
		return graph.New(n)
	}
	r.graphs["hub"] = HubGraph
	r.graphs["random"] = RandomGraph

	r.thresholds["fixed"] = func(cfg config.PercolationConfig, _ int64) percolation.Source {
		return percolation.Fixed(cfg.Value)
	}
	r.thresholds["sine"] = func(cfg config.PercolationConfig, _ int64) percolation.Source {
		s := percolation.NewSine()
		if cfg.Speed > 0 {
			s.Speed = cfg.Speed
		}
		return s
	}
	r.thresholds["noise"] = func(cfg config.PercolationConfig, seed int64) percolation.Source {
		n := percolation.NewNoise(seed)
		if cfg.Speed > 0 {
			n.Speed = cfg.Speed
		}
		return n
	}

	return r
}

// RegisterGraph adds or replaces a graph builder.
func (r *Registry) RegisterGraph(name string, fn GraphBuilder) { r.graphs[name] = fn }

func (r *Registry) GetGraph(name string) (GraphBuilder, error) {
	if name == "" {
		name = "none"
	}
	fn, ok := r.graphs[name]
	if !ok {
		return nil, fmt.Errorf("unknown graph init: %s", name)
	}
	return fn, nil
}

func (r *Registry) GetThreshold(name string) (ThresholdBuilder, error) {
	if name == "" {
		name = "sine"
	}
	fn, ok := r.thresholds[name]
	if !ok {
		return nil, fmt.Errorf("unknown threshold source: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListGraphs() []string {
	return sortedKeys(r.graphs)
}

func (r *Registry) ListThresholds() []string {
	return sortedKeys(r.thresholds)
}

func (r *Registry) ListSchemes() []string {
	out := make([]string, 0, 3)
	for _, s := range dynamo.Schemes() {
		out = append(out, s.String())
	}
	return out
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	return metrics.Defaults()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HubGraph links particle 0 to up to ten leaves, adds two small dense
// clusters when the population is large enough and finally five random
// links drawn from rng.
func HubGraph(n int, rng *rand.Rand, _ config.GraphConfig) (*graph.Graph, error) {
	g, err := graph.New(n)
	if err != nil {
		return nil, err
	}
	add := func(i, j int) {
		if i < n && j < n && i != j {
			_, _ = g.AddEdge(i, j)
		}
	}

	for i := 1; i <= min(10, n-1); i++ {
		add(0, i)
	}
	if n > 18 {
		for _, e := range [][2]int{{11, 12}, {12, 13}, {11, 13}, {11, 14}, {11, 16}, {12, 14}, {12, 15}, {12, 16}} {
			add(e[0], e[1])
		}
	}
	if n > 17 {
		add(14, 15)
	}
	for k := 0; k < 5 && n > 1; k++ {
		add(rng.Intn(n), rng.Intn(n))
	}
	return g, nil
}

// RandomGraph links every pair independently with cfg.Probability.
func RandomGraph(n int, rng *rand.Rand, cfg config.GraphConfig) (*graph.Graph, error) {
	g, err := graph.New(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < cfg.Probability {
				if _, err := g.AddEdge(i, j); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}
