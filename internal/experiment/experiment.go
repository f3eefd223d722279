// Package experiment turns a config.Config into a ready-to-run simulation:
// it builds the initial graph, seeds the particles, wires the optional
// percolation driver and attaches the default metrics.
package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/percolation"
	"github.com/san-kum/particlesim/internal/sim"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	simulation *sim.Simulation
	runner     *sim.Runner
	driver     *percolation.Driver
	randSource *rand.Rand
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{
		cfg:        cfg,
		registry:   registry,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup validates the configuration and builds every component.
func (e *Experiment) Setup() error {
	opts, err := e.options()
	if err != nil {
		return err
	}
	e.simulation, err = sim.New(e.cfg.Particles, opts...)
	if err != nil {
		return err
	}

	if e.cfg.Percolation.Enabled {
		if err := e.setupPercolation(); err != nil {
			return err
		}
	}

	e.runner = sim.NewRunner(e.simulation)
	for _, m := range e.registry.DefaultMetrics() {
		e.runner.AddMetric(m)
	}
	if e.driver != nil {
		e.runner.Before = func(int) error {
			_, err := e.driver.Tick()
			return err
		}
	}
	return nil
}

// options translates the configuration into simulation options, building
// the initial graph from the experiment's random source.
func (e *Experiment) options() ([]sim.Option, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	phys, err := e.cfg.ToDynamo()
	if err != nil {
		return nil, err
	}
	scheme, err := e.cfg.Scheme()
	if err != nil {
		return nil, err
	}
	placement, err := e.cfg.PlacementPolicy()
	if err != nil {
		return nil, err
	}

	graphInit := e.cfg.Graph.Init
	if e.cfg.Percolation.Enabled {
		graphInit = "none"
	}
	build, err := e.registry.GetGraph(graphInit)
	if err != nil {
		return nil, err
	}
	g, err := build(e.cfg.Particles, e.randSource, e.cfg.Graph)
	if err != nil {
		return nil, err
	}

	return []sim.Option{
		sim.WithConfig(phys),
		sim.WithScheme(scheme),
		sim.WithPlacement(placement),
		sim.WithSpread(e.cfg.Spread),
		sim.WithSeed(e.cfg.Seed),
		sim.WithBaseRadius(e.cfg.BaseRadius),
		sim.WithJitter(e.cfg.Jitter),
		sim.WithGraph(g),
	}, nil
}

// Ensemble returns runs copies of the configured simulation seeded from
// cfg.Seed upward. Members share the initial graph read-only, so
// percolation, which rewires it, is rejected.
func (e *Experiment) Ensemble(runs int) (*sim.Ensemble, error) {
	if e.cfg.Percolation.Enabled {
		return nil, fmt.Errorf("%w: ensembles do not support percolation", dynamo.ErrInvalidConfig)
	}
	if runs <= 0 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", dynamo.ErrInvalidConfig, runs)
	}
	opts, err := e.options()
	if err != nil {
		return nil, err
	}
	ens := sim.NewEnsemble(e.cfg.Particles, runs, e.cfg.Seed, e.cfg.Steps, opts...)
	ens.Metrics = e.registry.DefaultMetrics
	return ens, nil
}

func (e *Experiment) setupPercolation() error {
	p := e.cfg.Percolation
	var cands []percolation.Candidate
	switch p.Mode {
	case "lattice":
		spacing := p.Spacing
		if spacing <= 0 {
			spacing = 1
		}
		for i, pos := range percolation.LatticePositions(p.Rows, p.Cols, spacing) {
			if err := e.simulation.Place(i, pos, vecmath.Vec3{}); err != nil {
				return err
			}
		}
		cands = percolation.Lattice(p.Rows, p.Cols, e.randSource)
	case "cutoff":
		cands = percolation.Within(e.simulation.Positions(), p.Cutoff, e.randSource)
	default:
		return fmt.Errorf("unknown percolation mode: %s", p.Mode)
	}

	threshold, err := e.registry.GetThreshold(p.Threshold)
	if err != nil {
		return err
	}
	e.driver = percolation.NewDriver(e.simulation, cands, threshold(p, e.cfg.Seed))
	return nil
}

// Step advances the simulation once, ticking the percolation driver first.
func (e *Experiment) Step() error {
	if e.simulation == nil {
		return fmt.Errorf("experiment not setup")
	}
	if e.driver != nil {
		if _, err := e.driver.Tick(); err != nil {
			return err
		}
	}
	return e.simulation.Step()
}

// Run performs the configured number of steps.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.runner.Run(ctx, e.cfg.Steps)
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) Simulation() *sim.Simulation { return e.simulation }
func (e *Experiment) Runner() *sim.Runner         { return e.runner }
func (e *Experiment) Driver() *percolation.Driver { return e.driver }
