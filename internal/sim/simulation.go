// Package sim drives the particle engine one step at a time.
//
// A Simulation owns the particle set, the adjacency graph and the physics
// configuration, and composes the force field, the integrator and the
// collision resolver into a single Step. It is not safe for concurrent use;
// run independent simulations in parallel with an Ensemble instead.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/particlesim/internal/collision"
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/forces"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/integrators"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Simulation struct {
	cfg        dynamo.Config
	set        *particles.Set
	graph      *graph.Graph
	field      *forces.Field
	integrator integrators.Integrator
	resolver   *collision.Resolver
	rng        *rand.Rand

	steps        int
	graphVersion uint64
	radiusScale  float64

	lastCollisions collision.Stats
	lastClamps     int
}

// New seeds n particles and wires the engine components.
func New(n int, opts ...Option) (*Simulation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrEmptySimulation, n)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	integ, err := integrators.New(o.scheme)
	if err != nil {
		return nil, err
	}

	g := o.graph
	if g == nil {
		if g, err = graph.New(n); err != nil {
			return nil, err
		}
	} else if g.Len() != n {
		return nil, fmt.Errorf("%w: graph has %d vertices, want %d", dynamo.ErrInvalidConfig, g.Len(), n)
	}

	s := &Simulation{
		cfg:        o.cfg,
		set:        particles.New(n, o.baseRadius),
		graph:      g,
		integrator: integ,
		resolver:   collision.NewResolver(o.cfg.Restitution),
		rng:        rand.New(rand.NewSource(o.seed)),
	}
	s.field = forces.New(&s.cfg, s.set, s.graph)
	s.set.Seed(s.rng, o.placement, o.spread)
	s.set.Jitter(s.rng, o.jitter)
	s.refreshRadii(true)
	return s, nil
}

// Step advances one step with the configured step size.
func (s *Simulation) Step() error {
	return s.StepDt(0)
}

// StepDt advances one step, passing dt through to the integrator unchanged.
// A dt of zero selects the configured or scheme-default step. The phases
// run in order: degree-driven radii are refreshed if the graph changed,
// collisions are resolved, the integrator advances every particle and the
// hard walls are enforced. A failed step is reported as a *dynamo.StepError,
// leaves the particles untouched and does not advance the step counter.
func (s *Simulation) StepDt(dt float64) error {
	// checked before any phase mutates the set so a retry replays the frame
	if s.cfg.TimeScale == 0 {
		return &dynamo.StepError{Step: s.steps, Wrapped: dynamo.ErrDivisionByZero}
	}
	s.refreshRadii(false)

	s.resolver.Restitution = s.cfg.Restitution
	s.lastCollisions = s.resolver.Resolve(s.set)

	if err := s.integrator.Advance(s.set, s.field, &s.cfg, dt); err != nil {
		return &dynamo.StepError{Step: s.steps, Wrapped: err}
	}
	s.lastClamps = collision.ClampWalls(s.set, s.cfg.CubeSize, s.cfg.WallClamp)
	s.steps++
	return nil
}

// refreshRadii recomputes degree-scaled radii when the graph or the scale
// changed since the last refresh.
func (s *Simulation) refreshRadii(force bool) {
	v := s.graph.Version()
	if !force && v == s.graphVersion && s.cfg.RadiusScale == s.radiusScale {
		return
	}
	s.set.ScaleRadii(s.graph.Degrees(), s.cfg.RadiusScale)
	s.graphVersion = v
	s.radiusScale = s.cfg.RadiusScale
}

func (s *Simulation) SetRepulsionStrength(v float64)     { s.cfg.RepulsionStrength = v }
func (s *Simulation) SetAttractionStrength(v float64)    { s.cfg.AttractionStrength = v }
func (s *Simulation) SetWallRepulsionStrength(v float64) { s.cfg.WallRepulsionStrength = v }
func (s *Simulation) SetDampening(v float64)             { s.cfg.Dampening = v }
func (s *Simulation) SetRestitution(v float64)           { s.cfg.Restitution = v }

// SetTimeScale is not validated; a zero scale makes the next Step fail with
// dynamo.ErrDivisionByZero.
func (s *Simulation) SetTimeScale(v float64) { s.cfg.TimeScale = v }

// UpdateConfig applies fn to the live configuration. Changes take effect on
// the next step.
func (s *Simulation) UpdateConfig(fn func(*dynamo.Config)) {
	fn(&s.cfg)
}

// AddEdge links i and j. Radii of both endpoints are refreshed immediately
// so the next collision pass already sees them.
func (s *Simulation) AddEdge(i, j int) (bool, error) {
	changed, err := s.graph.AddEdge(i, j)
	if changed {
		s.refreshRadii(false)
	}
	return changed, err
}

func (s *Simulation) RemoveEdge(i, j int) (bool, error) {
	changed, err := s.graph.RemoveEdge(i, j)
	if changed {
		s.refreshRadii(false)
	}
	return changed, err
}

// Place moves particle i to p with velocity v.
func (s *Simulation) Place(i int, p, v vecmath.Vec3) error {
	if err := s.set.Check(i); err != nil {
		return err
	}
	s.set.Place(i, p, v)
	return nil
}

func (s *Simulation) Len() int                        { return s.set.Len() }
func (s *Simulation) Steps() int                      { return s.steps }
func (s *Simulation) Config() dynamo.Config           { return s.cfg }
func (s *Simulation) Scheme() dynamo.Scheme           { return s.integrator.Scheme() }
func (s *Simulation) Graph() *graph.Graph             { return s.graph }
func (s *Simulation) LastCollisions() collision.Stats { return s.lastCollisions }
func (s *Simulation) LastClamps() int                 { return s.lastClamps }

// Rand is the simulation's seeded source, shared with drivers that need
// reproducible randomness alongside it.
func (s *Simulation) Rand() *rand.Rand { return s.rng }

// Snapshot copies the state a renderer needs.
func (s *Simulation) Snapshot() particles.Snapshot {
	snap := s.set.Snapshot()
	snap.Step = s.steps
	snap.CubeSize = s.cfg.CubeSize
	return snap
}

// Positions copies the particle positions.
func (s *Simulation) Positions() []vecmath.Vec3 {
	return append([]vecmath.Vec3(nil), s.set.Position...)
}

// Valid reports whether every position and velocity is finite.
func (s *Simulation) Valid() bool { return s.set.Valid() }
