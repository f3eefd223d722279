package sim

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/graph"
	"github.com/san-kum/particlesim/internal/particles"
)

const (
	DefaultSpread     = 2.5
	DefaultBaseRadius = 0.05
)

type options struct {
	cfg        dynamo.Config
	scheme     dynamo.Scheme
	placement  particles.Placement
	spread     float64
	seed       int64
	baseRadius float64
	jitter     float64
	graph      *graph.Graph
}

func defaultOptions() options {
	return options{
		cfg:        dynamo.DefaultConfig(),
		scheme:     dynamo.SchemeVerlet,
		placement:  particles.PlaceSphere,
		spread:     DefaultSpread,
		seed:       1,
		baseRadius: DefaultBaseRadius,
	}
}

// Option configures a Simulation at construction.
type Option func(*options)

func WithConfig(cfg dynamo.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

func WithScheme(s dynamo.Scheme) Option {
	return func(o *options) { o.scheme = s }
}

func WithPlacement(p particles.Placement) Option {
	return func(o *options) { o.placement = p }
}

// WithSpread sets the sphere radius or cube half-extent of the initial
// placement.
func WithSpread(spread float64) Option {
	return func(o *options) { o.spread = spread }
}

func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

func WithBaseRadius(r float64) Option {
	return func(o *options) { o.baseRadius = r }
}

// WithJitter gives every particle a random initial velocity of up to amp/2
// per axis.
func WithJitter(amp float64) Option {
	return func(o *options) { o.jitter = amp }
}

// WithGraph supplies the adjacency relation. Its size must match the
// particle count. Without it the simulation starts with an empty graph.
func WithGraph(g *graph.Graph) Option {
	return func(o *options) { o.graph = g }
}
