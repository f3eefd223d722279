// Package config loads run descriptions from YAML and holds the named
// presets that mirror the classic particle demos.
package config

import (
	"fmt"
	"os"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/particles"
	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles  = 150
	DefaultSteps      = 1000
	DefaultFPS        = 30
	DefaultSpread     = 5.5
	DefaultBaseRadius = 0.05
)

type Config struct {
	Particles   int               `yaml:"particles"`
	Seed        int64             `yaml:"seed"`
	Placement   string            `yaml:"placement"`
	Spread      float64           `yaml:"spread"`
	BaseRadius  float64           `yaml:"base_radius"`
	Jitter      float64           `yaml:"jitter"`
	Integrator  string            `yaml:"integrator"`
	Steps       int               `yaml:"steps"`
	FPS         int               `yaml:"fps"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Graph       GraphConfig       `yaml:"graph"`
	Percolation PercolationConfig `yaml:"percolation"`
}

type PhysicsConfig struct {
	Repulsion        float64 `yaml:"repulsion"`
	Attraction       float64 `yaml:"attraction"`
	Wall             float64 `yaml:"wall"`
	Dampening        float64 `yaml:"dampening"`
	TimeScale        float64 `yaml:"time_scale"`
	CubeSize         float64 `yaml:"cube_size"`
	Restitution      float64 `yaml:"restitution"`
	Softening        float64 `yaml:"softening"`
	StepSize         float64 `yaml:"step_size"`
	RadiusScale      float64 `yaml:"radius_scale"`
	AttractionPolicy string  `yaml:"attraction_policy"`
	WallClamp        string  `yaml:"wall_clamp"`
}

// GraphConfig selects the initial edges: "none", "hub" or "random".
type GraphConfig struct {
	Init        string  `yaml:"init"`
	Probability float64 `yaml:"probability"`
}

// PercolationConfig enables the bond percolation driver. Mode "lattice"
// lays the particles on a Rows x Cols grid; mode "cutoff" uses every pair
// closer than Cutoff at seeding time. Threshold is "fixed", "sine" or
// "noise".
type PercolationConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Mode      string  `yaml:"mode"`
	Rows      int     `yaml:"rows"`
	Cols      int     `yaml:"cols"`
	Spacing   float64 `yaml:"spacing"`
	Cutoff    float64 `yaml:"cutoff"`
	Threshold string  `yaml:"threshold"`
	Value     float64 `yaml:"value"`
	Speed     float64 `yaml:"speed"`
}

func physicsFrom(c dynamo.Config) PhysicsConfig {
	return PhysicsConfig{
		Repulsion:        c.RepulsionStrength,
		Attraction:       c.AttractionStrength,
		Wall:             c.WallRepulsionStrength,
		Dampening:        c.Dampening,
		TimeScale:        c.TimeScale,
		CubeSize:         c.CubeSize,
		Restitution:      c.Restitution,
		Softening:        c.Softening,
		StepSize:         c.StepSize,
		RadiusScale:      c.RadiusScale,
		AttractionPolicy: c.Attraction.String(),
		WallClamp:        c.WallClamp.String(),
	}
}

func DefaultConfig() *Config {
	return &Config{
		Particles:  DefaultParticles,
		Seed:       1,
		Placement:  particles.PlaceSphere.String(),
		Spread:     DefaultSpread,
		BaseRadius: DefaultBaseRadius,
		Integrator: dynamo.SchemeVerlet.String(),
		Steps:      DefaultSteps,
		FPS:        DefaultFPS,
		Physics:    physicsFrom(dynamo.DefaultConfig()),
		Graph:      GraphConfig{Init: "hub"},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base, so keys missing from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy, so presets are never mutated through
// a returned pointer.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ToDynamo converts the physics block into engine parameters.
func (c *Config) ToDynamo() (dynamo.Config, error) {
	attraction, err := dynamo.ParseAttractionPolicy(c.Physics.AttractionPolicy)
	if err != nil {
		return dynamo.Config{}, err
	}
	clamp, err := dynamo.ParseWallClampPolicy(c.Physics.WallClamp)
	if err != nil {
		return dynamo.Config{}, err
	}
	p := c.Physics
	return dynamo.Config{
		RepulsionStrength:     p.Repulsion,
		AttractionStrength:    p.Attraction,
		WallRepulsionStrength: p.Wall,
		Dampening:             p.Dampening,
		TimeScale:             p.TimeScale,
		CubeSize:              p.CubeSize,
		Restitution:           p.Restitution,
		Softening:             p.Softening,
		StepSize:              p.StepSize,
		RadiusScale:           p.RadiusScale,
		Attraction:            attraction,
		WallClamp:             clamp,
	}, nil
}

// SetPhysics stores engine parameters back into the physics block.
func (c *Config) SetPhysics(d dynamo.Config) {
	c.Physics = physicsFrom(d)
}

// SetParam sets one physics parameter by the name dynamo.Config.Params
// uses.
func (c *Config) SetParam(name string, value float64) error {
	d, err := c.ToDynamo()
	if err != nil {
		return err
	}
	if err := d.SetParam(name, value); err != nil {
		return err
	}
	c.SetPhysics(d)
	return nil
}

func (c *Config) Scheme() (dynamo.Scheme, error) {
	return dynamo.ParseScheme(c.Integrator)
}

func (c *Config) PlacementPolicy() (particles.Placement, error) {
	return particles.ParsePlacement(c.Placement)
}

// Validate checks everything the engine itself leaves to the caller.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", dynamo.ErrInvalidConfig, c.Particles)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", dynamo.ErrInvalidConfig, c.Steps)
	}
	if c.BaseRadius <= 0 {
		return fmt.Errorf("%w: base_radius must be positive, got %g", dynamo.ErrInvalidConfig, c.BaseRadius)
	}
	if _, err := c.Scheme(); err != nil {
		return err
	}
	if _, err := c.PlacementPolicy(); err != nil {
		return err
	}
	d, err := c.ToDynamo()
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	switch c.Graph.Init {
	case "", "none", "hub":
	case "random":
		if c.Graph.Probability < 0 || c.Graph.Probability > 1 {
			return fmt.Errorf("%w: graph probability must be in [0,1], got %g", dynamo.ErrInvalidConfig, c.Graph.Probability)
		}
	default:
		return fmt.Errorf("%w: unknown graph init %q", dynamo.ErrInvalidConfig, c.Graph.Init)
	}
	if c.Percolation.Enabled {
		return c.Percolation.validate(c.Particles)
	}
	return nil
}

func (p PercolationConfig) validate(n int) error {
	switch p.Mode {
	case "lattice":
		if p.Rows*p.Cols != n {
			return fmt.Errorf("%w: lattice %dx%d does not hold %d particles", dynamo.ErrInvalidConfig, p.Rows, p.Cols, n)
		}
	case "cutoff":
		if p.Cutoff <= 0 {
			return fmt.Errorf("%w: percolation cutoff must be positive", dynamo.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown percolation mode %q", dynamo.ErrInvalidConfig, p.Mode)
	}
	switch p.Threshold {
	case "", "fixed", "sine", "noise":
	default:
		return fmt.Errorf("%w: unknown percolation threshold %q", dynamo.ErrInvalidConfig, p.Threshold)
	}
	return nil
}
