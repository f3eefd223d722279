package dynamo

import (
	"fmt"
	"math"
	"strings"
)

const (
	// Epsilon is the squared-distance floor below which pairwise forces are
	// skipped, and the distance floor used for wall repulsion.
	Epsilon = 1e-4

	// RK4StepSize is the fixed step RK4 uses when no explicit step is given.
	RK4StepSize = 0.01

	// UnitStepSize is the implicit step of the Euler and Verlet schemes.
	UnitStepSize = 1.0

	// CollisionBias is the fraction of the overlap each particle of a
	// colliding pair is pushed back by.
	CollisionBias = 0.51
)

// Scheme selects the integrator. It is fixed when a simulation is built.
type Scheme int

const (
	SchemeEuler Scheme = iota
	SchemeVerlet
	SchemeRK4
)

var schemeNames = map[Scheme]string{
	SchemeEuler:  "euler",
	SchemeVerlet: "verlet",
	SchemeRK4:    "rk4",
}

func (s Scheme) String() string {
	if n, ok := schemeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// DefaultStepSize is the step a scheme uses when the caller passes 0.
func (s Scheme) DefaultStepSize() float64 {
	if s == SchemeRK4 {
		return RK4StepSize
	}
	return UnitStepSize
}

func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euler", "symplectic-euler", "symplectic_euler":
		return SchemeEuler, nil
	case "verlet", "velocity-verlet", "velocity_verlet":
		return SchemeVerlet, nil
	case "rk4", "runge-kutta", "runge_kutta":
		return SchemeRK4, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

func Schemes() []Scheme { return []Scheme{SchemeEuler, SchemeVerlet, SchemeRK4} }

// AttractionPolicy decides which pairs the spring term runs over.
type AttractionPolicy int

const (
	// AttractAdjacency springs only along graph edges.
	AttractAdjacency AttractionPolicy = iota
	// AttractAllPairs springs every particle to every other one.
	AttractAllPairs
	// AttractNone disables the spring term.
	AttractNone
)

func (p AttractionPolicy) String() string {
	switch p {
	case AttractAdjacency:
		return "adjacency"
	case AttractAllPairs:
		return "all-pairs"
	case AttractNone:
		return "none"
	}
	return fmt.Sprintf("attraction(%d)", int(p))
}

func ParseAttractionPolicy(name string) (AttractionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "adjacency", "edges":
		return AttractAdjacency, nil
	case "all-pairs", "all_pairs", "all":
		return AttractAllPairs, nil
	case "none", "off":
		return AttractNone, nil
	}
	return 0, fmt.Errorf("%w: unknown attraction policy %q", ErrInvalidConfig, name)
}

// WallClampPolicy decides where the hard boundary sits.
type WallClampPolicy int

const (
	// ClampRadius keeps the whole sphere inside: |x| <= half - r.
	ClampRadius WallClampPolicy = iota
	// ClampHalfSize keeps only the centre inside: |x| <= half.
	ClampHalfSize
	// ClampOff disables the hard boundary; only soft wall repulsion remains.
	ClampOff
)

func (p WallClampPolicy) String() string {
	switch p {
	case ClampRadius:
		return "radius"
	case ClampHalfSize:
		return "half-size"
	case ClampOff:
		return "off"
	}
	return fmt.Sprintf("clamp(%d)", int(p))
}

func ParseWallClampPolicy(name string) (WallClampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "radius":
		return ClampRadius, nil
	case "half-size", "half_size", "halfsize", "center":
		return ClampHalfSize, nil
	case "off", "none":
		return ClampOff, nil
	}
	return 0, fmt.Errorf("%w: unknown wall clamp policy %q", ErrInvalidConfig, name)
}

// Config holds the physics parameters. Every field may change between steps
// and takes effect on the next one.
type Config struct {
	// RepulsionStrength scales the inverse-square pair term. Negative values
	// attract.
	RepulsionStrength float64
	// AttractionStrength is the spring constant of the zero-rest-length spring.
	AttractionStrength float64
	// WallRepulsionStrength scales the inverse-square push away from each face.
	WallRepulsionStrength float64
	// Dampening multiplies every velocity once per step.
	Dampening float64
	// TimeScale divides the accumulated force to give acceleration.
	TimeScale float64
	// CubeSize is the side length of the origin-centred bounding box.
	CubeSize float64
	// Restitution is the collision elasticity in [0, 1].
	Restitution float64
	// Softening is added to |r|^2 in the repulsion denominator.
	Softening float64
	// StepSize overrides the scheme's default step when non-zero.
	StepSize float64
	// RadiusScale is the per-edge radius increment k in
	// radius = base * (1 + k*degree). Zero disables degree scaling.
	RadiusScale float64

	Attraction AttractionPolicy
	WallClamp  WallClampPolicy
}

// DefaultConfig matches the force-directed graph layout the engine was built
// around.
func DefaultConfig() Config {
	return Config{
		RepulsionStrength:     0.5,
		AttractionStrength:    0.01,
		WallRepulsionStrength: 0.01,
		Dampening:             0.95,
		TimeScale:             100000,
		CubeSize:              10,
		Restitution:           0.8,
		RadiusScale:           0.2,
		Attraction:            AttractAdjacency,
		WallClamp:             ClampRadius,
	}
}

// HalfSize is half the cube side.
func (c Config) HalfSize() float64 { return c.CubeSize / 2 }

// EffectiveStep resolves the step for a scheme: explicit dt first, then the
// configured StepSize, then the scheme default.
func (c Config) EffectiveStep(s Scheme, dt float64) float64 {
	if dt != 0 {
		return dt
	}
	if c.StepSize != 0 {
		return c.StepSize
	}
	return s.DefaultStepSize()
}

// Validate checks ranges. The engine does not call it; see the package docs.
func (c Config) Validate() error {
	for name, v := range c.Params() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, name)
		}
	}
	if c.TimeScale == 0 {
		return fmt.Errorf("%w: time_scale must be non-zero", ErrInvalidConfig)
	}
	if c.CubeSize <= 0 {
		return fmt.Errorf("%w: cube_size must be positive, got %g", ErrInvalidConfig, c.CubeSize)
	}
	if c.Dampening < 0 || c.Dampening > 1 {
		return fmt.Errorf("%w: dampening must be in [0,1], got %g", ErrInvalidConfig, c.Dampening)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("%w: restitution must be in [0,1], got %g", ErrInvalidConfig, c.Restitution)
	}
	if c.Softening < 0 {
		return fmt.Errorf("%w: softening must not be negative, got %g", ErrInvalidConfig, c.Softening)
	}
	if c.StepSize < 0 {
		return fmt.Errorf("%w: step_size must not be negative, got %g", ErrInvalidConfig, c.StepSize)
	}
	return nil
}

// Params exposes the scalar parameters by name for live tuning.
func (c Config) Params() map[string]float64 {
	return map[string]float64{
		"repulsion":   c.RepulsionStrength,
		"attraction":  c.AttractionStrength,
		"wall":        c.WallRepulsionStrength,
		"dampening":   c.Dampening,
		"time_scale":  c.TimeScale,
		"cube_size":   c.CubeSize,
		"restitution": c.Restitution,
		"softening":   c.Softening,
		"step_size":   c.StepSize,
	}
}

// SetParam sets a scalar parameter by the name Params uses.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "repulsion":
		c.RepulsionStrength = value
	case "attraction":
		c.AttractionStrength = value
	case "wall":
		c.WallRepulsionStrength = value
	case "dampening":
		c.Dampening = value
	case "time_scale":
		c.TimeScale = value
	case "cube_size":
		c.CubeSize = value
	case "restitution":
		c.Restitution = value
	case "softening":
		c.Softening = value
	case "step_size":
		c.StepSize = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	return nil
}
