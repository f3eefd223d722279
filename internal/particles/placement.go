package particles

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Placement is the initial seeding policy.
type Placement int

const (
	// PlaceSphere samples theta, phi and r independently: direction is
	// uniform on the sphere, r is uniform in [0, spread). Points therefore
	// cluster toward the centre.
	PlaceSphere Placement = iota
	// PlaceCube samples each axis uniformly in [-spread, spread).
	PlaceCube
)

func (p Placement) String() string {
	switch p {
	case PlaceSphere:
		return "sphere"
	case PlaceCube:
		return "cube"
	}
	return fmt.Sprintf("placement(%d)", int(p))
}

func ParsePlacement(name string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sphere":
		return PlaceSphere, nil
	case "cube":
		return PlaceCube, nil
	}
	return 0, fmt.Errorf("%w: unknown placement %q", dynamo.ErrInvalidConfig, name)
}

// Seed places every particle according to the policy with zero velocity.
func (s *Set) Seed(rng *rand.Rand, p Placement, spread float64) {
	for i := range s.Position {
		var pos Vec3
		switch p {
		case PlaceCube:
			pos = Vec3{
				(rng.Float64()*2 - 1) * spread,
				(rng.Float64()*2 - 1) * spread,
				(rng.Float64()*2 - 1) * spread,
			}
		default:
			theta := rng.Float64() * 2 * math.Pi
			phi := math.Acos(2*rng.Float64() - 1)
			r := rng.Float64() * spread
			sinPhi, cosPhi := math.Sincos(phi)
			sinTheta, cosTheta := math.Sincos(theta)
			pos = Vec3{r * sinPhi * cosTheta, r * sinPhi * sinTheta, r * cosPhi}
		}
		s.Place(i, pos, Vec3{})
	}
}

// Jitter adds a uniform random velocity in [-amp/2, amp/2) per axis.
func (s *Set) Jitter(rng *rand.Rand, amp float64) {
	if amp == 0 {
		return
	}
	for i := range s.Velocity {
		for k := 0; k < 3; k++ {
			s.Velocity[i][k] += (rng.Float64() - 0.5) * amp
		}
	}
}
