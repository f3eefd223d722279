package collision

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/particles"
)

// ClampWalls enforces the hard boundary of an origin-centred cube of side
// cubeSize. On every axis a coordinate past the limit is set to the limit and
// that velocity component is turned to point back inside. The limit is
// half - radius under ClampRadius and half under ClampHalfSize; ClampOff
// does nothing. It returns the number of clamped components.
func ClampWalls(set *particles.Set, cubeSize float64, policy dynamo.WallClampPolicy) int {
	if policy == dynamo.ClampOff {
		return 0
	}
	half := cubeSize / 2
	clamped := 0
	for i := range set.Position {
		limit := half
		if policy == dynamo.ClampRadius {
			limit -= set.Radius[i]
		}
		if limit < 0 {
			limit = 0
		}
		for k := 0; k < 3; k++ {
			p, v := set.Position[i][k], set.Velocity[i][k]
			switch {
			case p > limit:
				set.Position[i][k] = limit
				if v > 0 {
					set.Velocity[i][k] = -v
				}
				clamped++
			case p < -limit:
				set.Position[i][k] = -limit
				if v < 0 {
					set.Velocity[i][k] = -v
				}
				clamped++
			}
		}
	}
	return clamped
}

// Inside reports whether every particle centre lies within the cube.
func Inside(set *particles.Set, cubeSize float64) bool {
	half := cubeSize / 2
	for _, p := range set.Position {
		for k := 0; k < 3; k++ {
			if p[k] > half || p[k] < -half {
				return false
			}
		}
	}
	return true
}
