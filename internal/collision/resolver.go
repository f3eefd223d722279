// Package collision detects overlapping particles and resolves them with an
// equal-mass impulse model, and keeps particles inside the bounding cube.
//
// Detection is brute force over every unordered pair. Pairs are visited in
// ascending (i, j) order and each resolution is applied immediately, so later
// pairs see the velocities and positions produced by earlier ones.
//
// The impulse is applied only to approaching pairs, but the 0.51·overlap
// positional correction is applied to every overlapping pair, separating
// ones included, so resting overlaps also drain away.
package collision

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Vec3 = vecmath.Vec3

// unitX is the contact normal used when two centres coincide.
var unitX = Vec3{1, 0, 0}

// Stats summarizes one resolution pass.
type Stats struct {
	Pairs      int
	Contacts   int
	Impulses   int
	MaxOverlap float64
}

// Resolver applies impulse response with a restitution coefficient in [0, 1].
type Resolver struct {
	Restitution float64
}

func NewResolver(restitution float64) *Resolver {
	return &Resolver{Restitution: restitution}
}

// Resolve runs one pass over all pairs i < j. An overlapping pair that is
// approaching receives the impulse J = -(1+e)·v_rel/2 along the normal; every
// overlapping pair is pushed apart by CollisionBias times the overlap on each
// side, which over-corrects slightly so the pair ends up separated.
func (r *Resolver) Resolve(set *particles.Set) Stats {
	var st Stats
	n := set.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			st.Pairs++
			r.resolvePair(set, i, j, &st)
		}
	}
	return st
}

func (r *Resolver) resolvePair(set *particles.Set, i, j int, st *Stats) {
	delta := set.Position[j].Sub(set.Position[i])
	dist := vecmath.Length(delta)
	reach := set.Radius[i] + set.Radius[j]
	if dist >= reach {
		return
	}
	st.Contacts++
	overlap := reach - dist
	if overlap > st.MaxOverlap {
		st.MaxOverlap = overlap
	}

	normal := vecmath.Normalize(delta)
	if normal == (Vec3{}) {
		normal = unitX
	}

	vRel := vecmath.Dot(set.Velocity[j].Sub(set.Velocity[i]), normal)
	if vRel < 0 {
		impulse := -(1 + r.Restitution) * vRel / 2
		set.Velocity[i] = vecmath.AddScaled(set.Velocity[i], normal, -impulse)
		set.Velocity[j] = vecmath.AddScaled(set.Velocity[j], normal, impulse)
		st.Impulses++
	}

	push := dynamo.CollisionBias * overlap
	set.Position[i] = vecmath.AddScaled(set.Position[i], normal, -push)
	set.Position[j] = vecmath.AddScaled(set.Position[j], normal, push)
}

// ResolveUntilSeparated repeats Resolve until a pass finds no contacts or
// maxIter passes have run. It returns the number of passes and whether the
// set ended free of overlaps.
func (r *Resolver) ResolveUntilSeparated(set *particles.Set, maxIter int) (int, bool) {
	for it := 1; it <= maxIter; it++ {
		if st := r.Resolve(set); st.Contacts == 0 {
			return it, true
		}
	}
	return maxIter, Overlaps(set) == 0
}

// Overlaps counts the overlapping pairs without changing anything.
func Overlaps(set *particles.Set) int {
	count := 0
	n := set.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if vecmath.Distance(set.Position[i], set.Position[j]) < set.Radius[i]+set.Radius[j] {
				count++
			}
		}
	}
	return count
}
