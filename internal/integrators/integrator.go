// Package integrators advances a particle set by one step under a force field.
//
// Every scheme reads accelerations from a forces.Field, records each
// particle's position in PrevPosition before moving it, applies the
// configured dampening to velocities once at the end of the step and leaves
// the set fully updated. A scheme never observes a half-updated set: forces
// for a stage are evaluated against one consistent configuration.
package integrators

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/forces"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Vec3 = vecmath.Vec3

// Integrator advances set by dt. A dt of zero selects the scheme's default
// step (see dynamo.Config.EffectiveStep).
type Integrator interface {
	Scheme() dynamo.Scheme
	Advance(set *particles.Set, field *forces.Field, cfg *dynamo.Config, dt float64) error
}

// New returns a fresh integrator for s. Integrators keep scratch buffers and
// must not be shared between simulations.
func New(s dynamo.Scheme) (Integrator, error) {
	switch s {
	case dynamo.SchemeEuler:
		return NewEuler(), nil
	case dynamo.SchemeVerlet:
		return NewVerlet(), nil
	case dynamo.SchemeRK4:
		return NewRK4(), nil
	}
	return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownScheme, s)
}

func grow(buf []Vec3, n int) []Vec3 {
	if len(buf) != n {
		return make([]Vec3, n)
	}
	return buf
}

func dampen(set *particles.Set, factor float64) {
	for i := range set.Velocity {
		set.Velocity[i] = set.Velocity[i].Mul(factor)
	}
}
