package integrators

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/forces"
	"github.com/san-kum/particlesim/internal/particles"
)

// Euler is the symplectic (semi-implicit) Euler scheme: velocity first, then
// position from the new velocity.
type Euler struct {
	acc []Vec3
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Scheme() dynamo.Scheme { return dynamo.SchemeEuler }

func (e *Euler) Advance(set *particles.Set, field *forces.Field, cfg *dynamo.Config, dt float64) error {
	dt = cfg.EffectiveStep(dynamo.SchemeEuler, dt)
	e.acc = grow(e.acc, set.Len())
	if err := field.AccelerationsInto(e.acc); err != nil {
		return err
	}

	for i := range set.Position {
		set.PrevPosition[i] = set.Position[i]
		set.Acceleration[i] = e.acc[i]
		set.Velocity[i] = set.Velocity[i].Add(e.acc[i].Mul(dt))
		set.Position[i] = set.Position[i].Add(set.Velocity[i].Mul(dt))
	}
	dampen(set, cfg.Dampening)
	return nil
}
