package integrators

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/forces"
	"github.com/san-kum/particlesim/internal/particles"
)

// Verlet is velocity Verlet. Positions of all particles advance before the
// new accelerations are taken, so a_new sees the fully advanced
// configuration.
type Verlet struct {
	prevAcc []Vec3
	newAcc  []Vec3
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Scheme() dynamo.Scheme { return dynamo.SchemeVerlet }

func (v *Verlet) ensureScratch(n int) {
	v.prevAcc = grow(v.prevAcc, n)
	v.newAcc = grow(v.newAcc, n)
}

func (v *Verlet) Advance(set *particles.Set, field *forces.Field, cfg *dynamo.Config, dt float64) error {
	dt = cfg.EffectiveStep(dynamo.SchemeVerlet, dt)
	v.ensureScratch(set.Len())

	if err := field.AccelerationsInto(v.prevAcc); err != nil {
		return err
	}

	halfDt2 := 0.5 * dt * dt
	for i := range set.Position {
		set.PrevPosition[i] = set.Position[i]
		step := set.Velocity[i].Mul(dt).Add(v.prevAcc[i].Mul(halfDt2))
		set.Position[i] = set.Position[i].Add(step)
	}

	if err := field.AccelerationsInto(v.newAcc); err != nil {
		return err
	}

	halfDt := 0.5 * dt
	for i := range set.Velocity {
		set.Velocity[i] = set.Velocity[i].Add(v.prevAcc[i].Add(v.newAcc[i]).Mul(halfDt))
		set.Acceleration[i] = v.newAcc[i]
	}
	dampen(set, cfg.Dampening)
	return nil
}
