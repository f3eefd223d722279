package integrators

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/forces"
	"github.com/san-kum/particlesim/internal/particles"
)

// RK4 is the classical fourth-order Runge-Kutta scheme applied per particle.
// Each particle's four stages are evaluated with every other particle held at
// its frame-start position; results are buffered and written back only after
// all particles have been integrated.
type RK4 struct {
	pos, vel, acc []Vec3
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Scheme() dynamo.Scheme { return dynamo.SchemeRK4 }

func (r *RK4) ensureScratch(n int) {
	r.pos = grow(r.pos, n)
	r.vel = grow(r.vel, n)
	r.acc = grow(r.acc, n)
}

func (r *RK4) Advance(set *particles.Set, field *forces.Field, cfg *dynamo.Config, dt float64) error {
	dt = cfg.EffectiveStep(dynamo.SchemeRK4, dt)
	r.ensureScratch(set.Len())

	for i := range set.Position {
		p, v, a, err := r.particle(field, i, set.Position[i], set.Velocity[i], dt)
		if err != nil {
			return err
		}
		r.pos[i], r.vel[i], r.acc[i] = p, v, a
	}

	for i := range set.Position {
		set.PrevPosition[i] = set.Position[i]
		set.Position[i] = r.pos[i]
		set.Velocity[i] = r.vel[i]
		set.Acceleration[i] = r.acc[i]
	}
	dampen(set, cfg.Dampening)
	return nil
}

// particle integrates the state (x, v) of particle i with dx/dt = v and
// dv/dt = a(x). The returned acceleration is the first-stage one.
func (r *RK4) particle(field *forces.Field, i int, x, v Vec3, dt float64) (Vec3, Vec3, Vec3, error) {
	half := dt * 0.5

	a1, err := field.AccelerationAt(i, x)
	if err != nil {
		return x, v, Vec3{}, err
	}
	k1x, k1v := v, a1

	a2, err := field.AccelerationAt(i, x.Add(k1x.Mul(half)))
	if err != nil {
		return x, v, Vec3{}, err
	}
	k2x, k2v := v.Add(k1v.Mul(half)), a2

	a3, err := field.AccelerationAt(i, x.Add(k2x.Mul(half)))
	if err != nil {
		return x, v, Vec3{}, err
	}
	k3x, k3v := v.Add(k2v.Mul(half)), a3

	a4, err := field.AccelerationAt(i, x.Add(k3x.Mul(dt)))
	if err != nil {
		return x, v, Vec3{}, err
	}
	k4x, k4v := v.Add(k3v.Mul(dt)), a4

	dt6 := dt / 6.0
	dx := k1x.Add(k2x.Mul(2)).Add(k3x.Mul(2)).Add(k4x)
	dv := k1v.Add(k2v.Mul(2)).Add(k3v.Mul(2)).Add(k4v)
	return x.Add(dx.Mul(dt6)), v.Add(dv.Mul(dt6)), a1, nil
}
