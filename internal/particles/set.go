// Package particles owns the per-particle state of a simulation.
//
// State is kept as parallel slices indexed by particle number rather than as
// a slice of structs, so the force and collision loops walk contiguous
// memory and every other package refers to a particle by its index alone.
// The slices are created once with a fixed length N and never resized.
package particles

import (
	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/vecmath"
)

type Vec3 = vecmath.Vec3

// Set is the struct-of-arrays particle store.
type Set struct {
	Position     []Vec3
	Velocity     []Vec3
	Acceleration []Vec3
	PrevPosition []Vec3
	Radius       []float64

	BaseRadius float64
}

// New allocates n particles at the origin with radius baseRadius.
func New(n int, baseRadius float64) *Set {
	s := &Set{
		Position:     make([]Vec3, n),
		Velocity:     make([]Vec3, n),
		Acceleration: make([]Vec3, n),
		PrevPosition: make([]Vec3, n),
		Radius:       make([]float64, n),
		BaseRadius:   baseRadius,
	}
	for i := range s.Radius {
		s.Radius[i] = baseRadius
	}
	return s
}

func (s *Set) Len() int { return len(s.Position) }

// InRange reports whether i addresses a particle.
func (s *Set) InRange(i int) bool { return i >= 0 && i < len(s.Position) }

// Check returns an index error when i is out of range.
func (s *Set) Check(i int) error {
	if !s.InRange(i) {
		return dynamo.IndexError(i, s.Len())
	}
	return nil
}

// Place puts particle i at p with velocity v and resets its history.
func (s *Set) Place(i int, p, v Vec3) {
	s.Position[i] = p
	s.PrevPosition[i] = p
	s.Velocity[i] = v
	s.Acceleration[i] = Vec3{}
}

// ScaleRadii recomputes radius_i = base * (1 + k*degree_i). With k == 0
// every radius returns to the base radius.
func (s *Set) ScaleRadii(degrees []int, k float64) {
	for i := range s.Radius {
		d := 0
		if i < len(degrees) {
			d = degrees[i]
		}
		s.Radius[i] = s.BaseRadius * (1 + k*float64(d))
	}
}

// Valid reports whether every position and velocity is finite.
func (s *Set) Valid() bool {
	for i := range s.Position {
		if !vecmath.IsFinite(s.Position[i]) || !vecmath.IsFinite(s.Velocity[i]) {
			return false
		}
	}
	return true
}

// Snapshot is a read-only copy of the state a host renderer needs.
type Snapshot struct {
	Step       int
	Positions  []Vec3
	Velocities []Vec3
	Radii      []float64
	CubeSize   float64
}

func (s *Set) Snapshot() Snapshot {
	snap := Snapshot{
		Positions:  make([]Vec3, len(s.Position)),
		Velocities: make([]Vec3, len(s.Velocity)),
		Radii:      make([]float64, len(s.Radius)),
	}
	copy(snap.Positions, s.Position)
	copy(snap.Velocities, s.Velocity)
	copy(snap.Radii, s.Radius)
	return snap
}

// Len is the particle count of the snapshot.
func (sn Snapshot) Len() int { return len(sn.Positions) }

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{
		Position:     append([]Vec3(nil), s.Position...),
		Velocity:     append([]Vec3(nil), s.Velocity...),
		Acceleration: append([]Vec3(nil), s.Acceleration...),
		PrevPosition: append([]Vec3(nil), s.PrevPosition...),
		Radius:       append([]float64(nil), s.Radius...),
		BaseRadius:   s.BaseRadius,
	}
	return c
}
