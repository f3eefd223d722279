package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/particles"
)

// KineticEnergy is the mean kinetic energy over the observed steps.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s particles.Snapshot) {
	e.total += Kinetic(s)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of kinetic energy from the
// first observed sample. A run starting at rest reports absolute change.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s particles.Snapshot) {
	energy := Kinetic(s)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initial)
	if e.initial != 0 {
		drift /= math.Abs(e.initial)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// Momentum is |Σv| at the last observed step.
type Momentum struct {
	name string
	last float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s particles.Snapshot) {
	var p particles.Vec3
	for _, v := range s.Velocities {
		p = p.Add(v)
	}
	m.last = p.Len()
}

func (m *Momentum) Value() float64 { return m.last }
func (m *Momentum) Reset()         { m.last = 0 }
