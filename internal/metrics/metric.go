// Package metrics reduces a run to scalar summaries. A Metric is fed one
// particles.Snapshot per step and reports a single value.
package metrics

import "github.com/san-kum/particlesim/internal/particles"

type Metric interface {
	Name() string
	Observe(s particles.Snapshot)
	Value() float64
	Reset()
}

// Defaults is the set the CLI and the experiment runner attach to every run.
func Defaults() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewMinSeparation(),
		NewOverlaps(),
		NewContainment(),
		NewSpread(),
	}
}

// ByName returns a fresh metric for one of the names Defaults uses.
func ByName(name string) (Metric, bool) {
	for _, m := range Defaults() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Kinetic is ½Σ|v|² with unit mass.
func Kinetic(s particles.Snapshot) float64 {
	e := 0.0
	for _, v := range s.Velocities {
		e += 0.5 * v.Dot(v)
	}
	return e
}
