package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/particles"
)

// MinSeparation is the smallest surface gap |p_i - p_j| - r_i - r_j seen
// over all pairs and all observed steps. Negative values mean overlap.
type MinSeparation struct {
	name string
	min  float64
	seen bool
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation"}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(s particles.Snapshot) {
	gap, ok := smallestGap(s)
	if !ok {
		return
	}
	if !m.seen || gap < m.min {
		m.min = gap
		m.seen = true
	}
}

func (m *MinSeparation) Value() float64 {
	if !m.seen {
		return math.Inf(1)
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = 0
	m.seen = false
}

// Overlaps is the number of overlapping pairs at the last observed step.
type Overlaps struct {
	name string
	last int
}

func NewOverlaps() *Overlaps {
	return &Overlaps{name: "overlaps"}
}

func (o *Overlaps) Name() string { return o.name }

func (o *Overlaps) Observe(s particles.Snapshot) {
	o.last = 0
	n := s.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if s.Positions[i].Sub(s.Positions[j]).Len() < s.Radii[i]+s.Radii[j] {
				o.last++
			}
		}
	}
}

func (o *Overlaps) Value() float64 { return float64(o.last) }
func (o *Overlaps) Reset()         { o.last = 0 }

func smallestGap(s particles.Snapshot) (float64, bool) {
	n := s.Len()
	if n < 2 {
		return 0, false
	}
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			gap := s.Positions[i].Sub(s.Positions[j]).Len() - s.Radii[i] - s.Radii[j]
			if gap < best {
				best = gap
			}
		}
	}
	return best, true
}
