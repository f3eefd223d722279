package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/particles"
	"gonum.org/v1/gonum/stat"
)

// Containment is the fraction of observed steps in which every particle
// centre was inside the cube.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s particles.Snapshot) {
	c.samples++
	half := s.CubeSize / 2
	for _, p := range s.Positions {
		if math.Abs(p[0]) > half || math.Abs(p[1]) > half || math.Abs(p[2]) > half {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Spread is the standard deviation of the particles' distances from their
// centroid at the last observed step.
type Spread struct {
	name string
	last float64
	dist []float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(snap particles.Snapshot) {
	n := snap.Len()
	if n < 2 {
		s.last = 0
		return
	}
	var c particles.Vec3
	for _, p := range snap.Positions {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(n))

	if cap(s.dist) < n {
		s.dist = make([]float64, n)
	}
	s.dist = s.dist[:n]
	for i, p := range snap.Positions {
		s.dist[i] = p.Sub(c).Len()
	}
	s.last = stat.StdDev(s.dist, nil)
}

func (s *Spread) Value() float64 { return s.last }
func (s *Spread) Reset()         { s.last = 0 }
