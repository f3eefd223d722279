package percolation

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
)

// Source yields the threshold for the next update.
type Source interface {
	Next() float64
}

// Fixed always returns the same threshold.
type Fixed float64

func (f Fixed) Next() float64 { return float64(f) }

// Sine oscillates as 0.5 + 0.5·sin(phase), advancing phase by Speed each
// call and wrapping at 2π.
type Sine struct {
	Phase float64
	Speed float64
}

func NewSine() *Sine {
	return &Sine{Speed: 0.01}
}

func (s *Sine) Next() float64 {
	s.Phase += s.Speed
	if s.Phase >= 2*math.Pi {
		s.Phase = 0
	}
	return 0.5 + 0.5*math.Sin(s.Phase)
}

// Noise wanders smoothly through [0, 1] following 1D Perlin noise.
type Noise struct {
	p     *perlin.Perlin
	t     float64
	Speed float64
}

func NewNoise(seed int64) *Noise {
	return &Noise{p: perlin.NewPerlin(2, 2, 3, seed), Speed: 0.05}
}

func (n *Noise) Next() float64 {
	n.t += n.Speed
	v := 0.5 + 0.5*n.p.Noise1D(n.t)
	return math.Max(0, math.Min(1, v))
}
