package sim

import (
	"image/color"
	"math"

	"github.com/san-kum/particlesim/internal/graph"
)

// Clusters labels each particle with the smallest member index of its
// connected component. A cluster keeps its label, and so its color, until
// an edge change merges it with or splits it from another.
func (s *Simulation) Clusters() []int {
	labels := make([]int, s.set.Len())
	for _, comp := range graph.Clusters(s.graph).Components() {
		for _, i := range comp {
			labels[i] = comp[0]
		}
	}
	return labels
}

// Colors assigns one color per connected component. Isolated particles share
// the neutral color.
func (s *Simulation) Colors() []color.RGBA {
	labels := s.Clusters()
	out := make([]color.RGBA, len(labels))
	for i, l := range labels {
		if s.graph.Degree(i) == 0 {
			out[i] = Neutral
			continue
		}
		out[i] = ClusterColor(l)
	}
	return out
}

var Neutral = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// ClusterColor spreads hues by the golden angle so neighbouring labels are
// easy to tell apart.
func ClusterColor(label int) color.RGBA {
	h := math.Mod(float64(label)*137.508, 360)
	return hsv(h, 0.65, 0.95)
}

func hsv(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
