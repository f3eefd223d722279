// Package percolation drives bond percolation on the simulation graph.
//
// Every candidate bond carries a fixed random potential in [0, 1). On each
// update the driver makes the present bonds exactly those whose potential is
// at or below the current threshold, so sweeping the threshold walks the
// graph through its percolation transition. Clusters are tracked with the
// union-find in package graph.
package percolation

import (
	"math/rand"

	"github.com/san-kum/particlesim/internal/vecmath"
	"gonum.org/v1/gonum/floats"
)

// Candidate is a bond that may be switched on.
type Candidate struct {
	I, J      int
	Potential float64
}

// Within returns every pair i < j whose centres are no further apart than
// cutoff, each with a potential drawn from rng.
func Within(positions []vecmath.Vec3, cutoff float64, rng *rand.Rand) []Candidate {
	var out []Candidate
	for i := range positions {
		a := positions[i]
		for j := i + 1; j < len(positions); j++ {
			b := positions[j]
			if floats.Distance(a[:], b[:], 2) <= cutoff {
				out = append(out, Candidate{I: i, J: j, Potential: rng.Float64()})
			}
		}
	}
	return out
}

// Lattice returns the four-neighbour bonds of a rows x cols grid with
// vertices numbered row-major.
func Lattice(rows, cols int, rng *rand.Rand) []Candidate {
	var out []Candidate
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := r*cols + c
			if c+1 < cols {
				out = append(out, Candidate{I: v, J: v + 1, Potential: rng.Float64()})
			}
			if r+1 < rows {
				out = append(out, Candidate{I: v, J: v + cols, Potential: rng.Float64()})
			}
		}
	}
	return out
}

// LatticePositions lays a rows x cols grid in the z = 0 plane, centred on the
// origin with the given spacing, in the numbering Lattice uses.
func LatticePositions(rows, cols int, spacing float64) []vecmath.Vec3 {
	out := make([]vecmath.Vec3, 0, rows*cols)
	x0 := -spacing * float64(cols-1) / 2
	y0 := -spacing * float64(rows-1) / 2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, vecmath.New(x0+spacing*float64(c), y0+spacing*float64(r), 0))
		}
	}
	return out
}

// Potentials extracts the potentials in candidate order.
func Potentials(cands []Candidate) []float64 {
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.Potential
	}
	return out
}

// CriticalFraction is the fraction of candidates whose potential is at or
// below threshold, i.e. the bond occupancy the threshold produces.
func CriticalFraction(cands []Candidate, threshold float64) float64 {
	if len(cands) == 0 {
		return 0
	}
	p := Potentials(cands)
	n := floats.Count(func(v float64) bool { return v <= threshold }, p)
	return float64(n) / float64(len(p))
}
