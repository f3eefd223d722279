package percolation

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/graph"
)

// Edges is the part of a simulation the driver mutates. Mutating through it
// keeps any degree-derived state of the owner current.
type Edges interface {
	AddEdge(i, j int) (bool, error)
	RemoveEdge(i, j int) (bool, error)
}

// Driver switches candidate bonds on and off against a threshold.
type Driver struct {
	target     Edges
	candidates []Candidate
	source     Source
	threshold  float64
}

func NewDriver(target Edges, candidates []Candidate, source Source) *Driver {
	if source == nil {
		source = NewSine()
	}
	return &Driver{target: target, candidates: candidates, source: source}
}

// Change counts the bonds one update switched.
type Change struct {
	Threshold float64
	Added     int
	Removed   int
}

func (c Change) Changed() bool { return c.Added+c.Removed > 0 }

// Tick draws the next threshold from the source and applies it.
func (d *Driver) Tick() (Change, error) {
	return d.Update(d.source.Next())
}

// Update adds every candidate with potential <= threshold and removes every
// other one. Bonds already in the wanted state are left alone.
func (d *Driver) Update(threshold float64) (Change, error) {
	d.threshold = threshold
	ch := Change{Threshold: threshold}
	for _, c := range d.candidates {
		if c.Potential <= threshold {
			added, err := d.target.AddEdge(c.I, c.J)
			if err != nil {
				return ch, fmt.Errorf("percolation: add %d-%d: %w", c.I, c.J, err)
			}
			if added {
				ch.Added++
			}
			continue
		}
		removed, err := d.target.RemoveEdge(c.I, c.J)
		if err != nil {
			return ch, fmt.Errorf("percolation: remove %d-%d: %w", c.I, c.J, err)
		}
		if removed {
			ch.Removed++
		}
	}
	return ch, nil
}

func (d *Driver) Threshold() float64      { return d.threshold }
func (d *Driver) Candidates() []Candidate { return d.candidates }

// Largest is the size of the biggest cluster in g.
func Largest(g *graph.Graph) int {
	best := 0
	for _, c := range graph.Clusters(g).Components() {
		if len(c) > best {
			best = len(c)
		}
	}
	return best
}

// Spans reports whether some cluster of a rows x cols lattice touches both
// the first and the last column.
func Spans(g *graph.Graph, rows, cols int) bool {
	uf := graph.Clusters(g)
	left := make(map[int]bool, rows)
	for r := 0; r < rows; r++ {
		left[uf.Find(r*cols)] = true
	}
	for r := 0; r < rows; r++ {
		if left[uf.Find(r*cols+cols-1)] {
			return true
		}
	}
	return false
}
