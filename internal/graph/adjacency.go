// Package graph implements the symmetric adjacency relation that carries
// spring edges between particles, and the union-find used to colour the
// connected clusters it forms.
//
// The relation is stored as a dense boolean matrix. Every mutation keeps
// adj[i][j] == adj[j][i], rejects self-loops and out-of-range indices, and
// updates a cached degree per vertex. Version increases on every effective
// change so consumers can tell when degree-derived values are stale.
//
// Complexity: AddEdge, RemoveEdge, HasEdge and Degree are O(1); Neighbors is
// O(N); Edges is O(N²). Memory is O(N²).
package graph

import (
	"errors"
	"fmt"

	"github.com/san-kum/particlesim/internal/dynamo"
)

var (
	// ErrIndexOutOfRange is dynamo.ErrIndexOutOfRange, re-exported for callers
	// that only import this package.
	ErrIndexOutOfRange = dynamo.ErrIndexOutOfRange
	// ErrSelfLoop is dynamo.ErrSelfLoop.
	ErrSelfLoop = dynamo.ErrSelfLoop
	// ErrNegativeSize indicates a graph requested with fewer than zero vertices.
	ErrNegativeSize = errors.New("graph: vertex count must not be negative")
)

// Edge is an unordered pair stored with I < J.
type Edge struct {
	I, J int
}

// Graph is a symmetric boolean relation over [0, N).
type Graph struct {
	adj     [][]bool
	degree  []int
	edges   int
	version uint64
}

// New returns an edgeless graph over n vertices.
func New(n int) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeSize, n)
	}
	g := &Graph{
		adj:    make([][]bool, n),
		degree: make([]int, n),
	}
	for i := range g.adj {
		g.adj[i] = make([]bool, n)
	}
	return g, nil
}

func (g *Graph) Len() int { return len(g.adj) }

func (g *Graph) check(i, j int) error {
	n := len(g.adj)
	if i < 0 || i >= n {
		return dynamo.IndexError(i, n)
	}
	if j < 0 || j >= n {
		return dynamo.IndexError(j, n)
	}
	if i == j {
		return fmt.Errorf("%w: vertex %d", ErrSelfLoop, i)
	}
	return nil
}

// AddEdge links i and j. It reports whether the relation changed; adding an
// edge that already exists is not an error.
func (g *Graph) AddEdge(i, j int) (bool, error) {
	if err := g.check(i, j); err != nil {
		return false, err
	}
	if g.adj[i][j] {
		return false, nil
	}
	g.adj[i][j] = true
	g.adj[j][i] = true
	g.degree[i]++
	g.degree[j]++
	g.edges++
	g.version++
	return true, nil
}

// RemoveEdge unlinks i and j, reporting whether the relation changed.
func (g *Graph) RemoveEdge(i, j int) (bool, error) {
	if err := g.check(i, j); err != nil {
		return false, err
	}
	if !g.adj[i][j] {
		return false, nil
	}
	g.adj[i][j] = false
	g.adj[j][i] = false
	g.degree[i]--
	g.degree[j]--
	g.edges--
	g.version++
	return true, nil
}

// HasEdge reports adjacency. Out-of-range indices and i == j report false.
func (g *Graph) HasEdge(i, j int) bool {
	n := len(g.adj)
	if i < 0 || i >= n || j < 0 || j >= n {
		return false
	}
	return g.adj[i][j]
}

// Row returns the adjacency row of i for read-only iteration in hot loops.
func (g *Graph) Row(i int) []bool { return g.adj[i] }

func (g *Graph) Degree(i int) int { return g.degree[i] }

// Degrees returns a copy of the degree cache.
func (g *Graph) Degrees() []int {
	return append([]int(nil), g.degree...)
}

func (g *Graph) EdgeCount() int { return g.edges }

// Version increases on every change to the relation.
func (g *Graph) Version() uint64 { return g.version }

// Neighbors lists the vertices adjacent to i in ascending order.
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for j, ok := range g.adj[i] {
		if ok {
			out = append(out, j)
		}
	}
	return out
}

// Edges lists every edge once, ordered by (I, J).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i := range g.adj {
		for j := i + 1; j < len(g.adj); j++ {
			if g.adj[i][j] {
				out = append(out, Edge{I: i, J: j})
			}
		}
	}
	return out
}

// Clear removes every edge.
func (g *Graph) Clear() {
	if g.edges == 0 {
		return
	}
	for i := range g.adj {
		for j := range g.adj[i] {
			g.adj[i][j] = false
		}
		g.degree[i] = 0
	}
	g.edges = 0
	g.version++
}
