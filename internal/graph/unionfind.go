package graph

import "sort"

// UnionFind is a disjoint-set forest with union by rank and path compression.
type UnionFind struct {
	parent []int
	rank   []int
	sets   int
}

func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		sets:   n,
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Find returns the representative of u's set.
func (uf *UnionFind) Find(u int) int {
	root := u
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[u] != root {
		next := uf.parent[u]
		uf.parent[u] = root
		u = next
	}
	return root
}

// Union merges the sets of u and v and reports whether they were distinct.
func (uf *UnionFind) Union(u, v int) bool {
	ru, rv := uf.Find(u), uf.Find(v)
	if ru == rv {
		return false
	}
	if uf.rank[ru] > uf.rank[rv] {
		ru, rv = rv, ru
	}
	uf.parent[ru] = rv
	if uf.rank[ru] == uf.rank[rv] {
		uf.rank[rv]++
	}
	uf.sets--
	return true
}

func (uf *UnionFind) Connected(u, v int) bool { return uf.Find(u) == uf.Find(v) }

// Sets is the number of disjoint sets.
func (uf *UnionFind) Sets() int { return uf.sets }

// Components groups vertices by set. Each component is sorted and the
// components are ordered by their smallest member.
func (uf *UnionFind) Components() [][]int {
	byRoot := make(map[int][]int)
	for i := range uf.parent {
		r := uf.Find(i)
		byRoot[r] = append(byRoot[r], i)
	}
	out := make([][]int, 0, len(byRoot))
	for _, c := range byRoot {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

// Clusters builds a UnionFind over the current edges of g.
func Clusters(g *Graph) *UnionFind {
	uf := NewUnionFind(g.Len())
	for _, e := range g.Edges() {
		uf.Union(e.I, e.J)
	}
	return uf
}
