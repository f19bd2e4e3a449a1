package topo

import (
	"math/rand/v2"
	"slices"
)

// dsu is a disjoint-set forest with path compression and union by rank.
type dsu struct {
	parent []int
	rank   []int
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *dsu) find(u int) int {
	for d.parent[u] != u {
		d.parent[u] = d.parent[d.parent[u]] // path halving
		u = d.parent[u]
	}
	return u
}

// union merges the sets of u and v. Reports false if they were already in
// the same set.
func (d *dsu) union(u, v int) bool {
	ru, rv := d.find(u), d.find(v)
	if ru == rv {
		return false
	}
	if d.rank[ru] < d.rank[rv] {
		ru, rv = rv, ru
	}
	d.parent[rv] = ru
	if d.rank[ru] == d.rank[rv] {
		d.rank[ru]++
	}
	return true
}

// Components returns the connected components of the graph as pore index
// lists. Components are ordered by their smallest member and each list is
// ascending. A graph with no pores has no components; isolated pores form
// singleton components.
func Components(g Graph) [][]int {
	n := g.PoreCount()
	d := newDSU(n)
	for _, c := range g.Throats() {
		d.union(c[0], c[1])
	}

	index := make(map[int]int, n)
	var comps [][]int
	for p := 0; p < n; p++ {
		root := d.find(p)
		i, ok := index[root]
		if !ok {
			i = len(comps)
			index[root] = i
			comps = append(comps, nil)
		}
		comps[i] = append(comps[i], p)
	}
	return comps
}

// SpanningForest returns the indices of a set of throats forming a spanning
// forest: within every connected component the chosen throats connect all
// pores without cycles. Self loops are never chosen.
//
// Throats are considered in a random order drawn from rng, so distinct
// seeds yield distinct forests; a nil rng uses index order. The returned
// indices are sorted ascending. Kruskal with union-find, O(m α(n)).
func SpanningForest(g Graph, rng *rand.Rand) []int {
	conns := g.Throats()
	order := make([]int, len(conns))
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	d := newDSU(g.PoreCount())
	var forest []int
	for _, t := range order {
		if d.union(conns[t][0], conns[t][1]) {
			forest = append(forest, t)
		}
	}
	slices.Sort(forest)
	return forest
}
