package topo

// Health summarizes structural defects of a network. All index lists are
// ascending; an empty field means no defect of that kind was found.
type Health struct {
	// IsolatedPores lists pores with no throats at all.
	IsolatedPores []int

	// Clusters lists every connected component, ordered by smallest member.
	// A healthy network has exactly one.
	Clusters [][]int

	// SelfLoops lists throats connecting a pore to itself.
	SelfLoops []int

	// DuplicateThroats lists throats repeating an earlier pore pair. The
	// first occurrence of each pair is not reported.
	DuplicateThroats []int
}

// OK reports whether the network is free of isolated pores, extra clusters,
// self loops and duplicate throats.
func (h Health) OK() bool {
	return len(h.IsolatedPores) == 0 &&
		len(h.Clusters) <= 1 &&
		len(h.SelfLoops) == 0 &&
		len(h.DuplicateThroats) == 0
}

// CheckHealth inspects the graph for the defects that typically break
// downstream algorithms: isolated pores and split clusters invalidate
// transport calculations, self loops and duplicate throats skew
// coordination statistics. The graph is not modified.
func CheckHealth(g Graph) Health {
	var h Health
	h.Clusters = Components(g)

	conns := g.Throats()
	degree := make([]int, g.PoreCount())
	seen := make(map[[2]int]bool, len(conns))
	for t, c := range conns {
		degree[c[0]]++
		degree[c[1]]++
		if c[0] == c[1] {
			h.SelfLoops = append(h.SelfLoops, t)
		}
		pair := c
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		if seen[pair] {
			h.DuplicateThroats = append(h.DuplicateThroats, t)
		}
		seen[pair] = true
	}
	for p, d := range degree {
		if d == 0 {
			h.IsolatedPores = append(h.IsolatedPores, p)
		}
	}
	return h
}
