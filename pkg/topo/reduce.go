package topo

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Plan is the outcome of [ReduceCoordination]: which throats to delete and
// what the deletion achieves. Computing a plan has no side effects; nothing
// is removed until [Plan.Apply].
type Plan struct {
	// Remove holds the throat indices to delete, ascending.
	Remove []int

	// Protected holds the spanning-forest throat indices, ascending. These
	// are never members of Remove.
	Protected []int

	// Target is the requested average coordination.
	Target float64

	// Achieved is the average coordination the graph will have once the
	// plan is applied.
	Achieved float64

	// Shortfall counts removals that could not be planned because only
	// spanning-forest throats remained. Zero when the target was reached.
	Shortfall int
}

// Apply commits the plan against the graph it was computed from, deleting
// every throat in Remove. Applying a plan to a graph that has changed since
// the plan was computed deletes the wrong throats.
func (p *Plan) Apply(g Graph) error {
	return g.RemoveThroats(p.Remove)
}

// ReduceCoordination plans a reduction of the graph's average coordination
// number to approximately z by deleting randomly selected throats.
//
// A spanning forest is computed first and protected, so connectivity is
// preserved for any seed: the result is connected exactly when the input
// was. The number of deletions is m - n*z/2 rounded down, drawn uniformly
// without replacement from the unprotected throats. If the pool runs out
// before the target is met, the plan stops at the spanning tree, whose
// average coordination 2*(n-1)/n is the reachable floor, and records the
// difference in [Plan.Shortfall]. A target at or above the current average
// plans no removals.
//
// The same graph, target and seed always yield the identical plan.
//
// Returns ErrTargetCoordination if z is not positive, or ErrDisconnected if
// the graph has more than one connected component.
func ReduceCoordination(g Graph, z float64, seed uint64) (*Plan, error) {
	if z <= 0 {
		return nil, fmt.Errorf("z = %v: %w", z, ErrTargetCoordination)
	}
	if comps := Components(g); len(comps) > 1 {
		return nil, fmt.Errorf("%d components: %w", len(comps), ErrDisconnected)
	}

	n := g.PoreCount()
	m := g.ThroatCount()
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	forest := SpanningForest(g, rng)
	protected := make([]bool, m)
	for _, t := range forest {
		protected[t] = true
	}
	pool := make([]int, 0, m-len(forest))
	for t := 0; t < m; t++ {
		if !protected[t] {
			pool = append(pool, t)
		}
	}

	trim := int(float64(m) - float64(n)*z/2)
	if trim < 0 {
		trim = 0
	}
	shortfall := 0
	if trim > len(pool) {
		shortfall = trim - len(pool)
		trim = len(pool)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	remove := slices.Clone(pool[:trim])
	slices.Sort(remove)

	achieved := 0.0
	if n > 0 {
		achieved = 2 * float64(m-len(remove)) / float64(n)
	}
	return &Plan{
		Remove:    remove,
		Protected: forest,
		Target:    z,
		Achieved:  achieved,
		Shortfall: shortfall,
	}, nil
}
