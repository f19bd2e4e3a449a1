package topo

import (
	"fmt"
	"slices"
)

// Trim deletes the given throats from the graph with no connectivity guard:
// the caller is responsible for not disconnecting pores. Duplicate indices
// are collapsed, so each throat is removed at most once.
//
// Returns ErrThroatIndex if any index is outside [0, ThroatCount), in which
// case nothing is removed.
func Trim(g Graph, throats []int) error {
	if len(throats) == 0 {
		return nil
	}
	m := g.ThroatCount()
	unique := slices.Clone(throats)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	for _, t := range unique {
		if t < 0 || t >= m {
			return fmt.Errorf("throat %d of %d: %w", t, m, ErrThroatIndex)
		}
	}
	return g.RemoveThroats(unique)
}
