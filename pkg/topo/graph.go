package topo

import "errors"

var (
	// ErrDisconnected is returned by [ReduceCoordination] when the input
	// graph has more than one connected component. A single target
	// coordination is ill-defined across separate components; split the
	// graph or trim it connected first.
	ErrDisconnected = errors.New("graph has more than one connected component")

	// ErrTargetCoordination is returned by [ReduceCoordination] when the
	// target average coordination is not positive.
	ErrTargetCoordination = errors.New("target coordination must be positive")

	// ErrThroatIndex is returned by [Trim] when a throat index is outside
	// [0, ThroatCount).
	ErrThroatIndex = errors.New("throat index out of range")
)

// Graph is the view of a pore network the topology algorithms require.
// Pores are indexed 0..PoreCount()-1 and throats 0..ThroatCount()-1.
//
// RemoveThroats must delete the throats at the given indices and reindex the
// survivors contiguously, preserving their relative order.
type Graph interface {
	PoreCount() int
	ThroatCount() int
	Throats() [][2]int
	RemoveThroats(indices []int) error
}
