package network

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrPoreCount is returned by [New] when the requested pore count is
	// negative.
	ErrPoreCount = errors.New("pore count must not be negative")

	// ErrConnRange is returned by [New] and [Network.Validate] when a throat
	// references a pore index outside [0, PoreCount).
	ErrConnRange = errors.New("throat references nonexistent pore")

	// ErrThroatIndex is returned by [Network.RemoveThroats] and the label
	// setters when a throat index is outside [0, ThroatCount).
	ErrThroatIndex = errors.New("throat index out of range")

	// ErrPoreIndex is returned by the pore label setters when a pore index
	// is outside [0, PoreCount).
	ErrPoreIndex = errors.New("pore index out of range")

	// ErrFieldLength is returned by the property and coordinate setters when
	// the supplied array does not match the pore or throat count.
	ErrFieldLength = errors.New("field length does not match element count")
)

// Network is an indexed pore-throat multigraph with attached labels and
// property arrays. Pore indices are dense in [0, PoreCount) and immutable;
// throat indices are dense in [0, ThroatCount) and compact on removal.
//
// The zero value is not usable. Use [New] or [Cubic].
type Network struct {
	pores  int
	conns  [][2]int
	coords [][3]float64

	poreLabels   map[string][]bool
	throatLabels map[string][]bool
	poreProps    map[string][]float64
	throatProps  map[string][]float64
}

// New creates a network with the given number of pores and an explicit throat
// connection list. Each pair is stored as given (the network is undirected,
// so orientation carries no meaning). Duplicate pairs and self loops are
// permitted; use topo.CheckHealth to detect them.
//
// Returns ErrPoreCount for a negative pore count, or ErrConnRange if any
// connection references a pore outside [0, pores). The conns slice is copied.
func New(pores int, conns [][2]int) (*Network, error) {
	if pores < 0 {
		return nil, ErrPoreCount
	}
	for i, c := range conns {
		if c[0] < 0 || c[0] >= pores || c[1] < 0 || c[1] >= pores {
			return nil, fmt.Errorf("throat %d connects (%d, %d): %w", i, c[0], c[1], ErrConnRange)
		}
	}
	return &Network{
		pores:        pores,
		conns:        slices.Clone(conns),
		poreLabels:   make(map[string][]bool),
		throatLabels: make(map[string][]bool),
		poreProps:    make(map[string][]float64),
		throatProps:  make(map[string][]float64),
	}, nil
}

// PoreCount returns the number of pores.
func (n *Network) PoreCount() int { return n.pores }

// ThroatCount returns the number of throats.
func (n *Network) ThroatCount() int { return len(n.conns) }

// Throats returns a copy of the throat connection list, indexed 0..m-1.
// Modifications to the returned slice do not affect the network.
func (n *Network) Throats() [][2]int { return slices.Clone(n.conns) }

// Conn returns the pore pair of throat i. Panics if i is out of range, like
// a slice index.
func (n *Network) Conn(i int) [2]int { return n.conns[i] }

// Degrees returns the coordination number of every pore. A self loop
// contributes two to its pore's degree.
func (n *Network) Degrees() []int {
	deg := make([]int, n.pores)
	for _, c := range n.conns {
		deg[c[0]]++
		deg[c[1]]++
	}
	return deg
}

// AverageCoordination returns 2m/n, the mean coordination number.
// Returns 0 for a network with no pores.
func (n *Network) AverageCoordination() float64 {
	if n.pores == 0 {
		return 0
	}
	return 2 * float64(len(n.conns)) / float64(n.pores)
}

// RemoveThroats deletes the throats at the given indices and reindexes the
// survivors contiguously, preserving their relative order. Throat labels and
// throat property arrays are compacted in the same pass. Duplicate indices
// are collapsed; an empty index list is a no-op.
//
// Returns ErrThroatIndex if any index is outside [0, ThroatCount), in which
// case the network is left unmodified.
func (n *Network) RemoveThroats(indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	drop := make([]bool, len(n.conns))
	for _, i := range indices {
		if i < 0 || i >= len(n.conns) {
			return fmt.Errorf("throat %d of %d: %w", i, len(n.conns), ErrThroatIndex)
		}
		drop[i] = true
	}

	n.conns = compact(n.conns, drop)
	for name, arr := range n.throatLabels {
		n.throatLabels[name] = compact(arr, drop)
	}
	for name, arr := range n.throatProps {
		n.throatProps[name] = compact(arr, drop)
	}
	return nil
}

// compact keeps the elements of arr whose drop flag is false, in order.
func compact[T any](arr []T, drop []bool) []T {
	out := arr[:0:0]
	for i, v := range arr {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}

// SetCoords assigns pore coordinates. Returns ErrFieldLength if the array
// length does not equal PoreCount. The slice is copied.
func (n *Network) SetCoords(coords [][3]float64) error {
	if len(coords) != n.pores {
		return fmt.Errorf("%d coords for %d pores: %w", len(coords), n.pores, ErrFieldLength)
	}
	n.coords = slices.Clone(coords)
	return nil
}

// Coords returns the pore coordinate array, or nil if none was assigned.
// The returned slice is live; callers must not resize it.
func (n *Network) Coords() [][3]float64 { return n.coords }

// LabelPores marks the given pores with a named label, creating the label on
// first use. Returns ErrPoreIndex if any index is out of range, in which
// case no pores are marked.
func (n *Network) LabelPores(name string, indices []int) error {
	return applyLabel(n.poreLabels, name, indices, n.pores, ErrPoreIndex)
}

// LabelThroats marks the given throats with a named label, creating the
// label on first use. Returns ErrThroatIndex if any index is out of range,
// in which case no throats are marked.
func (n *Network) LabelThroats(name string, indices []int) error {
	return applyLabel(n.throatLabels, name, indices, len(n.conns), ErrThroatIndex)
}

func applyLabel(labels map[string][]bool, name string, indices []int, size int, rangeErr error) error {
	for _, i := range indices {
		if i < 0 || i >= size {
			return fmt.Errorf("label %q index %d of %d: %w", name, i, size, rangeErr)
		}
	}
	arr := labels[name]
	if arr == nil {
		arr = make([]bool, size)
		labels[name] = arr
	}
	for _, i := range indices {
		arr[i] = true
	}
	return nil
}

// PoresWithLabel returns the indices of pores carrying the label, ascending.
// Returns nil for an unknown label.
func (n *Network) PoresWithLabel(name string) []int { return labelled(n.poreLabels[name]) }

// ThroatsWithLabel returns the indices of throats carrying the label,
// ascending. Returns nil for an unknown label.
func (n *Network) ThroatsWithLabel(name string) []int { return labelled(n.throatLabels[name]) }

func labelled(arr []bool) []int {
	var out []int
	for i, ok := range arr {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// HasPoreLabel reports whether pore i carries the label. Unknown labels and
// out-of-range indices report false.
func (n *Network) HasPoreLabel(name string, i int) bool {
	arr := n.poreLabels[name]
	return i >= 0 && i < len(arr) && arr[i]
}

// HasThroatLabel reports whether throat i carries the label. Unknown labels
// and out-of-range indices report false.
func (n *Network) HasThroatLabel(name string, i int) bool {
	arr := n.throatLabels[name]
	return i >= 0 && i < len(arr) && arr[i]
}

// PoreLabelNames returns all pore label names in sorted order.
func (n *Network) PoreLabelNames() []string { return slices.Sorted(maps.Keys(n.poreLabels)) }

// ThroatLabelNames returns all throat label names in sorted order.
func (n *Network) ThroatLabelNames() []string { return slices.Sorted(maps.Keys(n.throatLabels)) }

// SetPoreProp assigns a named per-pore property array. Returns ErrFieldLength
// if the array length does not equal PoreCount. The slice is copied.
func (n *Network) SetPoreProp(name string, values []float64) error {
	if len(values) != n.pores {
		return fmt.Errorf("prop %q: %d values for %d pores: %w", name, len(values), n.pores, ErrFieldLength)
	}
	n.poreProps[name] = slices.Clone(values)
	return nil
}

// SetThroatProp assigns a named per-throat property array. Returns
// ErrFieldLength if the array length does not equal ThroatCount. The slice
// is copied.
func (n *Network) SetThroatProp(name string, values []float64) error {
	if len(values) != len(n.conns) {
		return fmt.Errorf("prop %q: %d values for %d throats: %w", name, len(values), len(n.conns), ErrFieldLength)
	}
	n.throatProps[name] = slices.Clone(values)
	return nil
}

// PoreProp returns the named per-pore property array and true, or nil and
// false if not set. The returned slice is live.
func (n *Network) PoreProp(name string) ([]float64, bool) {
	arr, ok := n.poreProps[name]
	return arr, ok
}

// ThroatProp returns the named per-throat property array and true, or nil
// and false if not set. The returned slice is live.
func (n *Network) ThroatProp(name string) ([]float64, bool) {
	arr, ok := n.throatProps[name]
	return arr, ok
}

// PorePropNames returns all per-pore property names in sorted order.
func (n *Network) PorePropNames() []string { return slices.Sorted(maps.Keys(n.poreProps)) }

// ThroatPropNames returns all per-throat property names in sorted order.
func (n *Network) ThroatPropNames() []string { return slices.Sorted(maps.Keys(n.throatProps)) }

// Copy returns a deep copy of the network. The copy shares no storage with
// the original.
func (n *Network) Copy() *Network {
	c := &Network{
		pores:        n.pores,
		conns:        slices.Clone(n.conns),
		coords:       slices.Clone(n.coords),
		poreLabels:   make(map[string][]bool, len(n.poreLabels)),
		throatLabels: make(map[string][]bool, len(n.throatLabels)),
		poreProps:    make(map[string][]float64, len(n.poreProps)),
		throatProps:  make(map[string][]float64, len(n.throatProps)),
	}
	for name, arr := range n.poreLabels {
		c.poreLabels[name] = slices.Clone(arr)
	}
	for name, arr := range n.throatLabels {
		c.throatLabels[name] = slices.Clone(arr)
	}
	for name, arr := range n.poreProps {
		c.poreProps[name] = slices.Clone(arr)
	}
	for name, arr := range n.throatProps {
		c.throatProps[name] = slices.Clone(arr)
	}
	return c
}

// Validate checks internal consistency and returns nil if valid.
// It verifies that every throat connects existing pores and that every
// label and property array matches its element count. A failure indicates
// corruption, typically from an imported document.
func (n *Network) Validate() error {
	for i, c := range n.conns {
		if c[0] < 0 || c[0] >= n.pores || c[1] < 0 || c[1] >= n.pores {
			return fmt.Errorf("throat %d connects (%d, %d): %w", i, c[0], c[1], ErrConnRange)
		}
	}
	if n.coords != nil && len(n.coords) != n.pores {
		return fmt.Errorf("coords: %w", ErrFieldLength)
	}
	for name, arr := range n.poreLabels {
		if len(arr) != n.pores {
			return fmt.Errorf("pore label %q: %w", name, ErrFieldLength)
		}
	}
	for name, arr := range n.throatLabels {
		if len(arr) != len(n.conns) {
			return fmt.Errorf("throat label %q: %w", name, ErrFieldLength)
		}
	}
	for name, arr := range n.poreProps {
		if len(arr) != n.pores {
			return fmt.Errorf("pore prop %q: %w", name, ErrFieldLength)
		}
	}
	for name, arr := range n.throatProps {
		if len(arr) != len(n.conns) {
			return fmt.Errorf("throat prop %q: %w", name, ErrFieldLength)
		}
	}
	return nil
}
