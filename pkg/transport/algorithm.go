package transport

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/porelab/porenet/pkg/network"
	"github.com/porelab/porenet/pkg/topo"
)

// Sentinel errors returned by this package. Errors returned from methods may
// wrap these with index and count context; use errors.Is to test for them.
var (
	// ErrQuantity is returned by [New] for an empty quantity name.
	ErrQuantity = errors.New("transport: quantity name is empty")

	// ErrConductance is returned by [New] when the conductance array has the
	// wrong length or holds a value that is not finite and positive.
	ErrConductance = errors.New("transport: invalid conductance")

	// ErrPoreIndex is returned when a boundary or rate pore index is outside
	// [0, PoreCount).
	ErrPoreIndex = errors.New("transport: pore index out of range")

	// ErrBoundaryValue is returned for boundary values that are NaN or Inf.
	ErrBoundaryValue = errors.New("transport: invalid boundary value")

	// ErrNoBoundaryPores is returned when a boundary condition addresses an
	// empty pore set.
	ErrNoBoundaryPores = errors.New("transport: no boundary pores")

	// ErrNoBoundary is returned by [Algorithm.Run] when a connected
	// component of the network contains no boundary pore. Its solution level
	// would be undetermined.
	ErrNoBoundary = errors.New("transport: component without boundary condition")

	// ErrNoConvergence is returned by [Algorithm.Run] when the iterative
	// solver exhausts its iteration budget.
	ErrNoConvergence = errors.New("transport: solver did not converge")

	// ErrNotSolved is returned by result accessors before a successful
	// [Algorithm.Run].
	ErrNotSolved = errors.New("transport: algorithm has not been run")

	// ErrFaceValues is returned by [Algorithm.EffectiveConductance] when the
	// two faces do not carry uniform, distinct boundary values.
	ErrFaceValues = errors.New("transport: unusable face boundary values")

	// ErrTolerance is returned by [New] for a non-positive solver tolerance.
	ErrTolerance = errors.New("transport: tolerance must be positive")

	// ErrMaxIterations is returned by [New] for a non-positive iteration cap.
	ErrMaxIterations = errors.New("transport: max iterations must be positive")
)

// DefaultTolerance is the relative residual target of the solver.
const DefaultTolerance = 1e-10

// Algorithm is a steady-state linear transport solver bound to one network
// and one conductance field. The zero value is not usable; create instances
// with [New]. An Algorithm is not safe for concurrent use.
type Algorithm struct {
	net         *network.Network
	quantity    string
	conductance []float64
	bcs         map[int]float64
	solution    []float64
	maxIter     int
	tol         float64
}

// Option configures an [Algorithm].
type Option func(*Algorithm)

// WithTolerance sets the relative residual at which the solver stops.
// The default is [DefaultTolerance].
func WithTolerance(tol float64) Option {
	return func(a *Algorithm) { a.tol = tol }
}

// WithMaxIterations caps the solver iterations. The default scales with the
// number of free pores.
func WithMaxIterations(n int) Option {
	return func(a *Algorithm) { a.maxIter = n }
}

// New creates an algorithm for the given network, quantity name (such as
// "concentration" or "temperature") and per-throat conductance array. The
// conductance slice is copied; every entry must be finite and positive.
func New(net *network.Network, quantity string, conductance []float64, opts ...Option) (*Algorithm, error) {
	if quantity == "" {
		return nil, ErrQuantity
	}
	if len(conductance) != net.ThroatCount() {
		return nil, fmt.Errorf("%d conductances for %d throats: %w",
			len(conductance), net.ThroatCount(), ErrConductance)
	}
	for i, g := range conductance {
		if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
			return nil, fmt.Errorf("throat %d conductance %g: %w", i, g, ErrConductance)
		}
	}

	a := &Algorithm{
		net:         net,
		quantity:    quantity,
		conductance: append([]float64(nil), conductance...),
		bcs:         make(map[int]float64),
		tol:         DefaultTolerance,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tol <= 0 {
		return nil, ErrTolerance
	}
	if a.maxIter < 0 {
		return nil, ErrMaxIterations
	}
	return a, nil
}

// Quantity returns the name the solved field is known by.
func (a *Algorithm) Quantity() string { return a.quantity }

// SetValue fixes the quantity to value on the given pores (a Dirichlet
// condition). Later calls overwrite earlier values on the same pores. The
// solution, if any, is invalidated.
func (a *Algorithm) SetValue(value float64, pores []int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("value %g: %w", value, ErrBoundaryValue)
	}
	if len(pores) == 0 {
		return ErrNoBoundaryPores
	}
	for _, p := range pores {
		if p < 0 || p >= a.net.PoreCount() {
			return fmt.Errorf("pore %d of %d: %w", p, a.net.PoreCount(), ErrPoreIndex)
		}
	}
	for _, p := range pores {
		a.bcs[p] = value
	}
	a.solution = nil
	return nil
}

// SetValueLabel fixes the quantity to value on all pores carrying the given
// label. It returns ErrNoBoundaryPores if the label selects nothing.
func (a *Algorithm) SetValueLabel(value float64, label string) error {
	pores := a.net.PoresWithLabel(label)
	if len(pores) == 0 {
		return fmt.Errorf("label %q: %w", label, ErrNoBoundaryPores)
	}
	return a.SetValue(value, pores)
}

// Run assembles the reduced Laplacian system and solves it. After a nil
// return, [Algorithm.Solution], [Algorithm.Rate] and
// [Algorithm.EffectiveConductance] are available.
func (a *Algorithm) Run(ctx context.Context) error {
	n := a.net.PoreCount()
	if len(a.bcs) == 0 {
		return ErrNoBoundary
	}
	for i, comp := range topo.Components(a.net) {
		hasBC := false
		for _, p := range comp {
			if _, ok := a.bcs[p]; ok {
				hasBC = true
				break
			}
		}
		if !hasBC {
			return fmt.Errorf("component %d (%d pores): %w", i, len(comp), ErrNoBoundary)
		}
	}

	// Map free pores into a compact index space.
	freeIdx := make([]int, n)
	free := make([]int, 0, n-len(a.bcs))
	for p := 0; p < n; p++ {
		if _, ok := a.bcs[p]; ok {
			freeIdx[p] = -1
			continue
		}
		freeIdx[p] = len(free)
		free = append(free, p)
	}

	mat, rhs := a.assemble(freeIdx, len(free))

	maxIter := a.maxIter
	if maxIter == 0 {
		maxIter = 10*len(free) + 100
	}
	x, _, err := conjGrad(ctx, mat, rhs, a.tol, maxIter)
	if err != nil {
		return err
	}

	sol := make([]float64, n)
	for p, v := range a.bcs {
		sol[p] = v
	}
	for i, p := range free {
		sol[p] = x[i]
	}
	a.solution = sol
	return nil
}

// assemble builds the Laplacian restricted to free pores and the right-hand
// side holding the boundary contributions. Self loops carry no net flux and
// are skipped.
func (a *Algorithm) assemble(freeIdx []int, nf int) (*csrMatrix, []float64) {
	conns := a.net.Throats()

	counts := make([]int, nf)
	for _, c := range conns {
		if c[0] == c[1] {
			continue
		}
		i, j := freeIdx[c[0]], freeIdx[c[1]]
		if i >= 0 && j >= 0 {
			counts[i]++
			counts[j]++
		}
	}

	rowPtr := make([]int, nf+1)
	for i := 0; i < nf; i++ {
		rowPtr[i+1] = rowPtr[i] + counts[i] + 1 // +1 for the diagonal
	}
	nnz := rowPtr[nf]
	colIdx := make([]int, nnz)
	vals := make([]float64, nnz)
	rhs := make([]float64, nf)

	// Diagonals go in the first slot of each row so they can accumulate.
	diag := make([]int, nf)
	next := make([]int, nf)
	for i := 0; i < nf; i++ {
		diag[i] = rowPtr[i]
		colIdx[diag[i]] = i
		next[i] = rowPtr[i] + 1
	}

	for t, c := range conns {
		if c[0] == c[1] {
			continue
		}
		g := a.conductance[t]
		i, j := freeIdx[c[0]], freeIdx[c[1]]
		switch {
		case i >= 0 && j >= 0:
			vals[diag[i]] += g
			vals[diag[j]] += g
			colIdx[next[i]], vals[next[i]] = j, -g
			next[i]++
			colIdx[next[j]], vals[next[j]] = i, -g
			next[j]++
		case i >= 0:
			vals[diag[i]] += g
			rhs[i] += g * a.bcs[c[1]]
		case j >= 0:
			vals[diag[j]] += g
			rhs[j] += g * a.bcs[c[0]]
		}
	}

	return &csrMatrix{n: nf, rowPtr: rowPtr, colIdx: colIdx, vals: vals}, rhs
}

// Solution returns the solved per-pore field. The returned slice is live;
// callers must not modify it.
func (a *Algorithm) Solution() ([]float64, error) {
	if a.solution == nil {
		return nil, ErrNotSolved
	}
	return a.solution, nil
}

// Rate returns the net rate of transport into the given pore set from the
// rest of the network. Throats internal to the set contribute nothing.
// Duplicate indices are allowed and count once.
func (a *Algorithm) Rate(pores []int) (float64, error) {
	if a.solution == nil {
		return 0, ErrNotSolved
	}
	n := a.net.PoreCount()
	in := make([]bool, n)
	for _, p := range pores {
		if p < 0 || p >= n {
			return 0, fmt.Errorf("pore %d of %d: %w", p, n, ErrPoreIndex)
		}
		in[p] = true
	}

	rate := 0.0
	for t, c := range a.net.Throats() {
		if in[c[0]] == in[c[1]] {
			continue
		}
		inside, outside := c[0], c[1]
		if in[outside] {
			inside, outside = outside, inside
		}
		rate += a.conductance[t] * (a.solution[outside] - a.solution[inside])
	}
	return rate, nil
}

// EffectiveConductance returns the overall transport coefficient between two
// labeled faces: the net rate into the outlet face divided by the difference
// of the imposed values. Both faces must carry uniform boundary values and
// the values must differ.
func (a *Algorithm) EffectiveConductance(inletLabel, outletLabel string) (float64, error) {
	if a.solution == nil {
		return 0, ErrNotSolved
	}

	vIn, err := a.faceValue(inletLabel)
	if err != nil {
		return 0, err
	}
	vOut, err := a.faceValue(outletLabel)
	if err != nil {
		return 0, err
	}
	if vIn == vOut {
		return 0, fmt.Errorf("faces %q and %q both at %g: %w", inletLabel, outletLabel, vIn, ErrFaceValues)
	}

	outlet := a.net.PoresWithLabel(outletLabel)
	rate, err := a.Rate(outlet)
	if err != nil {
		return 0, err
	}
	return rate / (vIn - vOut), nil
}

// faceValue returns the single boundary value imposed on every pore of a
// labeled face.
func (a *Algorithm) faceValue(label string) (float64, error) {
	pores := a.net.PoresWithLabel(label)
	if len(pores) == 0 {
		return 0, fmt.Errorf("label %q: %w", label, ErrNoBoundaryPores)
	}

	value, ok := 0.0, false
	for _, p := range pores {
		v, has := a.bcs[p]
		if !has {
			return 0, fmt.Errorf("pore %d of face %q has no boundary value: %w", p, label, ErrFaceValues)
		}
		if ok && v != value {
			return 0, fmt.Errorf("face %q mixes values %g and %g: %w", label, value, v, ErrFaceValues)
		}
		value, ok = v, true
	}
	return value, nil
}
