package mixture

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrPoreCount is returned by [New] when the pore count is negative.
	ErrPoreCount = errors.New("pore count must not be negative")

	// ErrTolerance is returned by [New] when the configured tolerance is
	// not positive.
	ErrTolerance = errors.New("tolerance must be positive")

	// ErrSpeciesName is returned by [Mixture.AddSpecies] when the species
	// name is empty.
	ErrSpeciesName = errors.New("species name must not be empty")

	// ErrDuplicateSpecies is returned by [Mixture.AddSpecies] when a
	// species with the same name is already registered.
	ErrDuplicateSpecies = errors.New("duplicate species name")

	// ErrSpeciesNotFound is returned by operations addressing a species
	// that is not registered in the mixture.
	ErrSpeciesNotFound = errors.New("species not found")

	// ErrFractionRange is returned by the fraction setters when a value
	// lies outside [0, 1]. NaN is outside the range.
	ErrFractionRange = errors.New("mole fraction outside [0, 1]")

	// ErrFieldLength is returned by [Mixture.SetFractionField] when the
	// array length does not match the pore count.
	ErrFieldLength = errors.New("field length does not match pore count")

	// ErrUnderdetermined is returned by [Mixture.Resolve] when a pore has
	// two or more unresolved species; a single sum constraint cannot fix
	// more than one unknown.
	ErrUnderdetermined = errors.New("more than one unresolved species")

	// ErrInconsistentComposition is returned by [Mixture.Resolve] when a
	// pore's fractions cannot reach a sum of 1 within the tolerance.
	ErrInconsistentComposition = errors.New("mole fractions do not sum to 1")

	// ErrPropNotFound is returned by [Mixture.MixtureProp] when a
	// registered species lacks the requested property.
	ErrPropNotFound = errors.New("species property not found")
)

// DefaultTolerance bounds the acceptable deviation of per-pore fraction
// sums from 1. Override with [WithTolerance].
const DefaultTolerance = 1e-6

// Unresolved reports whether a fraction entry is still unset. Unset entries
// are stored as NaN.
func Unresolved(v float64) bool { return math.IsNaN(v) }

// Mixture is a composition ledger: named species over a shared pore index
// space, each with a per-pore mole fraction array.
//
// The zero value is not usable. Use [New].
type Mixture struct {
	pores     int
	tol       float64
	order     []string // registration order, drives deterministic iteration
	species   map[string]Species
	fractions map[string][]float64
}

// Option configures a [Mixture].
type Option func(*Mixture)

// WithTolerance overrides [DefaultTolerance] for the sum checks in
// [Mixture.Resolve].
func WithTolerance(tol float64) Option {
	return func(m *Mixture) { m.tol = tol }
}

// New creates an empty mixture over the given number of pores.
func New(pores int, opts ...Option) (*Mixture, error) {
	if pores < 0 {
		return nil, ErrPoreCount
	}
	m := &Mixture{
		pores:     pores,
		tol:       DefaultTolerance,
		species:   make(map[string]Species),
		fractions: make(map[string][]float64),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tol <= 0 {
		return nil, ErrTolerance
	}
	return m, nil
}

// PoreCount returns the size of the pore index space the mixture spans.
func (m *Mixture) PoreCount() int { return m.pores }

// Tolerance returns the configured sum tolerance.
func (m *Mixture) Tolerance() float64 { return m.tol }

// SpeciesCount returns the number of registered species.
func (m *Mixture) SpeciesCount() int { return len(m.order) }

// SpeciesNames returns the registered species names in registration order.
func (m *Mixture) SpeciesNames() []string { return slices.Clone(m.order) }

// Species returns the named species and true, or the zero value and false
// if not registered.
func (m *Mixture) Species(name string) (Species, bool) {
	s, ok := m.species[name]
	return s, ok
}

// AddSpecies registers a species with a fully unresolved fraction array.
// Returns ErrSpeciesName for an empty name or ErrDuplicateSpecies if the
// name is already registered.
func (m *Mixture) AddSpecies(s Species) error {
	if s.Name == "" {
		return ErrSpeciesName
	}
	if _, exists := m.species[s.Name]; exists {
		return fmt.Errorf("species %q: %w", s.Name, ErrDuplicateSpecies)
	}
	fr := make([]float64, m.pores)
	for i := range fr {
		fr[i] = math.NaN()
	}
	m.species[s.Name] = s
	m.fractions[s.Name] = fr
	m.order = append(m.order, s.Name)
	return nil
}

// RemoveSpecies drops a species and its fraction array entirely; re-adding
// the same name later starts from a fresh unresolved array. Returns
// ErrSpeciesNotFound if the name is not registered.
func (m *Mixture) RemoveSpecies(name string) error {
	if _, ok := m.species[name]; !ok {
		return fmt.Errorf("species %q: %w", name, ErrSpeciesNotFound)
	}
	delete(m.species, name)
	delete(m.fractions, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return nil
}

// SetFraction assigns the same mole fraction to the species at every pore,
// overwriting previous values including unresolved markers. Returns
// ErrSpeciesNotFound for an unknown species or ErrFractionRange if x is
// outside [0, 1].
func (m *Mixture) SetFraction(name string, x float64) error {
	fr, ok := m.fractions[name]
	if !ok {
		return fmt.Errorf("species %q: %w", name, ErrSpeciesNotFound)
	}
	if !validFraction(x) {
		return fmt.Errorf("species %q: %v: %w", name, x, ErrFractionRange)
	}
	for i := range fr {
		fr[i] = x
	}
	return nil
}

// SetFractionField assigns a per-pore fraction array to the species,
// overwriting previous values including unresolved markers. The values are
// copied. Returns ErrSpeciesNotFound for an unknown species, ErrFieldLength
// if the length does not match the pore count, or ErrFractionRange if any
// entry is outside [0, 1]; on error the mixture is unchanged.
func (m *Mixture) SetFractionField(name string, xs []float64) error {
	fr, ok := m.fractions[name]
	if !ok {
		return fmt.Errorf("species %q: %w", name, ErrSpeciesNotFound)
	}
	if len(xs) != m.pores {
		return fmt.Errorf("species %q: %d values for %d pores: %w", name, len(xs), m.pores, ErrFieldLength)
	}
	for i, x := range xs {
		if !validFraction(x) {
			return fmt.Errorf("species %q: pore %d: %v: %w", name, i, x, ErrFractionRange)
		}
	}
	copy(fr, xs)
	return nil
}

func validFraction(x float64) bool { return x >= 0 && x <= 1 }

// RestoreFractions overwrites the species' raw fraction array without range
// validation, so NaN entries restore unresolved pores. It exists for store
// implementations rebuilding a saved mixture; everything else should go
// through [Mixture.SetFraction] or [Mixture.SetFractionField]. The values
// are copied. Returns ErrSpeciesNotFound for an unknown species or
// ErrFieldLength on a length mismatch.
func (m *Mixture) RestoreFractions(name string, xs []float64) error {
	fr, ok := m.fractions[name]
	if !ok {
		return fmt.Errorf("species %q: %w", name, ErrSpeciesNotFound)
	}
	if len(xs) != m.pores {
		return fmt.Errorf("species %q: %d values for %d pores: %w", name, len(xs), m.pores, ErrFieldLength)
	}
	copy(fr, xs)
	return nil
}

// Fraction returns the live per-pore fraction array of the species and
// true, or nil and false if not registered. Unresolved entries are NaN;
// see [Unresolved]. Writes through the returned slice bypass range checks.
func (m *Mixture) Fraction(name string) ([]float64, bool) {
	fr, ok := m.fractions[name]
	return fr, ok
}

// Resolve fills unresolved fractions and verifies the sum invariant, pore
// by pore:
//
//   - two or more unresolved species fail with ErrUnderdetermined
//   - exactly one unresolved species is set to 1 minus the sum of the
//     others, clamped into [0, 1] when within the tolerance and failing
//     with ErrInconsistentComposition when beyond it
//   - zero unresolved species must already sum to 1 within the tolerance,
//     else ErrInconsistentComposition
//
// Resolve validates every pore before writing anything: on error the
// mixture is unchanged.
func (m *Mixture) Resolve() error {
	if len(m.order) == 0 {
		return nil
	}

	type fill struct {
		name string
		pore int
		x    float64
	}
	var fills []fill

	for p := 0; p < m.pores; p++ {
		sum := 0.0
		unresolved := 0
		missing := ""
		for _, name := range m.order {
			v := m.fractions[name][p]
			if math.IsNaN(v) {
				unresolved++
				missing = name
				continue
			}
			sum += v
		}

		switch {
		case unresolved > 1:
			return fmt.Errorf("pore %d: %d of %d species unset: %w", p, unresolved, len(m.order), ErrUnderdetermined)
		case unresolved == 1:
			rest := 1 - sum
			if rest < -m.tol || rest > 1+m.tol {
				return fmt.Errorf("pore %d: remainder %v for species %q: %w", p, rest, missing, ErrInconsistentComposition)
			}
			fills = append(fills, fill{name: missing, pore: p, x: math.Min(math.Max(rest, 0), 1)})
		default:
			if math.Abs(sum-1) > m.tol {
				return fmt.Errorf("pore %d: fractions sum to %v: %w", p, sum, ErrInconsistentComposition)
			}
		}
	}

	for _, f := range fills {
		m.fractions[f.name][f.pore] = f.x
	}
	return nil
}

// MixtureProp computes the mole-fraction-weighted mixture property for the
// given key at every pore: sum over species of fraction times property.
// The result reflects the fractions at call time; nothing is cached. Pores
// with unresolved fractions produce NaN entries.
//
// Returns ErrPropNotFound if any registered species lacks the key.
func (m *Mixture) MixtureProp(key string) ([]float64, error) {
	out := make([]float64, m.pores)
	for _, name := range m.order {
		v, ok := m.species[name].Prop(key)
		if !ok {
			return nil, fmt.Errorf("species %q: property %q: %w", name, key, ErrPropNotFound)
		}
		fr := m.fractions[name]
		for p := range out {
			out[p] += fr[p] * v
		}
	}
	return out, nil
}

// MolarMass computes the per-pore molar mass of the mixture from the
// species' [PropMolecularWeight] properties.
func (m *Mixture) MolarMass() ([]float64, error) {
	return m.MixtureProp(PropMolecularWeight)
}
