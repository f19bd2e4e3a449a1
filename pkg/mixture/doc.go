// Package mixture tracks per-pore mole fractions for multi-species phases.
//
// # Overview
//
// A [Mixture] attaches named [Species] to a shared pore index space and
// keeps one fraction array per species. Entries start unresolved (NaN) and
// become concrete through [Mixture.SetFraction], [Mixture.SetFractionField]
// or [Mixture.Resolve]. The governing invariant is that the fractions of
// every pore sum to 1 once fully resolved.
//
// # Resolving
//
// The common workflow sets all species but one and lets [Mixture.Resolve]
// fill the remainder:
//
//	air, _ := mixture.New(net.PoreCount())
//	air.AddSpecies(mixture.Species{Name: "O2", Props: map[string]float64{mixture.PropMolecularWeight: 0.032}})
//	air.AddSpecies(mixture.Species{Name: "N2", Props: map[string]float64{mixture.PropMolecularWeight: 0.028}})
//	air.SetFraction("O2", 0.21)
//	err := air.Resolve() // N2 becomes 0.79 everywhere
//
// Resolve works pore by pore, so different pores may leave different
// species unresolved. Two or more unresolved species at one pore cannot be
// solved from the single sum constraint and fail with ErrUnderdetermined.
//
// Derived quantities ([Mixture.MixtureProp], [Mixture.MolarMass]) are
// recomputed from the current fractions on every call, never cached.
//
// # Concurrency
//
// Mixture instances are not safe for concurrent use. Callers must
// serialize mutating calls against a given instance.
package mixture
